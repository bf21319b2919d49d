package http

import (
	"context"
	"net/http"

	"github.com/atinyakov/museum/internal/models"
	"github.com/atinyakov/museum/internal/server/respond"
	"go.uber.org/zap"
)

// PieceService is the catalog behaviour needed by PieceHandler.
type PieceService interface {
	GetPiece(ctx context.Context, id int64) (*models.PieceOfArt, error)
	ListPieces(ctx context.Context, offset, limit int, categoryID *int64) ([]models.PieceOfArt, error)
	CreatePiece(ctx context.Context, in models.PieceCreate) (*models.PieceOfArt, error)
	UpdatePiece(ctx context.Context, id int64, in models.PieceUpdate) (*models.PieceOfArt, error)
	DeletePiece(ctx context.Context, id int64) (*models.PieceOfArt, error)
}

// PieceHandler serves the /pieces resource.
type PieceHandler struct {
	Catalog PieceService
	Log     *zap.Logger
}

// List accepts skip, limit and an optional category_id filter.
func (h *PieceHandler) List(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := page(r)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	var categoryID *int64
	if r.URL.Query().Get("category_id") != "" {
		v, err := queryInt(r, "category_id", 0)
		if err != nil {
			respond.Error(w, h.Log, err)
			return
		}
		id := int64(v)
		categoryID = &id
	}

	pieces, err := h.Catalog.ListPieces(r.Context(), skip, limit, categoryID)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusOK, pieces)
}

func (h *PieceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	piece, err := h.Catalog.GetPiece(r.Context(), id)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusOK, piece)
}

func (h *PieceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in models.PieceCreate
	if err := decodeJSON(r, &in); err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	piece, err := h.Catalog.CreatePiece(r.Context(), in)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusCreated, piece)
}

func (h *PieceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	var in models.PieceUpdate
	if err := decodeJSON(r, &in); err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	piece, err := h.Catalog.UpdatePiece(r.Context(), id, in)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusOK, piece)
}

func (h *PieceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	piece, err := h.Catalog.DeletePiece(r.Context(), id)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusOK, piece)
}
