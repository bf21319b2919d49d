package http

import (
	"context"
	"net/http"

	"github.com/atinyakov/museum/internal/models"
	"github.com/atinyakov/museum/internal/server/respond"
	"go.uber.org/zap"
)

// CategoryService is the catalog behaviour needed by CategoryHandler.
type CategoryService interface {
	GetCategory(ctx context.Context, id int64) (*models.Category, error)
	ListCategories(ctx context.Context, offset, limit int) ([]models.Category, error)
	CreateCategory(ctx context.Context, in models.CategoryCreate) (*models.Category, error)
	UpdateCategory(ctx context.Context, id int64, in models.CategoryUpdate) (*models.Category, error)
	DeleteCategory(ctx context.Context, id int64) (*models.Category, error)
}

// CategoryHandler serves the /categories resource.
type CategoryHandler struct {
	Catalog CategoryService
	Log     *zap.Logger
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := page(r)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	cats, err := h.Catalog.ListCategories(r.Context(), skip, limit)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusOK, cats)
}

func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	cat, err := h.Catalog.GetCategory(r.Context(), id)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusOK, cat)
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in models.CategoryCreate
	if err := decodeJSON(r, &in); err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	cat, err := h.Catalog.CreateCategory(r.Context(), in)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusCreated, cat)
}

// Update applies a partial update; fields absent from the body are left unchanged.
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	var in models.CategoryUpdate
	if err := decodeJSON(r, &in); err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	cat, err := h.Catalog.UpdateCategory(r.Context(), id, in)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusOK, cat)
}

// Delete removes the category and echoes it back.
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	cat, err := h.Catalog.DeleteCategory(r.Context(), id)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusOK, cat)
}
