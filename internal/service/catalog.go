package service

import (
	"context"
	"fmt"

	"github.com/atinyakov/museum/internal/common"
	"github.com/atinyakov/museum/internal/models"
	"github.com/atinyakov/museum/internal/validate"
)

// Page bounds applied to list operations.
const (
	DefaultLimit = 100
	MaxLimit     = 200
)

// CategoryRepository defines the persistence operations on categories.
type CategoryRepository interface {
	Get(ctx context.Context, id int64) (*models.Category, error)
	GetByName(ctx context.Context, name string) (*models.Category, error)
	List(ctx context.Context, offset, limit int) ([]models.Category, error)
	Create(ctx context.Context, in models.CategoryCreate) (*models.Category, error)
	Update(ctx context.Context, id int64, in models.CategoryUpdate) (*models.Category, error)
	Delete(ctx context.Context, id int64) (*models.Category, error)
}

// PieceRepository defines the persistence operations on pieces of art.
type PieceRepository interface {
	Get(ctx context.Context, id int64) (*models.PieceOfArt, error)
	List(ctx context.Context, f models.PieceFilter) ([]models.PieceOfArt, error)
	ExistsInCategory(ctx context.Context, categoryID int64, name string) (bool, error)
	Create(ctx context.Context, in models.PieceCreate) (*models.PieceOfArt, error)
	Update(ctx context.Context, id int64, in models.PieceUpdate) (*models.PieceOfArt, error)
	Delete(ctx context.Context, id int64) (*models.PieceOfArt, error)
}

// CatalogService validates catalog input and enforces page bounds before
// handing work to the repositories.
type CatalogService struct {
	categories CategoryRepository
	pieces     PieceRepository
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(categories CategoryRepository, pieces PieceRepository) *CatalogService {
	return &CatalogService{categories: categories, pieces: pieces}
}

// NormalizePage checks offset and limit and clamps limit to MaxLimit.
func NormalizePage(offset, limit int) (int, int, error) {
	if offset < 0 {
		return 0, 0, fmt.Errorf("%w: skip must not be negative", common.ErrValidation)
	}
	if limit < 1 {
		return 0, 0, fmt.Errorf("%w: limit must be at least 1", common.ErrValidation)
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return offset, limit, nil
}

func (s *CatalogService) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	return s.categories.Get(ctx, id)
}

func (s *CatalogService) GetCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	return s.categories.GetByName(ctx, name)
}

// ListCategories returns categories ordered by id.
func (s *CatalogService) ListCategories(ctx context.Context, offset, limit int) ([]models.Category, error) {
	offset, limit, err := NormalizePage(offset, limit)
	if err != nil {
		return nil, err
	}
	return s.categories.List(ctx, offset, limit)
}

func (s *CatalogService) CreateCategory(ctx context.Context, in models.CategoryCreate) (*models.Category, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	return s.categories.Create(ctx, in)
}

// UpdateCategory applies the present fields of in. An explicit empty name is rejected.
func (s *CatalogService) UpdateCategory(ctx context.Context, id int64, in models.CategoryUpdate) (*models.Category, error) {
	if in.Name.Set {
		if err := validate.Field("name", in.Name.Value, "required,max=255"); err != nil {
			return nil, err
		}
	}
	return s.categories.Update(ctx, id, in)
}

// DeleteCategory removes an unreferenced category and returns it.
func (s *CatalogService) DeleteCategory(ctx context.Context, id int64) (*models.Category, error) {
	return s.categories.Delete(ctx, id)
}

func (s *CatalogService) GetPiece(ctx context.Context, id int64) (*models.PieceOfArt, error) {
	return s.pieces.Get(ctx, id)
}

// ListPieces returns pieces ordered by id, restricted to categoryID when it is non-nil.
func (s *CatalogService) ListPieces(ctx context.Context, offset, limit int, categoryID *int64) ([]models.PieceOfArt, error) {
	offset, limit, err := NormalizePage(offset, limit)
	if err != nil {
		return nil, err
	}
	return s.pieces.List(ctx, models.PieceFilter{Offset: offset, Limit: limit, CategoryID: categoryID})
}

// PieceExists reports whether categoryID already holds a piece called name.
func (s *CatalogService) PieceExists(ctx context.Context, categoryID int64, name string) (bool, error) {
	return s.pieces.ExistsInCategory(ctx, categoryID, name)
}

func (s *CatalogService) CreatePiece(ctx context.Context, in models.PieceCreate) (*models.PieceOfArt, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	return s.pieces.Create(ctx, in)
}

func (s *CatalogService) UpdatePiece(ctx context.Context, id int64, in models.PieceUpdate) (*models.PieceOfArt, error) {
	checks := []struct {
		set   bool
		field string
		value any
		tag   string
	}{
		{in.Name.Set, "name", in.Name.Value, "required,max=255"},
		{in.ImageURL.Set, "image_url", in.ImageURL.Value, "required,max=1024"},
		{in.CategoryID.Set, "category_id", in.CategoryID.Value, "gt=0"},
	}
	for _, c := range checks {
		if !c.set {
			continue
		}
		if err := validate.Field(c.field, c.value, c.tag); err != nil {
			return nil, err
		}
	}
	return s.pieces.Update(ctx, id, in)
}

// DeletePiece removes a piece and returns it.
func (s *CatalogService) DeletePiece(ctx context.Context, id int64) (*models.PieceOfArt, error) {
	return s.pieces.Delete(ctx, id)
}
