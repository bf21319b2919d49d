// Package seed populates an empty catalog with sample categories, pieces of
// art and the initial manager account. Running it again creates nothing new.
package seed

import (
	"context"
	"errors"

	"github.com/atinyakov/museum/internal/common"
	"github.com/atinyakov/museum/internal/models"
	"go.uber.org/zap"
)

// Catalog is the catalog behaviour used while seeding.
type Catalog interface {
	GetCategoryByName(ctx context.Context, name string) (*models.Category, error)
	CreateCategory(ctx context.Context, in models.CategoryCreate) (*models.Category, error)
	PieceExists(ctx context.Context, categoryID int64, name string) (bool, error)
	CreatePiece(ctx context.Context, in models.PieceCreate) (*models.PieceOfArt, error)
}

// Managers registers and looks up manager accounts.
type Managers interface {
	FindByEmail(ctx context.Context, email string) (*models.Manager, error)
	Create(ctx context.Context, in models.ManagerCreate) (*models.Manager, error)
}

// Admin is the manager account created on first start.
type Admin struct {
	Email    string
	Password string
}

// Report counts what a run created and how many steps failed.
type Report struct {
	Categories int
	Pieces     int
	Managers   int
	Failures   int
}

type piece struct {
	name, description, category, imageURL string
}

var categories = []string{"Art", "Sculpture", "Painting", "Photography"}

var pieces = []piece{
	{"Sunset Overdrive", "A vibrant depiction of a sunset.", "Painting", "https://picsum.photos/seed/sunset/600/400"},
	{"The Thinker's Shadow", "A modern take on a classic pose.", "Sculpture", "https://picsum.photos/seed/thinker/600/400"},
	{"Abstract Flow", "Colors and shapes in harmony.", "Art", "https://picsum.photos/seed/abstract/600/400"},
	{"Urban Solitude", "A lone figure in a bustling city.", "Photography", "https://picsum.photos/seed/urban/600/400"},
	{"Nature's Embrace", "A serene forest landscape.", "Painting", "https://picsum.photos/seed/nature/600/400"},
	{"Bronze Dreams", "An intricate bronze statue.", "Sculpture", "https://picsum.photos/seed/bronze/600/400"},
	{"Digital Canvas", "Exploring the boundaries of digital art.", "Art", "https://picsum.photos/seed/digital/600/400"},
	{"Monochrome Moods", "Black and white cityscapes.", "Photography", "https://picsum.photos/seed/monochrome/600/400"},
	{"Ocean's Whisper", "The calming sound of waves captured.", "Painting", "https://picsum.photos/seed/ocean/600/400"},
	{"Steel Symphony", "A large outdoor metal installation.", "Sculpture", "https://picsum.photos/seed/steel/600/400"},
	{"Pixelated Visions", "Art created from individual pixels.", "Art", "https://picsum.photos/seed/pixel/600/400"},
	{"Portraits of Life", "Candid shots of everyday people.", "Photography", "https://picsum.photos/seed/portraits/600/400"},
	{"Celestial Dance", "Nebulae and galaxies on canvas.", "Painting", "https://picsum.photos/seed/celestial/600/400"},
	{"Ephemeral Forms", "Sculptures made from light and shadow.", "Sculpture", "https://picsum.photos/seed/ephemeral/600/400"},
	{"Glitch Aesthetics", "The beauty in digital errors.", "Art", "https://picsum.photos/seed/glitch/600/400"},
	{"Silent Witness", "Ancient trees in black and white.", "Photography", "https://picsum.photos/seed/trees/600/400"},
}

// Run creates whatever part of the sample data is missing. A failing step is
// logged and skipped; Run never aborts early.
func Run(ctx context.Context, catalog Catalog, managers Managers, admin Admin, log *zap.Logger) Report {
	var report Report

	known := make(map[string]int64, len(categories))
	for _, name := range categories {
		cat, err := catalog.GetCategoryByName(ctx, name)
		if errors.Is(err, common.ErrNotFound) {
			cat, err = catalog.CreateCategory(ctx, models.CategoryCreate{Name: name})
			if err == nil {
				report.Categories++
				log.Info("seeded category", zap.String("name", name))
			}
		}
		if err != nil {
			report.Failures++
			log.Error("seed category", zap.String("name", name), zap.Error(err))
			continue
		}
		known[name] = cat.ID
	}

	for _, p := range pieces {
		categoryID, ok := known[p.category]
		if !ok {
			log.Warn("category missing, skipping piece", zap.String("piece", p.name), zap.String("category", p.category))
			continue
		}

		exists, err := catalog.PieceExists(ctx, categoryID, p.name)
		if err == nil && !exists {
			description := p.description
			_, err = catalog.CreatePiece(ctx, models.PieceCreate{
				Name:        p.name,
				Description: &description,
				ImageURL:    p.imageURL,
				CategoryID:  categoryID,
			})
			if err == nil {
				report.Pieces++
				log.Info("seeded piece", zap.String("name", p.name), zap.String("category", p.category))
			}
		}
		if err != nil {
			report.Failures++
			log.Error("seed piece", zap.String("name", p.name), zap.Error(err))
		}
	}

	_, err := managers.FindByEmail(ctx, admin.Email)
	if errors.Is(err, common.ErrNotFound) {
		_, err = managers.Create(ctx, models.ManagerCreate{
			Email:     admin.Email,
			FirstName: "Admin",
			LastName:  "User",
			Password:  admin.Password,
		})
		if err == nil {
			report.Managers++
			log.Info("seeded manager", zap.String("email", admin.Email))
		}
	}
	if err != nil {
		report.Failures++
		log.Error("seed manager", zap.String("email", admin.Email), zap.Error(err))
	}

	return report
}
