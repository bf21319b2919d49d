// Package models defines the catalog entities, the manager principal and the
// inputs accepted by create and update operations.
package models

import "time"

// Category groups pieces of art. Name is unique across categories.
type Category struct {
	// ID is the server-assigned surrogate key.
	ID int64 `json:"id"`
	// Name is unique, non-empty and at most 255 characters.
	Name string `json:"name"`
	// Description is optional.
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PieceOfArt is a catalog item that belongs to exactly one Category.
type PieceOfArt struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	// ImageURL is an opaque reference to the image location.
	ImageURL   string    `json:"image_url"`
	CategoryID int64     `json:"category_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	// Category is the parent category, resolved on read. It is never stored.
	Category *Category `json:"category,omitempty"`
}

// Manager is the single authenticated principal of the system.
type Manager struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	// HashedPassword holds the bcrypt hash and is never serialized.
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CategoryCreate is the payload for creating a category.
type CategoryCreate struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Description *string `json:"description"`
}

// CategoryUpdate is a partial update: only fields that are Set are applied.
type CategoryUpdate struct {
	Name        Optional[string]  `json:"name"`
	Description Optional[*string] `json:"description"`
}

// Apply merges the present fields of u into c.
func (u CategoryUpdate) Apply(c *Category) {
	if u.Name.Set {
		c.Name = u.Name.Value
	}
	if u.Description.Set {
		c.Description = u.Description.Value
	}
}

// PieceCreate is the payload for creating a piece of art.
type PieceCreate struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Description *string `json:"description"`
	ImageURL    string  `json:"image_url" validate:"required,max=1024"`
	CategoryID  int64   `json:"category_id" validate:"required,gt=0"`
}

// PieceUpdate is a partial update: only fields that are Set are applied.
type PieceUpdate struct {
	Name        Optional[string]  `json:"name"`
	Description Optional[*string] `json:"description"`
	ImageURL    Optional[string]  `json:"image_url"`
	CategoryID  Optional[int64]   `json:"category_id"`
}

// Apply merges the present fields of u into p.
func (u PieceUpdate) Apply(p *PieceOfArt) {
	if u.Name.Set {
		p.Name = u.Name.Value
	}
	if u.Description.Set {
		p.Description = u.Description.Value
	}
	if u.ImageURL.Set {
		p.ImageURL = u.ImageURL.Value
	}
	if u.CategoryID.Set {
		p.CategoryID = u.CategoryID.Value
	}
}

// ManagerCreate is the input for registering a manager.
type ManagerCreate struct {
	Email     string `validate:"required,email,max=255"`
	FirstName string `validate:"required,max=100"`
	LastName  string `validate:"required,max=100"`
	Password  string `validate:"required,min=8,max=72"`
}

// PieceFilter selects a page of pieces, optionally restricted to one category.
type PieceFilter struct {
	Offset     int
	Limit      int
	CategoryID *int64
}
