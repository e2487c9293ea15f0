package product

import (
	"errors"
	"time"
)

type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Images      []string  `json:"images"`
	Stock       int       `json:"stock"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

var ErrNotFound = errors.New("product not found")

// Request fields are pointers so a field that is absent from the JSON body
// can be told apart from a zero value (price 0 and stock 0 are both legal).
type CreateProductRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
	Images      []string `json:"images"`
	Stock       *int     `json:"stock"`
}

// UpdateProductRequest carries a partial replacement: only non-nil fields
// are applied, and the merged record is re-validated before persisting.
type UpdateProductRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
	Images      []string `json:"images"`
	Stock       *int     `json:"stock"`
}

// Apply overlays the supplied fields onto p.
func (r UpdateProductRequest) Apply(p *Product) {
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.Description != nil {
		p.Description = *r.Description
	}
	if r.Price != nil {
		p.Price = *r.Price
	}
	if r.Category != nil {
		p.Category = *r.Category
	}
	if r.Images != nil {
		p.Images = r.Images
	}
	if r.Stock != nil {
		p.Stock = *r.Stock
	}
}
