package product

import (
	"time"

	"github.com/google/uuid"
)

// NewFromCreateRequest assumes required presence was already checked.
func NewFromCreateRequest(req CreateProductRequest) Product {
	now := time.Now().UTC()

	images := req.Images
	if images == nil {
		images = []string{}
	}

	return Product{
		ID:          uuid.NewString(),
		Name:        deref(req.Name),
		Description: deref(req.Description),
		Price:       derefFloat(req.Price),
		Category:    deref(req.Category),
		Images:      images,
		Stock:       derefInt(req.Stock),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefFloat(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

func derefInt(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}
