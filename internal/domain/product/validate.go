package product

import "strings"

const (
	maxNameLength        = 100
	maxDescriptionLength = 1000
)

// Violation messages mirror the store schema texts and are joined with
// ", " into the single message clients see.

func (p Product) Validate() []string {
	var violations []string

	if strings.TrimSpace(p.Name) == "" {
		violations = append(violations, "Product name is required")
	} else if len(p.Name) > maxNameLength {
		violations = append(violations, "Product name cannot be more than 100 characters")
	}

	if strings.TrimSpace(p.Description) == "" {
		violations = append(violations, "Product description is required")
	} else if len(p.Description) > maxDescriptionLength {
		violations = append(violations, "Product description cannot be more than 1000 characters")
	}

	if strings.TrimSpace(p.Category) == "" {
		violations = append(violations, "Product category is required")
	}

	if p.Stock < 0 {
		violations = append(violations, "Stock cannot be negative")
	}

	return violations
}

// Validate checks the create payload: every required field must be present
// in the body, and present values must satisfy the record invariants. All
// violations are collected, not just the first.
func (r CreateProductRequest) Validate() []string {
	var violations []string

	if r.Name == nil {
		violations = append(violations, "Product name is required")
	}
	if r.Description == nil {
		violations = append(violations, "Product description is required")
	}
	if r.Price == nil {
		violations = append(violations, "Product price is required")
	}
	if r.Category == nil {
		violations = append(violations, "Product category is required")
	}
	if r.Stock == nil {
		violations = append(violations, "Product stock is required")
	}

	if len(violations) > 0 {
		return violations
	}

	return NewFromCreateRequest(r).Validate()
}

func JoinViolations(violations []string) string {
	return strings.Join(violations, ", ")
}
