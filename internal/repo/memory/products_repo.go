package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/shopstack/catalog/internal/domain/product"
)

// ProductsRepo is an in-memory product store with the same contract as the
// postgres one. It backs handler and router tests that should not need a
// database.
type ProductsRepo struct {
	mu    sync.RWMutex
	items map[string]product.Product
	order []string // insertion order, matching the store-native list order
}

func NewProductsRepo() *ProductsRepo {
	return &ProductsRepo{
		items: make(map[string]product.Product),
	}
}

func (r *ProductsRepo) Create(ctx context.Context, p product.Product) (product.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[p.ID] = p
	r.order = append(r.order, p.ID)

	return p, nil
}

func (r *ProductsRepo) List(ctx context.Context, nameFilter string) ([]product.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(nameFilter)
	out := make([]product.Product, 0, len(r.order))

	for _, id := range r.order {
		p, ok := r.items[id]
		if !ok {
			continue
		}

		if needle != "" && !strings.Contains(strings.ToLower(p.Name), needle) {
			continue
		}

		out = append(out, p)
	}

	return out, nil
}

func (r *ProductsRepo) GetByID(ctx context.Context, id string) (product.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.items[id]

	if !ok {
		return product.Product{}, product.ErrNotFound
	}

	return p, nil
}

func (r *ProductsRepo) Update(ctx context.Context, p product.Product) (product.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[p.ID]; !ok {
		return product.Product{}, product.ErrNotFound
	}

	p.UpdatedAt = time.Now().UTC()
	r.items[p.ID] = p

	return p, nil
}

func (r *ProductsRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return product.ErrNotFound
	}

	delete(r.items, id)

	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	return nil
}
