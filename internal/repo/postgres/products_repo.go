package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shopstack/catalog/internal/domain/product"
	"github.com/shopstack/catalog/internal/observability"
)

type ProductsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewProductsRepo(pool *pgxpool.Pool, prom *observability.Prom) *ProductsRepo {
	return &ProductsRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *ProductsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *ProductsRepo) Create(ctx context.Context, p product.Product) (product.Product, error) {
	err := r.observe("products.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO products(id, name, description, price, category, images, stock, created_at, updated_at)
			VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			p.ID, p.Name, p.Description, p.Price, p.Category, p.Images, p.Stock, p.CreatedAt, p.UpdatedAt)
		return err
	})

	if err != nil {
		return product.Product{}, err
	}

	return p, nil
}

// List returns every product, or only those whose name contains nameFilter
// case-insensitively when it is non-empty. Order is insertion order.
func (r *ProductsRepo) List(ctx context.Context, nameFilter string) ([]product.Product, error) {
	query := `SELECT id, name, description, price, category, images, stock, created_at, updated_at
		FROM products`

	var args []interface{}

	if nameFilter != "" {
		query += ` WHERE name ILIKE '%' || $1 || '%'`
		args = append(args, nameFilter)
	}

	query += ` ORDER BY created_at ASC, id ASC`

	var output []product.Product

	err := r.observe("products.list", func() error {
		rows, err := r.pool.Query(ctx, query, args...)

		if err != nil {
			return err
		}

		defer rows.Close()

		output = make([]product.Product, 0)

		for rows.Next() {
			var p product.Product

			err = rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, &p.Images, &p.Stock, &p.CreatedAt, &p.UpdatedAt)

			if err != nil {
				return err
			}

			output = append(output, p)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return output, nil
}

func (r *ProductsRepo) GetByID(ctx context.Context, id string) (product.Product, error) {
	var p product.Product

	err := r.observe("products.get_by_id", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT id, name, description, price, category, images, stock, created_at, updated_at
			FROM products WHERE id = $1`, id,
		).Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, &p.Images, &p.Stock, &p.CreatedAt, &p.UpdatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return product.Product{}, product.ErrNotFound
		}
		return product.Product{}, err
	}

	return p, nil
}

// Update writes the merged record back and refreshes updated_at. The
// caller merges and re-validates before calling.
func (r *ProductsRepo) Update(ctx context.Context, p product.Product) (product.Product, error) {
	var out product.Product

	err := r.observe("products.update", func() error {
		return r.pool.QueryRow(ctx,
			`UPDATE products
				SET name = $2,
					description = $3,
					price = $4,
					category = $5,
					images = $6,
					stock = $7,
					updated_at = NOW()
			WHERE id = $1
			RETURNING id, name, description, price, category, images, stock, created_at, updated_at`,
			p.ID, p.Name, p.Description, p.Price, p.Category, p.Images, p.Stock,
		).Scan(&out.ID, &out.Name, &out.Description, &out.Price, &out.Category, &out.Images, &out.Stock, &out.CreatedAt, &out.UpdatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return product.Product{}, product.ErrNotFound
		}
		return product.Product{}, err
	}

	return out, nil
}

func (r *ProductsRepo) Delete(ctx context.Context, id string) error {
	var affected int64

	err := r.observe("products.delete", func() error {
		tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)

		if err != nil {
			return err
		}

		affected = tag.RowsAffected()
		return nil
	})

	if err != nil {
		return err
	}

	if affected == 0 {
		return product.ErrNotFound
	}

	return nil
}
