package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shopstack/catalog/internal/cache"
	"github.com/shopstack/catalog/internal/config"
	"github.com/shopstack/catalog/internal/domain/product"
	"github.com/shopstack/catalog/internal/observability"
	"github.com/shopstack/catalog/internal/utils"
)

type ProductsStore interface {
	Create(ctx context.Context, p product.Product) (product.Product, error)
	List(ctx context.Context, nameFilter string) ([]product.Product, error)
	GetByID(ctx context.Context, id string) (product.Product, error)
	Update(ctx context.Context, p product.Product) (product.Product, error)
	Delete(ctx context.Context, id string) error
}

type ProductsHandler struct {
	store ProductsStore
	cache *cache.Client // nil disables caching
	prom  *observability.Prom
}

func NewProductsHandler(store ProductsStore, cacheClient *cache.Client, prom *observability.Prom) *ProductsHandler {
	return &ProductsHandler{
		store: store,
		cache: cacheClient,
		prom:  prom,
	}
}

func (h *ProductsHandler) CreateProduct(ctx *gin.Context) {
	var req product.CreateProductRequest

	if !BindJSON(ctx, &req) {
		return
	}

	if violations := req.Validate(); len(violations) > 0 {
		RespondBadRequest(ctx, "validation_error", product.JoinViolations(violations), nil)
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	created, err := h.store.Create(cctx, product.NewFromCreateRequest(req))

	if err != nil {
		slog.Default().Error("products: create", "err", err)
		RespondInternal(ctx, "Could not create product")
		return
	}

	h.invalidate(cctx)

	ctx.JSON(http.StatusCreated, gin.H{
		"status":  "success",
		"message": "Product created successfully",
		"product": created,
	})
}

// ListProducts returns every product, or a case-insensitive substring match
// on name when ?name= is present. Only the unfiltered listing is cached.
func (h *ProductsHandler) ListProducts(ctx *gin.Context) {
	nameFilter := ctx.Query("name")

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	if nameFilter == "" {
		var cached []product.Product

		hit, err := h.cache.GetJSON(cctx, cache.ProductsListAllKey(), &cached)

		if err != nil {
			slog.Default().Debug("products: list cache read", "err", err)
		}

		if hit {
			h.countCache("list", true)
			RespondJSONWithETag(ctx, http.StatusOK, gin.H{"products": cached})
			return
		}

		h.countCache("list", false)
	}

	products, err := h.store.List(cctx, nameFilter)

	if err != nil {
		slog.Default().Error("products: list", "err", err)
		RespondInternal(ctx, "Could not list products")
		return
	}

	if nameFilter == "" {
		if err := h.cache.SetJSON(cctx, cache.ProductsListAllKey(), products); err != nil {
			slog.Default().Debug("products: list cache write", "err", err)
		}
	}

	RespondJSONWithETag(ctx, http.StatusOK, gin.H{"products": products})
}

func (h *ProductsHandler) GetProductByID(ctx *gin.Context) {
	id := ctx.Param("id")

	// a malformed id can never match a record
	if !utils.IsUUID(id) {
		RespondNotFound(ctx, "Product not found")
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	var cached product.Product

	hit, err := h.cache.GetJSON(cctx, cache.ProductKey(id), &cached)

	if err != nil {
		slog.Default().Debug("products: get cache read", "err", err)
	}

	if hit {
		h.countCache("get", true)
		RespondJSONWithETag(ctx, http.StatusOK, gin.H{"product": cached})
		return
	}

	h.countCache("get", false)

	p, err := h.store.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			RespondNotFound(ctx, "Product not found")
			return
		}

		slog.Default().Error("products: get", "err", err)
		RespondInternal(ctx, "Could not fetch product")
		return
	}

	if err := h.cache.SetJSON(cctx, cache.ProductKey(id), p); err != nil {
		slog.Default().Debug("products: get cache write", "err", err)
	}

	RespondJSONWithETag(ctx, http.StatusOK, gin.H{"product": p})
}

// UpdateProduct applies a partial field replacement and re-validates the
// merged record before writing it back.
func (h *ProductsHandler) UpdateProduct(ctx *gin.Context) {
	id := ctx.Param("id")

	if !utils.IsUUID(id) {
		RespondNotFound(ctx, "Product not found")
		return
	}

	var req product.UpdateProductRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	existing, err := h.store.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			RespondNotFound(ctx, "Product not found")
			return
		}

		slog.Default().Error("products: update fetch", "err", err)
		RespondInternal(ctx, "Could not update product")
		return
	}

	req.Apply(&existing)

	if violations := existing.Validate(); len(violations) > 0 {
		RespondBadRequest(ctx, "validation_error", product.JoinViolations(violations), nil)
		return
	}

	updated, err := h.store.Update(cctx, existing)

	if err != nil {
		// the record can vanish between the fetch and the write
		if errors.Is(err, product.ErrNotFound) {
			RespondNotFound(ctx, "Product not found")
			return
		}

		slog.Default().Error("products: update", "err", err)
		RespondInternal(ctx, "Could not update product")
		return
	}

	h.invalidate(cctx, id)

	ctx.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Product updated successfully",
		"product": updated,
	})
}

func (h *ProductsHandler) DeleteProduct(ctx *gin.Context) {
	id := ctx.Param("id")

	if !utils.IsUUID(id) {
		RespondNotFound(ctx, "Product not found")
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	err := h.store.Delete(cctx, id)

	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			RespondNotFound(ctx, "Product not found")
			return
		}

		slog.Default().Error("products: delete", "err", err)
		RespondInternal(ctx, "Could not delete product")
		return
	}

	h.invalidate(cctx, id)

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Product deleted successfully.",
	})
}

// invalidate drops the listing key and any product keys touched by a
// mutation. Cache failures are never surfaced to the client.
func (h *ProductsHandler) invalidate(ctx context.Context, ids ...string) {
	keys := make([]string, 0, len(ids)+1)
	keys = append(keys, cache.ProductsListAllKey())

	for _, id := range ids {
		keys = append(keys, cache.ProductKey(id))
	}

	if err := h.cache.Delete(ctx, keys...); err != nil {
		slog.Default().Debug("products: cache invalidate", "err", err)
	}
}

func (h *ProductsHandler) countCache(kind string, hit bool) {
	if h.prom == nil {
		return
	}

	if hit {
		h.prom.CacheHits.WithLabelValues(kind).Inc()
		return
	}

	h.prom.CacheMisses.WithLabelValues(kind).Inc()
}
