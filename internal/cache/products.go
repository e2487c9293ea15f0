package cache

const (
	productKeyPrefix   = "product:v1:"
	productsListAllKey = "products:list:v1:all"
)

// ProductKey is the cache key for a single product record.
func ProductKey(id string) string {
	return productKeyPrefix + id
}

// ProductsListAllKey caches the unfiltered listing only; filtered searches
// always go to the store.
func ProductsListAllKey() string {
	return productsListAllKey
}
