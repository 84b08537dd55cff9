package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations.
// Values are stored JSON-encoded and decoded into dest on Get.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// CatalogRepository is the read side of the product catalog
type CatalogRepository interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	PriceHistory(ctx context.Context, id string) ([]PricePoint, error)
	Reviews(ctx context.Context, productID string) ([]Review, error)
}

// KeyValueStore is the durable client-side storage favorites are written to
type KeyValueStore interface {
	// Get returns ErrKeyNotFound when the key has never been written
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// SearchStrategy resolves one search mode against the catalog
type SearchStrategy interface {
	Execute(ctx context.Context, input SearchInput) ([]Product, error)
}

// CatalogAPI is the service boundary consumed by front-ends. It is served
// in-process by the catalog service and remotely by the API client.
type CatalogAPI interface {
	SearchProducts(ctx context.Context, query string, searchType SearchType) ([]Product, error)
	GetProduct(ctx context.Context, id string) (*Product, error)
	GetPriceHistory(ctx context.Context, id string) ([]PricePoint, error)
	GetReviews(ctx context.Context, productID string) ([]Review, error)
	SubmitReview(ctx context.Context, review ReviewSubmission) (*ReviewReceipt, error)
	UploadImage(ctx context.Context, image []byte) ([]Product, error)
}
