package domain

import "github.com/go-faster/errors"

var (
	// ErrProductNotFound is returned when a product id is absent from the catalog
	ErrProductNotFound = errors.New("product not found")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrUnknownSearchType is returned for a search mode with no registered strategy
	ErrUnknownSearchType = errors.New("unknown search type")

	// ErrInvalidProduct is returned when a product has no id or no vendor offers
	ErrInvalidProduct = errors.New("invalid product")

	// ErrInvalidImage is returned when an uploaded payload is empty, too large or not an image
	ErrInvalidImage = errors.New("invalid image payload")

	// ErrCatalogUnavailable is returned when the catalog could not be reached.
	// It is a recoverable state, distinct from an empty result set.
	ErrCatalogUnavailable = errors.New("catalog unavailable")

	// ErrPersistFailed is returned when favorites could not be written to storage
	ErrPersistFailed = errors.New("failed to persist favorites")

	// ErrKeyNotFound is returned by key-value stores for a missing key
	ErrKeyNotFound = errors.New("key not found")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrSuperseded is returned when a search finished after a newer one was issued
	ErrSuperseded = errors.New("search superseded by a newer request")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")
)
