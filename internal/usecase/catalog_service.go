package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smartbuy360/backend/internal/domain"
	"github.com/smartbuy360/backend/internal/infrastructure/metrics"
)

var _ domain.CatalogAPI = (*CatalogService)(nil)

// LatencyConfig holds the artificial delay applied before each operation
// resolves. Zero disables the delay.
type LatencyConfig struct {
	Search  time.Duration
	Product time.Duration
	History time.Duration
	Reviews time.Duration
	Submit  time.Duration
	Upload  time.Duration
}

// DemoLatency mimics a remote catalog for demos and UI work
func DemoLatency() LatencyConfig {
	return LatencyConfig{
		Search:  800 * time.Millisecond,
		Product: 500 * time.Millisecond,
		History: 400 * time.Millisecond,
		Reviews: 300 * time.Millisecond,
		Submit:  500 * time.Millisecond,
		Upload:  1200 * time.Millisecond,
	}
}

// CatalogServiceConfig holds configuration for the catalog service
type CatalogServiceConfig struct {
	CacheTTL       time.Duration
	Latency        LatencyConfig
	BarcodeResults int
	ImageResults   int
	MaxImageBytes  int64
	// Strategies overrides the built-in per-mode strategies when set
	Strategies map[domain.SearchType]domain.SearchStrategy
}

// CatalogService is the facade front-ends search and browse the catalog through
type CatalogService struct {
	catalog       domain.CatalogRepository
	cache         domain.CacheRepository
	strategies    map[domain.SearchType]domain.SearchStrategy
	latency       LatencyConfig
	cacheTTL      time.Duration
	maxImageBytes int64
	metrics       *metrics.Registry
	logger        *zap.Logger
	newID         func() string
}

// NewCatalogService creates a catalog service. cache may be nil to disable
// result caching; a nil logger or registry is replaced by a no-op one.
func NewCatalogService(
	catalog domain.CatalogRepository,
	cache domain.CacheRepository,
	config CatalogServiceConfig,
	lg *zap.Logger,
	reg *metrics.Registry,
) *CatalogService {
	if lg == nil {
		lg = zap.NewNop()
	}
	if reg == nil {
		reg = metrics.NewRegistry()
	}

	barcodeResults := config.BarcodeResults
	if barcodeResults <= 0 {
		barcodeResults = 2
	}
	imageResults := config.ImageResults
	if imageResults <= 0 {
		imageResults = 3
	}
	strategies := config.Strategies
	if strategies == nil {
		strategies = DefaultStrategies(catalog, barcodeResults, imageResults)
	}

	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 10 * time.Minute
	}
	maxImageBytes := config.MaxImageBytes
	if maxImageBytes <= 0 {
		maxImageBytes = 10 << 20
	}

	return &CatalogService{
		catalog:       catalog,
		cache:         cache,
		strategies:    strategies,
		latency:       config.Latency,
		cacheTTL:      cacheTTL,
		maxImageBytes: maxImageBytes,
		metrics:       reg,
		logger:        lg.Named("catalog"),
		newID:         uuid.NewString,
	}
}

// SearchProducts runs the strategy registered for searchType.
// Flow: normalize -> cache -> simulated latency -> strategy -> cache -> return
func (s *CatalogService) SearchProducts(ctx context.Context, query string, searchType domain.SearchType) ([]domain.Product, error) {
	strategy, ok := s.strategies[searchType]
	if !ok {
		s.metrics.Searches.WithLabelValues(string(searchType), "rejected").Inc()
		return nil, errors.Wrapf(domain.ErrUnknownSearchType, "%q", searchType)
	}

	query = normalizeInput(query, searchType)
	cacheKey := searchCacheKey(searchType, query)

	if s.cache != nil {
		var cached []domain.Product
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			s.metrics.SearchCacheHits.Inc()
			s.record(searchType, "ok", len(cached))
			return cached, nil
		}
	}

	if err := s.wait(ctx, s.latency.Search); err != nil {
		return nil, err
	}

	results, err := strategy.Execute(ctx, domain.SearchInput{Query: query})
	if err != nil {
		s.record(searchType, "error", 0)
		return nil, s.unavailable(ctx, err, "search")
	}
	if results == nil {
		results = []domain.Product{}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, results, s.cacheTTL); err != nil {
			// A cold cache only costs latency; keep serving.
			s.logger.Warn("Cache write failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}

	s.record(searchType, "ok", len(results))
	s.logger.Debug("Search complete",
		zap.String("type", string(searchType)),
		zap.String("query", query),
		zap.Int("results", len(results)),
	)
	return results, nil
}

// GetProduct returns domain.ErrProductNotFound when id is unknown
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	if err := s.wait(ctx, s.latency.Product); err != nil {
		return nil, err
	}
	p, err := s.catalog.GetByID(ctx, strings.TrimSpace(id))
	if errors.Is(err, domain.ErrProductNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, s.unavailable(ctx, err, "get product")
	}
	return p, nil
}

// GetPriceHistory returns an empty series for products without recorded history
func (s *CatalogService) GetPriceHistory(ctx context.Context, id string) ([]domain.PricePoint, error) {
	if err := s.wait(ctx, s.latency.History); err != nil {
		return nil, err
	}
	series, err := s.catalog.PriceHistory(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, s.unavailable(ctx, err, "price history")
	}
	if series == nil {
		series = []domain.PricePoint{}
	}
	return series, nil
}

// GetReviews returns the reviews for productID, empty when there are none
func (s *CatalogService) GetReviews(ctx context.Context, productID string) ([]domain.Review, error) {
	if err := s.wait(ctx, s.latency.Reviews); err != nil {
		return nil, err
	}
	reviews, err := s.catalog.Reviews(ctx, strings.TrimSpace(productID))
	if err != nil {
		return nil, s.unavailable(ctx, err, "reviews")
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}
	return reviews, nil
}

// SubmitReview acknowledges a review with a fresh id. Reviews are not
// stored yet, so the acknowledgement is immediate.
func (s *CatalogService) SubmitReview(ctx context.Context, review domain.ReviewSubmission) (*domain.ReviewReceipt, error) {
	if err := review.Validate(); err != nil {
		return nil, err
	}
	if err := s.wait(ctx, s.latency.Submit); err != nil {
		return nil, err
	}
	if _, err := s.catalog.GetByID(ctx, review.ProductID); err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return nil, err
		}
		return nil, s.unavailable(ctx, err, "submit review")
	}

	receipt := &domain.ReviewReceipt{Success: true, ID: s.newID()}
	s.metrics.ReviewsSubmitted.Inc()
	s.logger.Info("Review accepted",
		zap.String("review_id", receipt.ID),
		zap.String("product_id", review.ProductID),
		zap.Int("rating", review.Rating),
	)
	return receipt, nil
}

// UploadImage validates the payload and runs the image strategy on it
func (s *CatalogService) UploadImage(ctx context.Context, image []byte) ([]domain.Product, error) {
	if len(image) == 0 {
		return nil, errors.Wrap(domain.ErrInvalidImage, "empty payload")
	}
	if int64(len(image)) > s.maxImageBytes {
		return nil, errors.Wrapf(domain.ErrInvalidImage, "%d bytes exceeds limit of %d", len(image), s.maxImageBytes)
	}
	mime := mimetype.Detect(image)
	if !strings.HasPrefix(mime.String(), "image/") {
		return nil, errors.Wrapf(domain.ErrInvalidImage, "detected %s", mime.String())
	}

	strategy, ok := s.strategies[domain.SearchByImage]
	if !ok {
		return nil, errors.Wrap(domain.ErrUnknownSearchType, "no image strategy registered")
	}

	if err := s.wait(ctx, s.latency.Upload); err != nil {
		return nil, err
	}

	results, err := strategy.Execute(ctx, domain.SearchInput{Image: image})
	if err != nil {
		s.record(domain.SearchByImage, "error", 0)
		return nil, s.unavailable(ctx, err, "image search")
	}
	if results == nil {
		results = []domain.Product{}
	}

	s.record(domain.SearchByImage, "ok", len(results))
	s.logger.Debug("Image search complete",
		zap.String("mime", mime.String()),
		zap.Int("bytes", len(image)),
		zap.Int("results", len(results)),
	)
	return results, nil
}

// wait blocks for d or until ctx is done
func (s *CatalogService) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// unavailable classifies a repository failure as transient unless the
// caller's context ended, in which case the context error is returned as is.
func (s *CatalogService) unavailable(ctx context.Context, err error, op string) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	s.logger.Warn("Catalog operation failed", zap.String("op", op), zap.Error(err))
	return fmt.Errorf("%w: %s: %w", domain.ErrCatalogUnavailable, op, err)
}

func (s *CatalogService) record(searchType domain.SearchType, outcome string, results int) {
	s.metrics.Searches.WithLabelValues(string(searchType), outcome).Inc()
	if outcome == "ok" {
		s.metrics.SearchResults.Observe(float64(results))
	}
}
