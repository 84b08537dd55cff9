package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartbuy360/backend/internal/domain"
	"github.com/smartbuy360/backend/internal/infrastructure/catalog"
	"github.com/smartbuy360/backend/internal/infrastructure/metrics"
)

// pngHeader is enough for content sniffing to report image/png
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

// MockCacheRepository is a mock implementation of domain.CacheRepository
type MockCacheRepository struct {
	data      map[string][]domain.Product
	getCalled bool
	setCalled bool
	setError  error
}

func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{data: make(map[string][]domain.Product)}
}

func (m *MockCacheRepository) Get(ctx context.Context, key string, dest interface{}) error {
	m.getCalled = true
	v, ok := m.data[key]
	if !ok {
		return domain.ErrCacheMiss
	}
	*(dest.(*[]domain.Product)) = v
	return nil
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.setCalled = true
	if m.setError != nil {
		return m.setError
	}
	m.data[key] = value.([]domain.Product)
	return nil
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := m.data[key]
	return ok, nil
}

// failingCatalog is a domain.CatalogRepository whose every read fails
type failingCatalog struct{ err error }

func (f failingCatalog) List(context.Context) ([]domain.Product, error) { return nil, f.err }
func (f failingCatalog) GetByID(context.Context, string) (*domain.Product, error) {
	return nil, f.err
}
func (f failingCatalog) PriceHistory(context.Context, string) ([]domain.PricePoint, error) {
	return nil, f.err
}
func (f failingCatalog) Reviews(context.Context, string) ([]domain.Review, error) { return nil, f.err }

func newTestService(t *testing.T) *CatalogService {
	t.Helper()
	return NewCatalogService(catalog.NewFixtureCatalog(), nil, CatalogServiceConfig{}, nil, nil)
}

func resultIDs(products []domain.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func TestNewCatalogService(t *testing.T) {
	t.Run("creates service with default values", func(t *testing.T) {
		svc := newTestService(t)
		assert.Equal(t, 10*time.Minute, svc.cacheTTL)
		assert.Equal(t, int64(10<<20), svc.maxImageBytes)
		assert.Len(t, svc.strategies, 3)
	})

	t.Run("creates service with custom values", func(t *testing.T) {
		svc := NewCatalogService(catalog.NewFixtureCatalog(), nil, CatalogServiceConfig{
			CacheTTL:      time.Hour,
			MaxImageBytes: 1024,
		}, nil, nil)
		assert.Equal(t, time.Hour, svc.cacheTTL)
		assert.Equal(t, int64(1024), svc.maxImageBytes)
	})
}

func TestSearchProducts(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	tests := []struct {
		name       string
		query      string
		searchType domain.SearchType
		want       []string
	}{
		{name: "galaxy matches only the samsung", query: "Galaxy", searchType: domain.SearchByName, want: []string{"2"}},
		{name: "case insensitive title match", query: "iphone", searchType: domain.SearchByName, want: []string{"1"}},
		{name: "category match", query: "laptops", searchType: domain.SearchByName, want: []string{"3", "5"}},
		{name: "surrounding whitespace is trimmed", query: "  sony  ", searchType: domain.SearchByName, want: []string{"4"}},
		{name: "empty name query returns the catalog", query: "", searchType: domain.SearchByName, want: []string{"1", "2", "3", "4", "5"}},
		{name: "no match", query: "toaster", searchType: domain.SearchByName, want: []string{}},
		{name: "barcode returns first two", query: "8901234567890", searchType: domain.SearchByBarcode, want: []string{"1", "2"}},
		{name: "image returns first three", query: "", searchType: domain.SearchByImage, want: []string{"1", "2", "3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.SearchProducts(ctx, tt.query, tt.searchType)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, resultIDs(got))
		})
	}

	t.Run("galaxy returns the full samsung record", func(t *testing.T) {
		got, err := svc.SearchProducts(ctx, "Galaxy", domain.SearchByName)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Samsung Galaxy S24 Ultra 256GB Titanium Black", got[0].Title)
		assert.Len(t, got[0].Prices, 3)
	})

	t.Run("unknown type is rejected", func(t *testing.T) {
		_, err := svc.SearchProducts(ctx, "x", domain.SearchType("voice"))
		assert.ErrorIs(t, err, domain.ErrUnknownSearchType)
	})
}

func TestSearchProducts_Cache(t *testing.T) {
	ctx := context.Background()
	reg := metrics.NewRegistry()
	cache := NewMockCacheRepository()
	svc := NewCatalogService(catalog.NewFixtureCatalog(), cache, CatalogServiceConfig{}, nil, reg)

	t.Run("miss populates the cache", func(t *testing.T) {
		_, err := svc.SearchProducts(ctx, "Galaxy", domain.SearchByName)
		require.NoError(t, err)
		assert.True(t, cache.setCalled)
		assert.Contains(t, cache.data, "search:name:galaxy")
	})

	t.Run("hit is served from the cache", func(t *testing.T) {
		cache.data["search:name:galaxy"] = []domain.Product{{ID: "cached"}}
		got, err := svc.SearchProducts(ctx, "  GALAXY ", domain.SearchByName)
		require.NoError(t, err)
		assert.Equal(t, []string{"cached"}, resultIDs(got))
		assert.Equal(t, 1.0, testutil.ToFloat64(reg.SearchCacheHits))
	})

	t.Run("cache write failure does not fail the search", func(t *testing.T) {
		cache.setError = errors.New("cache down")
		got, err := svc.SearchProducts(ctx, "sony", domain.SearchByName)
		require.NoError(t, err)
		assert.Equal(t, []string{"4"}, resultIDs(got))
	})
}

func TestSearchProducts_CustomStrategy(t *testing.T) {
	barcode := strategyFunc(func(ctx context.Context, in domain.SearchInput) ([]domain.Product, error) {
		assert.Equal(t, "8901234567890", in.Query)
		return []domain.Product{{ID: "scanned"}}, nil
	})
	svc := NewCatalogService(catalog.NewFixtureCatalog(), nil, CatalogServiceConfig{
		Strategies: map[domain.SearchType]domain.SearchStrategy{domain.SearchByBarcode: barcode},
	}, nil, nil)

	got, err := svc.SearchProducts(context.Background(), "8901234-567890", domain.SearchByBarcode)
	require.NoError(t, err)
	assert.Equal(t, []string{"scanned"}, resultIDs(got))

	_, err = svc.SearchProducts(context.Background(), "x", domain.SearchByName)
	assert.ErrorIs(t, err, domain.ErrUnknownSearchType)
}

func TestGetProduct(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	p, err := svc.GetProduct(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, "Apple MacBook Air M3 13-inch 8GB/256GB Space Grey", p.Title)

	p, err = svc.GetProduct(ctx, "99")
	assert.Nil(t, p)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.NotErrorIs(t, err, domain.ErrCatalogUnavailable)
}

func TestGetPriceHistory(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	series, err := svc.GetPriceHistory(ctx, "1")
	require.NoError(t, err)
	require.Len(t, series, 5)
	assert.Equal(t, domain.PricePoint{Date: "2024-01-01", Price: 139900}, series[0])
	assert.Equal(t, domain.PricePoint{Date: "2024-03-01", Price: 132900}, series[4])

	series, err = svc.GetPriceHistory(ctx, "99")
	require.NoError(t, err)
	assert.Empty(t, series)
}

func TestGetReviews(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	reviews, err := svc.GetReviews(ctx, "2")
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, "BusinessUser", reviews[0].Author)

	reviews, err = svc.GetReviews(ctx, "4")
	require.NoError(t, err)
	assert.NotNil(t, reviews)
	assert.Empty(t, reviews)
}

func TestSubmitReview(t *testing.T) {
	ctx := context.Background()
	reg := metrics.NewRegistry()
	svc := NewCatalogService(catalog.NewFixtureCatalog(), nil, CatalogServiceConfig{}, nil, reg)
	svc.newID = func() string { return "review-1" }

	t.Run("accepted with generated id", func(t *testing.T) {
		receipt, err := svc.SubmitReview(ctx, domain.ReviewSubmission{ProductID: "1", Rating: 5, Text: "Great", Author: "me"})
		require.NoError(t, err)
		assert.Equal(t, &domain.ReviewReceipt{Success: true, ID: "review-1"}, receipt)
		assert.Equal(t, 1.0, testutil.ToFloat64(reg.ReviewsSubmitted))
	})

	t.Run("not persisted", func(t *testing.T) {
		reviews, err := svc.GetReviews(ctx, "1")
		require.NoError(t, err)
		assert.Len(t, reviews, 2)
	})

	t.Run("invalid payload", func(t *testing.T) {
		_, err := svc.SubmitReview(ctx, domain.ReviewSubmission{ProductID: "1", Rating: 9, Text: "x", Author: "y"})
		assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	})

	t.Run("unknown product", func(t *testing.T) {
		_, err := svc.SubmitReview(ctx, domain.ReviewSubmission{ProductID: "99", Rating: 3, Text: "x", Author: "y"})
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})
}

func TestUploadImage(t *testing.T) {
	ctx := context.Background()
	svc := NewCatalogService(catalog.NewFixtureCatalog(), nil, CatalogServiceConfig{MaxImageBytes: 64}, nil, nil)

	t.Run("png returns the image strategy result", func(t *testing.T) {
		got, err := svc.UploadImage(ctx, pngHeader)
		require.NoError(t, err)
		assert.Equal(t, []string{"1", "2", "3"}, resultIDs(got))
	})

	t.Run("empty payload", func(t *testing.T) {
		_, err := svc.UploadImage(ctx, nil)
		assert.ErrorIs(t, err, domain.ErrInvalidImage)
	})

	t.Run("not an image", func(t *testing.T) {
		_, err := svc.UploadImage(ctx, []byte("just some text"))
		assert.ErrorIs(t, err, domain.ErrInvalidImage)
	})

	t.Run("too large", func(t *testing.T) {
		big := append(append([]byte{}, pngHeader...), make([]byte, 128)...)
		_, err := svc.UploadImage(ctx, big)
		assert.ErrorIs(t, err, domain.ErrInvalidImage)
	})
}

func TestCatalogService_TransientFailure(t *testing.T) {
	ctx := context.Background()
	errReset := errors.New("connection reset")
	svc := NewCatalogService(failingCatalog{err: errReset}, nil, CatalogServiceConfig{}, nil, nil)

	_, err := svc.SearchProducts(ctx, "x", domain.SearchByName)
	assert.ErrorIs(t, err, domain.ErrCatalogUnavailable)
	assert.ErrorIs(t, err, errReset)

	_, err = svc.GetProduct(ctx, "1")
	assert.ErrorIs(t, err, domain.ErrCatalogUnavailable)

	_, err = svc.GetPriceHistory(ctx, "1")
	assert.ErrorIs(t, err, domain.ErrCatalogUnavailable)

	_, err = svc.GetReviews(ctx, "1")
	assert.ErrorIs(t, err, domain.ErrCatalogUnavailable)
	assert.ErrorIs(t, err, errReset)
}

func TestCatalogService_LatencyHonorsCancellation(t *testing.T) {
	svc := NewCatalogService(catalog.NewFixtureCatalog(), nil, CatalogServiceConfig{
		Latency: LatencyConfig{Search: time.Hour, Product: 20 * time.Millisecond},
	}, nil, nil)

	t.Run("cancelled while waiting", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		start := time.Now()
		_, err := svc.SearchProducts(ctx, "Galaxy", domain.SearchByName)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Less(t, time.Since(start), time.Second)
	})

	t.Run("delay elapses then resolves", func(t *testing.T) {
		start := time.Now()
		p, err := svc.GetProduct(context.Background(), "1")
		require.NoError(t, err)
		assert.Equal(t, "1", p.ID)
		assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	})
}

func TestDemoLatency(t *testing.T) {
	l := DemoLatency()
	assert.Equal(t, 800*time.Millisecond, l.Search)
	assert.Equal(t, 1200*time.Millisecond, l.Upload)
}

// strategyFunc adapts a function to domain.SearchStrategy
type strategyFunc func(ctx context.Context, in domain.SearchInput) ([]domain.Product, error)

func (f strategyFunc) Execute(ctx context.Context, in domain.SearchInput) ([]domain.Product, error) {
	return f(ctx, in)
}
