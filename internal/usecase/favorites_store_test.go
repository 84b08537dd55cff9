package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartbuy360/backend/internal/domain"
	"github.com/smartbuy360/backend/internal/infrastructure/catalog"
	"github.com/smartbuy360/backend/internal/infrastructure/metrics"
	"github.com/smartbuy360/backend/internal/infrastructure/storage"
)

// MockKeyValueStore wraps a memory store and can be told to fail
type MockKeyValueStore struct {
	*storage.MemoryStore
	mu       sync.Mutex
	getErr   error
	setErr   error
	setCalls int
}

func NewMockKeyValueStore() *MockKeyValueStore {
	return &MockKeyValueStore{MemoryStore: storage.NewMemoryStore()}
}

func (m *MockKeyValueStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.MemoryStore.Get(ctx, key)
}

func (m *MockKeyValueStore) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	m.setCalls++
	err := m.setErr
	m.mu.Unlock()
	if err != nil {
		return err
	}
	return m.MemoryStore.Set(ctx, key, value)
}

func fixtureProduct(t *testing.T, id string) domain.Product {
	t.Helper()
	for _, p := range catalog.FixtureProducts() {
		if p.ID == id {
			return p
		}
	}
	t.Fatalf("no fixture product %q", id)
	return domain.Product{}
}

func favoriteIDs(f *FavoritesStore) []string {
	return resultIDs(f.Items())
}

func TestFavoritesStore_Add(t *testing.T) {
	ctx := context.Background()

	t.Run("adds in insertion order", func(t *testing.T) {
		f := NewFavoritesStore(ctx, storage.NewMemoryStore(), "", nil, nil)
		require.NoError(t, f.Add(ctx, fixtureProduct(t, "3")))
		require.NoError(t, f.Add(ctx, fixtureProduct(t, "1")))

		assert.Equal(t, []string{"3", "1"}, favoriteIDs(f))
		assert.True(t, f.IsFavorite("1"))
		assert.False(t, f.IsFavorite("2"))
	})

	t.Run("is idempotent", func(t *testing.T) {
		f := NewFavoritesStore(ctx, storage.NewMemoryStore(), "", nil, nil)
		p := fixtureProduct(t, "2")
		require.NoError(t, f.Add(ctx, p))
		require.NoError(t, f.Add(ctx, p))

		assert.Equal(t, 1, f.Len())
	})

	t.Run("keeps first entry on duplicate id", func(t *testing.T) {
		f := NewFavoritesStore(ctx, storage.NewMemoryStore(), "", nil, nil)
		p := fixtureProduct(t, "2")
		require.NoError(t, f.Add(ctx, p))

		renamed := p
		renamed.Title = "renamed"
		require.NoError(t, f.Add(ctx, renamed))

		assert.Equal(t, p.Title, f.Items()[0].Title)
	})

	t.Run("rejects invalid product", func(t *testing.T) {
		kv := NewMockKeyValueStore()
		f := NewFavoritesStore(ctx, kv, "", nil, nil)

		err := f.Add(ctx, domain.Product{ID: "x"})
		assert.ErrorIs(t, err, domain.ErrInvalidProduct)
		assert.Zero(t, f.Len())
		assert.Zero(t, kv.setCalls)
	})
}

func TestFavoritesStore_Remove(t *testing.T) {
	ctx := context.Background()
	f := NewFavoritesStore(ctx, storage.NewMemoryStore(), "", nil, nil)
	for _, id := range []string{"1", "2", "3"} {
		require.NoError(t, f.Add(ctx, fixtureProduct(t, id)))
	}

	require.NoError(t, f.Remove(ctx, "2"))
	assert.Equal(t, []string{"1", "3"}, favoriteIDs(f))

	t.Run("absent id is a no-op", func(t *testing.T) {
		require.NoError(t, f.Remove(ctx, "99"))
		assert.Equal(t, []string{"1", "3"}, favoriteIDs(f))
	})
}

func TestFavoritesStore_Toggle(t *testing.T) {
	ctx := context.Background()
	f := NewFavoritesStore(ctx, storage.NewMemoryStore(), "", nil, nil)
	p := fixtureProduct(t, "4")

	saved, err := f.Toggle(ctx, p)
	require.NoError(t, err)
	assert.True(t, saved)
	assert.True(t, f.IsFavorite("4"))

	saved, err = f.Toggle(ctx, p)
	require.NoError(t, err)
	assert.False(t, saved)
	assert.False(t, f.IsFavorite("4"))
	assert.Empty(t, f.Items())

	t.Run("invalid product is not added", func(t *testing.T) {
		saved, err := f.Toggle(ctx, domain.Product{ID: "bad"})
		assert.ErrorIs(t, err, domain.ErrInvalidProduct)
		assert.False(t, saved)
	})
}

func TestFavoritesStore_Persistence(t *testing.T) {
	ctx := context.Background()

	t.Run("survives reload", func(t *testing.T) {
		kv := storage.NewMemoryStore()
		f := NewFavoritesStore(ctx, kv, "", nil, nil)
		require.NoError(t, f.Add(ctx, fixtureProduct(t, "5")))
		require.NoError(t, f.Add(ctx, fixtureProduct(t, "1")))

		reloaded := NewFavoritesStore(ctx, kv, "", nil, nil)
		assert.Equal(t, f.Items(), reloaded.Items())
	})

	t.Run("writes under the configured key", func(t *testing.T) {
		kv := storage.NewMemoryStore()
		f := NewFavoritesStore(ctx, kv, "custom", nil, nil)
		require.NoError(t, f.Add(ctx, fixtureProduct(t, "1")))

		_, err := kv.Get(ctx, "custom")
		require.NoError(t, err)
		_, err = kv.Get(ctx, DefaultFavoritesKey)
		assert.ErrorIs(t, err, domain.ErrKeyNotFound)
	})

	t.Run("malformed value starts empty", func(t *testing.T) {
		kv := storage.NewMemoryStore()
		require.NoError(t, kv.Set(ctx, DefaultFavoritesKey, []byte("{not json")))

		f := NewFavoritesStore(ctx, kv, "", nil, nil)
		assert.Empty(t, f.Items())
		assert.NotNil(t, f.Items())
	})

	t.Run("read error starts empty", func(t *testing.T) {
		kv := NewMockKeyValueStore()
		kv.getErr = errors.New("disk gone")

		f := NewFavoritesStore(ctx, kv, "", nil, nil)
		assert.Zero(t, f.Len())
	})

	t.Run("duplicates in storage are dropped", func(t *testing.T) {
		kv := storage.NewMemoryStore()
		raw := `[{"id":"1","title":"a","image":"","prices":[]},{"id":"1","title":"b","image":"","prices":[]},{"id":"2","title":"c","image":"","prices":[]}]`
		require.NoError(t, kv.Set(ctx, DefaultFavoritesKey, []byte(raw)))

		f := NewFavoritesStore(ctx, kv, "", nil, nil)
		assert.Equal(t, []string{"1", "2"}, favoriteIDs(f))
		assert.Equal(t, "a", f.Items()[0].Title)
	})
}

func TestFavoritesStore_PersistFailure(t *testing.T) {
	ctx := context.Background()
	kv := NewMockKeyValueStore()
	reg := metrics.NewRegistry()
	f := NewFavoritesStore(ctx, kv, "", nil, reg)
	require.NoError(t, f.Add(ctx, fixtureProduct(t, "1")))

	errQuota := errors.New("quota exceeded")
	kv.setErr = errQuota

	t.Run("add rolls back", func(t *testing.T) {
		err := f.Add(ctx, fixtureProduct(t, "2"))
		assert.ErrorIs(t, err, domain.ErrPersistFailed)
		assert.ErrorIs(t, err, errQuota)
		assert.Equal(t, []string{"1"}, favoriteIDs(f))
	})

	t.Run("remove rolls back", func(t *testing.T) {
		err := f.Remove(ctx, "1")
		assert.ErrorIs(t, err, domain.ErrPersistFailed)
		assert.True(t, f.IsFavorite("1"))
	})

	t.Run("toggle reports unchanged membership", func(t *testing.T) {
		saved, err := f.Toggle(ctx, fixtureProduct(t, "1"))
		assert.ErrorIs(t, err, domain.ErrPersistFailed)
		assert.True(t, saved)
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(reg.FavoriteMutations.WithLabelValues("add")))
	assert.Equal(t, 0.0, testutil.ToFloat64(reg.FavoriteMutations.WithLabelValues("remove")))
}

func TestFavoritesStore_ItemsIsACopy(t *testing.T) {
	ctx := context.Background()
	f := NewFavoritesStore(ctx, storage.NewMemoryStore(), "", nil, nil)
	require.NoError(t, f.Add(ctx, fixtureProduct(t, "1")))

	items := f.Items()
	items[0].Title = "mutated"
	items[0].Prices[0].Price = 1

	fresh := f.Items()
	assert.NotEqual(t, "mutated", fresh[0].Title)
	assert.Equal(t, int64(134900), fresh[0].Prices[0].Price)
}

func TestFavoritesStore_Concurrent(t *testing.T) {
	ctx := context.Background()
	f := NewFavoritesStore(ctx, storage.NewMemoryStore(), "", nil, nil)
	products := catalog.FixtureProducts()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = f.Add(ctx, products[i%len(products)])
		}(i)
	}
	wg.Wait()

	assert.Equal(t, len(products), f.Len())
}
