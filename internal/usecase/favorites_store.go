package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/smartbuy360/backend/internal/domain"
	"github.com/smartbuy360/backend/internal/infrastructure/metrics"
)

// DefaultFavoritesKey is the storage key the favorites list lives under
const DefaultFavoritesKey = "smartbuy360-favorites"

// FavoritesStore holds the user's saved products. Every mutation rewrites
// the whole list to the key-value store while the lock is held, so storage
// always receives writes in mutation order.
type FavoritesStore struct {
	mu    sync.RWMutex
	items []domain.Product

	kv      domain.KeyValueStore
	key     string
	logger  *zap.Logger
	metrics *metrics.Registry
}

// NewFavoritesStore loads the saved list from kv. A missing key starts an
// empty list. So does an unreadable or malformed value: favorites are a
// convenience and must never block startup.
func NewFavoritesStore(ctx context.Context, kv domain.KeyValueStore, key string, lg *zap.Logger, reg *metrics.Registry) *FavoritesStore {
	if lg == nil {
		lg = zap.NewNop()
	}
	if reg == nil {
		reg = metrics.NewRegistry()
	}
	if key == "" {
		key = DefaultFavoritesKey
	}

	f := &FavoritesStore{
		kv:      kv,
		key:     key,
		logger:  lg.Named("favorites"),
		metrics: reg,
	}
	f.items = f.load(ctx)
	return f
}

func (f *FavoritesStore) load(ctx context.Context) []domain.Product {
	raw, err := f.kv.Get(ctx, f.key)
	if errors.Is(err, domain.ErrKeyNotFound) {
		return []domain.Product{}
	}
	if err != nil {
		f.logger.Warn("Favorites unreadable, starting empty", zap.String("key", f.key), zap.Error(err))
		return []domain.Product{}
	}

	var stored []domain.Product
	if err := json.Unmarshal(raw, &stored); err != nil {
		f.logger.Warn("Favorites malformed, starting empty", zap.String("key", f.key), zap.Error(err))
		return []domain.Product{}
	}

	// Enforce the set invariant even if storage was edited by hand.
	items := make([]domain.Product, 0, len(stored))
	seen := make(map[string]struct{}, len(stored))
	for _, p := range stored {
		if _, dup := seen[p.ID]; dup || p.ID == "" {
			continue
		}
		seen[p.ID] = struct{}{}
		items = append(items, p)
	}

	f.logger.Debug("Favorites loaded", zap.Int("count", len(items)))
	return items
}

// Add saves product unless an entry with the same id already exists
func (f *FavoritesStore) Add(ctx context.Context, product domain.Product) error {
	if err := product.Validate(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.addLocked(ctx, product)
}

// Remove deletes the entry with id, if any
func (f *FavoritesStore) Remove(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.removeLocked(ctx, id)
}

// IsFavorite reports whether id is saved
func (f *FavoritesStore) IsFavorite(id string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.indexLocked(id) >= 0
}

// Toggle removes product if saved and adds it otherwise, returning the new
// membership. The check and the mutation happen under one lock.
func (f *FavoritesStore) Toggle(ctx context.Context, product domain.Product) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.indexLocked(product.ID) >= 0 {
		if err := f.removeLocked(ctx, product.ID); err != nil {
			return true, err
		}
		return false, nil
	}

	if err := product.Validate(); err != nil {
		return false, err
	}
	if err := f.addLocked(ctx, product); err != nil {
		return false, err
	}
	return true, nil
}

// Items returns a copy of the saved products in insertion order
func (f *FavoritesStore) Items() []domain.Product {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]domain.Product, len(f.items))
	for i, p := range f.items {
		p.Prices = slices.Clone(p.Prices)
		out[i] = p
	}
	return out
}

// Len returns the number of saved products
func (f *FavoritesStore) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.items)
}

func (f *FavoritesStore) addLocked(ctx context.Context, product domain.Product) error {
	prev := f.items
	if f.indexLocked(product.ID) < 0 {
		product.Prices = slices.Clone(product.Prices)
		f.items = append(slices.Clip(f.items), product)
	}
	if err := f.persistLocked(ctx); err != nil {
		f.items = prev
		return err
	}
	f.metrics.FavoriteMutations.WithLabelValues("add").Inc()
	return nil
}

func (f *FavoritesStore) removeLocked(ctx context.Context, id string) error {
	prev := f.items
	f.items = slices.DeleteFunc(slices.Clone(f.items), func(p domain.Product) bool { return p.ID == id })
	if err := f.persistLocked(ctx); err != nil {
		f.items = prev
		return err
	}
	f.metrics.FavoriteMutations.WithLabelValues("remove").Inc()
	return nil
}

func (f *FavoritesStore) indexLocked(id string) int {
	return slices.IndexFunc(f.items, func(p domain.Product) bool { return p.ID == id })
}

// persistLocked rewrites the full list. On failure the caller restores the
// previous in-memory list so memory never runs ahead of storage.
func (f *FavoritesStore) persistLocked(ctx context.Context) error {
	encoded, err := json.Marshal(f.items)
	if err != nil {
		return fmt.Errorf("%w: encode: %w", domain.ErrPersistFailed, err)
	}
	if err := f.kv.Set(ctx, f.key, encoded); err != nil {
		f.logger.Error("Favorites write failed", zap.String("key", f.key), zap.Error(err))
		return fmt.Errorf("%w: %w", domain.ErrPersistFailed, err)
	}
	return nil
}
