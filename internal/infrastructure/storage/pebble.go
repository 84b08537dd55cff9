package storage

import (
	"context"
	"path/filepath"

	"github.com/cockroachdb/pebble"
	"github.com/go-faster/errors"

	"github.com/smartbuy360/backend/internal/domain"
)

var _ domain.KeyValueStore = (*PebbleStore)(nil)

// PebbleStore implements domain.KeyValueStore on an on-disk Pebble database.
type PebbleStore struct {
	db *pebble.DB
}

// NewPebbleStore opens (or creates) the database in dir
func NewPebbleStore(dir string) (*PebbleStore, error) {
	opts := &pebble.Options{
		// Favorites are a handful of small writes; keep the footprint small.
		MemTableSize: 4 << 20,
	}
	db, err := pebble.Open(filepath.Clean(dir), opts)
	if err != nil {
		return nil, errors.Wrap(err, "pebble open")
	}
	return &PebbleStore{db: db}, nil
}

func (p *PebbleStore) Get(ctx context.Context, key string) ([]byte, error) {
	v, closer, err := p.db.Get([]byte(key))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, domain.ErrKeyNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "pebble get %q", key)
	}
	defer closer.Close()
	// v is only valid until closer is closed
	return append([]byte(nil), v...), nil
}

// Set writes value and syncs the WAL so a crash after return cannot lose it
func (p *PebbleStore) Set(ctx context.Context, key string, value []byte) error {
	if err := p.db.Set([]byte(key), value, pebble.Sync); err != nil {
		return errors.Wrapf(err, "pebble set %q", key)
	}
	return nil
}

func (p *PebbleStore) Close() error { return p.db.Close() }
