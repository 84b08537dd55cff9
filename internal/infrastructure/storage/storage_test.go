package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartbuy360/backend/internal/domain"
)

func exerciseStore(t *testing.T, st domain.KeyValueStore) {
	t.Helper()
	ctx := context.Background()

	_, err := st.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)

	require.NoError(t, st.Set(ctx, "k", []byte(`[1,2]`)))
	got, err := st.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `[1,2]`, string(got))

	// overwrite replaces the whole value
	require.NoError(t, st.Set(ctx, "k", []byte(`[]`)))
	got, err = st.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))

	// returned slices are owned by the caller
	got[0] = 'x'
	again, err := st.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(again))
}

func TestMemoryStore(t *testing.T) {
	st := NewMemoryStore()
	t.Cleanup(func() { _ = st.Close() })
	exerciseStore(t, st)
}

func TestPebbleStore(t *testing.T) {
	st, err := NewPebbleStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	exerciseStore(t, st)
}

func TestPebbleStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	st, err := NewPebbleStore(dir)
	require.NoError(t, err)
	require.NoError(t, st.Set(ctx, "smartbuy360-favorites", []byte(`[{"id":"1"}]`)))
	require.NoError(t, st.Close())

	reopened, err := NewPebbleStore(dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	got, err := reopened.Get(ctx, "smartbuy360-favorites")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"1"}]`, string(got))
}
