package storage

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, "guest_id")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, "guest_id", "abc"))
	v, err := s.Get(ctx, "guest_id")
	require.NoError(t, err)
	assert.Equal(t, "abc", v)

	require.NoError(t, s.Set(ctx, "guest_id", "def"))
	v, err = s.Get(ctx, "guest_id")
	require.NoError(t, err)
	assert.Equal(t, "def", v)

	require.NoError(t, s.Delete(ctx, "guest_id"))
	_, err = s.Get(ctx, "guest_id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	exerciseStore(t, NewRedisStore(client))
}

func TestNamespacedKeepsDevicesApart(t *testing.T) {
	ctx := context.Background()
	base := NewMemoryStore()
	a := Namespaced(base, "device-a")
	b := Namespaced(base, "device-b")

	require.NoError(t, a.Set(ctx, "guest_id", "one"))
	_, err := b.Get(ctx, "guest_id")
	assert.ErrorIs(t, err, ErrNotFound)

	raw, err := base.Get(ctx, "device-a:guest_id")
	require.NoError(t, err)
	assert.Equal(t, "one", raw)

	exerciseStore(t, b)
}
