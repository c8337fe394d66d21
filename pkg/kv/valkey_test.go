package kv

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*ValkeyStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewValkeyStoreFromClient(client), mr
}

func TestValkeyStoreGetSetDelete(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(ctx, "tokens/u1", []byte("v1"), 0))
	got, err := store.Get(ctx, "tokens/u1")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), got)

	require.NoError(t, store.Delete(ctx, "tokens/u1"))
	require.NoError(t, store.Delete(ctx, "tokens/u1"), "delete must be idempotent")

	_, err = store.Get(ctx, "tokens/u1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestValkeyStoreSetNXExpires(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestStore(t)

	ok, err := store.SetNX(ctx, "lock", []byte("a"), time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.SetNX(ctx, "lock", []byte("b"), time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	mr.FastForward(2 * time.Minute)

	ok, err = store.SetNX(ctx, "lock", []byte("c"), time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestValkeyStoreScanPrefix(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	for i := 0; i < 30; i++ {
		require.NoError(t, store.Set(ctx, fmt.Sprintf("tokens/u%02d", i), []byte("x"), 0))
	}
	require.NoError(t, store.Set(ctx, "integrations/whoop", []byte("x"), 0))

	var keys []string
	var cursor uint64
	for {
		page, next, err := store.Scan(ctx, "tokens/", cursor, 7)
		require.NoError(t, err)
		keys = append(keys, page...)
		if next == 0 {
			break
		}
		cursor = next
	}

	sort.Strings(keys)
	require.Len(t, keys, 30)
	assert.Equal(t, "tokens/u00", keys[0])
	assert.Equal(t, "tokens/u29", keys[29])
}
