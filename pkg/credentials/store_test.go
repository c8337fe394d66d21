package credentials

import (
	"context"
	"fmt"
	"sort"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/quatton/vitalsync/pkg/kv"
	"github.com/quatton/vitalsync/pkg/qerr"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newKVStore(t *testing.T, pageSize int64) (*KVStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewKVStore(kv.NewValkeyStoreFromClient(client), pageSize), mr
}

func TestKVStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, _ := newKVStore(t, 0)

	_, err := store.Get(ctx, "u1")
	assert.True(t, qerr.IsCode(err, qerr.CodeNotFound))

	rec := &TokenRecord{
		UserID:       "u1",
		AccessToken:  "at",
		RefreshToken: "rt",
		ExpiresAt:    1_700_000_600_000,
		CreatedAt:    1_700_000_000_000,
		UpdatedAt:    1_700_000_000_000,
	}
	require.NoError(t, store.Put(ctx, "u1", rec))

	got, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	rec.AccessToken = "at2"
	require.NoError(t, store.Put(ctx, "u1", rec))
	got, err = store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "at2", got.AccessToken)

	require.NoError(t, store.Delete(ctx, "u1"))
	require.NoError(t, store.Delete(ctx, "u1"))
	_, err = store.Get(ctx, "u1")
	assert.True(t, qerr.IsCode(err, qerr.CodeNotFound))
}

func TestKVStoreListUserIDsIsRestartable(t *testing.T) {
	ctx := context.Background()
	store, mr := newKVStore(t, 3)

	for i := 0; i < 10; i++ {
		require.NoError(t, store.Put(ctx, fmt.Sprintf("u%d", i), &TokenRecord{UserID: fmt.Sprintf("u%d", i)}))
	}
	require.NoError(t, mr.Set("integrations/whoop", `{"clientId":"c"}`))

	first, err := CollectUserIDs(store.ListUserIDs(ctx))
	require.NoError(t, err)
	second, err := CollectUserIDs(store.ListUserIDs(ctx))
	require.NoError(t, err)

	sort.Strings(first)
	sort.Strings(second)
	assert.Len(t, first, 10)
	assert.Equal(t, first, second)
	assert.NotContains(t, first, "whoop")
}

func TestKVStoreListUserIDsEarlyBreak(t *testing.T) {
	ctx := context.Background()
	store, _ := newKVStore(t, 2)
	for i := 0; i < 5; i++ {
		require.NoError(t, store.Put(ctx, fmt.Sprintf("u%d", i), &TokenRecord{}))
	}

	n := 0
	for _, err := range store.ListUserIDs(ctx) {
		require.NoError(t, err)
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}

func TestKVStoreUnavailable(t *testing.T) {
	ctx := context.Background()
	store, mr := newKVStore(t, 0)
	mr.Close()

	_, err := store.Get(ctx, "u1")
	assert.True(t, qerr.IsCode(err, qerr.CodeStoreUnavailable))

	_, err = CollectUserIDs(store.ListUserIDs(ctx))
	assert.True(t, qerr.IsCode(err, qerr.CodeStoreUnavailable))
}

func TestKVStoreClientCredentials(t *testing.T) {
	ctx := context.Background()
	store, mr := newKVStore(t, 0)
	require.NoError(t, mr.Set("integrations/whoop", `{"clientId":"cid","clientSecret":"sec"}`))

	creds, err := store.GetClientCredentials(ctx, "whoop")
	require.NoError(t, err)
	assert.Equal(t, "cid", creds.ClientID)
	assert.Equal(t, "sec", creds.ClientSecret)

	_, err = store.GetClientCredentials(ctx, "other")
	assert.True(t, qerr.IsCode(err, qerr.CodeNotFound))
}
