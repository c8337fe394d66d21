package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/quatton/vitalsync/pkg/credentials"
	"github.com/quatton/vitalsync/pkg/db"
	"github.com/quatton/vitalsync/pkg/kv"
	"github.com/quatton/vitalsync/pkg/qapi/config"
	"github.com/quatton/vitalsync/pkg/qauth"
	"github.com/quatton/vitalsync/pkg/qerr"
	"github.com/quatton/vitalsync/pkg/qlog"
	"github.com/quatton/vitalsync/pkg/whoop"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"golang.org/x/oauth2"
)

const cyclePage = `{"records":[{
	"id": 93845,
	"user_id": 10129,
	"created_at": "2024-03-08T06:05:00Z",
	"updated_at": "2024-03-09T07:00:00Z",
	"start": "2024-03-08T06:00:00Z",
	"end": "2024-03-09T06:00:00Z",
	"timezone_offset": "+00:00",
	"score_state": "SCORED",
	"score": {"strain": 10.5, "kilojoule": 8368, "average_heart_rate": 68, "max_heart_rate": 141}
}],"next_token":null}`

func newWhoopStub(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer at" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/v2/cycle" {
			_, _ = w.Write([]byte(cyclePage))
			return
		}
		_, _ = w.Write([]byte(`{"records":[],"next_token":null}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

type fixture struct {
	cfg   *config.EnvConfig
	kv    *kv.ValkeyStore
	store *credentials.KVStore
	db    *bun.DB
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	valkey := kv.NewValkeyStoreFromClient(client)

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	database, err := db.New(ctx, db.Config{Driver: db.DriverSQLite, Path: "file:" + name + "?mode=memory&cache=shared"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	require.NoError(t, db.Migrate(ctx, database, qlog.NewDiscard()))

	srv := newWhoopStub(t)
	cfg := &config.EnvConfig{
		BaseURL:          "https://sync.example.com",
		StateSecret:      strings.Repeat("k", 32),
		WhoopAPIURL:      srv.URL,
		SyncWindowDays:   7,
		BackfillDays:     90,
		HTTPTimeout:      5 * time.Second,
		MaxPagesPerFetch: 10,
	}
	return &fixture{cfg: cfg, kv: valkey, store: credentials.NewKVStore(valkey, 10), db: database}
}

func TestAssembleSyncsStoredUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, f.store.Put(ctx, "10129", &credentials.TokenRecord{
		UserID:       "10129",
		AccessToken:  "at",
		RefreshToken: "rt",
		ExpiresAt:    now.Add(time.Hour).UnixMilli(),
		CreatedAt:    now.UnixMilli(),
		UpdatedAt:    now.UnixMilli(),
	}))

	oauthCfg := whoop.OAuthConfig("id", "secret", f.cfg.RedirectURL(), oauth2.Endpoint{TokenURL: "http://127.0.0.1:0/token"})
	sched, exch := Assemble(f.cfg, qlog.NewDiscard(), f.store, f.kv, f.db, oauthCfg, nil)
	require.NotNil(t, exch)

	res, err := sched.SyncUser(ctx, "10129", sched.BatchWindow())
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 1, res.RecordsInserted)

	summary, err := sched.RunBatch(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalUsers)
	assert.Equal(t, 1, summary.TotalRecordsUpdated)

	rec, err := db.NewCycleRepository(f.db).Get(ctx, "whoop_93845_10129")
	require.NoError(t, err)
	require.NotNil(t, rec.Calories)
	assert.Equal(t, int64(2000), *rec.Calories)
}

// newStalledTokenServer accepts token requests and never answers them.
func newStalledTokenServer(t *testing.T) *httptest.Server {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })
	return srv
}

func TestAssembleTokenCallsHonorHTTPTimeout(t *testing.T) {
	f := newFixture(t)
	f.cfg.HTTPTimeout = 200 * time.Millisecond
	ctx := context.Background()

	tokenSrv := newStalledTokenServer(t)
	oauthCfg := whoop.OAuthConfig("id", "secret", f.cfg.RedirectURL(), oauth2.Endpoint{
		AuthURL:  tokenSrv.URL + "/auth",
		TokenURL: tokenSrv.URL + "/token",
	})
	sched, exch := Assemble(f.cfg, qlog.NewDiscard(), f.store, f.kv, f.db, oauthCfg, nil)

	now := time.Now()
	require.NoError(t, f.store.Put(ctx, "10129", &credentials.TokenRecord{
		UserID:       "10129",
		AccessToken:  "old",
		RefreshToken: "rt",
		ExpiresAt:    now.Add(-time.Minute).UnixMilli(),
		CreatedAt:    now.UnixMilli(),
		UpdatedAt:    now.UnixMilli(),
	}))

	t.Run("refresh", func(t *testing.T) {
		start := time.Now()
		res, err := sched.SyncUser(ctx, "10129", sched.BatchWindow())
		require.Error(t, err)
		assert.Less(t, time.Since(start), 3*time.Second)
		assert.True(t, qerr.IsCode(err, qerr.CodeRefreshFailed))
		assert.False(t, res.Success)
	})

	t.Run("exchange", func(t *testing.T) {
		_, state, err := exch.BeginAuthorization()
		require.NoError(t, err)

		start := time.Now()
		out, err := exch.HandleCallback(ctx, qauth.CallbackParams{Code: "c", State: state, StateCookie: state})
		require.Error(t, err)
		assert.Less(t, time.Since(start), 3*time.Second)
		assert.Equal(t, qauth.RejectExchangeFailed, out.Reject)
	})
}

func TestResolveOAuthConfig(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := ResolveOAuthConfig(ctx, f.cfg, f.store)
	require.Error(t, err)

	require.NoError(t, f.kv.Set(ctx, credentials.IntegrationKey(whoop.Provider),
		[]byte(`{"clientId":"from-store","clientSecret":"s"}`), 0))
	oc, err := ResolveOAuthConfig(ctx, f.cfg, f.store)
	require.NoError(t, err)
	assert.Equal(t, "from-store", oc.ClientID)
	assert.Equal(t, "https://sync.example.com/api/auth/whoop/callback", oc.RedirectURL)

	f.cfg.WhoopClientID, f.cfg.WhoopClientSecret = "from-env", "s2"
	oc, err = ResolveOAuthConfig(ctx, f.cfg, f.store)
	require.NoError(t, err)
	assert.Equal(t, "from-env", oc.ClientID)
	assert.Equal(t, whoop.Scopes, oc.Scopes)
}

func TestEmptyServicesCloses(t *testing.T) {
	s := EmptyServices()
	assert.Nil(t, s.Auth)
	assert.Nil(t, s.Sync)
	assert.False(t, s.APIKey.Enabled())
	assert.NoError(t, s.Close())
}
