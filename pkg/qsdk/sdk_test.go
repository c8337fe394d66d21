package qsdk

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/quatton/vitalsync/pkg/qapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestAPIKeyKeyring(t *testing.T) {
	keyring.MockInit()

	_, err := LoadAPIKey("http://localhost:3000")
	assert.ErrorIs(t, err, ErrNoAPIKey)

	require.NoError(t, SaveAPIKey("http://LOCALHOST:3000/", "k1"))
	key, err := LoadAPIKey("http://localhost:3000")
	require.NoError(t, err)
	assert.Equal(t, "k1", key)

	require.NoError(t, DeleteAPIKey("http://localhost:3000"))
	require.NoError(t, DeleteAPIKey("http://localhost:3000"))
	_, err = LoadAPIKey("http://localhost:3000")
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func newServer(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/sync", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(qapi.APIKeyHeader) != "k1" {
			w.Header().Set("Content-Type", "application/problem+json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"title":"Unauthorized","status":401,"detail":"missing or invalid API key"}`))
			return
		}
		var req struct {
			UserID string `json:"userId"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		w.Header().Set("Content-Type", "application/json")
		if req.UserID == "ghost" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"success":false,"error":"no stored tokens for user ghost","errorCode":"no_tokens"}`))
			return
		}
		_, _ = w.Write([]byte(`{"success":true,"recordsInserted":4,"recordsUpdated":1,"totalProcessed":5}`))
	})
	mux.HandleFunc("POST /api/sync/batch", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/problem+json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"title":"Conflict","status":409,"detail":"a sync batch is already running"}`))
	})
	mux.HandleFunc("GET /api/sync/batch/status", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"state":"completed","last":{"runId":"r1","totalUsers":2,"results":[]}}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestSdk(t *testing.T, key string) *Sdk {
	keyring.MockInit()
	srv := newServer(t)
	sdk, err := NewSdk(&Config{BaseURL: srv.URL, APIKey: key, Timeout: 5 * time.Second})
	require.NoError(t, err)
	return sdk
}

func TestSdkSyncUser(t *testing.T) {
	sdk := newTestSdk(t, "k1")

	resp, err := sdk.SyncUser(context.Background(), SyncRequest{UserID: "10129"})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, int64(5), resp.TotalProcessed)
}

func TestSdkSyncUserFailureKeepsBody(t *testing.T) {
	sdk := newTestSdk(t, "k1")

	resp, err := sdk.SyncUser(context.Background(), SyncRequest{UserID: "ghost"})
	require.Error(t, err)
	require.NotNil(t, resp)
	require.NotNil(t, resp.ErrorCode)
	assert.Equal(t, "no_tokens", *resp.ErrorCode)
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), "no stored tokens")
}

func TestSdkUnauthorized(t *testing.T) {
	sdk := newTestSdk(t, "")

	_, err := sdk.SyncUser(context.Background(), SyncRequest{UserID: "10129"})
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Contains(t, err.Error(), "missing or invalid API key")
}

func TestSdkUsesKeyringKey(t *testing.T) {
	keyring.MockInit()
	srv := newServer(t)
	require.NoError(t, SaveAPIKey(srv.URL, "k1"))

	sdk, err := NewSdk(&Config{BaseURL: srv.URL, Timeout: time.Second})
	require.NoError(t, err)
	assert.Equal(t, "k1", sdk.APIKey)
}

func TestSdkBatch(t *testing.T) {
	sdk := newTestSdk(t, "k1")

	_, err := sdk.RunBatch(context.Background())
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusConflict, se.StatusCode)
	assert.Equal(t, "a sync batch is already running", se.Message)

	status, err := sdk.BatchStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "completed", status.State)
	require.NotNil(t, status.Last)
	assert.Equal(t, int64(2), status.Last.TotalUsers)
}

func TestSdkSendsOnlySetFields(t *testing.T) {
	keyring.MockInit()
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/sync", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"recordsInserted":0,"recordsUpdated":0,"totalProcessed":0}`))
	}))
	t.Cleanup(srv.Close)

	sdk, err := NewSdk(&Config{BaseURL: srv.URL + "/", APIKey: "k1", Timeout: time.Second})
	require.NoError(t, err)
	_, err = sdk.SyncUser(context.Background(), SyncRequest{UserID: "10129", StartDate: "2024-01-01"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"userId": "10129", "startDate": "2024-01-01"}, got)
	assert.Equal(t, srv.URL+"/api/auth/whoop/login", sdk.ConnectURL())
}
