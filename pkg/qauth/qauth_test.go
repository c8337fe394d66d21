package qauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/quatton/vitalsync/pkg/credentials"
	"github.com/quatton/vitalsync/pkg/kv"
	"github.com/redis/go-redis/v9"
	"golang.org/x/oauth2"
)

// providerStub is a fake WHOOP exposing the token and profile endpoints.
type providerStub struct {
	*httptest.Server
	tokenCalls atomic.Int32
	tokenBody  string
	tokenCode  int
	lastForm   sync.Map
}

func newProviderStub(t *testing.T) *providerStub {
	t.Helper()
	p := &providerStub{
		tokenBody: `{"access_token":"at-new","token_type":"bearer","expires_in":3600,"refresh_token":"rt-new"}`,
		tokenCode: http.StatusOK,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		p.tokenCalls.Add(1)
		_ = r.ParseForm()
		for k, v := range r.PostForm {
			p.lastForm.Store(k, v[0])
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(p.tokenCode)
		_, _ = w.Write([]byte(p.tokenBody))
	})
	mux.HandleFunc("/v2/user/profile/basic", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer at-new" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"user_id":10129,"email":"jane@example.com"}`))
	})
	p.Server = httptest.NewServer(mux)
	t.Cleanup(p.Close)
	return p
}

func (p *providerStub) form(key string) string {
	v, ok := p.lastForm.Load(key)
	if !ok {
		return ""
	}
	return v.(string)
}

func (p *providerStub) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     "cid",
		ClientSecret: "csecret",
		RedirectURL:  "http://localhost:3000/api/auth/whoop/callback",
		Scopes:       []string{"offline"},
		Endpoint: oauth2.Endpoint{
			AuthURL:   p.URL + "/oauth/oauth2/auth",
			TokenURL:  p.URL + "/oauth/oauth2/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

func newCredentialStore(t *testing.T) (*credentials.KVStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return credentials.NewKVStore(kv.NewValkeyStoreFromClient(client), 0), mr
}

func mustGet(t *testing.T, store credentials.Store, userID string) *credentials.TokenRecord {
	t.Helper()
	rec, err := store.Get(context.Background(), userID)
	if err != nil {
		t.Fatalf("get %s: %v", userID, err)
	}
	return rec
}
