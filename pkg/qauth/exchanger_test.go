package qauth

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/quatton/vitalsync/pkg/credentials"
	"github.com/quatton/vitalsync/pkg/qerr"
	"github.com/quatton/vitalsync/pkg/whoop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingBackfill struct {
	mu    sync.Mutex
	calls []string
	wins  []whoop.Window
	err   error
	block chan struct{}
}

func (b *recordingBackfill) Backfill(ctx context.Context, userID string, w whoop.Window) error {
	if b.block != nil {
		<-b.block
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, userID)
	b.wins = append(b.wins, w)
	return b.err
}

type failingStore struct{ credentials.Store }

func (failingStore) Put(context.Context, string, *credentials.TokenRecord) error {
	return qerr.New(qerr.CodeStoreUnavailable, errors.New("connection refused"))
}

type exchangerFixture struct {
	provider *providerStub
	store    credentials.Store
	backfill *recordingBackfill
	clock    *fakeClock
	ex       *Exchanger
}

func newExchangerFixture(t *testing.T) *exchangerFixture {
	t.Helper()
	p := newProviderStub(t)
	store, _ := newCredentialStore(t)
	f := &exchangerFixture{
		provider: p,
		store:    store,
		backfill: &recordingBackfill{},
		clock:    &fakeClock{t: time.Now()},
	}
	f.ex = f.build(store)
	return f
}

func (f *exchangerFixture) build(store credentials.Store) *Exchanger {
	return NewExchanger(ExchangerConfig{
		OAuth:    f.provider.oauthConfig(),
		States:   NewStateSigner([]byte("secret"), WithStateClock(f.clock.Now)),
		Store:    store,
		Profiles: whoop.NewClient(f.provider.URL),
		Backfill: f.backfill,
		Now:      f.clock.Now,
	})
}

func TestBeginAuthorization(t *testing.T) {
	f := newExchangerFixture(t)
	authURL, state, err := f.ex.BeginAuthorization()
	require.NoError(t, err)

	u, err := url.Parse(authURL)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, state, q.Get("state"))
	assert.Equal(t, "cid", q.Get("client_id"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "http://localhost:3000/api/auth/whoop/callback", q.Get("redirect_uri"))
}

func TestHandleCallbackSuccess(t *testing.T) {
	f := newExchangerFixture(t)
	_, state, err := f.ex.BeginAuthorization()
	require.NoError(t, err)

	out, err := f.ex.HandleCallback(context.Background(), CallbackParams{
		Code:        "the-code",
		State:       state,
		StateCookie: state,
	})
	require.NoError(t, err)
	assert.Equal(t, PhaseBackfillTriggered, out.Phase)
	require.NotNil(t, out.Record)
	assert.Equal(t, "10129", out.Record.UserID)

	assert.Equal(t, "authorization_code", f.provider.form("grant_type"))
	assert.Equal(t, "the-code", f.provider.form("code"))
	assert.Equal(t, "http://localhost:3000/api/auth/whoop/callback", f.provider.form("redirect_uri"))

	stored := mustGet(t, f.store, "10129")
	assert.Equal(t, "at-new", stored.AccessToken)
	assert.Equal(t, "rt-new", stored.RefreshToken)
	assert.Equal(t, f.clock.t.UnixMilli(), stored.CreatedAt)

	f.ex.Wait()
	require.Equal(t, []string{"10129"}, f.backfill.calls)
	w := f.backfill.wins[0]
	assert.Equal(t, 90*24*time.Hour, w.End.Sub(w.Start))
}

func TestHandleCallbackRejections(t *testing.T) {
	f := newExchangerFixture(t)
	_, good, err := f.ex.BeginAuthorization()
	require.NoError(t, err)
	_, other, err := f.ex.BeginAuthorization()
	require.NoError(t, err)

	tests := []struct {
		name   string
		params CallbackParams
		want   RejectCode
	}{
		{
			name:   "provider error wins over everything",
			params: CallbackParams{Error: "access_denied", Code: "c", State: good, StateCookie: good},
			want:   RejectProviderError,
		},
		{
			name:   "missing code",
			params: CallbackParams{State: good, StateCookie: good},
			want:   RejectMissingParams,
		},
		{
			name:   "missing state",
			params: CallbackParams{Code: "c", StateCookie: good},
			want:   RejectMissingParams,
		},
		{
			name:   "missing cookie",
			params: CallbackParams{Code: "c", State: good},
			want:   RejectStateMismatch,
		},
		{
			name:   "cookie differs",
			params: CallbackParams{Code: "c", State: good, StateCookie: other},
			want:   RejectStateMismatch,
		},
		{
			name:   "forged state",
			params: CallbackParams{Code: "c", State: "forged", StateCookie: "forged"},
			want:   RejectInvalidState,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := f.ex.HandleCallback(context.Background(), tt.params)
			require.Error(t, err)
			assert.Equal(t, PhaseRejected, out.Phase)
			assert.Equal(t, tt.want, out.Reject)
		})
	}
	assert.Equal(t, int32(0), f.provider.tokenCalls.Load())
}

func TestHandleCallbackReplayedStateIsRejected(t *testing.T) {
	f := newExchangerFixture(t)
	_, state, err := f.ex.BeginAuthorization()
	require.NoError(t, err)

	f.clock.Advance(11 * time.Minute)
	out, err := f.ex.HandleCallback(context.Background(), CallbackParams{Code: "c", State: state, StateCookie: state})
	require.Error(t, err)
	assert.Equal(t, RejectInvalidState, out.Reject)
	assert.Equal(t, int32(0), f.provider.tokenCalls.Load())
}

func TestHandleCallbackExchangeFailure(t *testing.T) {
	f := newExchangerFixture(t)
	f.provider.tokenCode = 400
	f.provider.tokenBody = `{"error":"invalid_grant"}`
	_, state, err := f.ex.BeginAuthorization()
	require.NoError(t, err)

	out, err := f.ex.HandleCallback(context.Background(), CallbackParams{Code: "c", State: state, StateCookie: state})
	require.Error(t, err)
	assert.Equal(t, RejectExchangeFailed, out.Reject)
	assert.True(t, qerr.IsCode(err, qerr.CodeExchangeFailed))
	f.ex.Wait()
	assert.Empty(t, f.backfill.calls)
}

func TestHandleCallbackStoreFailure(t *testing.T) {
	f := newExchangerFixture(t)
	ex := f.build(failingStore{f.store})
	_, state, err := ex.BeginAuthorization()
	require.NoError(t, err)

	out, err := ex.HandleCallback(context.Background(), CallbackParams{Code: "c", State: state, StateCookie: state})
	require.Error(t, err)
	assert.Equal(t, RejectStoreFailed, out.Reject)
	ex.Wait()
	assert.Empty(t, f.backfill.calls)
}

func TestBackfillDoesNotAffectCallback(t *testing.T) {
	f := newExchangerFixture(t)
	f.backfill.err = errors.New("provider down")
	f.backfill.block = make(chan struct{})
	_, state, err := f.ex.BeginAuthorization()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	out, err := f.ex.HandleCallback(ctx, CallbackParams{Code: "c", State: state, StateCookie: state})
	cancel()
	require.NoError(t, err)
	assert.Equal(t, PhaseBackfillTriggered, out.Phase)

	// The request context is gone but the backfill still runs to completion.
	close(f.backfill.block)
	f.ex.Wait()
	assert.Equal(t, []string{"10129"}, f.backfill.calls)
}
