package qauth

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/quatton/vitalsync/pkg/credentials"
	"github.com/quatton/vitalsync/pkg/qerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestRefreshBoundary(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name        string
		expiresIn   time.Duration
		wantRefresh bool
	}{
		{name: "expires in 5m01s", expiresIn: 5*time.Minute + time.Second, wantRefresh: false},
		{name: "expires in 4m59s", expiresIn: 5*time.Minute - time.Second, wantRefresh: true},
		{name: "already expired", expiresIn: -time.Hour, wantRefresh: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newProviderStub(t)
			store, _ := newCredentialStore(t)
			rec := &credentials.TokenRecord{
				UserID:       "u1",
				AccessToken:  "at-old",
				RefreshToken: "rt-old",
				ExpiresAt:    now.Add(tt.expiresIn).UnixMilli(),
			}
			require.NoError(t, store.Put(context.Background(), "u1", rec))

			r := NewRefresher(p.oauthConfig(), store, WithRefreshClock(func() time.Time { return now }))
			got, err := r.RefreshIfNeeded(context.Background(), "u1", rec)
			require.NoError(t, err)

			if !tt.wantRefresh {
				assert.Equal(t, "at-old", got)
				assert.Equal(t, int32(0), p.tokenCalls.Load())
				return
			}
			assert.Equal(t, "at-new", got)
			assert.Equal(t, int32(1), p.tokenCalls.Load())
			assert.Equal(t, "refresh_token", p.form("grant_type"))
			assert.Equal(t, "rt-old", p.form("refresh_token"))

			stored := mustGet(t, store, "u1")
			assert.Equal(t, "at-new", stored.AccessToken)
			assert.Equal(t, "rt-new", stored.RefreshToken)
			assert.Greater(t, stored.ExpiresAt, rec.ExpiresAt)
			assert.Equal(t, "at-old", rec.AccessToken, "caller's record must not be mutated")
		})
	}
}

func TestRefreshKeepsRefreshTokenWhenOmitted(t *testing.T) {
	p := newProviderStub(t)
	p.tokenBody = `{"access_token":"at-new","token_type":"bearer","expires_in":3600}`
	store, _ := newCredentialStore(t)
	rec := &credentials.TokenRecord{UserID: "u1", AccessToken: "at-old", RefreshToken: "rt-old"}

	_, err := NewRefresher(p.oauthConfig(), store).RefreshIfNeeded(context.Background(), "u1", rec)
	require.NoError(t, err)
	assert.Equal(t, "rt-old", mustGet(t, store, "u1").RefreshToken)
}

func TestRefreshNeverMovesExpiryBackwards(t *testing.T) {
	p := newProviderStub(t)
	p.tokenBody = `{"access_token":"at-new","token_type":"bearer","expires_in":60}`
	store, _ := newCredentialStore(t)

	// Stale by the skew, but later than what the provider will hand back.
	now := time.Now()
	oldExpiry := now.Add(4 * time.Minute).UnixMilli()
	rec := &credentials.TokenRecord{UserID: "u1", AccessToken: "at-old", RefreshToken: "rt-old", ExpiresAt: oldExpiry}

	r := NewRefresher(p.oauthConfig(), store, WithRefreshClock(func() time.Time { return now }))
	_, err := r.RefreshIfNeeded(context.Background(), "u1", rec)
	require.NoError(t, err)
	assert.Equal(t, oldExpiry, mustGet(t, store, "u1").ExpiresAt)
}

func TestRefreshFailureIsCoded(t *testing.T) {
	p := newProviderStub(t)
	p.tokenCode = http.StatusBadRequest
	p.tokenBody = `{"error":"invalid_grant","error_description":"refresh token revoked"}`
	store, _ := newCredentialStore(t)
	rec := &credentials.TokenRecord{UserID: "u1", AccessToken: "at-old", RefreshToken: "rt-old"}
	require.NoError(t, store.Put(context.Background(), "u1", rec))

	_, err := NewRefresher(p.oauthConfig(), store).RefreshIfNeeded(context.Background(), "u1", rec)
	require.Error(t, err)
	assert.True(t, qerr.IsCode(err, qerr.CodeRefreshFailed))
	assert.True(t, IsPermanentRefreshError(err))
	assert.Equal(t, "at-old", mustGet(t, store, "u1").AccessToken)
}

func TestRefreshWithoutRefreshToken(t *testing.T) {
	p := newProviderStub(t)
	store, _ := newCredentialStore(t)
	rec := &credentials.TokenRecord{UserID: "u1", AccessToken: "at-old"}

	_, err := NewRefresher(p.oauthConfig(), store).RefreshIfNeeded(context.Background(), "u1", rec)
	assert.True(t, qerr.IsCode(err, qerr.CodeRefreshFailed))
	assert.Equal(t, int32(0), p.tokenCalls.Load())
}

func TestIsPermanentRefreshError(t *testing.T) {
	tests := []struct {
		err       error
		permanent bool
	}{
		{err: nil, permanent: false},
		{err: &oauth2.RetrieveError{ErrorCode: "invalid_grant"}, permanent: true},
		{err: errors.New("token has been expired or revoked"), permanent: true},
		{err: errors.New("dial tcp: i/o timeout"), permanent: false},
		{err: &oauth2.RetrieveError{ErrorCode: "temporarily_unavailable"}, permanent: false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.permanent, IsPermanentRefreshError(tt.err), "%v", tt.err)
	}
}
