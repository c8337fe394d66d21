package qauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/quatton/vitalsync/pkg/credentials"
	"github.com/quatton/vitalsync/pkg/qerr"
	"github.com/quatton/vitalsync/pkg/qlog"
	"golang.org/x/oauth2"
)

// RefreshSkew is how long before expiry a token is already treated as stale.
const RefreshSkew = 5 * time.Minute

// Refresher hands out usable access tokens, refreshing and persisting them
// when they are close to expiry.
type Refresher struct {
	oauth  *oauth2.Config
	store  credentials.Store
	http   *http.Client
	logger *qlog.Logger
	now    func() time.Time
}

type RefresherOption func(*Refresher)

func WithRefreshHTTPClient(hc *http.Client) RefresherOption {
	return func(r *Refresher) { r.http = hc }
}

func WithRefreshClock(now func() time.Time) RefresherOption {
	return func(r *Refresher) { r.now = now }
}

func WithRefreshLogger(l *qlog.Logger) RefresherOption {
	return func(r *Refresher) { r.logger = l }
}

func NewRefresher(oauth *oauth2.Config, store credentials.Store, opts ...RefresherOption) *Refresher {
	r := &Refresher{
		oauth:  oauth,
		store:  store,
		logger: qlog.NewDiscard(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NeedsRefresh reports whether rec expires within RefreshSkew of now.
func NeedsRefresh(rec *credentials.TokenRecord, now time.Time) bool {
	return !now.Add(RefreshSkew).Before(rec.Expiry())
}

// RefreshIfNeeded returns an access token for userID that is valid for at
// least RefreshSkew. rec is the caller's current record and is not modified.
func (r *Refresher) RefreshIfNeeded(ctx context.Context, userID string, rec *credentials.TokenRecord) (string, error) {
	now := r.now()
	if !NeedsRefresh(rec, now) {
		return rec.AccessToken, nil
	}
	if rec.RefreshToken == "" {
		return "", qerr.Newf(qerr.CodeRefreshFailed, "user %s has no refresh token", userID)
	}

	if r.http != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, r.http)
	}
	// Only the refresh token is set, so the source always hits the endpoint.
	src := r.oauth.TokenSource(ctx, &oauth2.Token{RefreshToken: rec.RefreshToken})
	tok, err := src.Token()
	if err != nil {
		if IsPermanentRefreshError(err) {
			r.logger.Error("refresh token rejected, user must reconnect", "user", userID, "error", err)
		} else {
			r.logger.Warn("token refresh failed", "user", userID, "error", err)
		}
		return "", qerr.New(qerr.CodeRefreshFailed, err)
	}

	next := *rec
	next.AccessToken = tok.AccessToken
	if tok.RefreshToken != "" {
		next.RefreshToken = tok.RefreshToken
	}
	if exp := tok.Expiry.UnixMilli(); !tok.Expiry.IsZero() && exp > next.ExpiresAt {
		next.ExpiresAt = exp
	}
	next.UpdatedAt = now.UnixMilli()

	if err := r.store.Put(ctx, userID, &next); err != nil {
		return "", fmt.Errorf("persist refreshed token: %w", err)
	}
	r.logger.Debug("token refreshed", "user", userID, "expires_at", next.Expiry().UTC().Format(time.RFC3339))
	return next.AccessToken, nil
}

// IsPermanentRefreshError reports whether err means the grant is gone and
// retrying with the same refresh token cannot succeed.
func IsPermanentRefreshError(err error) bool {
	if err == nil {
		return false
	}
	var re *oauth2.RetrieveError
	if errors.As(err, &re) {
		switch re.ErrorCode {
		case "invalid_grant", "invalid_client", "unauthorized_client":
			return true
		}
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"invalid_grant", "invalid_client", "unauthorized_client", "revoked"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
