// Package credentials stores per-user OAuth credentials for the fitness
// provider and enumerates the users that have connected an account.
package credentials

import (
	"time"
)

const (
	// TokenNamespace prefixes every per-user credential key.
	TokenNamespace = "tokens/"
	// IntegrationNamespace prefixes client-level integration credentials.
	IntegrationNamespace = "integrations/"
)

// TokenRecord is the persisted OAuth credential set for one user.
// Timestamps are epoch milliseconds.
type TokenRecord struct {
	UserID       string `json:"userId"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresAt    int64  `json:"expiresAt"`
	CreatedAt    int64  `json:"createdAt"`
	UpdatedAt    int64  `json:"updatedAt"`
}

// Expiry returns ExpiresAt as a time.Time.
func (r *TokenRecord) Expiry() time.Time {
	return time.UnixMilli(r.ExpiresAt)
}

// ClientCredentials are the application's own OAuth client id and secret.
type ClientCredentials struct {
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
}

// TokenKey returns the store key for a user's credentials.
func TokenKey(userID string) string {
	return TokenNamespace + userID
}

// IntegrationKey returns the store key for a provider's client credentials.
func IntegrationKey(provider string) string {
	return IntegrationNamespace + provider
}
