package whoop

import (
	"golang.org/x/oauth2"
)

// Provider is the key used in record ids and secret namespaces.
const Provider = "whoop"

// Endpoint is WHOOP's OAuth 2.0 endpoint. WHOOP expects client credentials
// in the request body.
var Endpoint = oauth2.Endpoint{
	AuthURL:   "https://api.prod.whoop.com/oauth/oauth2/auth",
	TokenURL:  "https://api.prod.whoop.com/oauth/oauth2/token",
	AuthStyle: oauth2.AuthStyleInParams,
}

// Scopes needed by the sync pipeline. "offline" is what makes WHOOP issue a
// refresh token.
var Scopes = []string{
	"offline",
	"read:profile",
	"read:cycles",
	"read:recovery",
	"read:sleep",
	"read:workout",
}

// OAuthConfig builds the oauth2 config for WHOOP. redirectURL must be the
// exact URL presented during authorization; WHOOP rejects mismatches at the
// token endpoint.
func OAuthConfig(clientID, clientSecret, redirectURL string, endpoint oauth2.Endpoint) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       Scopes,
		Endpoint:     endpoint,
	}
}
