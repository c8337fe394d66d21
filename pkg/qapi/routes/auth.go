package routes

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/quatton/vitalsync/pkg/qapi/services"
	"github.com/quatton/vitalsync/pkg/qauth"
)

const (
	StateCookie        = "whoop_oauth_state"
	AccessTokenCookie  = "whoop_access_token"
	RefreshTokenCookie = "whoop_refresh_token"

	stateCookiePath      = "/api/auth/whoop"
	refreshCookieMaxAge  = 30 * 24 * time.Hour
	callbackInternalCode = "internal_error"
)

type LoginOutput struct {
	Status    int           `json:"-"`
	Location  string        `header:"Location" doc:"WHOOP authorize URL"`
	SetCookie []http.Cookie `header:"Set-Cookie"`
}

type CallbackInput struct {
	Code             string `query:"code" doc:"Authorization code from WHOOP"`
	State            string `query:"state" doc:"State issued by the login endpoint"`
	Error            string `query:"error" doc:"Error reported by WHOOP"`
	ErrorDescription string `query:"error_description" doc:"Error description reported by WHOOP"`
	StateCookie      string `cookie:"whoop_oauth_state"`
}

type CallbackOutput struct {
	Status    int           `json:"-"`
	Location  string        `header:"Location" doc:"Success or error page"`
	SetCookie []http.Cookie `header:"Set-Cookie"`
}

func RegisterAuth(api huma.API, svc services.Authorizer, redirects services.Redirects) {
	huma.Register(api, huma.Operation{
		OperationID: "whoop-login",
		Method:      http.MethodGet,
		Path:        "/api/auth/whoop/login",
		Summary:     "Connect a WHOOP account",
		Description: "Redirects to WHOOP's consent page and sets a short-lived state cookie",
		Tags:        []string{TagAuth.String()},
		Errors:      []int{http.StatusServiceUnavailable},
	}, func(ctx context.Context, input *struct{}) (*LoginOutput, error) {
		if svc == nil {
			return nil, huma.Error503ServiceUnavailable("WHOOP OAuth is not configured")
		}

		authURL, state, err := svc.BeginAuthorization()
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to start authorization", err)
		}

		return &LoginOutput{
			Status:   http.StatusFound,
			Location: authURL,
			SetCookie: []http.Cookie{{
				Name:     StateCookie,
				Value:    state,
				Path:     stateCookiePath,
				MaxAge:   int(qauth.StateMaxAge / time.Second),
				HttpOnly: true,
				Secure:   redirects.Secure,
				SameSite: http.SameSiteLaxMode,
			}},
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "whoop-callback",
		Method:      http.MethodGet,
		Path:        "/api/auth/whoop/callback",
		Summary:     "WHOOP OAuth callback",
		Description: "Exchanges the authorization code, stores the tokens and starts a history backfill",
		Tags:        []string{TagAuth.String()},
	}, func(ctx context.Context, input *CallbackInput) (*CallbackOutput, error) {
		out := &CallbackOutput{
			Status:    http.StatusFound,
			SetCookie: []http.Cookie{clearStateCookie(redirects.Secure)},
		}
		if svc == nil {
			out.Location = errorRedirect(redirects.ErrorURL, callbackInternalCode)
			return out, nil
		}

		outcome, err := svc.HandleCallback(ctx, qauth.CallbackParams{
			Code:             input.Code,
			State:            input.State,
			Error:            input.Error,
			ErrorDescription: input.ErrorDescription,
			StateCookie:      input.StateCookie,
		})
		if err != nil || outcome == nil || outcome.Record == nil {
			code := callbackInternalCode
			if outcome != nil && outcome.Reject != "" {
				code = string(outcome.Reject)
			}
			out.Location = errorRedirect(redirects.ErrorURL, code)
			return out, nil
		}

		rec := outcome.Record
		out.Location = successRedirect(redirects.SuccessURL, url.Values{
			"access_token":  {rec.AccessToken},
			"refresh_token": {rec.RefreshToken},
			"expires_at":    {strconv.FormatInt(rec.ExpiresAt, 10)},
			"user_id":       {rec.UserID},
		})
		out.SetCookie = append(out.SetCookie,
			http.Cookie{
				Name:     AccessTokenCookie,
				Value:    rec.AccessToken,
				Path:     "/",
				Expires:  time.UnixMilli(rec.ExpiresAt),
				HttpOnly: true,
				Secure:   redirects.Secure,
				SameSite: http.SameSiteLaxMode,
			},
			http.Cookie{
				Name:     RefreshTokenCookie,
				Value:    rec.RefreshToken,
				Path:     "/",
				MaxAge:   int(refreshCookieMaxAge / time.Second),
				HttpOnly: true,
				Secure:   redirects.Secure,
				SameSite: http.SameSiteLaxMode,
			},
		)
		return out, nil
	})
}

func clearStateCookie(secure bool) http.Cookie {
	return http.Cookie{
		Name:     StateCookie,
		Value:    "",
		Path:     stateCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// successRedirect puts the tokens in the fragment so they never reach a
// server log.
func successRedirect(base string, fragment url.Values) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Fragment = ""
	u.RawFragment = ""
	return u.String() + "#" + fragment.Encode()
}

func errorRedirect(base, code string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	q := u.Query()
	q.Set("error", code)
	u.RawQuery = q.Encode()
	return u.String()
}
