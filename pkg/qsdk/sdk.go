package qsdk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/quatton/vitalsync/pkg/client"
	"github.com/quatton/vitalsync/pkg/qapi"
)

// Sdk is a small wrapper around the generated API client with the API key
// baked in, so CLI commands don't wire keyring + client + headers themselves.
type Sdk struct {
	Client  *client.ClientWithResponses
	BaseURL string
	APIKey  string
}

// StatusError is a non-2xx response from the server.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

func IsUnauthorized(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusUnauthorized
}

type SyncRequest struct {
	UserID    string
	StartDate string
	EndDate   string
}

// NewSdk builds a client from cfg. The API key comes from cfg first and the
// keyring second; a missing key is not an error since the server may not
// require one.
func NewSdk(cfg *Config) (*Sdk, error) {
	sdk := &Sdk{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
	}
	if sdk.APIKey == "" {
		key, err := LoadAPIKey(cfg.BaseURL)
		if err != nil && !errors.Is(err, ErrNoAPIKey) {
			return nil, fmt.Errorf("reading API key from keyring: %w", err)
		}
		sdk.APIKey = key
	}

	c, err := client.NewClientWithResponses(cfg.BaseURL,
		client.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		client.WithRequestEditorFn(sdk.apiKeyEditor),
	)
	if err != nil {
		return nil, err
	}
	sdk.Client = c
	return sdk, nil
}

func (s *Sdk) apiKeyEditor(_ context.Context, req *http.Request) error {
	if s.APIKey != "" {
		req.Header.Set(qapi.APIKeyHeader, s.APIKey)
	}
	return nil
}

// ConnectURL is where a user starts linking their WHOOP account.
func (s *Sdk) ConnectURL() string {
	return strings.TrimRight(s.BaseURL, "/") + "/api/auth/whoop/login"
}

// SyncUser triggers a manual sync. Failed syncs answer with the same body
// as successful ones, so it is returned alongside the error and the caller
// sees the server's error code.
func (s *Sdk) SyncUser(ctx context.Context, req SyncRequest) (*client.SyncUserBody, error) {
	resp, err := s.Client.SyncUserWithResponse(ctx, client.SyncUserJSONRequestBody{
		UserId:    optional(req.UserID),
		StartDate: optional(req.StartDate),
		EndDate:   optional(req.EndDate),
	})
	if err != nil {
		return nil, err
	}
	if resp.JSON200 != nil {
		return resp.JSON200, nil
	}

	se := statusError(resp.StatusCode(), resp.ApplicationproblemJSONDefault, resp.Body)
	var body client.SyncUserBody
	if json.Unmarshal(resp.Body, &body) == nil && body.Error != nil {
		se.Message = *body.Error
		return &body, se
	}
	return nil, se
}

func (s *Sdk) RunBatch(ctx context.Context) (*client.BatchSummary, error) {
	resp, err := s.Client.SyncBatchWithResponse(ctx)
	if err != nil {
		return nil, err
	}
	if resp.JSON200 != nil {
		return resp.JSON200, nil
	}
	problem := resp.ApplicationproblemJSONDefault
	switch {
	case resp.ApplicationproblemJSON409 != nil:
		problem = resp.ApplicationproblemJSON409
	case resp.ApplicationproblemJSON500 != nil:
		problem = resp.ApplicationproblemJSON500
	}
	return nil, statusError(resp.StatusCode(), problem, resp.Body)
}

func (s *Sdk) BatchStatus(ctx context.Context) (*client.Status, error) {
	resp, err := s.Client.SyncBatchStatusWithResponse(ctx)
	if err != nil {
		return nil, err
	}
	if resp.JSON200 != nil {
		return resp.JSON200, nil
	}
	return nil, statusError(resp.StatusCode(), resp.ApplicationproblemJSONDefault, resp.Body)
}

func (s *Sdk) Health(ctx context.Context) error {
	resp, err := s.Client.HealthCheckWithResponse(ctx)
	if err != nil {
		return err
	}
	if resp.JSON200 == nil {
		return statusError(resp.StatusCode(), resp.ApplicationproblemJSONDefault, resp.Body)
	}
	return nil
}

// statusError prefers the problem detail and falls back to the raw body.
func statusError(code int, problem *client.ErrorModel, raw []byte) *StatusError {
	se := &StatusError{StatusCode: code, Message: strings.TrimSpace(string(raw))}
	if problem != nil && problem.Detail != nil {
		se.Message = *problem.Detail
	}
	return se
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
