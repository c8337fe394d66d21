package whoop

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/oauth2"
)

const (
	DefaultBaseURL = "https://api.prod.whoop.com/developer"

	// PageLimit is the largest page WHOOP serves.
	PageLimit = 25
	// DefaultMaxPages bounds a single stream walk.
	DefaultMaxPages = 200
	DefaultTimeout  = 30 * time.Second
)

const (
	pathCycles     = "/v2/cycle"
	pathRecoveries = "/v2/recovery"
	pathSleeps     = "/v2/activity/sleep"
	pathWorkouts   = "/v2/activity/workout"
	pathProfile    = "/v2/user/profile/basic"
)

// Window is a closed time range used to filter collection endpoints.
type Window struct {
	Start time.Time
	End   time.Time
}

// APIError is returned for any non-2xx response.
type APIError struct {
	StatusCode int
	Path       string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("whoop %s: status %d: %s", e.Path, e.StatusCode, e.Body)
}

// Client reads WHOOP collections on behalf of a single access token per call.
// It is safe for concurrent use.
type Client struct {
	baseURL  string
	http     *http.Client
	timeout  time.Duration
	maxPages int
}

type ClientOption func(*Client)

func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.timeout = d }
}

func WithMaxPages(n int) ClientOption {
	return func(c *Client) { c.maxPages = n }
}

func NewClient(baseURL string, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:  baseURL,
		http:     http.DefaultClient,
		timeout:  DefaultTimeout,
		maxPages: DefaultMaxPages,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) ListCycles(ctx context.Context, accessToken string, w Window) ([]Cycle, error) {
	return listAll[Cycle](ctx, c, accessToken, pathCycles, w)
}

func (c *Client) ListRecoveries(ctx context.Context, accessToken string, w Window) ([]Recovery, error) {
	return listAll[Recovery](ctx, c, accessToken, pathRecoveries, w)
}

func (c *Client) ListSleeps(ctx context.Context, accessToken string, w Window) ([]Sleep, error) {
	return listAll[Sleep](ctx, c, accessToken, pathSleeps, w)
}

func (c *Client) ListWorkouts(ctx context.Context, accessToken string, w Window) ([]Workout, error) {
	return listAll[Workout](ctx, c, accessToken, pathWorkouts, w)
}

// GetProfile returns the profile of the member owning accessToken.
func (c *Client) GetProfile(ctx context.Context, accessToken string) (*Profile, error) {
	var p Profile
	if err := c.getJSON(ctx, accessToken, pathProfile, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func listAll[T any](ctx context.Context, c *Client, accessToken, path string, w Window) ([]T, error) {
	var out []T
	next := ""
	for n := 0; n < c.maxPages; n++ {
		q := url.Values{}
		q.Set("limit", strconv.Itoa(PageLimit))
		if !w.Start.IsZero() {
			q.Set("start", w.Start.UTC().Format(time.RFC3339))
		}
		if !w.End.IsZero() {
			q.Set("end", w.End.UTC().Format(time.RFC3339))
		}
		if next != "" {
			q.Set("nextToken", next)
		}

		var pg page[T]
		if err := c.getJSON(ctx, accessToken, path, q, &pg); err != nil {
			return nil, err
		}
		out = append(out, pg.Records...)
		if pg.NextToken == "" {
			return out, nil
		}
		next = pg.NextToken
	}
	return out, fmt.Errorf("whoop %s: more than %d pages", path, c.maxPages)
}

func (c *Client) getJSON(ctx context.Context, accessToken, path string, q url.Values, v any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.bearer(ctx, accessToken).Do(req)
	if err != nil {
		return fmt.Errorf("whoop %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &APIError{StatusCode: resp.StatusCode, Path: path, Body: string(body)}
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("whoop %s: failed to decode response: %w", path, err)
	}
	return nil
}

// bearer wraps the base client with a static token source so the
// Authorization header is set the same way the oauth2 package does it.
func (c *Client) bearer(ctx context.Context, accessToken string) *http.Client {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http)
	return oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}))
}
