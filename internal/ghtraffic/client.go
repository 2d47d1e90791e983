// Package ghtraffic calls the GitHub repository traffic API.
//
// The client returns response bodies verbatim: the store appends the exact
// blob the API produced, so reconstruction always works from untouched
// upstream data.
package ghtraffic

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

// DefaultBaseURL is the public GitHub API endpoint.
const DefaultBaseURL = "https://api.github.com"

// Client fetches traffic counters for repositories.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL (used by tests and GitHub
// Enterprise installs).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithTimeout sets the request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithToken sets the bearer token explicitly instead of reading it from the
// environment.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// NewClient builds a Client. When no explicit token is given, the named
// environment variable is consulted after loading .env if one is present in
// the working directory. The traffic endpoints require push access, so an
// empty token is an error.
func NewClient(tokenEnv string, opts ...Option) (*Client, error) {
	c := &Client{
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.token == "" {
		if err := godotenv.Load(); err == nil {
			log.Debug("loaded credentials from .env")
		}
		c.token = os.Getenv(tokenEnv)
	}
	if c.token == "" {
		return nil, fmt.Errorf("no API token: set %s or pass one explicitly", tokenEnv)
	}

	return c, nil
}

// FetchViews retrieves the 14-day rolling views window for owner/name and
// returns the raw response body.
func (c *Client) FetchViews(ctx context.Context, owner, name string) ([]byte, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/traffic/views", c.baseURL, owner, name)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s/%s: %w", owner, name, err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch views for %s/%s: %w", owner, name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read views response for %s/%s: %w", owner, name, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch views for %s/%s: HTTP %d: %s",
			owner, name, resp.StatusCode, firstLine(body))
	}
	if !gjson.ValidBytes(body) || !gjson.GetBytes(body, "views").Exists() {
		return nil, fmt.Errorf("fetch views for %s/%s: response has no views list", owner, name)
	}

	return body, nil
}

// firstLine trims an error body down to something loggable.
func firstLine(body []byte) string {
	if msg := gjson.GetBytes(body, "message"); msg.Exists() {
		return msg.String()
	}
	if len(body) > 120 {
		body = body[:120]
	}
	return string(body)
}
