package cloudprint

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultBaseURL    = "https://www.google.com/cloudprint"
	searchEndpoint    = "/search"
	printerEndpoint   = "/printer"
	submitEndpoint    = "/submit"
	jobsEndpoint      = "/jobs"
	deleteJobEndpoint = "/deletejob"
	defaultTimeout    = 30 * time.Second
)

// HTTPDoer performs a single HTTP round trip. *http.Client satisfies it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client represents a Google Cloud Print API client.
//
// A Client is not safe for concurrent use: the access token is plain state
// without locking. Use one Client per goroutine or serialize access.
type Client struct {
	httpClient  HTTPDoer
	baseURL     string
	accessToken string
}

// Option is a function that configures the client.
type Option func(*Client)

// WithHTTPClient sets the transport used for every request.
func WithHTTPClient(httpClient HTTPDoer) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithBaseURL sets a custom base URL for the API.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithAccessToken sets the bearer token at construction time.
func WithAccessToken(token string) Option {
	return func(c *Client) {
		c.accessToken = token
	}
}

// New creates a new Cloud Print client.
func New(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    defaultBaseURL,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// SetAccessToken replaces the bearer token used for authenticated calls.
func (c *Client) SetAccessToken(token string) {
	c.accessToken = token
}

// GetAccessToken returns the current bearer token, or "" when unset.
func (c *Client) GetAccessToken() string {
	return c.accessToken
}

func (c *Client) requireAuth() error {
	if c.accessToken == "" {
		return ErrNotAuthenticated
	}
	return nil
}

// doRequest performs an authenticated HTTP request. For GET the params are
// sent as the query string, otherwise as a form-encoded body.
func (c *Client) doRequest(ctx context.Context, method, endpoint string, params url.Values) (*http.Response, error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}

	fullURL := c.baseURL + endpoint
	var reqBody io.Reader
	if method == http.MethodGet {
		if len(params) > 0 {
			fullURL += "?" + params.Encode()
		}
	} else if params != nil {
		reqBody = strings.NewReader(params.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	return c.send(req)
}

func (c *Client) send(req *http.Request) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: executing request: %w", ErrTransport, err)
	}
	return resp, nil
}

// parseResponse reads and parses the API response.
func parseResponse(resp *http.Response, v any) error {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("%w: request failed with status %d: %w", ErrTransport, resp.StatusCode, err)
		}
		return fmt.Errorf("%w: request failed with status %d: %s", ErrTransport, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if v != nil {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			return fmt.Errorf("%w: decoding response: %w", ErrMalformedResponse, err)
		}
	}

	return nil
}
