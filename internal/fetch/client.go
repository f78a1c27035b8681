// SPDX-License-Identifier: MPL-2.0

package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultUserAgent is sent when no user agent is configured.
const DefaultUserAgent = "mcl/dev"

// ErrNetwork indicates a transport failure or a non-200 response.
var ErrNetwork = errors.New("network request failed")

type (
	// Result reports what FetchAndCache did for a single file.
	Result int

	// Clock supplies the current time for cache freshness checks.
	Clock interface {
		Now() time.Time
	}

	// StatusError describes a response whose status code was not 200.
	// It wraps ErrNetwork.
	StatusError struct {
		URL        string
		StatusCode int
	}

	// Client downloads files and JSON documents into the on-disk cache.
	// A Client is safe for concurrent use by multiple goroutines.
	Client struct {
		httpClient *http.Client
		userAgent  string
		clock      Clock
		logger     *log.Logger
	}

	// ClientOption configures a Client during construction.
	ClientOption func(*Client)

	systemClock struct{}
)

const (
	// Downloaded means the file was fetched and written.
	Downloaded Result = iota + 1
	// Skipped means no network request was made.
	Skipped
)

// String returns "downloaded" or "skipped".
func (r Result) String() string {
	switch r {
	case Downloaded:
		return "downloaded"
	case Skipped:
		return "skipped"
	default:
		return fmt.Sprintf("Result(%d)", int(r))
	}
}

// Error formats the failing URL and status.
func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.StatusCode)
}

// Unwrap returns ErrNetwork so callers can use errors.Is.
func (e *StatusError) Unwrap() error { return ErrNetwork }

func (systemClock) Now() time.Time { return time.Now() }

// WithHTTPClient sets a custom HTTP client, useful for tests, proxies or timeouts.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) ClientOption {
	return func(cl *Client) {
		if ua != "" {
			cl.userAgent = ua
		}
	}
}

// WithClock overrides the clock used to judge cache freshness.
func WithClock(c Clock) ClientOption {
	return func(cl *Client) {
		cl.clock = c
	}
}

// WithLogger sets the logger for cache and download events.
func WithLogger(l *log.Logger) ClientOption {
	return func(cl *Client) {
		cl.logger = l
	}
}

// NewClient creates a Client with sensible defaults: http.DefaultClient (no
// per-request timeout), the system clock and a discarding logger.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		userAgent:  DefaultUserAgent,
		clock:      systemClock{},
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Logger returns the client's logger.
func (c *Client) Logger() *log.Logger { return c.logger }

// FetchAndCache makes sure the content at url is present at path.
//
// When skip is true nothing is done. When path already holds bytes that
// verify against a supplied hash, no request is made. Otherwise the body is
// fetched, verified against hash, and written atomically. A hash mismatch on
// the response leaves path untouched and returns a *HashMismatchError.
func (c *Client) FetchAndCache(ctx context.Context, rawURL, path string, hash Hash, skip bool) (Result, error) {
	if skip {
		return Skipped, nil
	}

	if hash.IsSet() {
		if cached, err := os.ReadFile(path); err == nil && hash.Verify(cached) {
			c.logger.Debug("cache hit", "path", path)
			return Skipped, nil
		}
	}

	data, err := c.get(ctx, rawURL)
	if err != nil {
		return 0, err
	}

	if !hash.Verify(data) {
		return 0, mismatch(rawURL, hash, data)
	}

	if err := WriteAtomic(path, data); err != nil {
		return 0, err
	}

	c.logger.Info("downloaded", "url", redactURL(rawURL), "bytes", len(data))
	return Downloaded, nil
}

// get performs a GET request and returns the full body of a 200 response.
// Both transport failures and other statuses wrap ErrNetwork.
func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request for %s: %w", redactURL(rawURL), err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("GET %s: %w", redactURL(rawURL), ctxErr)
		}
		return nil, fmt.Errorf("%w: GET %s: %w", ErrNetwork, redactURL(rawURL), err)
	}
	defer func() { _ = resp.Body.Close() }() // read-only response body

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: redactURL(rawURL), StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body of %s: %w", ErrNetwork, redactURL(rawURL), err)
	}
	return data, nil
}

// redactURL strips query parameters and fragments that may contain tokens.
func redactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "<invalid-url>"
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}
