// Package fetch retrieves documents over HTTP.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"voteinfo/internal/logging"
)

// DefaultUserAgent is sent when no other user agent is configured.
const DefaultUserAgent = "voteinfo/1.0"

// DefaultMaxBodySize caps how much of a response is read. Full cantonal
// documents with commune detail stay well below this.
const DefaultMaxBodySize = 64 << 20

// ErrTooLarge is returned when a response body exceeds the configured size.
var ErrTooLarge = errors.New("response body too large")

// Fetcher retrieves the document at url.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, url string) ([]byte, error)

func (f FetcherFunc) Fetch(ctx context.Context, url string) ([]byte, error) {
	return f(ctx, url)
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("fetch %s: HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: HTTP %d: %s", e.URL, e.StatusCode, e.Body)
}

// HTTPFetcher is a Fetcher backed by net/http.
type HTTPFetcher struct {
	httpClient  *http.Client
	userAgent   string
	maxBodySize int64
	logger      *slog.Logger
}

// Option configures the HTTPFetcher during construction.
type Option func(*config) error

type config struct {
	httpClient  *http.Client
	logger      *slog.Logger
	timeout     time.Duration
	userAgent   string
	maxBodySize int64
}

// New creates an HTTPFetcher.
func New(opts ...Option) (*HTTPFetcher, error) {
	cfg := &config{}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	httpClient := &http.Client{}
	if cfg.httpClient != nil {
		// the caller's client is left untouched
		c := *cfg.httpClient
		httpClient = &c
	}
	if cfg.timeout > 0 {
		httpClient.Timeout = cfg.timeout
	}

	maxBodySize := cfg.maxBodySize
	if maxBodySize == 0 {
		maxBodySize = DefaultMaxBodySize
	}

	logger := cfg.logger
	if logger == nil {
		logger = logging.Discard()
	}

	userAgent := cfg.userAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return &HTTPFetcher{
		httpClient:  httpClient,
		userAgent:   userAgent,
		maxBodySize: maxBodySize,
		logger:      logger,
	}, nil
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cfg *config) error {
		cfg.httpClient = c
		return nil
	}
}

// WithLogger configures structured logging.
func WithLogger(l *slog.Logger) Option {
	return func(cfg *config) error {
		cfg.logger = l
		return nil
	}
}

// WithTimeout sets a timeout on the HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(cfg *config) error {
		if d < 0 {
			return fmt.Errorf("fetch: negative timeout %s", d)
		}
		cfg.timeout = d
		return nil
	}
}

// WithMaxBodySize limits the size of accepted response bodies.
func WithMaxBodySize(n int64) Option {
	return func(cfg *config) error {
		if n <= 0 {
			return fmt.Errorf("fetch: invalid max body size %d", n)
		}
		cfg.maxBodySize = n
		return nil
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(cfg *config) error {
		cfg.userAgent = ua
		return nil
	}
}

// Fetch issues a GET request and returns the response body.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: create request: %w", url, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	f.logger.DebugContext(ctx, "fetching document", "url", url)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		f.logger.WarnContext(ctx, "unexpected status", "url", url, "status", resp.StatusCode)
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode, Body: string(body)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("fetch %s: read body: %w", url, err)
	}
	if int64(len(body)) > f.maxBodySize {
		f.logger.WarnContext(ctx, "response body too large", "url", url, "limit", f.maxBodySize)
		return nil, fmt.Errorf("fetch %s: %w: more than %d bytes", url, ErrTooLarge, f.maxBodySize)
	}

	f.logger.DebugContext(ctx, "fetched document",
		"url", url, "bytes", len(body), "elapsed", time.Since(start))
	return body, nil
}
