// Package backend talks to the dictionary backend over HTTP: entry lookup,
// search, sitemap listing and example generation.
package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"resty.dev/v3"

	"github.com/ziadkadry99/jisho/internal/dictionary"
	"github.com/ziadkadry99/jisho/internal/logging"
)

// ErrNotFound is returned when the backend has no record for a slug.
var ErrNotFound = errors.New("dictionary entry not found")

// ErrEmptyResponse is returned when a successful response carries a null body.
var ErrEmptyResponse = errors.New("backend returned an empty response")

// StatusError is returned for non-2xx backend responses.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend returned status %d: %s", e.Code, e.Body)
}

// decodeError marks a response body that was not the JSON we expected.
type decodeError struct {
	err error
}

func (e *decodeError) Error() string { return "decoding response: " + e.err.Error() }
func (e *decodeError) Unwrap() error { return e.err }

// Options tunes a Client.
type Options struct {
	Timeout time.Duration
	// SitemapAttempts is the number of tries for the sitemap listing.
	SitemapAttempts uint
	RetryDelay      time.Duration
	Logger          *zap.Logger
}

// Client is a dictionary backend client.
type Client struct {
	httpClient      *resty.Client
	sitemapAttempts uint
	retryDelay      time.Duration
	logger          *zap.Logger
}

// New creates a Client for the backend at origin (scheme included).
func New(origin string, opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.SitemapAttempts == 0 {
		opts.SitemapAttempts = 3
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 250 * time.Millisecond
	}

	client := resty.New()
	client.SetBaseURL(origin)
	client.SetTimeout(opts.Timeout)
	client.SetHeader("Accept", "application/json")

	return &Client{
		httpClient:      client,
		sitemapAttempts: opts.SitemapAttempts,
		retryDelay:      opts.RetryDelay,
		logger:          logging.OrNop(opts.Logger),
	}
}

// Close releases the underlying HTTP client.
func (c *Client) Close() error {
	return c.httpClient.Close()
}

// FetchEntry retrieves one entry by slug, bypassing any caches.
func (c *Client) FetchEntry(ctx context.Context, slug string) (*dictionary.Entry, error) {
	res, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Cache-Control", "no-cache").
		SetPathParam("slug", slug).
		Get("/api/dictionary/slug/{slug}")
	if err != nil {
		return nil, fmt.Errorf("fetching entry %q: %w", slug, err)
	}
	if res.StatusCode() == http.StatusNotFound {
		return nil, ErrNotFound
	}

	var entry *dictionary.Entry
	if err := decode(res, &entry); err != nil {
		return nil, fmt.Errorf("fetching entry %q: %w", slug, err)
	}
	if entry == nil {
		return nil, ErrNotFound
	}
	return entry, nil
}

// GetEntry is FetchEntry with every failure collapsed into absence. The
// cause is logged but never surfaced.
func (c *Client) GetEntry(ctx context.Context, slug string) (*dictionary.Entry, bool) {
	entry, err := c.FetchEntry(ctx, slug)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.logger.Debug("dictionary entry not found", zap.String("slug", slug))
		} else {
			c.logger.Warn("fetching dictionary entry", zap.String("slug", slug), zap.Error(err))
		}
		return nil, false
	}
	return entry, true
}

// Search returns the ranked candidates for query, in backend order.
func (c *Client) Search(ctx context.Context, query string) ([]dictionary.SearchResult, error) {
	res, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("q", query).
		Get("/api/dictionary/search")
	if err != nil {
		return nil, fmt.Errorf("searching %q: %w", query, err)
	}

	var results []dictionary.SearchResult
	if err := decode(res, &results); err != nil {
		return nil, fmt.Errorf("searching %q: %w", query, err)
	}
	if results == nil {
		results = []dictionary.SearchResult{}
	}
	return results, nil
}

// GenerateExample asks the backend for one new example sentence.
func (c *Client) GenerateExample(ctx context.Context, req dictionary.GenerateExampleRequest) (*dictionary.Example, error) {
	res, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post("/api/dictionary/generate-example")
	if err != nil {
		return nil, fmt.Errorf("generating example for sense %q: %w", req.SenseID, err)
	}

	var example *dictionary.Example
	if err := decode(res, &example); err != nil {
		return nil, fmt.Errorf("generating example for sense %q: %w", req.SenseID, err)
	}
	if example == nil {
		return nil, fmt.Errorf("generating example for sense %q: %w", req.SenseID, ErrEmptyResponse)
	}
	return example, nil
}

func decode(res *resty.Response, v any) error {
	if !res.IsSuccess() {
		return &StatusError{Code: res.StatusCode(), Body: truncate(res.String(), 200)}
	}
	if err := json.Unmarshal(res.Bytes(), v); err != nil {
		return &decodeError{err: err}
	}
	return nil
}

// truncate cuts s to at most n bytes on a rune boundary.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
