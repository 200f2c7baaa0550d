package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/avast/retry-go"
	"go.uber.org/zap"

	"github.com/ziadkadry99/jisho/internal/dictionary"
)

// SitemapSlugs lists every entry slug with its last update time. Server
// errors and transport failures are retried; other failures are returned
// immediately.
func (c *Client) SitemapSlugs(ctx context.Context) ([]dictionary.SitemapSlug, error) {
	var slugs []dictionary.SitemapSlug
	err := retry.Do(
		func() error {
			got, err := c.sitemapSlugs(ctx)
			if err != nil {
				if !isRetryable(err) {
					return retry.Unrecoverable(err)
				}
				return err
			}
			slugs = got
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.sitemapAttempts),
		retry.Delay(c.retryDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Info("retrying sitemap slug fetch", zap.Uint("attempt", n+1), zap.Error(err))
		}),
	)
	if err != nil {
		return nil, err
	}
	return slugs, nil
}

func (c *Client) sitemapSlugs(ctx context.Context) ([]dictionary.SitemapSlug, error) {
	res, err := c.httpClient.R().
		SetContext(ctx).
		Get("/api/dictionary/sitemap-slugs")
	if err != nil {
		return nil, fmt.Errorf("fetching sitemap slugs: %w", err)
	}

	var slugs []dictionary.SitemapSlug
	if err := decode(res, &slugs); err != nil {
		return nil, fmt.Errorf("fetching sitemap slugs: %w", err)
	}
	return slugs, nil
}

// isRetryable reports whether a failed call is worth another attempt:
// 5xx and 429 responses, and transport errors.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code >= http.StatusInternalServerError || statusErr.Code == http.StatusTooManyRequests
	}

	var decErr *decodeError
	return !errors.As(err, &decErr)
}
