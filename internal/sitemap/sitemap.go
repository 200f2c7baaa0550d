// Package sitemap builds the dictionary sitemap from the backend's slug
// listing and renders it as sitemaps.org XML.
package sitemap

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ziadkadry99/jisho/internal/dictionary"
	"github.com/ziadkadry99/jisho/internal/logging"
)

// DefaultRevalidate is how long a fetched slug list is served before the
// next build refetches it.
const DefaultRevalidate = time.Hour

// Change frequencies used in the sitemap.
const (
	Daily  = "daily"
	Weekly = "weekly"
)

// URL is one sitemap entry.
type URL struct {
	Loc             string
	LastModified    string
	ChangeFrequency string
	Priority        float64
}

// SlugSource lists every dictionary slug.
type SlugSource interface {
	SitemapSlugs(ctx context.Context) ([]dictionary.SitemapSlug, error)
}

// Builder produces the sitemap, caching the slug listing between
// revalidations.
type Builder struct {
	source     SlugSource
	siteURL    string
	revalidate time.Duration
	logger     *zap.Logger
	now        func() time.Time

	mu        sync.Mutex
	slugs     []dictionary.SitemapSlug
	fetchedAt time.Time
}

// Option configures a Builder.
type Option func(*Builder)

// WithRevalidate sets the cache lifetime of the slug listing.
func WithRevalidate(d time.Duration) Option {
	return func(b *Builder) {
		if d > 0 {
			b.revalidate = d
		}
	}
}

// WithLogger sets the logger used for fetch failures.
func WithLogger(l *zap.Logger) Option {
	return func(b *Builder) { b.logger = logging.OrNop(l) }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) { b.now = now }
}

// NewBuilder creates a Builder that links to pages under siteURL.
func NewBuilder(source SlugSource, siteURL string, opts ...Option) *Builder {
	b := &Builder{
		source:     source,
		siteURL:    strings.TrimRight(siteURL, "/"),
		revalidate: DefaultRevalidate,
		logger:     zap.NewNop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build returns the static dictionary root followed by one entry per slug
// in backend order. A failed fetch yields only the root.
func (b *Builder) Build(ctx context.Context) []URL {
	now := b.now()
	urls := []URL{{
		Loc:             b.siteURL + "/dictionary",
		LastModified:    now.UTC().Format(time.RFC3339),
		ChangeFrequency: Daily,
		Priority:        1.0,
	}}

	for _, s := range b.slugList(ctx, now) {
		urls = append(urls, URL{
			Loc:             b.siteURL + "/dictionary/" + s.Slug,
			LastModified:    s.UpdatedAt,
			ChangeFrequency: Weekly,
			Priority:        0.8,
		})
	}
	return urls
}

func (b *Builder) slugList(ctx context.Context, now time.Time) []dictionary.SitemapSlug {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.slugs != nil && now.Sub(b.fetchedAt) < b.revalidate {
		return b.slugs
	}

	slugs, err := b.source.SitemapSlugs(ctx)
	if err != nil {
		b.logger.Warn("fetching sitemap slugs", zap.Error(err))
		return nil
	}
	if slugs == nil {
		slugs = []dictionary.SitemapSlug{}
	}
	b.slugs = slugs
	b.fetchedAt = now
	return slugs
}

type urlset struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []xmlURL `xml:"url"`
}

type xmlURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority"`
}

// WriteXML renders urls as a sitemaps.org urlset.
func WriteXML(w io.Writer, urls []URL) error {
	set := urlset{Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	for _, u := range urls {
		set.URLs = append(set.URLs, xmlURL{
			Loc:        u.Loc,
			LastMod:    u.LastModified,
			ChangeFreq: u.ChangeFrequency,
			Priority:   fmt.Sprintf("%.1f", u.Priority),
		})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		return fmt.Errorf("encoding sitemap: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}
