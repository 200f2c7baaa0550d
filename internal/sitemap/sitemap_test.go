package sitemap

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ziadkadry99/jisho/internal/dictionary"
)

type fakeSource struct {
	slugs []dictionary.SitemapSlug
	err   error
	calls int
}

func (f *fakeSource) SitemapSlugs(ctx context.Context) ([]dictionary.SitemapSlug, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.slugs, nil
}

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func TestBuildStaticRootThenSlugs(t *testing.T) {
	src := &fakeSource{slugs: []dictionary.SitemapSlug{
		{Slug: "sensei", UpdatedAt: "2025-02-01T00:00:00.000Z"},
		{Slug: "ame", UpdatedAt: "2025-01-02T03:04:05.000Z"},
	}}
	b := NewBuilder(src, "https://www.chatjlpt.jp/", WithClock(func() time.Time { return fixedNow }))

	got := b.Build(t.Context())
	want := []URL{
		{Loc: "https://www.chatjlpt.jp/dictionary", LastModified: "2025-03-01T12:00:00Z", ChangeFrequency: Daily, Priority: 1.0},
		{Loc: "https://www.chatjlpt.jp/dictionary/sensei", LastModified: "2025-02-01T00:00:00.000Z", ChangeFrequency: Weekly, Priority: 0.8},
		{Loc: "https://www.chatjlpt.jp/dictionary/ame", LastModified: "2025-01-02T03:04:05.000Z", ChangeFrequency: Weekly, Priority: 0.8},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Build() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildFetchFailureYieldsOnlyRoot(t *testing.T) {
	src := &fakeSource{err: errors.New("backend down")}
	b := NewBuilder(src, "https://www.chatjlpt.jp", WithClock(func() time.Time { return fixedNow }))

	got := b.Build(t.Context())
	if len(got) != 1 {
		t.Fatalf("expected exactly the static root, got %d entries", len(got))
	}
	if got[0].Loc != "https://www.chatjlpt.jp/dictionary" {
		t.Errorf("unexpected root %q", got[0].Loc)
	}
}

func TestBuildEmptyListing(t *testing.T) {
	b := NewBuilder(&fakeSource{}, "https://www.chatjlpt.jp")
	if got := b.Build(t.Context()); len(got) != 1 {
		t.Errorf("expected only the static root, got %d entries", len(got))
	}
}

func TestBuildCachesUntilRevalidate(t *testing.T) {
	now := fixedNow
	src := &fakeSource{slugs: []dictionary.SitemapSlug{{Slug: "ame", UpdatedAt: "x"}}}
	b := NewBuilder(src, "https://www.chatjlpt.jp",
		WithRevalidate(time.Hour),
		WithClock(func() time.Time { return now }),
	)

	b.Build(t.Context())
	now = now.Add(59 * time.Minute)
	b.Build(t.Context())
	if src.calls != 1 {
		t.Fatalf("expected cached listing within the interval, got %d fetches", src.calls)
	}

	src.slugs = append(src.slugs, dictionary.SitemapSlug{Slug: "yuki", UpdatedAt: "y"})
	now = now.Add(2 * time.Minute)
	got := b.Build(t.Context())
	if src.calls != 2 {
		t.Fatalf("expected refetch after the interval, got %d fetches", src.calls)
	}
	if len(got) != 3 {
		t.Errorf("expected refreshed listing, got %d entries", len(got))
	}
}

func TestBuildFailureIsNotCached(t *testing.T) {
	src := &fakeSource{err: errors.New("timeout")}
	b := NewBuilder(src, "https://www.chatjlpt.jp")

	b.Build(t.Context())
	src.err = nil
	src.slugs = []dictionary.SitemapSlug{{Slug: "ame", UpdatedAt: "x"}}

	got := b.Build(t.Context())
	if src.calls != 2 {
		t.Errorf("expected a refetch after failure, got %d fetches", src.calls)
	}
	if len(got) != 2 {
		t.Errorf("expected root and one slug, got %d entries", len(got))
	}
}

func TestWriteXML(t *testing.T) {
	urls := []URL{
		{Loc: "https://www.chatjlpt.jp/dictionary", LastModified: "2025-03-01T12:00:00Z", ChangeFrequency: Daily, Priority: 1.0},
		{Loc: "https://www.chatjlpt.jp/dictionary/ame", LastModified: "2025-01-02T03:04:05.000Z", ChangeFrequency: Weekly, Priority: 0.8},
	}

	var buf bytes.Buffer
	if err := WriteXML(&buf, urls); err != nil {
		t.Fatalf("WriteXML: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		`<?xml version="1.0" encoding="UTF-8"?>`,
		`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`,
		`<loc>https://www.chatjlpt.jp/dictionary</loc>`,
		`<changefreq>daily</changefreq>`,
		`<priority>1.0</priority>`,
		`<lastmod>2025-01-02T03:04:05.000Z</lastmod>`,
		`<priority>0.8</priority>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %s\n%s", want, out)
		}
	}
	if strings.Index(out, "/dictionary</loc>") > strings.Index(out, "/dictionary/ame</loc>") {
		t.Error("expected the static root before slug entries")
	}
}
