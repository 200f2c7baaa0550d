// Package web serves the dictionary pages, the example generator fragment,
// the sitemap and the websocket sessions behind the search box and the
// recent-searches panel.
package web

import (
	"context"
	"embed"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ziadkadry99/jisho/internal/autocomplete"
	"github.com/ziadkadry99/jisho/internal/dictionary"
	"github.com/ziadkadry99/jisho/internal/examples"
	"github.com/ziadkadry99/jisho/internal/logging"
	"github.com/ziadkadry99/jisho/internal/recent"
	"github.com/ziadkadry99/jisho/internal/sitemap"
)

//go:embed static
var staticFiles embed.FS

// DefaultPageTimeout bounds page and fragment requests.
const DefaultPageTimeout = 60 * time.Second

// Backend is the dictionary backend as seen by the front-end.
type Backend interface {
	GetEntry(ctx context.Context, slug string) (*dictionary.Entry, bool)
	autocomplete.Searcher
	examples.Generator
}

// Options configures a Handler.
type Options struct {
	Backend     Backend
	// Generator overrides Backend for example generation.
	Generator   examples.Generator
	Sitemap     *sitemap.Builder
	Recent      *recent.Store
	Debounce    time.Duration
	PageTimeout time.Duration
	Logger      *zap.Logger
}

// Handler serves the front-end routes.
type Handler struct {
	backend     Backend
	generator   examples.Generator
	sitemap     *sitemap.Builder
	recent      *recent.Store
	debounce    time.Duration
	pageTimeout time.Duration
	logger      *zap.Logger
	tmpl        *templates
}

// New creates a Handler.
func New(opts Options) (*Handler, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	if opts.PageTimeout <= 0 {
		opts.PageTimeout = DefaultPageTimeout
	}
	if opts.Generator == nil {
		opts.Generator = opts.Backend
	}
	return &Handler{
		backend:     opts.Backend,
		generator:   opts.Generator,
		sitemap:     opts.Sitemap,
		recent:      opts.Recent,
		debounce:    opts.Debounce,
		pageTimeout: opts.PageTimeout,
		logger:      logging.OrNop(opts.Logger),
		tmpl:        tmpl,
	}, nil
}

// RegisterRoutes mounts all front-end routes onto the given router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	static, _ := fs.Sub(staticFiles, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	r.Get("/dictionary/sitemap.xml", h.handleSitemap)

	r.Group(func(r chi.Router) {
		r.Use(Visitor)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(h.pageTimeout))
			r.Get("/", h.handleHome)
			r.Get("/dictionary", h.handleHome)
			r.Get("/dictionary/{slug}", h.handleEntry)
			r.Post("/dictionary/{slug}/senses/{senseID}/examples", h.handleGenerateExample)
			r.Post("/recent/clear", h.handleClearRecent)
		})

		r.Get("/ws/search", h.handleSearchSocket)
		r.Get("/ws/recent", h.handleRecentSocket)
	})
}
