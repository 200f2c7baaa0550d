// Package gateway forwards /api/* requests to the dictionary backend.
package gateway

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ziadkadry99/jisho/internal/logging"
)

// PathPrefix is the path prefix routed to the backend.
const PathPrefix = "/api"

// Proxy rewrites every request under PathPrefix to the same path on the
// backend origin.
type Proxy struct {
	target *url.URL
	proxy  *httputil.ReverseProxy
	logger *zap.Logger
}

// New creates a Proxy for origin, which must carry a scheme and host.
func New(origin string, logger *zap.Logger) (*Proxy, error) {
	target, err := url.Parse(origin)
	if err != nil {
		return nil, fmt.Errorf("parsing backend origin %q: %w", origin, err)
	}
	if target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("backend origin %q must include scheme and host", origin)
	}

	p := &Proxy{target: target, logger: logging.OrNop(logger)}
	p.proxy = &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.SetXForwarded()
		},
		ErrorHandler: p.handleError,
	}
	return p, nil
}

// RegisterRoutes mounts the proxy on PathPrefix and everything below it.
func (p *Proxy) RegisterRoutes(r chi.Router) {
	r.Handle(PathPrefix, p)
	r.Handle(PathPrefix+"/*", p)
}

// Matches reports whether path is routed to the backend.
func Matches(path string) bool {
	return path == PathPrefix || strings.HasPrefix(path, PathPrefix+"/")
}

// ServeHTTP forwards r to the backend. Paths outside PathPrefix get a 404.
func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !Matches(r.URL.Path) {
		http.NotFound(w, r)
		return
	}
	p.proxy.ServeHTTP(w, r)
}

// Target returns the backend origin requests are forwarded to.
func (p *Proxy) Target() string { return p.target.String() }

func (p *Proxy) handleError(w http.ResponseWriter, r *http.Request, err error) {
	p.logger.Warn("backend proxy",
		zap.String("path", r.URL.Path),
		zap.String("target", p.target.Host),
		zap.Error(err),
	)
	w.WriteHeader(http.StatusBadGateway)
}
