package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/ziadkadry99/jisho/internal/dictionary"
)

//go:embed templates/*.html
var templateFiles embed.FS

var pageNames = []string{"home", "entry", "notfound"}

// templates holds one template set per page plus the shared fragments.
type templates struct {
	base  *template.Template
	pages map[string]*template.Template
}

var templateFuncs = template.FuncMap{
	"jlptClass": dictionary.JLPTClass,
}

func parseTemplates() (*templates, error) {
	base, err := template.New("base").Funcs(templateFuncs).
		ParseFS(templateFiles, "templates/layout.html", "templates/partials.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	t := &templates{base: base, pages: make(map[string]*template.Template)}
	for _, name := range pageNames {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("cloning templates: %w", err)
		}
		page, err := clone.ParseFS(templateFiles, "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parsing %s template: %w", name, err)
		}
		t.pages[name] = page
	}
	return t, nil
}

// page is the data every page template receives.
type page struct {
	Meta dictionary.Metadata
	Data any
}

func (t *templates) page(name string, p page) ([]byte, error) {
	tmpl, ok := t.pages[name]
	if !ok {
		return nil, fmt.Errorf("unknown page %q", name)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", p); err != nil {
		return nil, fmt.Errorf("rendering %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

func (t *templates) fragment(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.base.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("rendering %s: %w", name, err)
	}
	return buf.String(), nil
}

// renderPage writes a full page, or a bare 500 if rendering fails.
func (h *Handler) renderPage(w http.ResponseWriter, status int, name string, p page) {
	body, err := h.tmpl.page(name, p)
	if err != nil {
		h.logger.Error("rendering page", zap.String("template", name), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(body)
}

func (h *Handler) renderFragment(w http.ResponseWriter, name string, data any) {
	body, err := h.tmpl.fragment(name, data)
	if err != nil {
		h.logger.Error("rendering fragment", zap.String("template", name), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(body))
}
