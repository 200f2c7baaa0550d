package web

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ziadkadry99/jisho/internal/autocomplete"
	"github.com/ziadkadry99/jisho/internal/dictionary"
	"github.com/ziadkadry99/jisho/internal/examples"
	"github.com/ziadkadry99/jisho/internal/recent"
	"github.com/ziadkadry99/jisho/internal/sitemap"
)

// PopularWord is a fixed link on the home page.
type PopularWord struct {
	Slug  string
	Label string
}

// PopularWords are the quick links shown under the search box.
var PopularWords = []PopularWord{
	{Slug: "sensei", Label: "先生 (sensei)"},
	{Slug: "ame", Label: "雨 (ame)"},
	{Slug: "ni-saishite", Label: "に際して (N1)"},
}

var homeMeta = dictionary.Metadata{
	Title:       "ChatJLPT Jisho - " + dictionary.SiteName,
	Description: "Free AI-powered Japanese Dictionary for N5-N1",
}

type homeData struct {
	Search  autocomplete.State
	Recent  []recent.Entry
	Popular []PopularWord
}

type entryData struct {
	Entry      *dictionary.Entry
	Badge      string
	BadgeClass string
	Senses     []senseView
}

type senseView struct {
	ID           string
	Number       int
	PartOfSpeech []string
	Definition   string
	Note         template.HTML
	Widget       widgetView
}

// widgetView is the data of the "examples" fragment.
type widgetView struct {
	Slug       string
	Word       string
	Definition string
	View       examples.View
}

type notFoundData struct {
	Slug   string
	Search autocomplete.State
}

func (h *Handler) handleHome(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, http.StatusOK, "home", page{
		Meta: homeMeta,
		Data: homeData{
			Recent:  h.recentPanel(r),
			Popular: PopularWords,
		},
	})
}

func (h *Handler) handleEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := chi.URLParam(r, "slug")

	entry, ok := h.backend.GetEntry(ctx, slug)
	if !ok {
		h.renderPage(w, http.StatusNotFound, "notfound", page{
			Meta: dictionary.BuildMetadata(nil),
			Data: notFoundData{Slug: slug},
		})
		return
	}

	if h.recent != nil {
		if err := h.recent.Record(ctx, VisitorFrom(ctx), recent.FromEntry(entry)); err != nil {
			h.logger.Warn("recording recent search", zap.String("slug", entry.Slug), zap.Error(err))
		}
	}

	data := entryData{
		Entry:      entry,
		Badge:      dictionary.JLPTBadge(entry.JLPTLevel),
		BadgeClass: dictionary.JLPTClass(entry.JLPTLevel),
	}
	for i, sense := range entry.Senses {
		note, err := renderNote(sense.Info)
		if err != nil {
			h.logger.Warn("rendering sense note", zap.String("sense_id", sense.ID), zap.Error(err))
			note = template.HTML(template.HTMLEscapeString(sense.Info))
		}
		data.Senses = append(data.Senses, senseView{
			ID:           sense.ID,
			Number:       i + 1,
			PartOfSpeech: sense.PartOfSpeech,
			Definition:   sense.DefinitionText(),
			Note:         note,
			Widget: widgetView{
				Slug:       entry.Slug,
				Word:       entry.Kanji,
				Definition: sense.DefinitionText(),
				View:       examples.NewWidget(h.generator, entry.Kanji, sense, h.logger).View(),
			},
		})
	}

	h.renderPage(w, http.StatusOK, "entry", page{
		Meta: dictionary.BuildMetadata(entry),
		Data: data,
	})
}

func (h *Handler) handleGenerateExample(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	req := dictionary.GenerateExampleRequest{
		SenseID:    chi.URLParam(r, "senseID"),
		Word:       strings.TrimSpace(r.PostFormValue("word")),
		Definition: strings.TrimSpace(r.PostFormValue("definition")),
	}
	if req.Word == "" {
		http.Error(w, "word is required", http.StatusBadRequest)
		return
	}

	widget := examples.NewWidgetFromRequest(h.generator, req, h.logger)
	// A failure is shown in the fragment itself.
	_ = widget.Generate(r.Context())

	h.renderFragment(w, "examples", widgetView{
		Slug:       chi.URLParam(r, "slug"),
		Word:       req.Word,
		Definition: req.Definition,
		View:       widget.View(),
	})
}

func (h *Handler) handleSitemap(w http.ResponseWriter, r *http.Request) {
	urls := h.sitemap.Build(r.Context())
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	if err := sitemap.WriteXML(w, urls); err != nil {
		h.logger.Warn("writing sitemap", zap.Error(err))
	}
}

func (h *Handler) handleClearRecent(w http.ResponseWriter, r *http.Request) {
	if h.recent != nil {
		ctx := r.Context()
		if err := h.recent.Clear(ctx, VisitorFrom(ctx)); err != nil {
			h.logger.Warn("clearing recent searches", zap.Error(err))
		}
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// recentPanel returns the visitor's recent entries, newest first.
func (h *Handler) recentPanel(r *http.Request) []recent.Entry {
	if h.recent == nil {
		return nil
	}
	return recent.NewestFirst(h.recent.List(r.Context(), VisitorFrom(r.Context())))
}
