package web

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
)

// Raw HTML in notes is dropped by goldmark's default renderer.
var notesMarkdown = goldmark.New()

// renderNote converts a sense note from markdown. A single paragraph is
// unwrapped so the note can sit inline.
func renderNote(src string) (template.HTML, error) {
	if strings.TrimSpace(src) == "" {
		return "", nil
	}

	var buf bytes.Buffer
	if err := notesMarkdown.Convert([]byte(src), &buf); err != nil {
		return "", err
	}

	out := strings.TrimSpace(buf.String())
	if strings.HasPrefix(out, "<p>") && strings.HasSuffix(out, "</p>") && strings.Count(out, "<p>") == 1 {
		out = strings.TrimSuffix(strings.TrimPrefix(out, "<p>"), "</p>")
	}
	return template.HTML(out), nil
}
