package dictionary

import (
	"fmt"
	"strings"
)

// SiteName is appended to every page title.
const SiteName = "ChatJLPT Dictionary"

// NotFoundTitle is the page title used when an entry cannot be fetched.
const NotFoundTitle = "Word Not Found - " + SiteName

// Metadata is the SEO title and description of a page.
type Metadata struct {
	Title       string
	Description string
}

// BuildMetadata derives the page metadata for entry. A nil entry yields the
// fixed not-found title.
func BuildMetadata(entry *Entry) Metadata {
	if entry == nil {
		return Metadata{Title: NotFoundTitle}
	}

	var definitions string
	if len(entry.Senses) > 0 {
		definitions = strings.Join(entry.Senses[0].Definitions, ", ")
	}

	return Metadata{
		Title: fmt.Sprintf("%s (%s) - Meaning in English | %s", entry.Kanji, entry.Reading, SiteName),
		Description: fmt.Sprintf("Learn the meaning of %s (%s) in Japanese. Definitions: %s. JLPT Level: %s.",
			entry.Kanji, entry.Reading, definitions, entry.JLPTLevel),
	}
}

// JLPTBadge returns the label shown in the level badge.
func JLPTBadge(level string) string {
	if level == "" {
		return "JLPT N/A"
	}
	return level
}

// JLPTClass returns the CSS modifier for a level badge: the hardest and
// easiest tiers get their own colours.
func JLPTClass(level string) string {
	switch level {
	case "N1":
		return "n1"
	case "N5":
		return "n5"
	default:
		return "neutral"
	}
}
