// Package dictionary holds the dictionary records exchanged with the backend
// and the presentation helpers derived from them.
package dictionary

import "strings"

// Example is one example sentence for a sense.
type Example struct {
	ID             string `json:"id"`
	SentenceJa     string `json:"sentenceJa"`
	SentenceRomaji string `json:"sentenceRomaji"`
	SentenceEn     string `json:"sentenceEn"`
}

// Sense is one distinct meaning of a headword.
type Sense struct {
	ID           string    `json:"id"`
	Definitions  []string  `json:"definitions"`
	PartOfSpeech []string  `json:"partOfSpeech"`
	Info         string    `json:"info,omitempty"`
	Examples     []Example `json:"examples"`
}

// DefinitionText joins the definitions the way the entry page heads a sense.
func (s Sense) DefinitionText() string {
	return strings.Join(s.Definitions, "; ")
}

// Entry is a dictionary headword as returned by the backend.
type Entry struct {
	ID        string  `json:"id"`
	Slug      string  `json:"slug"`
	Kanji     string  `json:"kanji"`
	Reading   string  `json:"reading"`
	Romaji    string  `json:"romaji"`
	JLPTLevel string  `json:"jlptLevel"`
	Rank      int     `json:"rank"`
	Senses    []Sense `json:"senses"`
}

// commonRank is the rank above which an entry is badged as a common word.
const commonRank = 50

// IsCommon reports whether the entry is frequent enough to be badged.
func (e *Entry) IsCommon() bool {
	return e.Rank > commonRank
}

// KanjiCharacters returns the characters of the headword in the CJK unified
// ideograph range U+4E00..U+9FAF, in order. Kana and punctuation are skipped.
func (e *Entry) KanjiCharacters() []string {
	var chars []string
	for _, r := range e.Kanji {
		if r >= 0x4E00 && r <= 0x9FAF {
			chars = append(chars, string(r))
		}
	}
	return chars
}

// SearchResult is the projection of an Entry shown in the autocomplete dropdown.
type SearchResult struct {
	ID        string `json:"id"`
	Slug      string `json:"slug"`
	Kanji     string `json:"kanji"`
	Reading   string `json:"reading"`
	Romaji    string `json:"romaji"`
	JLPTLevel string `json:"jlptLevel"`
}

// SitemapSlug is one row of the backend's sitemap listing. UpdatedAt is
// passed through verbatim.
type SitemapSlug struct {
	Slug      string `json:"slug"`
	UpdatedAt string `json:"updatedAt"`
}

// GenerateExampleRequest is the body posted to the example generator.
type GenerateExampleRequest struct {
	SenseID    string `json:"senseId"`
	Word       string `json:"word"`
	Definition string `json:"definition"`
}
