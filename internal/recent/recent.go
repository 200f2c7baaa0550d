// Package recent keeps each visitor's recently viewed dictionary entries.
package recent

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/ziadkadry99/jisho/internal/dictionary"
	"github.com/ziadkadry99/jisho/internal/logging"
)

// Key is the key the list is stored under in each visitor's namespace.
const Key = "recentSearches"

// DefaultLimit is the number of entries kept per visitor.
const DefaultLimit = 10

// Entry is one recently viewed word.
type Entry struct {
	ID     string `json:"id"`
	Slug   string `json:"slug"`
	Kanji  string `json:"kanji"`
	Romaji string `json:"romaji"`
}

// FromEntry builds a recent Entry from a dictionary entry.
func FromEntry(e *dictionary.Entry) Entry {
	return Entry{ID: e.ID, Slug: e.Slug, Kanji: e.Kanji, Romaji: e.Romaji}
}

// KV is the storage the list lives in.
type KV interface {
	Get(ctx context.Context, ns, key string) ([]byte, bool, error)
	Put(ctx context.Context, ns, key string, value []byte) error
	Delete(ctx context.Context, ns, key string) error
	Watch(ns, key string) (<-chan struct{}, func())
}

// Store reads and appends visitors' recent lists.
type Store struct {
	kv     KV
	limit  int
	logger *zap.Logger

	// mu serializes read-modify-write cycles in Record.
	mu sync.Mutex
}

// NewStore creates a Store keeping at most limit entries per visitor.
func NewStore(kv KV, limit int, logger *zap.Logger) *Store {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Store{kv: kv, limit: limit, logger: logging.OrNop(logger)}
}

// List returns the visitor's entries oldest first. Storage and parse
// failures are logged and reported as an empty list.
func (s *Store) List(ctx context.Context, visitor string) []Entry {
	entries, err := s.load(ctx, visitor)
	if err != nil {
		s.logger.Warn("reading recent searches", zap.String("visitor", visitor), zap.Error(err))
		return []Entry{}
	}
	return entries
}

func (s *Store) load(ctx context.Context, visitor string) ([]Entry, error) {
	raw, ok, err := s.kv.Get(ctx, visitor, Key)
	if err != nil {
		return nil, err
	}
	if !ok || len(raw) == 0 {
		return []Entry{}, nil
	}

	var entries []Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", Key, err)
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}

// Record appends e to the visitor's list. An entry with the same slug is
// moved to the end, and the oldest entries are dropped past the limit.
func (s *Store) Record(ctx context.Context, visitor string, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load(ctx, visitor)
	if err != nil {
		s.logger.Warn("discarding unreadable recent searches", zap.String("visitor", visitor), zap.Error(err))
		entries = nil
	}

	kept := make([]Entry, 0, len(entries)+1)
	for _, existing := range entries {
		if existing.Slug != e.Slug {
			kept = append(kept, existing)
		}
	}
	kept = append(kept, e)
	if len(kept) > s.limit {
		kept = kept[len(kept)-s.limit:]
	}

	raw, err := json.Marshal(kept)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", Key, err)
	}
	return s.kv.Put(ctx, visitor, Key, raw)
}

// Clear forgets the visitor's list. Subscribers see the change like any
// other write.
func (s *Store) Clear(ctx context.Context, visitor string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kv.Delete(ctx, visitor, Key)
}

// Subscribe signals on the returned channel whenever the visitor's list
// changes, from any tab. Call cancel when done.
func (s *Store) Subscribe(visitor string) (<-chan struct{}, func()) {
	return s.kv.Watch(visitor, Key)
}

// NewestFirst returns a reversed copy of entries.
func NewestFirst(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	for i, e := range entries {
		out[len(entries)-1-i] = e
	}
	return out
}
