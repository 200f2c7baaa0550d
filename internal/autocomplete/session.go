// Package autocomplete implements the search-as-you-type session behind the
// search box: debounced queries, request sequencing and dropdown state.
package autocomplete

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ziadkadry99/jisho/internal/dictionary"
)

// DefaultDebounce is the quiet period after the last keystroke before a
// search is issued.
const DefaultDebounce = 300 * time.Millisecond

// Searcher runs one backend search.
type Searcher interface {
	Search(ctx context.Context, query string) ([]dictionary.SearchResult, error)
}

// State is a snapshot of the search box. Version increases with every
// published change.
type State struct {
	Query   string
	Results []dictionary.SearchResult
	IsOpen  bool
	Version uint64
}

// Timer is the part of *time.Timer the session uses.
type Timer interface {
	Stop() bool
}

// TimerFunc schedules f to run after d, like time.AfterFunc.
type TimerFunc func(d time.Duration, f func()) Timer

func afterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Option configures a Session.
type Option func(*Session)

// WithDebounce sets the quiet period before a search is issued.
func WithDebounce(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.debounce = d
		}
	}
}

// WithTimerFunc replaces time.AfterFunc, for tests.
func WithTimerFunc(fn TimerFunc) Option {
	return func(s *Session) { s.afterFunc = fn }
}

// WithLogger sets the logger for failed searches.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithObserver registers fn to receive every state change, in order.
func WithObserver(fn func(State)) Option {
	return func(s *Session) { s.observer = fn }
}

// Session is one search box. It is safe for concurrent use.
type Session struct {
	searcher  Searcher
	debounce  time.Duration
	afterFunc TimerFunc
	logger    *zap.Logger
	observer  func(State)

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	state  State
	timer  Timer
	gen    uint64 // bumped on every keystroke
	seq    uint64 // latest issued request
	closed bool

	pubMu     sync.Mutex
	published uint64
}

// NewSession creates a Session. In-flight searches are cancelled when ctx
// is done or the session is closed.
func NewSession(ctx context.Context, searcher Searcher, opts ...Option) *Session {
	s := &Session{
		searcher:  searcher,
		debounce:  DefaultDebounce,
		afterFunc: afterFunc,
		logger:    zap.NewNop(),
		state:     State{Results: []dictionary.SearchResult{}},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ctx, s.cancel = context.WithCancel(ctx)
	return s
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	st.Results = append([]dictionary.SearchResult(nil), s.state.Results...)
	return st
}

// Input records a keystroke. The query updates immediately and any pending
// search is replaced by one for text after the debounce period. A blank
// query clears the results at once and issues no request.
func (s *Session) Input(text string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}

	s.state.Query = text
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}

	if strings.TrimSpace(text) == "" {
		s.state.Results = []dictionary.SearchResult{}
		// Drop whatever is still in flight.
		s.seq++
	} else {
		gen := s.gen
		s.timer = s.afterFunc(s.debounce, func() { s.fire(gen) })
	}

	st := s.snapshotLocked()
	s.mu.Unlock()
	s.publish(st)
}

func (s *Session) fire(gen uint64) {
	s.mu.Lock()
	if s.closed || gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.seq++
	seq := s.seq
	query := s.state.Query
	s.mu.Unlock()

	results, err := s.searcher.Search(s.ctx, query)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if seq != s.seq {
		s.mu.Unlock()
		s.logger.Debug("discarding stale search response", zap.String("query", query), zap.Uint64("seq", seq))
		return
	}
	if err != nil {
		s.mu.Unlock()
		s.logger.Warn("search failed", zap.String("query", query), zap.Error(err))
		return
	}
	if results == nil {
		results = []dictionary.SearchResult{}
	}
	s.state.Results = results
	s.state.IsOpen = true
	st := s.snapshotLocked()
	s.mu.Unlock()
	s.publish(st)
}

// Focus reopens the dropdown when there is a query.
func (s *Session) Focus() {
	s.setOpen(func(st State) bool { return st.IsOpen || st.Query != "" })
}

// PointerDownOutside closes the dropdown.
func (s *Session) PointerDownOutside() {
	s.setOpen(func(State) bool { return false })
}

func (s *Session) setOpen(next func(State) bool) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	open := next(s.state)
	if open == s.state.IsOpen {
		s.mu.Unlock()
		return
	}
	s.state.IsOpen = open
	st := s.snapshotLocked()
	s.mu.Unlock()
	s.publish(st)
}

// Submit returns the slug of the top result to navigate to. It reports
// false when there are no results.
func (s *Session) Submit() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.state.Results) == 0 {
		return "", false
	}
	return s.state.Results[0].Slug, true
}

// Close stops the session. Pending and in-flight searches are abandoned.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.cancel()
}

func (s *Session) snapshotLocked() State {
	s.state.Version++
	st := s.state
	st.Results = append([]dictionary.SearchResult(nil), s.state.Results...)
	return st
}

// publish delivers st unless a newer state has already gone out.
func (s *Session) publish(st State) {
	if s.observer == nil {
		return
	}
	s.pubMu.Lock()
	defer s.pubMu.Unlock()
	if st.Version <= s.published {
		return
	}
	s.published = st.Version
	s.observer(st)
}
