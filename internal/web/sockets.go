package web

import (
	"encoding/json"
	"net/http"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ziadkadry99/jisho/internal/autocomplete"
	"github.com/ziadkadry99/jisho/internal/recent"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// clientMessage is the incoming WebSocket message format.
type clientMessage struct {
	Type  string `json:"type"` // "input", "focus", "outside" or "submit"
	Query string `json:"query,omitempty"`
}

// serverMessage is the outgoing WebSocket message format.
type serverMessage struct {
	Type    string `json:"type"` // "results", "navigate", "recent" or "error"
	HTML    string `json:"html,omitempty"`
	Open    bool   `json:"open,omitempty"`
	Query   string `json:"query,omitempty"`
	URL     string `json:"url,omitempty"`
	Message string `json:"message,omitempty"`
}

// socket serializes writes to one connection.
type socket struct {
	conn   *websocket.Conn
	logger *zap.Logger
	mu     sync.Mutex
}

func (s *socket) send(msg serverMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.conn.WriteJSON(msg); err != nil {
		s.logger.Debug("websocket write", zap.Error(err))
	}
}

func (h *Handler) upgrade(w http.ResponseWriter, r *http.Request) (*socket, bool) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade", zap.String("path", r.URL.Path), zap.Error(err))
		return nil, false
	}
	return &socket{conn: conn, logger: h.logger}, true
}

func (h *Handler) logReadError(err error) {
	if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
		h.logger.Debug("websocket read", zap.Error(err))
	}
}

func (h *Handler) handleSearchSocket(w http.ResponseWriter, r *http.Request) {
	sock, ok := h.upgrade(w, r)
	if !ok {
		return
	}
	defer sock.conn.Close()

	sess := autocomplete.NewSession(r.Context(), h.backend,
		autocomplete.WithDebounce(h.debounce),
		autocomplete.WithLogger(h.logger),
		autocomplete.WithObserver(func(st autocomplete.State) {
			html, err := h.tmpl.fragment("dropdown", st)
			if err != nil {
				h.logger.Error("rendering dropdown", zap.Error(err))
				return
			}
			sock.send(serverMessage{Type: "results", HTML: html, Open: st.IsOpen, Query: st.Query})
		}),
	)
	defer sess.Close()

	for {
		_, raw, err := sock.conn.ReadMessage()
		if err != nil {
			h.logReadError(err)
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			sock.send(serverMessage{Type: "error", Message: "invalid message format"})
			continue
		}

		switch msg.Type {
		case "input":
			sess.Input(msg.Query)
		case "focus":
			sess.Focus()
		case "outside":
			sess.PointerDownOutside()
		case "submit":
			if slug, ok := sess.Submit(); ok {
				sock.send(serverMessage{Type: "navigate", URL: "/dictionary/" + url.PathEscape(slug)})
			}
		default:
			sock.send(serverMessage{Type: "error", Message: "unknown message type: " + msg.Type})
		}
	}
}

func (h *Handler) handleRecentSocket(w http.ResponseWriter, r *http.Request) {
	if h.recent == nil {
		http.NotFound(w, r)
		return
	}
	visitor := VisitorFrom(r.Context())
	changes, cancel := h.recent.Subscribe(visitor)
	defer cancel()

	sock, ok := h.upgrade(w, r)
	if !ok {
		return
	}
	defer sock.conn.Close()

	// The panel is push-only; reads just detect the close.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := sock.conn.ReadMessage(); err != nil {
				h.logReadError(err)
				return
			}
		}
	}()

	h.pushRecent(sock, r)
	for {
		select {
		case <-changes:
			h.pushRecent(sock, r)
		case <-closed:
			return
		case <-r.Context().Done():
			return
		}
	}
}

func (h *Handler) pushRecent(sock *socket, r *http.Request) {
	entries := recent.NewestFirst(h.recent.List(r.Context(), VisitorFrom(r.Context())))
	html, err := h.tmpl.fragment("recent", entries)
	if err != nil {
		h.logger.Error("rendering recent searches", zap.Error(err))
		return
	}
	sock.send(serverMessage{Type: "recent", HTML: html})
}
