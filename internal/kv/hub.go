package kv

import "sync"

type topic struct{ ns, key string }

type hub struct {
	mu     sync.Mutex
	nextID int
	subs   map[topic]map[int]chan struct{}
}

func newHub() *hub {
	return &hub{subs: make(map[topic]map[int]chan struct{})}
}

func (h *hub) subscribe(ns, key string) (<-chan struct{}, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	t := topic{ns, key}
	id := h.nextID
	h.nextID++

	ch := make(chan struct{}, 1)
	if h.subs[t] == nil {
		h.subs[t] = make(map[int]chan struct{})
	}
	h.subs[t][id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs[t], id)
			if len(h.subs[t]) == 0 {
				delete(h.subs, t)
			}
		})
	}
	return ch, cancel
}

func (h *hub) notify(ns, key string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ch := range h.subs[topic{ns, key}] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
