// Package notify carries change notifications from the managers to view
// components (board, project switcher, websocket feed). Observers register
// explicitly; there is no ambient event bus.
package notify

import (
	"sort"
	"sync"
)

// Kind identifies what changed.
type Kind string

const (
	// ProjectChanged fires when the project list or active selection changes.
	ProjectChanged Kind = "project_changed"
	// TasksChanged fires when tasks or column layout change.
	TasksChanged Kind = "tasks_changed"
)

// Event is a single change notification. ProjectID is the active or
// affected project, when known.
type Event struct {
	Kind      Kind   `json:"kind"`
	ProjectID string `json:"projectId,omitempty"`
}

// Hub fans events out to registered observers synchronously, in
// registration order. The zero value is not usable; use NewHub.
type Hub struct {
	mu        sync.Mutex
	nextID    int
	observers map[int]func(Event)
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{observers: make(map[int]func(Event))}
}

// Subscribe registers fn and returns a function that removes it.
func (h *Hub) Subscribe(fn func(Event)) (unsubscribe func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	h.observers[id] = fn
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.observers, id)
	}
}

// Publish delivers ev to every observer. A nil hub is a no-op, so
// components can run without notifications in tests.
func (h *Hub) Publish(ev Event) {
	if h == nil {
		return
	}
	h.mu.Lock()
	ids := make([]int, 0, len(h.observers))
	for id := range h.observers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(Event), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, h.observers[id])
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}
