// Package feed fans new submissions out to live subscribers of a form.
package feed

import (
	"sync"
	"time"
)

type Event struct {
	FormID       uint           `json:"form_id"`
	SubmissionID string         `json:"submission_id"`
	SubmittedAt  time.Time      `json:"submitted_at"`
	Status       string         `json:"status"`
	Data         map[string]any `json:"data"`
}

// Hub is safe for concurrent use. A nil *Hub drops every event.
type Hub struct {
	mu   sync.RWMutex
	subs map[uint]map[*Subscription]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[uint]map[*Subscription]struct{})}
}

type Subscription struct {
	FormID uint

	ch   chan Event
	hub  *Hub
	once sync.Once
}

// Events is closed once the subscription is closed.
func (s *Subscription) Events() <-chan Event {
	return s.ch
}

func (s *Subscription) Close() {
	s.once.Do(func() {
		h := s.hub
		h.mu.Lock()
		if set, ok := h.subs[s.FormID]; ok {
			delete(set, s)
			if len(set) == 0 {
				delete(h.subs, s.FormID)
			}
		}
		h.mu.Unlock()
		close(s.ch)
	})
}

func (h *Hub) Subscribe(formID uint, buffer int) *Subscription {
	if buffer < 1 {
		buffer = 1
	}
	sub := &Subscription{FormID: formID, ch: make(chan Event, buffer), hub: h}

	h.mu.Lock()
	set, ok := h.subs[formID]
	if !ok {
		set = make(map[*Subscription]struct{})
		h.subs[formID] = set
	}
	set[sub] = struct{}{}
	h.mu.Unlock()
	return sub
}

// Publish delivers e to every subscriber of e.FormID without blocking.
// Subscribers whose buffer is full miss the event. It returns how many
// subscribers received it.
func (h *Hub) Publish(e Event) int {
	if h == nil {
		return 0
	}
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for sub := range h.subs[e.FormID] {
		select {
		case sub.ch <- e:
			delivered++
		default:
		}
	}
	return delivered
}

func (h *Hub) Subscribers(formID uint) int {
	if h == nil {
		return 0
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[formID])
}
