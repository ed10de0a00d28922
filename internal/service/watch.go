package service

import (
	"sync"

	"github.com/remerata/bookcloud/internal/model"
)

// Watcher fans out lending events to in-process subscribers so UI
// surfaces can react to book state changes instead of polling. Slow
// subscribers drop events rather than block a transition.
type Watcher struct {
	mu   sync.Mutex
	next int
	subs map[int]chan model.LendingEvent
}

func NewWatcher() *Watcher {
	return &Watcher{
		subs: make(map[int]chan model.LendingEvent),
	}
}

func (w *Watcher) Subscribe() (<-chan model.LendingEvent, func()) {
	w.mu.Lock()
	defer w.mu.Unlock()

	id := w.next
	w.next++
	ch := make(chan model.LendingEvent, 16)
	w.subs[id] = ch

	cancel := func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		if sub, ok := w.subs[id]; ok {
			delete(w.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

func (w *Watcher) Publish(ev model.LendingEvent) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, ch := range w.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
