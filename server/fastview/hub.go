package fastview

import (
	"sync"

	channerics "github.com/niceyeti/channerics/channels"
)

// Hub fans a single update stream out to any number of subscribers, e.g. one per open
// page. Each subscriber holds at most one undelivered update: updates arriving before
// the subscriber receives are merged into it, or replace it when there is no merge func.
// New subscribers immediately receive everything published so far, merged.
type Hub[T any] struct {
	merge  func(older, newer T) T
	mu     sync.Mutex
	subs   map[int]chan T
	nextId int
	last   T
	hasAny bool
	closed bool
}

// NewHub returns a hub coalescing undelivered updates with merge. A nil merge keeps
// only the latest update.
func NewHub[T any](merge func(older, newer T) T) *Hub[T] {
	return &Hub[T]{merge: merge, subs: map[int]chan T{}}
}

// Run distributes source until it closes or done is closed, then closes every
// subscription. Subscriptions made afterward are closed immediately.
func (hub *Hub[T]) Run(done <-chan struct{}, source <-chan T) {
	defer hub.close()
	for item := range channerics.OrDone(done, source) {
		hub.mu.Lock()
		if hub.hasAny {
			hub.last = hub.combine(hub.last, item)
		} else {
			hub.last, hub.hasAny = item, true
		}
		for _, sub := range hub.subs {
			hub.offer(sub, item)
		}
		hub.mu.Unlock()
	}
}

// Subscribe returns a channel of updates and a function to cancel the subscription,
// which closes the channel. The cancel function may be called more than once.
func (hub *Hub[T]) Subscribe() (<-chan T, func()) {
	hub.mu.Lock()
	defer hub.mu.Unlock()

	sub := make(chan T, 1)
	if hub.closed {
		close(sub)
		return sub, func() {}
	}
	if hub.hasAny {
		sub <- hub.last
	}
	id := hub.nextId
	hub.nextId++
	hub.subs[id] = sub

	return sub, func() {
		hub.mu.Lock()
		defer hub.mu.Unlock()
		if s, ok := hub.subs[id]; ok {
			delete(hub.subs, id)
			close(s)
		}
	}
}

// Len returns the number of live subscriptions.
func (hub *Hub[T]) Len() int {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	return len(hub.subs)
}

func (hub *Hub[T]) close() {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	hub.closed = true
	for id, sub := range hub.subs {
		delete(hub.subs, id)
		close(sub)
	}
}

func (hub *Hub[T]) combine(older, newer T) T {
	if hub.merge == nil {
		return newer
	}
	return hub.merge(older, newer)
}

// offer merges item into any undelivered item in sub. Only the hub sends on sub, under
// its lock, so the second send cannot block.
func (hub *Hub[T]) offer(sub chan T, item T) {
	select {
	case pending := <-sub:
		item = hub.combine(pending, item)
	default:
	}
	select {
	case sub <- item:
	default:
	}
}
