package projection

import (
	"sort"
	"sync"
)

// Broadcaster fans working-set snapshots out to subscribers. The zero value
// is ready to use.
type Broadcaster[T any] struct {
	mu        sync.Mutex
	next      int
	listeners map[int]func(Projection[T])
}

// Subscribe registers fn and returns a function that removes it.
func (b *Broadcaster[T]) Subscribe(fn func(Projection[T])) func() {
	if fn == nil {
		return func() {}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.listeners == nil {
		b.listeners = map[int]func(Projection[T]){}
	}
	id := b.next
	b.next++
	b.listeners[id] = fn
	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.listeners, id)
			b.mu.Unlock()
		})
	}
}

// Publish calls every subscriber, in subscription order, on the caller's goroutine.
func (b *Broadcaster[T]) Publish(p Projection[T]) {
	b.mu.Lock()
	ids := make([]int, 0, len(b.listeners))
	for id := range b.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(Projection[T]), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, b.listeners[id])
	}
	b.mu.Unlock()
	for _, fn := range fns {
		fn(p)
	}
}
