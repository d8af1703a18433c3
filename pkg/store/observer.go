package store

import "sync"

// broadcaster fans a value out to listeners in registration order.
// Listeners are invoked synchronously on the notifying goroutine, never
// while a store lock is held, so they may read any store.
type broadcaster[S any] struct {
	mu        sync.Mutex
	next      uint64
	listeners []listener[S]
}

type listener[S any] struct {
	id uint64
	fn func(S)
}

func (b *broadcaster[S]) subscribe(fn func(S)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.next++
	id := b.next
	b.listeners = append(b.listeners, listener[S]{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			for i, l := range b.listeners {
				if l.id == id {
					b.listeners = append(b.listeners[:i:i], b.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

func (b *broadcaster[S]) notify(v S) {
	b.mu.Lock()
	current := make([]listener[S], len(b.listeners))
	copy(current, b.listeners)
	b.mu.Unlock()

	for _, l := range current {
		l.fn(v)
	}
}

func (b *broadcaster[S]) len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.listeners)
}
