// Package stream provides single-slot replace-latest value cells.
//
// A Latest[T] holds exactly one value: writers overwrite, readers see the
// newest value only. There is deliberately no queue; stale intermediate
// values carry no meaning for tier or gesture consumers, and an unbounded
// backlog would let a slow consumer stall a producer.
package stream

import "sync"

// Latest is a single-slot overwrite cell with change notification.
type Latest[T any] struct {
	mu    sync.Mutex
	value T
	set   bool
	subs  []func(T)
}

// NewLatest returns an empty cell.
func NewLatest[T any]() *Latest[T] {
	return &Latest[T]{}
}

// Set overwrites the slot and notifies subscribers with the new value.
// Subscriber callbacks run on the caller's goroutine; they must not block.
func (l *Latest[T]) Set(v T) {
	l.mu.Lock()
	l.value = v
	l.set = true
	subs := make([]func(T), len(l.subs))
	copy(subs, l.subs)
	l.mu.Unlock()

	for _, fn := range subs {
		fn(v)
	}
}

// Get returns the newest value and whether the slot has ever been set.
func (l *Latest[T]) Get() (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.value, l.set
}

// Subscribe registers fn to be called on every Set. If the slot already
// holds a value, fn is called immediately with it.
func (l *Latest[T]) Subscribe(fn func(T)) {
	l.mu.Lock()
	l.subs = append(l.subs, fn)
	replay := l.set
	v := l.value
	l.mu.Unlock()

	if replay {
		fn(v)
	}
}
