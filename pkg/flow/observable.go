package flow

import (
	"sync"
	"sync/atomic"
)

// Source is a stream of values. Subscribe delivers the current value first,
// then every subsequent one, and returns a function that ends the
// subscription. No delivery starts after cancel returns.
type Source[T any] interface {
	Subscribe(fn func(T)) (cancel func())
}

// Observable holds a value and notifies listeners when it changes.
// It is safe for concurrent use. Each listener sees values in the order
// they were set; a stale value racing a newer one is dropped.
type Observable[T any] struct {
	mu        sync.Mutex
	value     T
	version   uint64
	equal     func(a, b T) bool
	listeners []*listener[T]
}

type listener[T any] struct {
	fn      func(T)
	removed atomic.Bool

	mu        sync.Mutex
	seen      uint64
	delivered bool
}

func (l *listener[T]) deliver(v T, version uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.removed.Load() || (l.delivered && version <= l.seen) {
		return
	}
	l.seen = version
	l.delivered = true
	l.fn(v)
}

// NewObservable returns an Observable holding initial. Every Set notifies,
// even when the value is unchanged.
func NewObservable[T any](initial T) *Observable[T] {
	return &Observable[T]{value: initial, version: 1}
}

// NewObservableWithEquality returns an Observable that skips Set calls
// for which equal reports the new value equal to the current one.
func NewObservableWithEquality[T any](initial T, equal func(a, b T) bool) *Observable[T] {
	return &Observable[T]{value: initial, version: 1, equal: equal}
}

// Value returns the current value.
func (o *Observable[T]) Value() T {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.value
}

// Set stores v and notifies listeners synchronously. A listener holds its
// own lock while it runs, so it must not call Set or Update on the same
// observable from within the callback; doing so deadlocks. Hand the write
// to another goroutine instead.
func (o *Observable[T]) Set(v T) {
	o.mu.Lock()
	o.setLocked(v)
}

// Update stores fn(current) and notifies listeners synchronously. The same
// reentrancy rule as Set applies.
func (o *Observable[T]) Update(fn func(T) T) {
	o.mu.Lock()
	o.setLocked(fn(o.value))
}

// setLocked is entered with o.mu held and releases it before delivery.
func (o *Observable[T]) setLocked(v T) {
	if o.equal != nil && o.equal(o.value, v) {
		o.mu.Unlock()
		return
	}
	o.value = v
	o.version++
	version := o.version
	listeners := make([]*listener[T], len(o.listeners))
	copy(listeners, o.listeners)
	o.mu.Unlock()

	for _, l := range listeners {
		l.deliver(v, version)
	}
}

// AddListener registers fn for subsequent values only.
func (o *Observable[T]) AddListener(fn func(T)) func() {
	o.mu.Lock()
	l, cancel := o.addLocked(fn)
	l.seen = o.version
	l.delivered = true
	o.mu.Unlock()
	return cancel
}

// Subscribe delivers the current value to fn, then every subsequent one.
func (o *Observable[T]) Subscribe(fn func(T)) func() {
	o.mu.Lock()
	current, version := o.value, o.version
	l, cancel := o.addLocked(fn)
	o.mu.Unlock()

	l.deliver(current, version)
	return cancel
}

// ListenerCount returns the number of active listeners.
func (o *Observable[T]) ListenerCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.listeners)
}

func (o *Observable[T]) addLocked(fn func(T)) (*listener[T], func()) {
	l := &listener[T]{fn: fn}
	o.listeners = append(o.listeners, l)

	var once sync.Once
	return l, func() {
		once.Do(func() {
			l.removed.Store(true)
			o.mu.Lock()
			defer o.mu.Unlock()
			for i, existing := range o.listeners {
				if existing == l {
					o.listeners = append(o.listeners[:i], o.listeners[i+1:]...)
					break
				}
			}
		})
	}
}
