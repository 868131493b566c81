// Package debounce settles a changing value after it has been stable for a delay.
//
// Every Set starts a new generation and cancels the pending timer of the previous one,
// so only the latest value can ever surface.
package debounce

import (
	"sync"
	"time"
)

type Debouncer[T comparable] struct {
	mu sync.Mutex
	// emit serializes settle so callbacks run in generation order.
	emit       sync.Mutex
	delay      time.Duration
	value      T
	pending    T
	settling   bool
	generation uint64
	timer      *time.Timer
	onSettle   func(T)
	stopped    bool
}

func New[T comparable](initial T, delay time.Duration) *Debouncer[T] {
	return &Debouncer[T]{delay: delay, value: initial, pending: initial}
}

// OnSettle registers fn to be called with each settled value. fn runs on the timer goroutine
// and must not call Flush.
func (d *Debouncer[T]) OnSettle(fn func(T)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onSettle = fn
}

func (d *Debouncer[T]) Set(value T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	d.generation++
	generation := d.generation
	if d.timer != nil {
		d.timer.Stop()
	}

	d.pending = value
	d.settling = value != d.value

	if !d.settling {
		d.timer = nil
		return
	}
	if d.delay <= 0 {
		d.timer = nil
		go d.settle(generation)
		return
	}
	d.timer = time.AfterFunc(d.delay, func() { d.settle(generation) })
}

// Value returns the last settled value.
func (d *Debouncer[T]) Value() T {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.value
}

// IsDebouncing is true from the moment the input changes until the settled value catches up.
func (d *Debouncer[T]) IsDebouncing() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.settling
}

// Flush settles the pending value immediately.
func (d *Debouncer[T]) Flush() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.generation++
	generation := d.generation
	d.mu.Unlock()

	d.settle(generation)
}

// Stop cancels the pending timer; later Set calls are ignored.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.generation++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.settling = false
}

func (d *Debouncer[T]) settle(generation uint64) {
	d.emit.Lock()
	defer d.emit.Unlock()

	d.mu.Lock()
	if generation != d.generation || d.stopped {
		d.mu.Unlock()
		return
	}
	d.value = d.pending
	d.settling = false
	d.timer = nil
	callback := d.onSettle
	value := d.value
	d.mu.Unlock()

	if callback != nil {
		callback(value)
	}
}
