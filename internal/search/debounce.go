package search

import (
	"sync"
	"time"
)

// DefaultDelay is how long input must stay quiet before a query is emitted.
const DefaultDelay = 500 * time.Millisecond

// Debouncer holds at most one pending timer. Each Push replaces it; when a
// timer survives its delay, emit receives that timer's value.
type Debouncer struct {
	mu      sync.Mutex
	timer   *time.Timer
	delay   time.Duration
	emit    func(string)
	gen     uint64
	stopped bool
}

func NewDebouncer(delay time.Duration, emit func(string)) *Debouncer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer{delay: delay, emit: emit}
}

// Push cancels any pending timer and starts a new one for value.
func (d *Debouncer) Push(value string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen, value) })
}

// fire drops timers that were superseded or stopped after they had already
// expired but before they got the lock.
func (d *Debouncer) fire(gen uint64, value string) {
	d.mu.Lock()
	if d.stopped || gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()

	d.emit(value)
}

// Pending reports whether a timer is waiting to fire.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Stop cancels the pending timer without emitting. The debouncer ignores
// every later Push.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
