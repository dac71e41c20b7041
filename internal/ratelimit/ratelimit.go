// Package ratelimit provides a fixed-window submission limiter keyed by
// client identifier. Keys are derived from the client address and are
// spoofable; this is best-effort throttling, not an authentication boundary.
package ratelimit

import (
	"sync"
	"time"
)

type record struct {
	windowStart time.Time
	count       int
}

// FixedWindow allows at most max calls per key within each window. When a
// window elapses the counter resets entirely.
type FixedWindow struct {
	mu      sync.Mutex
	window  time.Duration
	max     int
	records map[string]*record
	clock   func() time.Time
}

func NewFixedWindow(window time.Duration, max int) *FixedWindow {
	return &FixedWindow{
		window:  window,
		max:     max,
		records: make(map[string]*record),
		clock:   time.Now,
	}
}

// Allow reports whether the call for key is within the window budget,
// counting it if so. A denied call does not consume budget.
func (l *FixedWindow) Allow(key string) bool {
	now := l.clock()

	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.records[key]
	if !ok || now.Sub(rec.windowStart) > l.window {
		rec = &record{windowStart: now}
		l.records[key] = rec
	}

	if rec.count >= l.max {
		return false
	}
	rec.count++
	return true
}

// Sweep drops records whose window elapsed before the cutoff and returns
// how many were removed.
func (l *FixedWindow) Sweep() int {
	now := l.clock()

	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for key, rec := range l.records {
		if now.Sub(rec.windowStart) > l.window {
			delete(l.records, key)
			removed++
		}
	}
	return removed
}

func (l *FixedWindow) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}
