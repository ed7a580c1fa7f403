// Package biztime is the single source of "now" for domain code. All stored
// timestamps are UTC.
package biztime

import (
	"sync"
	"time"
)

var (
	clockMu sync.RWMutex
	clock   = time.Now
)

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	clockMu.RLock()
	defer clockMu.RUnlock()
	return clock().UTC()
}

// SetClock replaces the time source and returns a func restoring the previous
// one. Intended for tests.
func SetClock(fn func() time.Time) (restore func()) {
	clockMu.Lock()
	prev := clock
	clock = fn
	clockMu.Unlock()
	return func() {
		clockMu.Lock()
		clock = prev
		clockMu.Unlock()
	}
}
