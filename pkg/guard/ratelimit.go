package guard

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

const (
	// DefaultRateLimit is the maximum mutations allowed per key per window.
	DefaultRateLimit = 10

	// DefaultRateWindow is the sliding window the limit applies over.
	DefaultRateWindow = 60 * time.Second
)

// RateLimitError reports that a (principal, operation) pair has exhausted its
// sliding window. Callers should surface a retry-later message.
type RateLimitError struct {
	Operation string
	Limit     int
	Window    time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded for operation %s: at most %d calls per %s",
		e.Operation, e.Limit, e.Window)
}

// RateLimiter throttles mutation operations with a pruned sliding window of call
// timestamps per principal::operation key. The check is the recording step: a
// rejected attempt does not count against the window. State is explicitly
// constructed and resettable, never process-global.
type RateLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu    sync.Mutex
	calls map[string][]time.Time
}

// NewRateLimiter creates a limiter allowing limit calls per window per key.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:  limit,
		window: window,
		now:    time.Now,
		calls:  make(map[string][]time.Time),
	}
}

// NewDefaultRateLimiter creates a limiter with the engine defaults.
func NewDefaultRateLimiter() *RateLimiter {
	return NewRateLimiter(DefaultRateLimit, DefaultRateWindow)
}

// Check prunes expired timestamps for principal::operation, fails with a
// *RateLimitError if the window is full, and otherwise records the call.
func (l *RateLimiter) Check(principal, operation string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := principal + "::" + operation
	cutoff := l.now().Add(-l.window)

	recent := l.calls[key][:0]

	for _, ts := range l.calls[key] {
		if ts.After(cutoff) {
			recent = append(recent, ts)
		}
	}

	if len(recent) >= l.limit {
		l.calls[key] = recent

		return &RateLimitError{Operation: operation, Limit: l.limit, Window: l.window}
	}

	l.calls[key] = append(recent, l.now())

	return nil
}

// Reset clears all recorded calls. Intended for tests and tenant teardown.
func (l *RateLimiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.calls = make(map[string][]time.Time)
}

// IsRateLimited reports whether err is a rate limit failure.
func IsRateLimited(err error) bool {
	var e *RateLimitError

	return errors.As(err, &e)
}
