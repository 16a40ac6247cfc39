package fallback

import (
	"context"
	"sync/atomic"
	"time"
)

// admissionRetryInterval is how often a waiting caller re-checks for a
// free slot when no deadline is set.
const admissionRetryInterval = 10 * time.Millisecond

// AdmissionLimiter caps the number of simultaneous in-flight fallback
// calls system-wide, protecting the downstream text-generation service.
//
// It is a counting semaphore built on atomic operations: acquire
// increments the counter, and if the limit is exceeded the increment is
// rolled back and the slot denied. Lock-free and safe for concurrent use.
type AdmissionLimiter struct {
	limit   int64
	current int64
}

// NewAdmissionLimiter creates a limiter allowing up to limit in-flight
// calls. A limit below 1 is treated as 1.
func NewAdmissionLimiter(limit int) *AdmissionLimiter {
	if limit < 1 {
		limit = 1
	}
	return &AdmissionLimiter{limit: int64(limit)}
}

// TryAcquire attempts to take a slot without waiting. If it returns true
// the caller must call Release when done.
func (l *AdmissionLimiter) TryAcquire() bool {
	current := atomic.AddInt64(&l.current, 1)
	if current > l.limit {
		atomic.AddInt64(&l.current, -1)
		return false
	}
	return true
}

// Acquire takes a slot, waiting if the limiter is at capacity. When the
// context carries a deadline, a full limiter fails fast instead of
// queueing; otherwise the caller polls until a slot frees or the context
// is cancelled.
func (l *AdmissionLimiter) Acquire(ctx context.Context) bool {
	if l.TryAcquire() {
		return true
	}

	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return false
	}

	ticker := time.NewTicker(admissionRetryInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
			if l.TryAcquire() {
				return true
			}
		}
	}
}

// Release frees a slot taken by a successful acquire.
func (l *AdmissionLimiter) Release() {
	atomic.AddInt64(&l.current, -1)
}

// Current returns the number of in-flight calls.
func (l *AdmissionLimiter) Current() int64 {
	return atomic.LoadInt64(&l.current)
}

// Limit returns the configured capacity.
func (l *AdmissionLimiter) Limit() int64 {
	return atomic.LoadInt64(&l.limit)
}

// Remaining returns the number of free slots.
func (l *AdmissionLimiter) Remaining() int64 {
	remaining := l.Limit() - l.Current()
	if remaining < 0 {
		return 0
	}
	return remaining
}
