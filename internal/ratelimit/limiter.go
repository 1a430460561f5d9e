// Package ratelimit gates every outbound exchange message behind a shared
// sliding-window budget. A denied attempt is dropped for the current tick;
// the next tick re-evaluates from ledger truth, which is the retry mechanism.
package ratelimit

// Limiter is a sliding-window counter over logical time. It keeps the
// timestamps of accepted sends and frees capacity as they age past the
// window.
type Limiter struct {
	capacity int
	window   float64
	accepted []float64
}

// New creates a limiter allowing capacity sends per window of logical time.
func New(capacity int, window float64) *Limiter {
	return &Limiter{
		capacity: capacity,
		window:   window,
		accepted: make([]float64, 0, capacity),
	}
}

// TrySend reports whether an outbound message may be sent at the given
// logical time, recording it if allowed. Expired entries are evicted first.
func (l *Limiter) TrySend(now float64) bool {
	i := 0
	for i < len(l.accepted) && now-l.accepted[i] > l.window {
		i++
	}
	if i > 0 {
		l.accepted = append(l.accepted[:0], l.accepted[i:]...)
	}

	if len(l.accepted) < l.capacity {
		l.accepted = append(l.accepted, now)
		return true
	}
	return false
}

// Pending returns the number of accepted sends still inside the window.
func (l *Limiter) Pending() int {
	return len(l.accepted)
}
