// Package ratelimit implements the sliding-window click gate that keeps
// autoclickers from inflating the score.
package ratelimit

import (
	"math"
	"time"
)

const (
	// DefaultCPM is the click budget per minute (~11-12 clicks/sec).
	DefaultCPM = 700
	// DefaultWindow is how far back the gate looks on every call.
	DefaultWindow = 3 * time.Second
)

// Limiter is a sliding-window counter over accepted-click timestamps.
// It is not safe for concurrent use; the engine serializes access.
type Limiter struct {
	window  time.Duration
	max     int
	history []time.Time
}

// New derives the per-window budget from a clicks-per-minute limit:
// ceil((cpm/60) * windowSeconds).
func New(cpm int, window time.Duration) *Limiter {
	max := int(math.Ceil(float64(cpm) / 60.0 * window.Seconds()))
	return &Limiter{
		window:  window,
		max:     max,
		history: make([]time.Time, 0, max),
	}
}

// NewDefault returns a limiter with the stock 700 CPM / 3s parameters
// (35 clicks per window).
func NewDefault() *Limiter {
	return New(DefaultCPM, DefaultWindow)
}

// CheckAndRegister prunes the history to the current window, then either
// rejects (window full, history untouched) or records now and accepts.
// Pruning must happen on every call; stale entries are never evicted
// anywhere else.
func (l *Limiter) CheckAndRegister(now time.Time) bool {
	l.prune(now)
	if len(l.history) >= l.max {
		return false
	}
	l.history = append(l.history, now)
	return true
}

// InWindow reports how many accepted clicks fall inside the window ending
// at now.
func (l *Limiter) InWindow(now time.Time) int {
	l.prune(now)
	return len(l.history)
}

// Max returns the per-window click budget.
func (l *Limiter) Max() int { return l.max }

func (l *Limiter) prune(now time.Time) {
	cut := 0
	for cut < len(l.history) && now.Sub(l.history[cut]) >= l.window {
		cut++
	}
	if cut > 0 {
		l.history = append(l.history[:0], l.history[cut:]...)
	}
}
