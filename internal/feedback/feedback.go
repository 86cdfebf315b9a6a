// Package feedback tracks the short-lived floating texts the UI shows on
// clicks and rate-limit rejections.
package feedback

import (
	"time"

	"github.com/google/uuid"
)

const (
	// TTL is how long a floating text stays visible.
	TTL = 800 * time.Millisecond
	// MaxLive caps the number of live texts; the oldest is evicted first.
	MaxLive = 20
)

// Text is one ephemeral UI notice. Value carries the click delta; Text and
// Color, when set, override the default rendering (e.g. the red SLOW DOWN).
type Text struct {
	ID        string    `json:"id"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Value     float64   `json:"value"`
	Text      string    `json:"text,omitempty"`
	Color     string    `json:"color,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Stack holds live floating texts in creation order. Not safe for
// concurrent use; the engine serializes access. Never persisted.
type Stack struct {
	live []Text
}

func NewStack() *Stack {
	return &Stack{live: make([]Text, 0, MaxLive)}
}

// Push adds a text, evicting from the front once over capacity.
func (s *Stack) Push(t Text) Text {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	s.live = append(s.live, t)
	if n := len(s.live); n > MaxLive {
		s.live = append(s.live[:0], s.live[n-MaxLive:]...)
	}
	return t
}

// Sweep drops every text older than TTL and reports how many were removed.
func (s *Stack) Sweep(now time.Time) int {
	kept := s.live[:0]
	for _, t := range s.live {
		if now.Sub(t.CreatedAt) < TTL {
			kept = append(kept, t)
		}
	}
	removed := len(s.live) - len(kept)
	s.live = kept
	return removed
}

// Live returns the current texts, oldest first.
func (s *Stack) Live() []Text {
	out := make([]Text, len(s.live))
	copy(out, s.live)
	return out
}

func (s *Stack) Len() int { return len(s.live) }
