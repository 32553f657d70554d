package assessment

import (
	"fmt"
	"sync"
)

// Session is one assessment in progress. Each session owns its tallies; a
// mutation is applied atomically under the session lock.
type Session struct {
	rubric *Rubric

	mu      sync.Mutex
	tallies Tallies
}

// NewSession starts a session with every tally at zero.
func NewSession(r *Rubric) *Session {
	return &Session{
		rubric:  r,
		tallies: r.NewTallies(),
	}
}

// Rubric returns the session's configuration.
func (s *Session) Rubric() *Rubric {
	return s.rubric
}

// Adjust moves a category's yes count by +1 or -1, saturating at 0 and at the
// category total. Saturation is not an error.
func (s *Session) Adjust(level Level, category Category, delta int) error {
	if delta != 1 && delta != -1 {
		return fmt.Errorf("%w: %d (expected +1 or -1)", ErrInvalidDelta, delta)
	}
	idx, err := s.rubric.categoryIndex(level, category)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &s.tallies[level][idx].Tally
	t.Yes = clamp(t.Yes+delta, 0, t.Total)
	return nil
}

// Set stores a yes count for a category, clamped to 0..total.
func (s *Session) Set(level Level, category Category, yes int) error {
	idx, err := s.rubric.categoryIndex(level, category)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &s.tallies[level][idx].Tally
	t.Yes = clamp(yes, 0, t.Total)
	return nil
}

// Fill gives every category of a level full marks.
func (s *Session) Fill(level Level) error {
	if !level.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownLevel, level)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cats := s.tallies[level]
	for i := range cats {
		cats[i].Tally.Yes = cats[i].Tally.Total
	}
	return nil
}

// ResetLevel zeroes every tally of a level.
func (s *Session) ResetLevel(level Level) error {
	if !level.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownLevel, level)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cats := s.tallies[level]
	for i := range cats {
		cats[i].Tally.Yes = 0
	}
	return nil
}

// Reset zeroes every tally.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tallies = s.rubric.NewTallies()
}

// Tally returns the current tally of one category.
func (s *Session) Tally(level Level, category Category) (Tally, error) {
	idx, err := s.rubric.categoryIndex(level, category)
	if err != nil {
		return Tally{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tallies[level][idx].Tally, nil
}

// Tallies returns a snapshot of all tallies.
func (s *Session) Tallies() Tallies {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tallies.Clone()
}

// Result scores the current tallies against the session rubric.
func (s *Session) Result() (Result, error) {
	return ComputeScores(s.Tallies(), s.rubric.Weights(), s.rubric.Thresholds())
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
