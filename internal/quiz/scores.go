package quiz

import (
	"fmt"

	"github.com/pavelanni/scanner/internal/model"
)

// Scores accumulates points per archetype and keeps the answer log.
type Scores struct {
	points map[string]int
	log    []model.AnswerLogEntry
}

// NewScores returns an accumulator with every archetype at zero.
func NewScores() *Scores {
	s := &Scores{}
	s.Reset()
	return s
}

// Add credits points to key and appends a log entry. Zero points means the
// default of one point.
func (s *Scores) Add(key string, points int, label string) error {
	if !IsArchetype(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	if points < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidPoints, points)
	}
	if points == 0 {
		points = 1
	}
	s.points[key] += points
	s.log = append(s.log, model.AnswerLogEntry{Archetype: key, Points: points, Label: label})
	return nil
}

// Reset zeroes every archetype and clears the log.
func (s *Scores) Reset() {
	s.points = make(map[string]int, len(catalog))
	for _, k := range Keys() {
		s.points[k] = 0
	}
	s.log = nil
}

// Points returns the score for key.
func (s *Scores) Points(key string) int {
	return s.points[key]
}

// Map returns a copy of the scores keyed by archetype.
func (s *Scores) Map() map[string]int {
	out := make(map[string]int, len(s.points))
	for k, v := range s.points {
		out[k] = v
	}
	return out
}

// Log returns a copy of the answer log in append order.
func (s *Scores) Log() []model.AnswerLogEntry {
	return append([]model.AnswerLogEntry(nil), s.log...)
}

// Answers is the number of answer events since the last reset.
func (s *Scores) Answers() int {
	return len(s.log)
}

// Total is the sum of all scores.
func (s *Scores) Total() int {
	total := 0
	for _, v := range s.points {
		total += v
	}
	return total
}
