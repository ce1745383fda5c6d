package quiz

import (
	"errors"
	"testing"
)

func TestScoresAdd(t *testing.T) {
	s := NewScores()

	if err := s.Add("visionary", 3, "Image: Sunset Reflection"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.Add("caregiver", 0, "default"); err != nil {
		t.Fatalf("Add default: %v", err)
	}
	if got := s.Points("visionary"); got != 3 {
		t.Errorf("visionary = %d, want 3", got)
	}
	if got := s.Points("caregiver"); got != 1 {
		t.Errorf("caregiver = %d, want 1 (default points)", got)
	}

	log := s.Log()
	if len(log) != 2 {
		t.Fatalf("expected 2 log entries, got %d", len(log))
	}
	if log[0].Label != "Image: Sunset Reflection" || log[0].Points != 3 || log[0].Archetype != "visionary" {
		t.Errorf("unexpected first entry: %+v", log[0])
	}
	if log[1].Points != 1 {
		t.Errorf("default entry should log 1 point, got %d", log[1].Points)
	}
}

func TestScoresRejectsBadInput(t *testing.T) {
	s := NewScores()

	err := s.Add("wizard", 1, "x")
	if !errors.Is(err, ErrInvalidKey) {
		t.Errorf("expected ErrInvalidKey, got %v", err)
	}
	err = s.Add("visionary", -2, "x")
	if !errors.Is(err, ErrInvalidPoints) {
		t.Errorf("expected ErrInvalidPoints, got %v", err)
	}
	if s.Answers() != 0 || s.Total() != 0 {
		t.Errorf("rejected adds must not change state: answers=%d total=%d", s.Answers(), s.Total())
	}
}

func TestScoreConservation(t *testing.T) {
	s := NewScores()
	adds := []struct {
		key    string
		points int
	}{
		{"visionary", 3}, {"strategist", 2}, {"strategist", 2}, {"harmonizer", 1},
		{"explorer", 0}, {"caregiver", 2}, {"visionary", 1},
	}
	for _, a := range adds {
		if err := s.Add(a.key, a.points, "t"); err != nil {
			t.Fatalf("Add(%s): %v", a.key, err)
		}
	}

	logged := 0
	for _, e := range s.Log() {
		logged += e.Points
	}
	if s.Total() != logged {
		t.Errorf("Total() = %d, sum of log = %d", s.Total(), logged)
	}

	s.Reset()
	if err := s.Add("explorer", 2, "after reset"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if s.Total() != 2 || s.Answers() != 1 {
		t.Errorf("after reset expected total 2 and 1 answer, got %d and %d", s.Total(), s.Answers())
	}
}

func TestScoresResetIdempotent(t *testing.T) {
	s := NewScores()
	_ = s.Add("visionary", 3, "x")

	for i := 0; i < 3; i++ {
		s.Reset()
		m := s.Map()
		if len(m) != 5 {
			t.Fatalf("expected all 5 archetypes present, got %d", len(m))
		}
		for k, v := range m {
			if v != 0 {
				t.Errorf("reset %d: %s = %d, want 0", i, k, v)
			}
		}
		if s.Answers() != 0 {
			t.Errorf("reset %d: log not empty", i)
		}
	}
}

func TestScoresCopiesAreDetached(t *testing.T) {
	s := NewScores()
	_ = s.Add("visionary", 3, "x")

	m := s.Map()
	m["visionary"] = 100
	log := s.Log()
	log[0].Points = 100

	if s.Points("visionary") != 3 {
		t.Error("Map() must return a copy")
	}
	if s.Log()[0].Points != 3 {
		t.Error("Log() must return a copy")
	}
}
