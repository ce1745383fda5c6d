package quiz

import (
	"strings"
	"testing"

	"github.com/pavelanni/scanner/internal/model"
)

func TestSharePayload(t *testing.T) {
	got := SharePayload("Alex", ComputeTop(map[string]int{}))
	want := "Name: Alex\n" +
		"Results: \n" +
		"The Visionary — Intuitive creator, big-picture thinker.\n" +
		"The Caregiver — Empathetic, supportive, and relationship-focused.\n" +
		"(Generated by Digital Personality Scanner)"
	if got != want {
		t.Errorf("SharePayload mismatch:\ngot:\n%q\nwant:\n%q", got, want)
	}
}

func TestSharePayloadAnonymous(t *testing.T) {
	e, _ := Lookup("explorer")
	h, _ := Lookup("harmonizer")

	got := SharePayload("  ", []model.Archetype{e, h})
	if !strings.HasPrefix(got, "Name: -\nResults: \nThe Explorer — ") {
		t.Errorf("empty name must render as '-', got %q", got)
	}
}

func TestSessionSharePayload(t *testing.T) {
	s := NewSession(DefaultBank())
	s.SetName("Alex")
	s.Jump(StageResults)

	if got := s.SharePayload(); got != SharePayload("Alex", s.Top()) {
		t.Errorf("session payload mismatch: %q", got)
	}
}
