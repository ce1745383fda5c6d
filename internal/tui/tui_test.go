package tui

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	appI18n "github.com/pavelanni/scanner/internal/i18n"
	"github.com/pavelanni/scanner/internal/model"
	"github.com/pavelanni/scanner/internal/quiz"
)

func TestMain(m *testing.M) {
	if err := appI18n.Init("en"); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func testContext() context.Context {
	ctx := context.Background()
	return appI18n.WithLocalizer(ctx, appI18n.NewLocalizer("en"))
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, keys ...tea.KeyMsg) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(Model)
	}
	return m
}

var enter = tea.KeyMsg{Type: tea.KeyEnter}

// playThrough answers the first option of every question and advances to
// the results.
func playThrough(t *testing.T, m Model) Model {
	t.Helper()
	for !m.session.Stage().IsResults() {
		n := len(m.items())
		m.cursor = 0
		for i := 0; i < n && !m.session.Complete(); i++ {
			m = press(t, m, enter)
		}
		m = press(t, m, runes("n"))
	}
	return m
}

func TestCursorMovement(t *testing.T) {
	m := New(testContext(), quiz.NewSession(quiz.DefaultBank()), nil)

	m = press(t, m, runes("k"))
	if m.cursor != 0 {
		t.Fatalf("cursor moved above first option: %d", m.cursor)
	}
	m = press(t, m, runes("j"), runes("j"), tea.KeyMsg{Type: tea.KeyDown})
	if m.cursor != 3 {
		t.Errorf("cursor = %d, want 3", m.cursor)
	}
	m = press(t, m, runes("j"))
	if m.cursor != 3 {
		t.Errorf("cursor past last option: %d", m.cursor)
	}
}

func TestChooseAndAdvance(t *testing.T) {
	s := quiz.NewSession(quiz.DefaultBank())
	m := New(testContext(), s, nil)

	m = press(t, m, runes("n"))
	if s.Stage() != quiz.StageImages {
		t.Fatalf("advanced without an answer: %v", s.Stage())
	}
	if !strings.Contains(m.View(), "Answer every question to continue.") {
		t.Errorf("missing incomplete notice in view:\n%s", m.View())
	}

	m = press(t, m, runes("j"), runes("j"), enter)
	if got := s.Selected("image"); got != "explorer" {
		t.Fatalf("selected = %q, want explorer", got)
	}
	if got := s.Scores()["explorer"]; got != 3 {
		t.Errorf("explorer = %d, want 3", got)
	}
	m = press(t, m, runes("n"))
	if s.Stage() != quiz.StageStories {
		t.Fatalf("stage = %v, want stories", s.Stage())
	}
	if m.cursor != 0 {
		t.Errorf("cursor not reset on new stage: %d", m.cursor)
	}
}

func TestChooseJumpsToNextQuestion(t *testing.T) {
	s := quiz.NewSession(quiz.DefaultBank())
	s.Jump(quiz.StageStories)
	m := New(testContext(), s, nil)

	m = press(t, m, enter)
	if m.cursor != 2 {
		t.Errorf("cursor = %d, want first option of the next question", m.cursor)
	}
}

func TestFinishRecordsAndCelebrates(t *testing.T) {
	var recs []model.ScanRecord
	s := quiz.NewSession(quiz.DefaultBank())
	s.SetName("Alex")
	m := New(testContext(), s, func(rec model.ScanRecord) error {
		recs = append(recs, rec)
		return nil
	})

	m = playThrough(t, m)
	if len(recs) != 1 {
		t.Fatalf("onFinish called %d times, want 1", len(recs))
	}
	rec := recs[0]
	if rec.DisplayName != "Alex" || rec.Answers != 8 {
		t.Errorf("record = %+v", rec)
	}
	if rec.Primary != s.Top()[0].Key || rec.Secondary != s.Top()[1].Key {
		t.Errorf("record top = %s/%s, want %s/%s", rec.Primary, rec.Secondary, s.Top()[0].Key, s.Top()[1].Key)
	}
	if len(m.confetti.bursts) != 3 {
		t.Errorf("bursts = %d, want 3", len(m.confetti.bursts))
	}

	view := m.View()
	for _, want := range []string{"Your Digital Personality", s.Top()[0].Title, "8 answers given"} {
		if !strings.Contains(view, want) {
			t.Errorf("results view missing %q", want)
		}
	}

	m = press(t, m, runes("n"), runes("b"))
	if !s.Stage().IsResults() {
		t.Errorf("left results with n/b: %v", s.Stage())
	}
	if len(recs) != 1 {
		t.Errorf("onFinish called again: %d", len(recs))
	}
}

func TestFinishErrorIsNotFatal(t *testing.T) {
	s := quiz.NewSession(quiz.DefaultBank())
	m := New(testContext(), s, func(model.ScanRecord) error {
		return errors.New("disk full")
	})
	m = playThrough(t, m)
	if !s.Stage().IsResults() {
		t.Fatalf("stage = %v, want results", s.Stage())
	}
}

func TestCopyResults(t *testing.T) {
	orig := clipboardWriteAll
	t.Cleanup(func() { clipboardWriteAll = orig })

	var copied string
	clipboardWriteAll = func(text string) error {
		copied = text
		return nil
	}

	s := quiz.NewSession(quiz.DefaultBank())
	s.SetName("Alex")
	m := New(testContext(), s, nil)

	m = press(t, m, runes("c"))
	if copied != "" {
		t.Fatalf("copied before results: %q", copied)
	}

	m = playThrough(t, m)
	m = press(t, m, runes("c"))
	if copied != s.SharePayload() {
		t.Errorf("copied = %q, want %q", copied, s.SharePayload())
	}
	if !strings.Contains(m.View(), "Results copied to clipboard") {
		t.Errorf("missing copy confirmation:\n%s", m.View())
	}

	clipboardWriteAll = func(string) error { return errors.New("no clipboard") }
	m = press(t, m, runes("c"))
	if !m.statusErr {
		t.Error("expected failure status after clipboard error")
	}
}

func TestEditName(t *testing.T) {
	s := quiz.NewSession(quiz.DefaultBank())
	m := New(testContext(), s, nil)

	m = press(t, m, runes("e"))
	if !m.editing {
		t.Fatal("not editing after e")
	}
	m = press(t, m, runes("Sam"), runes("q"))
	if !m.editing {
		t.Fatal("q should type into the name while editing")
	}
	m = press(t, m, enter)
	if m.editing {
		t.Error("still editing after enter")
	}
	if s.Name() != "Samq" {
		t.Errorf("name = %q, want Samq", s.Name())
	}

	m = press(t, m, runes("e"), runes("x"), tea.KeyMsg{Type: tea.KeyEsc})
	if s.Name() != "Samq" {
		t.Errorf("esc changed name to %q", s.Name())
	}
}

func TestRestartKeepsName(t *testing.T) {
	s := quiz.NewSession(quiz.DefaultBank())
	s.SetName("Alex")
	m := New(testContext(), s, nil)
	m = playThrough(t, m)

	m = press(t, m, runes("r"))
	if s.Stage() != quiz.StageImages || s.Answers() != 0 {
		t.Errorf("after restart: stage %v answers %d", s.Stage(), s.Answers())
	}
	if s.Name() != "Alex" {
		t.Errorf("name = %q, want Alex", s.Name())
	}
	if len(m.confetti.bursts) != 0 {
		t.Errorf("confetti not cleared: %d", len(m.confetti.bursts))
	}
}

func TestQuit(t *testing.T) {
	m := New(testContext(), quiz.NewSession(quiz.DefaultBank()), nil)
	next, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("command is not tea.Quit")
	}
	if next.(Model).View() != "" {
		t.Error("view not empty after quit")
	}
}

func TestTerminalCelebrator(t *testing.T) {
	c := &terminalCelebrator{}
	quiz.Cheer(context.Background(), c)
	out := c.render()
	// 100/10 + 50/10 + 50/10 sparkles.
	if got := len(strings.Fields(out)); got != 20 {
		t.Errorf("sparkles = %d, want 20", got)
	}
	c.reset()
	if c.render() != "" {
		t.Error("render after reset not empty")
	}
}
