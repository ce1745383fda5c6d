package quiz

import (
	"fmt"

	"github.com/pavelanni/scanner/internal/model"
)

// Session is one participant's pass through the quiz. It is not safe for
// concurrent use; the presentation layer owns it.
type Session struct {
	bank       Bank
	steps      *Steps
	scores     *Scores
	selections map[string]string
	name       string
}

// State is a serialisable snapshot of a Session.
type State struct {
	Stage      Stage                  `json:"stage"`
	Scores     map[string]int         `json:"scores"`
	Log        []model.AnswerLogEntry `json:"log"`
	Selections map[string]string      `json:"selections"`
	Name       string                 `json:"name"`
}

// NewSession starts a fresh pass at the image stage.
func NewSession(bank Bank) *Session {
	s := &Session{
		bank:       bank,
		scores:     NewScores(),
		selections: make(map[string]string),
	}
	s.steps = NewSteps(s.clear)
	return s
}

// Restore rebuilds a Session from a snapshot.
func Restore(bank Bank, st State) (*Session, error) {
	s := NewSession(bank)
	for k, v := range st.Scores {
		if !IsArchetype(k) {
			return nil, fmt.Errorf("restore scores: %w: %q", ErrInvalidKey, k)
		}
		s.scores.points[k] = v
	}
	for _, e := range st.Log {
		if !IsArchetype(e.Archetype) {
			return nil, fmt.Errorf("restore log: %w: %q", ErrInvalidKey, e.Archetype)
		}
	}
	s.scores.log = append([]model.AnswerLogEntry(nil), st.Log...)
	for q, o := range st.Selections {
		s.selections[q] = o
	}
	s.name = st.Name
	s.steps.current = st.Stage.normalize()
	return s, nil
}

// State snapshots the session.
func (s *Session) State() State {
	sel := make(map[string]string, len(s.selections))
	for q, o := range s.selections {
		sel[q] = o
	}
	return State{
		Stage:      s.steps.Current(),
		Scores:     s.scores.Map(),
		Log:        s.scores.Log(),
		Selections: sel,
		Name:       s.name,
	}
}

func (s *Session) clear() {
	s.scores.Reset()
	s.selections = make(map[string]string)
}

// Bank returns the question bank the session runs on.
func (s *Session) Bank() Bank {
	return s.bank
}

// Stage returns the current stage.
func (s *Session) Stage() Stage {
	return s.steps.Current()
}

// Module returns the module of the current stage; false on the results stage.
func (s *Session) Module() (model.Module, bool) {
	return s.bank.Module(s.Stage())
}

// Choose records an answer on the current stage. Re-selecting a question
// overwrites the selection but keeps earlier points and log entries.
func (s *Session) Choose(questionID, optionID string) error {
	m, ok := s.Module()
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownQuestion, questionID)
	}
	q, idx, ok := find(m, questionID)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownQuestion, questionID)
	}
	for _, o := range q.Options {
		if o.ID != optionID {
			continue
		}
		if err := s.scores.Add(o.Archetype, m.Points, Label(m.Kind, idx, o)); err != nil {
			return err
		}
		s.selections[q.ID] = o.ID
		return nil
	}
	return fmt.Errorf("%w: %q on %q", ErrUnknownOption, optionID, questionID)
}

// Selected returns the chosen option for a question, or "".
func (s *Session) Selected(questionID string) string {
	return s.selections[questionID]
}

// Complete reports whether every question of the current module is answered.
// The results stage has nothing to answer and reports false.
func (s *Session) Complete() bool {
	m, ok := s.Module()
	if !ok {
		return false
	}
	for _, q := range m.Questions {
		if s.selections[q.ID] == "" {
			return false
		}
	}
	return true
}

// Advance moves to the next stage when the current one is complete.
func (s *Session) Advance() (Stage, error) {
	return s.steps.Advance(s.Complete())
}

// Retreat moves back one stage. Returning to the image stage starts over.
func (s *Session) Retreat() Stage {
	return s.steps.Retreat()
}

// Jump forces the session to a stage. Jumping to the image stage starts over.
func (s *Session) Jump(stage Stage) Stage {
	return s.steps.Jump(stage)
}

// Reset starts over: image stage, zero scores, empty log and selections.
// The display name is kept.
func (s *Session) Reset() {
	s.steps.Reset()
}

// SetName stores the optional display name.
func (s *Session) SetName(name string) {
	s.name = name
}

// Name returns the display name.
func (s *Session) Name() string {
	return s.name
}

// Scores returns a copy of the per-archetype scores.
func (s *Session) Scores() map[string]int {
	return s.scores.Map()
}

// Log returns the answer log.
func (s *Session) Log() []model.AnswerLogEntry {
	return s.scores.Log()
}

// Answers is the number of answers given since the last reset.
func (s *Session) Answers() int {
	return s.scores.Answers()
}

// Top returns the primary and secondary archetypes.
func (s *Session) Top() []model.Archetype {
	return ComputeTop(s.scores.Map())
}

// Breakdown returns the ranked score breakdown.
func (s *Session) Breakdown() []model.Standing {
	return Breakdown(s.scores.Map())
}

// SharePayload returns the clipboard text for the current result.
func (s *Session) SharePayload() string {
	return SharePayload(s.name, s.Top())
}
