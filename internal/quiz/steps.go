package quiz

// Stage is a position in the quiz flow. Any value >= StageResults is the
// results stage.
type Stage int

const (
	StageImages Stage = iota
	StageStories
	StageForced
	StageResults
)

func (s Stage) String() string {
	switch s.normalize() {
	case StageImages:
		return "images"
	case StageStories:
		return "stories"
	case StageForced:
		return "forced"
	default:
		return "results"
	}
}

// IsResults reports whether s is the terminal stage.
func (s Stage) IsResults() bool {
	return s >= StageResults
}

func (s Stage) normalize() Stage {
	switch {
	case s < StageImages:
		return StageImages
	case s > StageResults:
		return StageResults
	}
	return s
}

// Steps is the linear stage machine. onStart runs once per transition into
// StageImages and on every explicit Reset.
type Steps struct {
	current Stage
	onStart func()
}

// NewSteps returns a controller at StageImages.
func NewSteps(onStart func()) *Steps {
	return &Steps{onStart: onStart}
}

// Current returns the current stage.
func (st *Steps) Current() Stage {
	return st.current
}

// Advance moves forward one stage when complete holds.
func (st *Steps) Advance(complete bool) (Stage, error) {
	if st.current.IsResults() {
		return st.current, ErrFinalStage
	}
	if !complete {
		return st.current, ErrIncomplete
	}
	st.current++
	return st.current, nil
}

// Retreat moves back one stage. It is a no-op on the results stage.
func (st *Steps) Retreat() Stage {
	if st.current.IsResults() || st.current == StageImages {
		return st.current
	}
	st.enter(st.current - 1)
	return st.current
}

// Jump forces the machine to s without checking completion.
func (st *Steps) Jump(s Stage) Stage {
	st.enter(s.normalize())
	return st.current
}

// Reset returns to StageImages and always fires the start hook.
func (st *Steps) Reset() {
	st.current = StageImages
	st.fire()
}

func (st *Steps) enter(s Stage) {
	prev := st.current
	st.current = s
	if s == StageImages && prev != StageImages {
		st.fire()
	}
}

func (st *Steps) fire() {
	if st.onStart != nil {
		st.onStart()
	}
}
