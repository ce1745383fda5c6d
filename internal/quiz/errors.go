package quiz

import "errors"

var (
	// ErrInvalidKey is returned when a score targets an archetype that is not in the catalog.
	ErrInvalidKey = errors.New("unknown archetype key")
	// ErrInvalidPoints is returned for negative point values.
	ErrInvalidPoints = errors.New("points must not be negative")
	// ErrUnknownQuestion indicates the question is not part of the current stage.
	ErrUnknownQuestion = errors.New("question not found on current stage")
	// ErrUnknownOption indicates a submitted option ID is invalid.
	ErrUnknownOption = errors.New("option not found")
	// ErrIncomplete is returned when advancing before every question of the stage is answered.
	ErrIncomplete = errors.New("stage not complete")
	// ErrFinalStage is returned when advancing past the results stage.
	ErrFinalStage = errors.New("already at results")
	// ErrInvalidBank indicates a question bank failed validation.
	ErrInvalidBank = errors.New("invalid question bank")
)
