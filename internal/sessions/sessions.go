// Package sessions keeps in-flight quiz state for the web presentation layer.
package sessions

import (
	"context"
	"errors"

	"github.com/pavelanni/scanner/internal/quiz"
)

// ErrNotFound is returned when no state is stored under an ID (or it expired).
var ErrNotFound = errors.New("quiz session not found")

// Repository stores quiz session snapshots by browser session ID.
type Repository interface {
	Load(ctx context.Context, id string) (quiz.State, error)
	Save(ctx context.Context, id string, st quiz.State) error
	Delete(ctx context.Context, id string) error
}
