package model

import (
	"context"
	"time"
)

// UserRole represents an operator's access level.
type UserRole string

const (
	// UserRoleOperator can view the booth tally.
	UserRoleOperator UserRole = "operator"
	// UserRoleAdmin can also manage operators.
	UserRoleAdmin UserRole = "admin"
)

// User represents a booth operator account.
type User struct {
	ID           int64
	Username     string
	DisplayName  string
	PasswordHash string
	Role         UserRole
	Active       bool
	CreatedAt    time.Time
}

// AuthSession represents an operator login session.
type AuthSession struct {
	ID        string
	UserID    int64
	CreatedAt time.Time
	ExpiresAt time.Time
}

type userCtxKey struct{}

// ContextWithUser stores a user in the request context.
func ContextWithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, userCtxKey{}, u)
}

// UserFromContext retrieves the authenticated operator from context, or nil.
func UserFromContext(ctx context.Context) *User {
	u, _ := ctx.Value(userCtxKey{}).(*User)
	return u
}

type basePathCtxKey struct{}

// ContextWithBasePath stores the base path prefix in context.
func ContextWithBasePath(ctx context.Context, basePath string) context.Context {
	return context.WithValue(ctx, basePathCtxKey{}, basePath)
}

// BasePathFromContext retrieves the base path from context (empty string if not set).
func BasePathFromContext(ctx context.Context) string {
	bp, _ := ctx.Value(basePathCtxKey{}).(string)
	return bp
}

type csrfCtxKey struct{}

// ContextWithCSRFToken stores the CSRF token in context.
func ContextWithCSRFToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, csrfCtxKey{}, token)
}

// CSRFTokenFromContext retrieves the CSRF token from context.
func CSRFTokenFromContext(ctx context.Context) string {
	t, _ := ctx.Value(csrfCtxKey{}).(string)
	return t
}

// Archetype is one of the fixed personality categories.
type Archetype struct {
	Key         string   `json:"key"`
	Title       string   `json:"title"`
	Emoji       string   `json:"emoji"`
	Short       string   `json:"short"`
	Description string   `json:"description"`
	Tips        []string `json:"tips"`
}

// ModuleKind identifies a question module.
type ModuleKind string

const (
	ModuleImage  ModuleKind = "image"
	ModuleStory  ModuleKind = "story"
	ModuleForced ModuleKind = "forced"
)

// Option is one selectable answer. Archetype receives the module's points.
type Option struct {
	ID        string `json:"id" yaml:"id"`
	Text      string `json:"text" yaml:"text"`
	Subtitle  string `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
	ImageURL  string `json:"image_url,omitempty" yaml:"image_url,omitempty"`
	Archetype string `json:"archetype" yaml:"archetype"`
}

// Question is a prompt with its options.
type Question struct {
	ID      string   `json:"id" yaml:"id"`
	Prompt  string   `json:"prompt" yaml:"prompt"`
	Options []Option `json:"options" yaml:"options"`
}

// Module is an ordered group of questions answered on one stage.
type Module struct {
	Kind      ModuleKind `json:"kind" yaml:"kind"`
	Title     string     `json:"title" yaml:"title"`
	Hint      string     `json:"hint,omitempty" yaml:"hint,omitempty"`
	Points    int        `json:"points" yaml:"points"`
	Questions []Question `json:"questions" yaml:"questions"`
}

// AnswerLogEntry records one scoring event. Entries are never mutated.
type AnswerLogEntry struct {
	Archetype string `json:"archetype"`
	Points    int    `json:"points"`
	Label     string `json:"label"`
}

// Standing is one row of the score breakdown.
type Standing struct {
	Archetype Archetype
	Points    int
	Percent   float64
}

// ScanRecord is a completed result kept for the booth tally.
type ScanRecord struct {
	ID          string         `json:"id"`
	DisplayName string         `json:"display_name"`
	Primary     string         `json:"primary"`
	Secondary   string         `json:"secondary"`
	Scores      map[string]int `json:"scores"`
	Answers     int            `json:"answers"`
	CompletedAt time.Time      `json:"completed_at"`
}

// EventInfo describes the event the scanner runs at.
type EventInfo struct {
	Event string `json:"event"`
	Venue string `json:"venue"`
	Date  string `json:"date"`
}

// ScannerConfig holds runtime parameters set via CLI flags.
type ScannerConfig struct {
	BasePath        string        // URL prefix for sub-path deployments (e.g. "/booth")
	SecureCookies   bool          // Set Secure flag on cookies (disable for local dev)
	SessionTTL      time.Duration // lifetime of an idle quiz session
	InsightsEnabled bool
}
