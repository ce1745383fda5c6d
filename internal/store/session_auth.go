package store

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/pavelanni/scanner/internal/model"
)

const (
	// Operators stay signed in for one event day; activity renews the login
	// once less than half of it remains.
	authSessionTTL = 12 * time.Hour
	tokenBytes     = 32
)

// CreateAuthSession issues a login token for an operator.
func (s *Store) CreateAuthSession(userID int64) (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	token := hex.EncodeToString(buf)

	now := time.Now().UTC()
	if _, err := s.db.Exec(
		`INSERT INTO auth_sessions (id, user_id, created_at, expires_at) VALUES (?, ?, ?, ?)`,
		token, userID, now, now.Add(authSessionTTL),
	); err != nil {
		return "", fmt.Errorf("insert auth session: %w", err)
	}
	return token, nil
}

// GetAuthSession resolves a login token. Unknown and expired tokens yield nil.
func (s *Store) GetAuthSession(token string) (*model.AuthSession, error) {
	var as model.AuthSession
	err := s.db.QueryRow(
		`SELECT id, user_id, created_at, expires_at FROM auth_sessions WHERE id = ?`, token,
	).Scan(&as.ID, &as.UserID, &as.CreatedAt, &as.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	switch remaining := as.ExpiresAt.Sub(now); {
	case remaining <= 0:
		return nil, s.DeleteAuthSession(token)
	case remaining < authSessionTTL/2:
		as.ExpiresAt = now.Add(authSessionTTL)
		if _, err := s.db.Exec(`UPDATE auth_sessions SET expires_at = ? WHERE id = ?`, as.ExpiresAt, token); err != nil {
			return nil, fmt.Errorf("renew auth session: %w", err)
		}
	}
	return &as, nil
}

// DeleteAuthSession removes a login token.
func (s *Store) DeleteAuthSession(token string) error {
	_, err := s.db.Exec(`DELETE FROM auth_sessions WHERE id = ?`, token)
	return err
}

// DeleteUserSessions signs a user out everywhere.
func (s *Store) DeleteUserSessions(userID int64) error {
	_, err := s.db.Exec(`DELETE FROM auth_sessions WHERE user_id = ?`, userID)
	return err
}

// CleanupExpiredSessions removes expired login tokens and returns how many
// were removed.
func (s *Store) CleanupExpiredSessions() (int64, error) {
	res, err := s.db.Exec(`DELETE FROM auth_sessions WHERE expires_at < ?`, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
