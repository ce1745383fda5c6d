package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pavelanni/scanner/internal/model"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	// :memory: databases are per connection.
	db.SetMaxOpenConns(1)
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS scans (
		id TEXT PRIMARY KEY,
		display_name TEXT NOT NULL DEFAULT '',
		primary_key TEXT NOT NULL,
		secondary_key TEXT NOT NULL,
		scores TEXT NOT NULL,
		answers INTEGER NOT NULL DEFAULT 0,
		completed_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_scans_primary ON scans(primary_key);

	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		display_name TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'operator',
		active BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS auth_sessions (
		id TEXT PRIMARY KEY,
		user_id INTEGER NOT NULL,
		created_at DATETIME NOT NULL,
		expires_at DATETIME NOT NULL,
		FOREIGN KEY (user_id) REFERENCES users(id)
	);

	CREATE TABLE IF NOT EXISTS event_metadata (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// RecordScan stores a completed result. An empty ID gets a fresh UUID and a
// zero CompletedAt gets the current time.
func (s *Store) RecordScan(rec model.ScanRecord) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CompletedAt.IsZero() {
		rec.CompletedAt = time.Now()
	}
	scores, err := json.Marshal(rec.Scores)
	if err != nil {
		return "", fmt.Errorf("marshal scores: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO scans (id, display_name, primary_key, secondary_key, scores, answers, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.DisplayName, rec.Primary, rec.Secondary, string(scores), rec.Answers, rec.CompletedAt.UTC(),
	)
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

// GetScan returns a scan by ID.
func (s *Store) GetScan(id string) (model.ScanRecord, error) {
	row := s.db.QueryRow(
		`SELECT id, display_name, primary_key, secondary_key, scores, answers, completed_at
		 FROM scans WHERE id = ?`, id,
	)
	return scanRecord(row)
}

// ListScans returns scans, newest first. A limit <= 0 returns all of them.
func (s *Store) ListScans(limit int) ([]model.ScanRecord, error) {
	query := `SELECT id, display_name, primary_key, secondary_key, scores, answers, completed_at
		FROM scans ORDER BY completed_at DESC, id`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var scans []model.ScanRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		scans = append(scans, rec)
	}
	return scans, rows.Err()
}

// ScanCount returns the number of recorded scans.
func (s *Store) ScanCount() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM scans`).Scan(&count)
	return count, err
}

// ArchetypeTally counts scans per primary archetype.
func (s *Store) ArchetypeTally() (map[string]int, error) {
	rows, err := s.db.Query(`SELECT primary_key, COUNT(*) FROM scans GROUP BY primary_key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	tally := make(map[string]int)
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return nil, err
		}
		tally[key] = n
	}
	return tally, rows.Err()
}

// DeleteScans removes every recorded scan and returns how many were removed.
func (s *Store) DeleteScans() (int64, error) {
	res, err := s.db.Exec(`DELETE FROM scans`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (model.ScanRecord, error) {
	var rec model.ScanRecord
	var scores string
	if err := row.Scan(&rec.ID, &rec.DisplayName, &rec.Primary, &rec.Secondary, &scores, &rec.Answers, &rec.CompletedAt); err != nil {
		return rec, err
	}
	if err := json.Unmarshal([]byte(scores), &rec.Scores); err != nil {
		return rec, fmt.Errorf("decode scores for scan %s: %w", rec.ID, err)
	}
	return rec, nil
}
