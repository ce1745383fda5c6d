package store

import (
	"database/sql"

	"github.com/pavelanni/scanner/internal/model"
)

const (
	metaEvent    = "event"
	metaVenue    = "venue"
	metaDate     = "date"
	metaBankHash = "bank_hash"
)

// SetMetadata upserts a key-value pair in the event_metadata table.
func (s *Store) SetMetadata(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO event_metadata (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

// GetMetadata returns the value for a metadata key, or "" if it is missing.
func (s *Store) GetMetadata(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM event_metadata WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// SetEventInfo stores the non-empty EventInfo fields. Empty fields keep the
// previously stored value.
func (s *Store) SetEventInfo(info model.EventInfo) error {
	pairs := []struct{ k, v string }{
		{metaEvent, info.Event},
		{metaVenue, info.Venue},
		{metaDate, info.Date},
	}
	for _, p := range pairs {
		if p.v == "" {
			continue
		}
		if err := s.SetMetadata(p.k, p.v); err != nil {
			return err
		}
	}
	return nil
}

// GetEventInfo reads the stored EventInfo.
func (s *Store) GetEventInfo() (model.EventInfo, error) {
	var info model.EventInfo
	var err error
	if info.Event, err = s.GetMetadata(metaEvent); err != nil {
		return info, err
	}
	if info.Venue, err = s.GetMetadata(metaVenue); err != nil {
		return info, err
	}
	if info.Date, err = s.GetMetadata(metaDate); err != nil {
		return info, err
	}
	return info, nil
}

// SwapBankHash records the hash of the question bank in use and returns the
// previously recorded one ("" on first run).
func (s *Store) SwapBankHash(hash string) (string, error) {
	prev, err := s.GetMetadata(metaBankHash)
	if err != nil {
		return "", err
	}
	if prev == hash {
		return prev, nil
	}
	return prev, s.SetMetadata(metaBankHash, hash)
}
