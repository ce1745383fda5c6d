package store

import (
	"fmt"
	"time"

	"github.com/pavelanni/scanner/internal/model"
	"github.com/pavelanni/scanner/internal/quiz"
)

// ExportScans builds the booth tally export. Fields of override that are set
// win over the stored event metadata.
func (s *Store) ExportScans(override model.EventInfo) (model.ScanExport, error) {
	info, err := s.GetEventInfo()
	if err != nil {
		return model.ScanExport{}, fmt.Errorf("get event info: %w", err)
	}
	if override.Event != "" {
		info.Event = override.Event
	}
	if override.Venue != "" {
		info.Venue = override.Venue
	}
	if override.Date != "" {
		info.Date = override.Date
	}

	scans, err := s.ListScans(0)
	if err != nil {
		return model.ScanExport{}, fmt.Errorf("list scans: %w", err)
	}
	tally, err := s.ArchetypeTally()
	if err != nil {
		return model.ScanExport{}, fmt.Errorf("tally: %w", err)
	}

	results := make([]model.ScanResult, 0, len(scans))
	for _, sc := range scans {
		results = append(results, model.ScanResult{
			DisplayName: sc.DisplayName,
			Primary:     summary(sc.Primary),
			Secondary:   summary(sc.Secondary),
			Scores:      sc.Scores,
			Answers:     sc.Answers,
			CompletedAt: sc.CompletedAt,
		})
	}

	return model.ScanExport{
		Event:      info.Event,
		Venue:      info.Venue,
		Date:       info.Date,
		NumScans:   len(results),
		Tally:      tally,
		Results:    results,
		ExportedAt: time.Now().UTC(),
	}, nil
}

// summary names a stored archetype key. Keys no longer in the catalog keep
// their key as title.
func summary(key string) model.TypeSummary {
	if a, ok := quiz.Lookup(key); ok {
		return model.TypeSummary{Key: key, Title: a.Title}
	}
	return model.TypeSummary{Key: key, Title: key}
}
