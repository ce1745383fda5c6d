package model

import "time"

// ScanExport is the top-level JSON structure for the booth tally export.
type ScanExport struct {
	Event      string         `json:"event"`
	Venue      string         `json:"venue,omitempty"`
	Date       string         `json:"date"`
	NumScans   int            `json:"num_scans"`
	Tally      map[string]int `json:"tally"`
	Results    []ScanResult   `json:"results"`
	ExportedAt time.Time      `json:"exported_at"`
}

// ScanResult holds one completed scan for export.
type ScanResult struct {
	DisplayName string         `json:"display_name"`
	Primary     TypeSummary    `json:"primary"`
	Secondary   TypeSummary    `json:"secondary"`
	Scores      map[string]int `json:"scores"`
	Answers     int            `json:"answers"`
	CompletedAt time.Time      `json:"completed_at"`
}

// TypeSummary names an archetype in exports.
type TypeSummary struct {
	Key   string `json:"key"`
	Title string `json:"title"`
}
