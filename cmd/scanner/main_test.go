package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/pavelanni/scanner/internal/model"
	"github.com/pavelanni/scanner/internal/quiz"
	"github.com/pavelanni/scanner/internal/store"
)

func TestLoadBankDefault(t *testing.T) {
	b, err := loadBank("")
	if err != nil {
		t.Fatalf("loadBank: %v", err)
	}
	if b.MaxPointsPerArchetype() != quiz.AdvertisedMaxPoints {
		t.Errorf("default bank max = %d, want %d", b.MaxPointsPerArchetype(), quiz.AdvertisedMaxPoints)
	}
	if _, err := loadBank(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing bank file")
	}
}

func TestCheckBankRecordsHash(t *testing.T) {
	db, err := store.New(filepath.Join(t.TempDir(), "scanner.db"))
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	defer db.Close()

	bank := quiz.DefaultBank()
	if err := checkBank(db, bank); err != nil {
		t.Fatalf("checkBank: %v", err)
	}
	prev, err := db.SwapBankHash("other")
	if err != nil {
		t.Fatalf("SwapBankHash: %v", err)
	}
	data, _ := json.Marshal(bank)
	if prev != sha256sum(data) {
		t.Errorf("stored hash = %q, want bank hash", prev)
	}

	// A changed bank with scans on record still starts.
	if _, err := db.RecordScan(model.ScanRecord{Primary: "visionary", Secondary: "explorer"}); err != nil {
		t.Fatalf("RecordScan: %v", err)
	}
	if err := checkBank(db, bank); err != nil {
		t.Errorf("checkBank after change: %v", err)
	}
}

func TestExportCommand(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "scanner.db")
	db, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	if err := db.SetEventInfo(model.EventInfo{Event: "Stored Event", Venue: "Hall A"}); err != nil {
		t.Fatalf("SetEventInfo: %v", err)
	}
	_, err = db.RecordScan(model.ScanRecord{
		DisplayName: "Alex",
		Primary:     "visionary",
		Secondary:   "explorer",
		Scores:      map[string]int{"visionary": 7, "explorer": 3},
		Answers:     8,
	})
	if err != nil {
		t.Fatalf("RecordScan: %v", err)
	}
	db.Close()

	out := filepath.Join(dir, "export.json")
	cmd := rootCmd()
	cmd.SetArgs([]string{"export", "--db", dbPath, "--event", "DevFest", "-o", out})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("export: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	var exp model.ScanExport
	if err := json.Unmarshal(data, &exp); err != nil {
		t.Fatalf("unmarshal export: %v", err)
	}
	if exp.Event != "DevFest" || exp.Venue != "Hall A" {
		t.Errorf("event info = %q/%q, want DevFest/Hall A", exp.Event, exp.Venue)
	}
	if exp.NumScans != 1 || len(exp.Results) != 1 {
		t.Fatalf("scans = %d results = %d, want 1", exp.NumScans, len(exp.Results))
	}
	if got := exp.Results[0].Primary.Title; got != "The Visionary" {
		t.Errorf("primary title = %q, want The Visionary", got)
	}
	if exp.Tally["visionary"] != 1 {
		t.Errorf("tally = %v", exp.Tally)
	}
}
