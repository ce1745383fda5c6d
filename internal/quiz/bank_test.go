package quiz

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pavelanni/scanner/internal/model"
)

func TestDefaultBankValid(t *testing.T) {
	b := DefaultBank()
	if err := b.Validate(); err != nil {
		t.Fatalf("default bank invalid: %v", err)
	}
	if got := b.MaxPointsPerArchetype(); got != 13 {
		t.Errorf("MaxPointsPerArchetype() = %d, want 13", got)
	}
	if AdvertisedMaxPoints != 13 {
		t.Errorf("AdvertisedMaxPoints = %d, want 13", AdvertisedMaxPoints)
	}

	counts := map[model.ModuleKind]int{}
	for _, m := range b.Modules {
		counts[m.Kind] = len(m.Questions)
	}
	if counts[model.ModuleImage] != 1 || counts[model.ModuleStory] != 3 || counts[model.ModuleForced] != 4 {
		t.Errorf("unexpected question counts: %v", counts)
	}

	if _, ok := b.Module(StageResults); ok {
		t.Error("results stage has no module")
	}
}

func TestCatalogOrder(t *testing.T) {
	want := []string{"visionary", "caregiver", "explorer", "strategist", "harmonizer"}
	got := Keys()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Keys() = %v, want %v", got, want)
	}

	a := Archetypes()
	a[0].Tips[0] = "mutated"
	if v, _ := Lookup("visionary"); v.Tips[0] == "mutated" {
		t.Error("Archetypes() must not expose catalog storage")
	}
}

func TestLabel(t *testing.T) {
	tests := []struct {
		kind  model.ModuleKind
		index int
		opt   model.Option
		want  string
	}{
		{model.ModuleImage, 0, model.Option{ID: "explorer", Text: "Forest Path"}, "Image: Forest Path"},
		{model.ModuleStory, 2, model.Option{ID: "b"}, "Story 3B"},
		{model.ModuleForced, 0, model.Option{ID: "a"}, "Forced 1A"},
	}
	for _, tt := range tests {
		if got := Label(tt.kind, tt.index, tt.opt); got != tt.want {
			t.Errorf("Label(%s, %d) = %q, want %q", tt.kind, tt.index, got, tt.want)
		}
	}
}

const customBank = `
modules:
  - kind: image
    title: Pick a place
    points: 3
    questions:
      - id: image
        prompt: Pick a place
        options:
          - {id: beach, text: Beach, archetype: explorer}
          - {id: library, text: Library, archetype: strategist}
  - kind: story
    title: Stories
    points: 2
    questions:
      - id: s1
        prompt: A friend is upset.
        options:
          - {id: a, text: Listen, archetype: caregiver}
          - {id: b, text: Mediate, archetype: harmonizer}
  - kind: forced
    title: Quick picks
    points: 1
    questions:
      - id: f1
        options:
          - {id: a, text: Dream, archetype: visionary}
          - {id: b, text: Plan, archetype: strategist}
      - id: f2
        options:
          - {id: a, text: Roam, archetype: explorer}
          - {id: b, text: Settle, archetype: harmonizer}
`

func TestParseBank(t *testing.T) {
	b, err := ParseBank([]byte(customBank))
	if err != nil {
		t.Fatalf("ParseBank: %v", err)
	}
	if got := b.MaxPointsPerArchetype(); got != 3+2+2 {
		t.Errorf("MaxPointsPerArchetype() = %d, want 7", got)
	}

	s := NewSession(b)
	if err := s.Choose("image", "beach"); err != nil {
		t.Fatalf("Choose: %v", err)
	}
	if s.Scores()["explorer"] != 3 {
		t.Errorf("explorer = %d, want 3", s.Scores()["explorer"])
	}
}

func TestParseBankErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(string) string
		wantErr error
	}{
		{"unknown archetype", func(s string) string { return strings.Replace(s, "archetype: caregiver", "archetype: wizard", 1) }, ErrInvalidKey},
		{"unknown field", func(s string) string { return strings.Replace(s, "title: Stories", "colour: red", 1) }, ErrInvalidBank},
		{"wrong order", func(s string) string {
			s = strings.Replace(s, "kind: story", "kind: tmp", 1)
			s = strings.Replace(s, "kind: forced", "kind: story", 1)
			return strings.Replace(s, "kind: tmp", "kind: forced", 1)
		}, ErrInvalidBank},
		{"duplicate id", func(s string) string { return strings.Replace(s, "id: f2", "id: f1", 1) }, ErrInvalidBank},
		{"three options", func(s string) string {
			return strings.Replace(s, "- {id: b, text: Plan, archetype: strategist}",
				"- {id: b, text: Plan, archetype: strategist}\n          - {id: c, text: Both, archetype: caregiver}", 1)
		}, ErrInvalidBank},
		{"zero points", func(s string) string { return strings.Replace(s, "points: 1", "points: 0", 1) }, ErrInvalidBank},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBank([]byte(tt.mutate(customBank)))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadBank(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank.yaml")
	if err := os.WriteFile(path, []byte(customBank), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadBank(path); err != nil {
		t.Fatalf("LoadBank: %v", err)
	}
	if _, err := LoadBank(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
