package prompts

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"strings"
	"sync"
	"text/template"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/pavelanni/scanner/internal/model"
)

//go:embed templates/*.txt
var Templates embed.FS

var nameTagRegex = regexp.MustCompile(`(?i)</?\s*participant-name\b[^>]*>`)

const (
	maxNameRunes = 40
	maxWords     = 120
)

// Variant selects the tone of the insight prompt.
type Variant string

const (
	// VariantPlayful is upbeat booth-host banter.
	VariantPlayful Variant = "playful"
	// VariantNeutral is a plain summary.
	VariantNeutral Variant = "neutral"
	// VariantCoaching ends with one practical suggestion.
	VariantCoaching Variant = "coaching"
)

var variants = []Variant{VariantPlayful, VariantNeutral, VariantCoaching}

var (
	loadOnce  sync.Once
	loadErr   error
	templates map[Variant]*template.Template
)

// IsValidVariant checks if a prompt variant name is valid.
func IsValidVariant(v string) bool {
	for _, known := range variants {
		if Variant(v) == known {
			return true
		}
	}
	return false
}

// ScoreLine is one archetype score in the prompt.
type ScoreLine struct {
	Title  string
	Points int
}

// InsightData holds template data for insight prompts.
type InsightData struct {
	Name      string
	Primary   model.Archetype
	Secondary model.Archetype
	Scores    []ScoreLine
	Answers   []string
	Language  string
	MaxWords  int
}

// Load parses the insight templates from fsys. Only the first call has any
// effect.
func Load(fsys fs.FS) error {
	loadOnce.Do(func() {
		templates = make(map[Variant]*template.Template)
		for _, v := range variants {
			file := "templates/insight_" + string(v) + ".txt"
			content, err := fs.ReadFile(fsys, file)
			if err != nil {
				loadErr = fmt.Errorf("read prompt file %s: %w", file, err)
				return
			}
			tmpl, err := template.New(string(v)).Parse(string(content))
			if err != nil {
				loadErr = fmt.Errorf("parse prompt template %s: %w", file, err)
				return
			}
			templates[v] = tmpl
		}
	})
	return loadErr
}

// BuildInsightPrompt renders the system prompt for a finished quiz.
func BuildInsightPrompt(variant Variant, name, lang string, top []model.Archetype, breakdown []model.Standing, log []model.AnswerLogEntry) (string, error) {
	if templates == nil {
		return "", errors.New("templates not initialized: call Load first")
	}
	tmpl, ok := templates[variant]
	if !ok {
		if loadErr != nil {
			return "", fmt.Errorf("templates load failed: %w", loadErr)
		}
		return "", errors.New("invalid prompt variant: " + string(variant))
	}
	if len(top) < 2 {
		return "", fmt.Errorf("need primary and secondary type, got %d", len(top))
	}

	data := InsightData{
		Name:      sanitizeName(name),
		Primary:   top[0],
		Secondary: top[1],
		Language:  languageName(lang),
		MaxWords:  maxWords,
	}
	for _, s := range breakdown {
		data.Scores = append(data.Scores, ScoreLine{Title: s.Archetype.Title, Points: s.Points})
	}
	for _, e := range log {
		data.Answers = append(data.Answers, e.Label)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// languageName turns a tag like "id" into "Indonesian". Unknown tags read as
// English.
func languageName(lang string) string {
	tag, err := language.Parse(lang)
	if err != nil || tag == language.Und {
		return "English"
	}
	if name := display.English.Languages().Name(tag); name != "" {
		return name
	}
	return "English"
}

func sanitizeName(name string) string {
	name = nameTagRegex.ReplaceAllString(name, "")
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)
	name = strings.TrimSpace(name)

	if name == "" {
		return "[anonymous]"
	}
	if utf8.RuneCountInString(name) > maxNameRunes {
		name = string([]rune(name)[:maxNameRunes])
	}
	return name
}
