package quiz

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pavelanni/scanner/internal/model"
)

// AdvertisedMaxPoints is the "max possible points per type" shown on the
// results screen. It matches DefaultBank; Bank.MaxPointsPerArchetype is the
// live value for custom banks.
const AdvertisedMaxPoints = 3 + (3 * 2) + (4 * 1)

// moduleOrder is the fixed stage order of the question modules.
var moduleOrder = []model.ModuleKind{model.ModuleImage, model.ModuleStory, model.ModuleForced}

// Bank is the ordered set of question modules, one per stage.
type Bank struct {
	Modules []model.Module `yaml:"modules"`
}

// DefaultBank returns the built-in question bank.
func DefaultBank() Bank {
	return Bank{Modules: []model.Module{
		{
			Kind:   model.ModuleImage,
			Title:  "Choose the image that best represents you",
			Hint:   "Click one image to select.",
			Points: 3,
			Questions: []model.Question{{
				ID:     "image",
				Prompt: "Choose the image that best represents you",
				Options: []model.Option{
					{
						ID:        "visionary",
						Text:      "Sunset Reflection",
						Subtitle:  "Calm, deep, & imaginative",
						ImageURL:  "https://images.unsplash.com/photo-1501973801540-537f08ccae7b?q=80&w=1200&auto=format&fit=crop&crop=faces",
						Archetype: "visionary",
					},
					{
						ID:        "caregiver",
						Text:      "Coffee Shop Chat",
						Subtitle:  "Warm, social, comfortable",
						ImageURL:  "https://images.unsplash.com/photo-1506806732259-39c2d0268443?q=80&w=1200&auto=format&fit=crop&crop=faces",
						Archetype: "caregiver",
					},
					{
						ID:        "explorer",
						Text:      "Forest Path",
						Subtitle:  "Curious, spontaneous, adventurous",
						ImageURL:  "https://images.unsplash.com/photo-1501785888041-af3ef285b470?q=80&w=1200&auto=format&fit=crop&crop=faces",
						Archetype: "explorer",
					},
					{
						ID:        "strategist",
						Text:      "Minimal Desk",
						Subtitle:  "Structured, organized, focused",
						ImageURL:  "https://images.unsplash.com/photo-1515879218367-8466d910aaa4?q=80&w=1200&auto=format&fit=crop&crop=faces",
						Archetype: "strategist",
					},
				},
			}},
		},
		{
			Kind:   model.ModuleStory,
			Title:  "Story Reaction — Choose the response you'd most likely do",
			Points: 2,
			Questions: []model.Question{
				pair("story0", "You join a new project; the team is confused about unclear tasks. Your reaction?",
					"Calm the team & provide support", "caregiver",
					"Create breakdown & assign tasks", "strategist"),
				pair("story1", "Travel schedule changes due to weather. You…",
					"Improvise! Find something new", "explorer",
					"Check the safest & most efficient option", "strategist"),
				pair("story2", "Your idea is rejected in discussion. You…",
					"Evaluate it yourself first", "visionary",
					"Ask for reasons & find middle ground", "harmonizer"),
			},
		},
		{
			Kind:   model.ModuleForced,
			Title:  "Forced Choice — Pick one of two",
			Points: 1,
			Questions: []model.Question{
				pair("forced0", "", "Design big ideas", "visionary", "Listen & help people", "caregiver"),
				pair("forced1", "", "Find logical solutions", "strategist", "Maintain harmonious atmosphere", "harmonizer"),
				pair("forced2", "", "Solo exploration", "explorer", "Deep talk with 1 person", "caregiver"),
				pair("forced3", "", "Create new ideas", "visionary", "Complete structured tasks", "strategist"),
			},
		},
	}}
}

func pair(id, prompt, aText, aType, bText, bType string) model.Question {
	return model.Question{
		ID:     id,
		Prompt: prompt,
		Options: []model.Option{
			{ID: "a", Text: aText, Archetype: aType},
			{ID: "b", Text: bText, Archetype: bType},
		},
	}
}

// LoadBank reads a YAML question bank from path.
func LoadBank(path string) (Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Bank{}, fmt.Errorf("read %s: %w", path, err)
	}
	b, err := ParseBank(data)
	if err != nil {
		return Bank{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return b, nil
}

// ParseBank decodes and validates a YAML question bank.
func ParseBank(data []byte) (Bank, error) {
	var b Bank
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&b); err != nil {
		return Bank{}, fmt.Errorf("%w: %v", ErrInvalidBank, err)
	}
	if err := b.Validate(); err != nil {
		return Bank{}, err
	}
	return b, nil
}

// Validate checks the structural rules every bank must satisfy.
func (b Bank) Validate() error {
	if len(b.Modules) != len(moduleOrder) {
		return fmt.Errorf("%w: want %d modules, got %d", ErrInvalidBank, len(moduleOrder), len(b.Modules))
	}
	seen := make(map[string]bool)
	for i, m := range b.Modules {
		if m.Kind != moduleOrder[i] {
			return fmt.Errorf("%w: module %d must be %q, got %q", ErrInvalidBank, i, moduleOrder[i], m.Kind)
		}
		if m.Points <= 0 {
			return fmt.Errorf("%w: module %q needs positive points", ErrInvalidBank, m.Kind)
		}
		if len(m.Questions) == 0 {
			return fmt.Errorf("%w: module %q has no questions", ErrInvalidBank, m.Kind)
		}
		if m.Kind == model.ModuleImage && len(m.Questions) != 1 {
			return fmt.Errorf("%w: image module must have exactly one question", ErrInvalidBank)
		}
		for _, q := range m.Questions {
			if q.ID == "" {
				return fmt.Errorf("%w: module %q has a question without id", ErrInvalidBank, m.Kind)
			}
			if seen[q.ID] {
				return fmt.Errorf("%w: duplicate question id %q", ErrInvalidBank, q.ID)
			}
			seen[q.ID] = true
			switch {
			case m.Kind == model.ModuleImage && len(q.Options) == 0:
				return fmt.Errorf("%w: question %q has no options", ErrInvalidBank, q.ID)
			case m.Kind != model.ModuleImage && len(q.Options) != 2:
				return fmt.Errorf("%w: question %q must have exactly two options", ErrInvalidBank, q.ID)
			}
			opts := make(map[string]bool)
			for _, o := range q.Options {
				if o.ID == "" || opts[o.ID] {
					return fmt.Errorf("%w: question %q has a missing or duplicate option id", ErrInvalidBank, q.ID)
				}
				opts[o.ID] = true
				if !IsArchetype(o.Archetype) {
					return fmt.Errorf("question %q option %q: %w: %q", q.ID, o.ID, ErrInvalidKey, o.Archetype)
				}
			}
		}
	}
	return nil
}

// Module returns the module answered on stage s.
func (b Bank) Module(s Stage) (model.Module, bool) {
	if s < 0 || int(s) >= len(b.Modules) {
		return model.Module{}, false
	}
	return b.Modules[s], true
}

// MaxPointsPerArchetype computes the advertised ceiling from the live bank:
// each module contributes its question count times its points.
func (b Bank) MaxPointsPerArchetype() int {
	total := 0
	for _, m := range b.Modules {
		total += len(m.Questions) * m.Points
	}
	return total
}

// find locates a question and its index within the module.
func find(m model.Module, questionID string) (model.Question, int, bool) {
	for i, q := range m.Questions {
		if q.ID == questionID {
			return q, i, true
		}
	}
	return model.Question{}, 0, false
}

// Label renders the answer-log label for a selection.
func Label(kind model.ModuleKind, index int, opt model.Option) string {
	switch kind {
	case model.ModuleImage:
		return "Image: " + opt.Text
	case model.ModuleStory:
		return fmt.Sprintf("Story %d%s", index+1, strings.ToUpper(opt.ID))
	default:
		return fmt.Sprintf("Forced %d%s", index+1, strings.ToUpper(opt.ID))
	}
}
