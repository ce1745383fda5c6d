package quiz

import "github.com/pavelanni/scanner/internal/model"

// catalog is declared in tie-break order. Do not reorder.
var catalog = []model.Archetype{
	{
		Key:         "visionary",
		Title:       "The Visionary",
		Emoji:       "🌅",
		Short:       "Intuitive creator, big-picture thinker.",
		Description: "You love thinking about big ideas, seeking meaning, and tend to look far ahead. Your strength is innovation and vision; the risk is sometimes getting stuck in doubt or being too idealistic.",
		Tips: []string{
			"Create small checklists to execute your ideas.",
			"Sharing your vision with friends can make it more real.",
		},
	},
	{
		Key:         "caregiver",
		Title:       "The Caregiver",
		Emoji:       "❤️",
		Short:       "Empathetic, supportive, and relationship-focused.",
		Description: "You are very sensitive to others, enjoy helping, and create warm environments. Your strength is empathy; the risk is emotional exhaustion.",
		Tips: []string{
			"Set boundaries so your energy doesn't get drained.",
			"Maintain a self-care routine, even when busy helping others.",
		},
	},
	{
		Key:         "explorer",
		Title:       "The Explorer",
		Emoji:       "🧭",
		Short:       "Adventurous, spontaneous, loves new experiences.",
		Description: "You easily adapt and seek new experiences. Your strength is flexibility; the risk is getting bored and struggling with consistency.",
		Tips: []string{
			"Insert small routines to keep your goals moving forward.",
			"Record experiences so they can be evaluated later.",
		},
	},
	{
		Key:         "strategist",
		Title:       "The Strategist",
		Emoji:       "🧠",
		Short:       "Structured, logical, and results-focused.",
		Description: "You like clear plans, discipline, and measurable targets. Your strength is execution; the risk is being less flexible to rapid changes.",
		Tips: []string{
			"Set aside time for improvisation to increase flexibility.",
			"Delegate when details become overwhelming.",
		},
	},
	{
		Key:         "harmonizer",
		Title:       "The Harmonizer",
		Emoji:       "🕊️",
		Short:       "Diplomatic, stable, maintains balance.",
		Description: "You are skilled at defusing conflicts and maintaining relationships. Your strength is diplomacy; the risk is hesitation in making firm decisions.",
		Tips: []string{
			"Practice making small quick decisions every day.",
			"Learn to say 'no' politely.",
		},
	},
}

// Archetypes returns the catalog in declaration order.
func Archetypes() []model.Archetype {
	out := make([]model.Archetype, len(catalog))
	for i, a := range catalog {
		a.Tips = append([]string(nil), a.Tips...)
		out[i] = a
	}
	return out
}

// Keys returns the archetype keys in declaration order.
func Keys() []string {
	keys := make([]string, len(catalog))
	for i, a := range catalog {
		keys[i] = a.Key
	}
	return keys
}

// Lookup returns the archetype with the given key.
func Lookup(key string) (model.Archetype, bool) {
	for _, a := range catalog {
		if a.Key == key {
			a.Tips = append([]string(nil), a.Tips...)
			return a, true
		}
	}
	return model.Archetype{}, false
}

// IsArchetype reports whether key names a catalog entry.
func IsArchetype(key string) bool {
	_, ok := Lookup(key)
	return ok
}
