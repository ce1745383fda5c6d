package quiz

import (
	"sort"

	"github.com/pavelanni/scanner/internal/model"
)

// Ranking orders every archetype by descending score. Ties keep catalog order.
func Ranking(scores map[string]int) []model.Archetype {
	ranked := Archetypes()
	sort.SliceStable(ranked, func(i, j int) bool {
		return scores[ranked[i].Key] > scores[ranked[j].Key]
	})
	return ranked
}

// ComputeTop returns the primary and secondary archetypes.
func ComputeTop(scores map[string]int) []model.Archetype {
	return Ranking(scores)[:2]
}

// Breakdown returns every archetype in ranking order with its share of the
// leading score.
func Breakdown(scores map[string]int) []model.Standing {
	best := 0
	for _, k := range Keys() {
		if scores[k] > best {
			best = scores[k]
		}
	}
	ranked := Ranking(scores)
	out := make([]model.Standing, len(ranked))
	for i, a := range ranked {
		pct := 0.0
		if best > 0 {
			pct = float64(scores[a.Key]) / float64(best) * 100
		}
		out[i] = model.Standing{Archetype: a, Points: scores[a.Key], Percent: pct}
	}
	return out
}
