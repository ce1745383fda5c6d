package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pavelanni/scanner/internal/quiz"
)

// sparklesPerParticles scales a burst down to a row of glyphs.
const sparklesPerParticles = 10

var glyphs = []string{"✦", "✧", "•", "*", "✺"}

// terminalCelebrator turns confetti bursts into a line of coloured sparkles.
type terminalCelebrator struct {
	bursts []quiz.Burst
}

func (c *terminalCelebrator) Celebrate(_ context.Context, bursts ...quiz.Burst) error {
	c.bursts = append(c.bursts, bursts...)
	return nil
}

func (c *terminalCelebrator) reset() {
	c.bursts = nil
}

func (c *terminalCelebrator) render() string {
	var b strings.Builder
	n := 0
	for _, burst := range c.bursts {
		count := max(1, burst.Particles/sparklesPerParticles)
		for i := 0; i < count; i++ {
			glyph := glyphs[n%len(glyphs)]
			if len(burst.Colors) > 0 {
				color := lipgloss.Color(burst.Colors[n%len(burst.Colors)])
				glyph = lipgloss.NewStyle().Foreground(color).Render(glyph)
			}
			b.WriteString(glyph)
			b.WriteString(" ")
			n++
		}
	}
	return strings.TrimRight(b.String(), " ")
}
