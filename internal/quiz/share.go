package quiz

import (
	"strings"

	"github.com/pavelanni/scanner/internal/model"
)

// SharePayload formats the text handed to the clipboard on the results screen.
func SharePayload(name string, top []model.Archetype) string {
	if strings.TrimSpace(name) == "" {
		name = "-"
	}
	lines := make([]string, 0, len(top))
	for _, a := range top {
		lines = append(lines, a.Title+" — "+a.Short)
	}
	var sb strings.Builder
	sb.WriteString("Name: " + name + "\n")
	sb.WriteString("Results: \n")
	sb.WriteString(strings.Join(lines, "\n"))
	sb.WriteString("\n(Generated by Digital Personality Scanner)")
	return sb.String()
}
