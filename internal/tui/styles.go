package tui

import "github.com/charmbracelet/lipgloss"

// Palette follows the web screens.
var (
	Indigo  = lipgloss.Color("#4F46E5")
	Purple  = lipgloss.Color("#7C3AED")
	Pink    = lipgloss.Color("#EC4899")
	Muted   = lipgloss.Color("#6B7280")
	Success = lipgloss.Color("#059669")
	Danger  = lipgloss.Color("#DC2626")
)

// Styles groups the lipgloss styles the model renders with.
type Styles struct {
	Title    lipgloss.Style
	Stage    lipgloss.Style
	Prompt   lipgloss.Style
	Cursor   lipgloss.Style
	Selected lipgloss.Style
	Option   lipgloss.Style
	Muted    lipgloss.Style
	Success  lipgloss.Style
	Error    lipgloss.Style
	Card     lipgloss.Style
	Bar      lipgloss.Style
}

// DefaultStyles returns the scanner's terminal styles.
func DefaultStyles() Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(Indigo),
		Stage:    lipgloss.NewStyle().Foreground(Purple),
		Prompt:   lipgloss.NewStyle().Bold(true),
		Cursor:   lipgloss.NewStyle().Foreground(Pink).Bold(true),
		Selected: lipgloss.NewStyle().Foreground(Indigo).Bold(true),
		Option:   lipgloss.NewStyle(),
		Muted:    lipgloss.NewStyle().Foreground(Muted),
		Success:  lipgloss.NewStyle().Foreground(Success),
		Error:    lipgloss.NewStyle().Foreground(Danger),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Purple).
			Padding(0, 1).
			MarginRight(1),
		Bar: lipgloss.NewStyle().Foreground(Indigo),
	}
}
