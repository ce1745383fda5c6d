// Package tui runs the quiz in a terminal with bubbletea.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	appI18n "github.com/pavelanni/scanner/internal/i18n"
	"github.com/pavelanni/scanner/internal/model"
	"github.com/pavelanni/scanner/internal/quiz"
)

// clipboardWriteAll is a package-level variable to allow mocking in tests.
var clipboardWriteAll = clipboard.WriteAll

const barWidth = 24

// FinishFunc is called once each time the quiz reaches the results.
type FinishFunc func(rec model.ScanRecord) error

// item is one selectable option on the current stage.
type item struct {
	question model.Question
	index    int
	option   model.Option
}

// Model is the bubbletea model for one participant at the terminal.
type Model struct {
	ctx      context.Context
	session  *quiz.Session
	onFinish FinishFunc
	styles   Styles

	cursor    int
	nameInput textinput.Model
	editing   bool

	status    string
	statusErr bool
	confetti  *terminalCelebrator
	quitting  bool
}

// New creates a model over session. ctx carries the i18n localizer.
func New(ctx context.Context, session *quiz.Session, onFinish FinishFunc) Model {
	ti := textinput.New()
	ti.Placeholder = appI18n.T(ctx, "NamePlaceholder")
	ti.CharLimit = 60
	ti.Prompt = appI18n.T(ctx, "NameLabel") + ": "
	ti.SetValue(session.Name())

	return Model{
		ctx:       ctx,
		session:   session,
		onFinish:  onFinish,
		styles:    DefaultStyles(),
		nameInput: ti,
		confetti:  &terminalCelebrator{},
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) items() []item {
	mod, ok := m.session.Module()
	if !ok {
		return nil
	}
	var out []item
	for qi, q := range mod.Questions {
		for _, o := range q.Options {
			out = append(out, item{question: q, index: qi, option: o})
		}
	}
	return out
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if m.editing {
		return m.updateName(key)
	}

	switch key.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.items())-1 {
			m.cursor++
		}
	case "enter", " ":
		m.choose()
	case "n", "right":
		m.advance()
	case "b", "left":
		if m.session.Stage().IsResults() {
			break
		}
		m.session.Retreat()
		m.cursor = 0
		m.setStatus("", false)
	case "r":
		m.session.Reset()
		m.cursor = 0
		m.confetti.reset()
		m.setStatus("", false)
	case "e":
		if !m.session.Stage().IsResults() {
			m.editing = true
			m.nameInput.SetValue(m.session.Name())
			return m, m.nameInput.Focus()
		}
	case "c", "y":
		m.copyResults()
	}
	return m, nil
}

func (m Model) updateName(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyEnter:
		m.session.SetName(strings.TrimSpace(m.nameInput.Value()))
		m.editing = false
		m.nameInput.Blur()
		return m, nil
	case tea.KeyEsc:
		m.editing = false
		m.nameInput.Blur()
		return m, nil
	case tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(key)
	return m, cmd
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status, m.statusErr = s, isErr
}

func (m *Model) choose() {
	items := m.items()
	if m.cursor >= len(items) {
		return
	}
	it := items[m.cursor]
	if err := m.session.Choose(it.question.ID, it.option.ID); err != nil {
		slog.Error("choose failed", "question", it.question.ID, "option", it.option.ID, "error", err)
		m.setStatus(err.Error(), true)
		return
	}
	m.setStatus("", false)
	// Jump to the next unanswered question.
	for i := m.cursor + 1; i < len(items); i++ {
		if m.session.Selected(items[i].question.ID) == "" {
			m.cursor = i
			return
		}
	}
}

func (m *Model) advance() {
	stage, err := m.session.Advance()
	if err != nil {
		if errors.Is(err, quiz.ErrIncomplete) {
			m.setStatus(appI18n.T(m.ctx, "IncompleteStage"), true)
		}
		return
	}
	m.cursor = 0
	m.setStatus("", false)
	if !stage.IsResults() {
		return
	}

	top := m.session.Top()
	if m.onFinish != nil {
		err := m.onFinish(model.ScanRecord{
			DisplayName: m.session.Name(),
			Primary:     top[0].Key,
			Secondary:   top[1].Key,
			Scores:      m.session.Scores(),
			Answers:     m.session.Answers(),
		})
		if err != nil {
			slog.Warn("failed to record scan", "error", err)
		}
	}
	m.confetti.reset()
	quiz.Cheer(m.ctx, m.confetti)
}

func (m *Model) copyResults() {
	if !m.session.Stage().IsResults() {
		return
	}
	if err := clipboardWriteAll(m.session.SharePayload()); err != nil {
		slog.Debug("clipboard write failed", "error", err)
		m.setStatus(appI18n.T(m.ctx, "CopyFailed"), true)
		return
	}
	m.setStatus(appI18n.T(m.ctx, "CopySuccess"), false)
}

// View renders the current screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.styles.Title.Render(appI18n.T(m.ctx, "AppTitle")))
	b.WriteString("\n")
	b.WriteString(m.stepper())
	b.WriteString("\n\n")

	if m.session.Stage().IsResults() {
		b.WriteString(m.viewResults())
	} else {
		b.WriteString(m.viewStage())
	}

	if m.status != "" {
		b.WriteString("\n")
		if m.statusErr {
			b.WriteString(m.styles.Error.Render(m.status))
		} else {
			b.WriteString(m.styles.Success.Render(m.status))
		}
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render(appI18n.T(m.ctx, "TUIHelp")))
	b.WriteString("\n")
	return b.String()
}

func (m Model) stepper() string {
	labels := []string{"StageImages", "StageStories", "StageForced", "StageResults"}
	cur := min(m.session.Stage(), quiz.StageResults)
	parts := make([]string, len(labels))
	for i, id := range labels {
		label := appI18n.T(m.ctx, id)
		if quiz.Stage(i) == cur {
			parts[i] = m.styles.Stage.Bold(true).Render("[" + label + "]")
		} else {
			parts[i] = m.styles.Muted.Render(label)
		}
	}
	return strings.Join(parts, " › ")
}

func (m Model) viewStage() string {
	mod, _ := m.session.Module()
	var b strings.Builder
	b.WriteString(m.styles.Prompt.Render(mod.Title))
	b.WriteString("\n")

	items := m.items()
	lastQ := ""
	for i, it := range items {
		if it.question.ID != lastQ {
			lastQ = it.question.ID
			b.WriteString("\n")
			if it.question.Prompt != "" && it.question.Prompt != mod.Title {
				b.WriteString(m.styles.Prompt.Render(it.question.Prompt))
				b.WriteString("\n")
			}
		}
		cursor := "  "
		if i == m.cursor {
			cursor = m.styles.Cursor.Render("> ")
		}
		mark := "( )"
		style := m.styles.Option
		if m.session.Selected(it.question.ID) == it.option.ID {
			mark = "(•)"
			style = m.styles.Selected
		}
		line := mark + " " + it.option.Text
		if it.option.Subtitle != "" {
			line += m.styles.Muted.Render(" — " + it.option.Subtitle)
		}
		b.WriteString(cursor + style.Render(line) + "\n")
	}

	b.WriteString("\n")
	if m.editing {
		b.WriteString(m.nameInput.View())
	} else {
		name := m.session.Name()
		if name == "" {
			name = "-"
		}
		b.WriteString(m.styles.Muted.Render(appI18n.T(m.ctx, "NameLabel") + ": " + name))
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render(appI18n.Tp(m.ctx, "AnswersGiven", m.session.Answers())))
	b.WriteString("\n")
	return b.String()
}

func (m Model) viewResults() string {
	var b strings.Builder
	if line := m.confetti.render(); line != "" {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(m.styles.Title.Render("🎉 " + appI18n.T(m.ctx, "ResultsTitle") + " 🎉"))
	b.WriteString("\n\n")

	top := m.session.Top()
	cards := make([]string, len(top))
	for i, a := range top {
		label := appI18n.T(m.ctx, "PrimaryType")
		if i > 0 {
			label = appI18n.T(m.ctx, "SecondaryType")
		}
		var c strings.Builder
		c.WriteString(m.styles.Muted.Render(label) + "\n")
		c.WriteString(m.styles.Prompt.Render(a.Emoji+" "+a.Title) + "\n")
		c.WriteString(a.Short + "\n\n")
		c.WriteString("💡 " + appI18n.T(m.ctx, "Tips") + "\n")
		for _, tip := range a.Tips {
			c.WriteString("• " + tip + "\n")
		}
		cards[i] = m.styles.Card.Width(38).Render(strings.TrimRight(c.String(), "\n"))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	b.WriteString("\n\n")

	b.WriteString(m.styles.Prompt.Render("📊 " + appI18n.T(m.ctx, "ScoreBreakdown")))
	b.WriteString("\n")
	for _, s := range m.session.Breakdown() {
		filled := int(s.Percent / 100 * barWidth)
		bar := m.styles.Bar.Render(strings.Repeat("█", filled)) + m.styles.Muted.Render(strings.Repeat("░", barWidth-filled))
		b.WriteString(fmt.Sprintf("%-18s %s %2d\n", s.Archetype.Title, bar, s.Points))
	}
	b.WriteString(m.styles.Muted.Render(fmt.Sprintf("%s · %s",
		appI18n.Tp(m.ctx, "AnswersGiven", m.session.Answers()),
		appI18n.Td(m.ctx, "MaxPoints", map[string]any{"Max": quiz.AdvertisedMaxPoints}),
	)))
	b.WriteString("\n")
	return b.String()
}

// Run plays the quiz on the terminal until the user quits.
func Run(ctx context.Context, session *quiz.Session, onFinish FinishFunc) error {
	p := tea.NewProgram(New(ctx, session, onFinish), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
