package timerlist

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/ticktock/internal/category"
	"github.com/julianstephens/ticktock/internal/models"
	"github.com/julianstephens/ticktock/internal/utils"
)

const barWidth = 24

type AddTimerMsg struct{}

type ToggleTimerMsg struct {
	ID string
}

type ResetTimerMsg struct {
	ID string
}

type CompleteTimerMsg struct {
	ID string
}

type DeleteTimerMsg struct {
	ID string
}

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	statusStyles = map[models.TimerStatus]lipgloss.Style{
		models.StatusIdle:      lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		models.StatusRunning:   lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
		models.StatusPaused:    lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		models.StatusCompleted: lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Italic(true),
	}
)

type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Add      key.Binding
	Toggle   key.Binding
	Reset    key.Binding
	Complete key.Binding
	Delete   key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("enter", "s"),
			key.WithHelp("s", "start/pause"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		Complete: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "complete"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
	}
}

// Model renders timers grouped by category with a cursor over the timers.
type Model struct {
	groups []category.Group
	rows   []models.Timer
	cursor int
	keys   KeyMap
	bar    progress.Model
	width  int
	height int
}

func New(width, height int) Model {
	return Model{
		keys: DefaultKeyMap(),
		bar: progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(barWidth),
			progress.WithoutPercentage(),
		),
		width:  width,
		height: height,
	}
}

func (m Model) Keys() KeyMap {
	return m.keys
}

// SetGroups replaces the rendered timers. The cursor stays on the same
// timer when it still exists.
func (m *Model) SetGroups(groups []category.Group) {
	selected, hadSelection := m.Selected()

	m.groups = groups
	m.rows = nil
	for _, g := range groups {
		m.rows = append(m.rows, g.Timers...)
	}

	if hadSelection {
		for i, t := range m.rows {
			if t.ID == selected.ID {
				m.cursor = i
				return
			}
		}
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// Selected returns the timer under the cursor
func (m Model) Selected() (models.Timer, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return models.Timer{}, false
	}
	return m.rows[m.cursor], true
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, m.keys.Add):
		return m, func() tea.Msg { return AddTimerMsg{} }
	case key.Matches(keyMsg, m.keys.Toggle):
		if t, ok := m.Selected(); ok {
			return m, func() tea.Msg { return ToggleTimerMsg{ID: t.ID} }
		}
	case key.Matches(keyMsg, m.keys.Reset):
		if t, ok := m.Selected(); ok {
			return m, func() tea.Msg { return ResetTimerMsg{ID: t.ID} }
		}
	case key.Matches(keyMsg, m.keys.Complete):
		if t, ok := m.Selected(); ok {
			return m, func() tea.Msg { return CompleteTimerMsg{ID: t.ID} }
		}
	case key.Matches(keyMsg, m.keys.Delete):
		if t, ok := m.Selected(); ok {
			return m, func() tea.Msg { return DeleteTimerMsg{ID: t.ID} }
		}
	}
	return m, nil
}

func (m Model) View() string {
	if len(m.rows) == 0 {
		return "\n  No timers yet.\n  Press 'a' to add one."
	}

	var b strings.Builder
	nameWidth := m.nameWidth()
	row := 0
	for _, g := range m.groups {
		if len(g.Timers) == 0 {
			continue
		}
		summary := category.Summarize(g.Timers)
		fmt.Fprintf(&b, "%s  %s  %s\n",
			headerStyle.Render(g.Category),
			countStyle.Render(fmt.Sprintf("%d/%d", summary.CompletedCount, summary.TotalCount)),
			m.bar.ViewAs(summary.ProgressPercent/100),
		)

		for _, t := range g.Timers {
			cursor := "  "
			name := nameStyle.Render(pad(t.Name, nameWidth))
			if row == m.cursor {
				cursor = "▸ "
				name = selectedStyle.Render(pad(t.Name, nameWidth))
			}
			halfway := " "
			if t.HalfwayAlert {
				halfway = "½"
			}
			fmt.Fprintf(&b, "%s%s %6s %s %s %s\n",
				cursor,
				name,
				utils.FormatClock(t.RemainingTime),
				m.bar.ViewAs(1-t.Fraction()),
				halfway,
				statusStyles[t.Status].Render(string(t.Status)),
			)
			row++
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) nameWidth() int {
	w := 8
	for _, t := range m.rows {
		if n := lipgloss.Width(t.Name); n > w {
			w = n
		}
	}
	if limit := m.width - barWidth - 30; limit > 8 && w > limit {
		w = limit
	}
	return w
}

func pad(s string, width int) string {
	runes := []rune(s)
	if len(runes) > width {
		if width <= 1 {
			return string(runes[:width])
		}
		return string(runes[:width-1]) + "…"
	}
	gap := width - lipgloss.Width(s)
	if gap < 0 {
		gap = 0
	}
	return s + strings.Repeat(" ", gap)
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
