package history

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/julianstephens/ticktock/internal/models"
	"github.com/julianstephens/ticktock/internal/utils"
)

var (
	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(16)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	categoryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// Model shows completed timers newest first in a scrollable viewport.
type Model struct {
	viewport viewport.Model
	Entries  []models.HistoryEntry
	now      func() time.Time
	width    int
	height   int
}

func New(width, height int) Model {
	return Model{
		viewport: viewport.New(width, height),
		now:      time.Now,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.Entries) == 0 {
		return "No completed timers yet."
	}
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

// SetEntries replaces the history, which is stored oldest first.
func (m *Model) SetEntries(entries []models.HistoryEntry) {
	m.Entries = entries
	m.Render()
}

func (m *Model) Render() {
	if len(m.Entries) == 0 {
		m.viewport.SetContent("")
		return
	}

	now := m.now()
	var b strings.Builder
	for i := len(m.Entries) - 1; i >= 0; i-- {
		e := m.Entries[i]
		at := time.UnixMilli(e.CompletedAt)
		fmt.Fprintf(&b, "%s %s %s %s\n",
			timeStyle.Render(humanize.RelTime(at, now, "ago", "from now")),
			nameStyle.Render(e.Name),
			categoryStyle.Render(e.Category),
			utils.FormatDuration(e.Duration),
		)
	}
	m.viewport.SetContent(b.String())
}
