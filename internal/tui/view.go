package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/ticktock/internal/constants"
	"github.com/julianstephens/ticktock/internal/models"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case constants.StateTimers:
		content = docStyle.Render(m.timerList.View())
	case constants.StateHistory:
		content = docStyle.Render(m.historyView.View())
	case constants.StateAddTimer:
		content = docStyle.Render(m.form.View())
	case constants.StateConfirmDelete:
		content = m.viewConfirmDelete()
	}

	parts := []string{m.viewTabs()}
	if m.banner != "" {
		parts = append(parts, m.viewBanner())
	}
	parts = append(parts, content)
	if m.statusMsg != "" {
		parts = append(parts, warningStyle.Render(m.statusMsg))
	}
	parts = append(parts, m.help.View(m))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) viewTabs() string {
	active := constants.StateTimers
	if m.state == constants.StateHistory {
		active = constants.StateHistory
	}

	var tabs []string
	for i, title := range []string{"Timers", "History"} {
		if active == constants.SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	tabs = append(tabs, filterStyle.Render(fmt.Sprintf("category: %s", m.filter)))
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewBanner() string {
	if m.bannerKind == models.EventHalfway {
		return halfwayBannerStyle.Render(m.banner)
	}
	return completedBannerStyle.Render(m.banner)
}

func (m Model) viewConfirmDelete() string {
	name := m.timerToDeleteID
	if t, err := m.store.Get(m.timerToDeleteID); err == nil {
		name = t.Name
	}
	return lipgloss.Place(m.width, m.height-4,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(fmt.Sprintf("Delete timer %q?", name)),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
