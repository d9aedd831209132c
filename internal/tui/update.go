package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/ticktock/internal/constants"
	"github.com/julianstephens/ticktock/internal/models"
	"github.com/julianstephens/ticktock/internal/tui/components/timerlist"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		// Tabs, banner, status and help take roughly six rows
		m.timerList.SetSize(msg.Width-4, msg.Height-6)
		m.historyView.SetSize(msg.Width-4, msg.Height-6)
		return m, nil

	case refreshMsg:
		m.refresh()
		return m, refreshTick()

	case eventMsg:
		m.refresh()
		cmds := []tea.Cmd{waitForEvent(m.events)}
		if m.settings.NotificationsEnabled {
			e := models.Event(msg)
			cmds = append(cmds, m.showBanner(e.Title()+": "+e.Message(), e.Kind))
		}
		return m, tea.Batch(cmds...)

	case eventsClosedMsg:
		m.events = nil
		return m, nil

	case clearBannerMsg:
		if msg.seq == m.bannerSeq {
			m.banner = ""
		}
		return m, nil
	}

	switch m.state {
	case constants.StateAddTimer:
		return m, m.updateForm(msg)
	case constants.StateConfirmDelete:
		return m, m.updateConfirmDelete(msg)
	}

	if handled, cmd := m.handleTimerMessages(msg); handled {
		return m, cmd
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Tab), key.Matches(keyMsg, m.keys.ShiftTab):
		if m.state == constants.StateTimers {
			m.state = constants.StateHistory
		} else {
			m.state = constants.StateTimers
		}
		return m, nil
	case key.Matches(keyMsg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	var cmd tea.Cmd
	switch m.state {
	case constants.StateTimers:
		cmd = m.updateTimers(keyMsg)
	case constants.StateHistory:
		m.historyView, cmd = m.historyView.Update(keyMsg)
	}
	return m, cmd
}

func (m *Model) updateTimers(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Filter):
		m.nextFilter()
		m.refresh()
		return nil
	case key.Matches(msg, m.keys.StartCategory):
		m.runBulk("Started", m.aggregator.StartCategory)
		return nil
	case key.Matches(msg, m.keys.PauseCategory):
		m.runBulk("Paused", m.aggregator.PauseCategory)
		return nil
	case key.Matches(msg, m.keys.ResetCategory):
		m.runBulk("Reset", m.aggregator.ResetCategory)
		return nil
	}

	var cmd tea.Cmd
	m.timerList, cmd = m.timerList.Update(msg)
	return cmd
}

// runBulk applies op to every category under the current filter
func (m *Model) runBulk(verb string, op func(string) (int, error)) {
	total := 0
	var errs []error
	for _, c := range m.bulkTargets() {
		n, err := op(c)
		total += n
		if err != nil {
			errs = append(errs, err)
		}
	}
	m.refresh()
	if err := errors.Join(errs...); err != nil {
		m.statusMsg = "Error: " + err.Error()
		return
	}
	m.statusMsg = fmt.Sprintf("%s %d timer(s) in %s", verb, total, m.filter)
}

// handleTimerMessages handles the messages emitted by the timer list
func (m *Model) handleTimerMessages(msg tea.Msg) (bool, tea.Cmd) {
	var err error
	switch msg := msg.(type) {
	case timerlist.AddTimerMsg:
		m.timerForm = m.newTimerFormModel()
		m.form = m.newTimerForm(m.timerForm)
		m.state = constants.StateAddTimer
		return true, m.form.Init()

	case timerlist.ToggleTimerMsg:
		t, getErr := m.store.Get(msg.ID)
		switch {
		case getErr != nil:
			err = getErr
		case t.IsRunning():
			err = m.store.Pause(msg.ID)
		case t.IsCompleted():
			m.statusMsg = fmt.Sprintf("%s is completed; reset it first", t.Name)
			return true, nil
		default:
			err = m.store.Start(msg.ID)
		}

	case timerlist.ResetTimerMsg:
		err = m.store.Reset(msg.ID)

	case timerlist.CompleteTimerMsg:
		_, _, err = m.store.Complete(msg.ID)

	case timerlist.DeleteTimerMsg:
		m.timerToDeleteID = msg.ID
		m.state = constants.StateConfirmDelete
		return true, nil

	default:
		return false, nil
	}

	if err != nil {
		m.statusMsg = "Error: " + err.Error()
	} else {
		m.statusMsg = ""
	}
	m.refresh()
	return true, nil
}

func (m *Model) updateForm(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = constants.StateTimers
		return nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		if err := m.submitTimerForm(m.timerForm); err != nil {
			m.statusMsg = "Error: " + err.Error()
		}
		m.refresh()
		m.state = constants.StateTimers
	case huh.StateAborted:
		m.state = constants.StateTimers
	}
	return cmd
}

func (m *Model) updateConfirmDelete(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Confirm):
		if m.timerToDeleteID != "" {
			if err := m.store.Delete(m.timerToDeleteID); err != nil {
				m.statusMsg = "Error: " + err.Error()
			}
			m.timerToDeleteID = ""
			m.refresh()
		}
		m.state = constants.StateTimers
	case key.Matches(keyMsg, m.keys.Cancel):
		m.timerToDeleteID = ""
		m.state = constants.StateTimers
	}
	return nil
}
