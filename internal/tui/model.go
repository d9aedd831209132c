package tui

import (
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/ticktock/internal/category"
	"github.com/julianstephens/ticktock/internal/config"
	"github.com/julianstephens/ticktock/internal/constants"
	"github.com/julianstephens/ticktock/internal/models"
	"github.com/julianstephens/ticktock/internal/scheduler"
	"github.com/julianstephens/ticktock/internal/timers"
	"github.com/julianstephens/ticktock/internal/tui/components/history"
	"github.com/julianstephens/ticktock/internal/tui/components/timerlist"
)

const (
	refreshInterval = 250 * time.Millisecond
	bannerDuration  = 5 * time.Second
)

// eventMsg carries a scheduler event into the update loop
type eventMsg models.Event

type eventsClosedMsg struct{}

type refreshMsg time.Time

type clearBannerMsg struct {
	seq int
}

type Model struct {
	store       *timers.Store
	aggregator  *category.Aggregator
	scheduler   *scheduler.Scheduler
	settings    config.Settings
	events      <-chan models.Event
	state       constants.SessionState
	keys        KeyMap
	help        help.Model
	timerList   timerlist.Model
	historyView history.Model
	form        *huh.Form
	timerForm   *TimerFormModel
	filter      string
	quitting    bool
	width       int
	height      int

	timerToDeleteID string

	banner     string
	bannerKind models.EventKind
	bannerSeq  int
	statusMsg  string
}

// NewModel builds the TUI over an already loaded store. It subscribes to
// sched, so it must be called before the scheduler starts ticking.
func NewModel(store *timers.Store, agg *category.Aggregator, sched *scheduler.Scheduler, settings config.Settings) Model {
	m := Model{
		store:       store,
		aggregator:  agg,
		scheduler:   sched,
		settings:    settings,
		state:       constants.StateTimers,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		timerList:   timerlist.New(0, 0),
		historyView: history.New(0, 0),
		filter:      constants.AllCategories,
	}
	if sched != nil {
		m.events = sched.Subscribe(64)
	}
	m.refresh()
	return m
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	if m.state == constants.StateTimers {
		lk := m.timerList.Keys()
		keys = append(keys, lk.Add, lk.Toggle, lk.Reset, m.keys.Filter)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}
	if m.state != constants.StateTimers {
		return [][]key.Binding{global}
	}

	lk := m.timerList.Keys()
	timer := []key.Binding{lk.Up, lk.Down, lk.Add, lk.Toggle, lk.Reset, lk.Complete, lk.Delete}
	bulk := []key.Binding{m.keys.Filter, m.keys.StartCategory, m.keys.PauseCategory, m.keys.ResetCategory}
	return [][]key.Binding{global, timer, bulk}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForEvent(m.events), refreshTick())
}

// waitForEvent blocks on the next scheduler event
func waitForEvent(events <-chan models.Event) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		e, ok := <-events
		if !ok {
			return eventsClosedMsg{}
		}
		return eventMsg(e)
	}
}

func refreshTick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return refreshMsg(t)
	})
}

// refresh pulls the current timers and history out of the store
func (m *Model) refresh() {
	if !m.filterValid() {
		m.filter = constants.AllCategories
	}

	groups := m.aggregator.Groups()
	if m.filter != constants.AllCategories {
		groups = slices.DeleteFunc(groups, func(g category.Group) bool {
			return g.Category != m.filter
		})
	}
	m.timerList.SetGroups(groups)
	m.historyView.SetEntries(m.store.History())
}

func (m Model) filterValid() bool {
	return m.filter == constants.AllCategories || slices.Contains(m.store.Categories(), m.filter)
}

// nextFilter cycles all -> each category in order -> all
func (m *Model) nextFilter() {
	options := append([]string{constants.AllCategories}, m.store.Categories()...)
	i := slices.Index(options, m.filter)
	m.filter = options[(i+1)%len(options)]
}

// bulkTargets lists the categories a bulk command applies to
func (m Model) bulkTargets() []string {
	if m.filter == constants.AllCategories {
		return m.store.Categories()
	}
	return []string{m.filter}
}

func (m *Model) showBanner(text string, kind models.EventKind) tea.Cmd {
	m.banner = text
	m.bannerKind = kind
	m.bannerSeq++
	seq := m.bannerSeq
	return tea.Tick(bannerDuration, func(time.Time) tea.Msg {
		return clearBannerMsg{seq: seq}
	})
}
