package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/ticktock/internal/constants"
	"github.com/julianstephens/ticktock/internal/utils"
)

// newCategoryOption is the select value that reveals the free-text category input
const newCategoryOption = "\x00new"

type TimerFormModel struct {
	Name        string
	Duration    string
	Category    string
	NewCategory string
	Halfway     bool
}

// newTimerFormModel pre-fills the form from settings and the current filter
func (m Model) newTimerFormModel() *TimerFormModel {
	fm := &TimerFormModel{
		Duration: strconv.Itoa(m.settings.DefaultDurationMinutes),
		Category: m.settings.DefaultCategory,
		Halfway:  m.settings.HalfwayAlertDefault,
	}
	if m.filter != constants.AllCategories && m.filterValid() {
		fm.Category = m.filter
	}
	return fm
}

// categoryOptions offers the existing categories, the default category and
// a choice to type a new one.
func (m Model) categoryOptions() []huh.Option[string] {
	var options []huh.Option[string]
	seen := map[string]bool{}
	add := func(c string) {
		if c == "" || seen[c] {
			return
		}
		seen[c] = true
		options = append(options, huh.NewOption(c, c))
	}
	for _, c := range m.store.Categories() {
		add(c)
	}
	add(m.settings.DefaultCategory)
	return append(options, huh.NewOption("+ New category", newCategoryOption))
}

func (m Model) newTimerForm(fm *TimerFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&fm.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Duration").
				Description("Minutes, m:ss, or a duration like 1h30m").
				Value(&fm.Duration).
				Validate(func(s string) error {
					_, err := utils.ParseDurationSeconds(s)
					return err
				}),
			huh.NewSelect[string]().
				Title("Category").
				Options(m.categoryOptions()...).
				Value(&fm.Category),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("New category").
				Value(&fm.NewCategory).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("category is required")
					}
					return nil
				}),
		).WithHideFunc(func() bool {
			return fm.Category != newCategoryOption
		}),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Halfway alert?").
				Value(&fm.Halfway),
		),
	)
}

// submitTimerForm creates the timer described by fm
func (m *Model) submitTimerForm(fm *TimerFormModel) error {
	seconds, err := utils.ParseDurationSeconds(fm.Duration)
	if err != nil {
		return err
	}
	category := fm.Category
	if category == newCategoryOption {
		category = fm.NewCategory
	}
	t, err := m.store.Create(strings.TrimSpace(fm.Name), seconds, strings.TrimSpace(category), fm.Halfway)
	if err != nil {
		return err
	}
	m.statusMsg = fmt.Sprintf("Added %s (%s)", t.Name, utils.FormatDuration(t.Duration))
	return nil
}
