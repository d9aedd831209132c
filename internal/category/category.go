// Package category derives per-category views from timer snapshots and
// applies bulk lifecycle commands to every timer in a category.
package category

import (
	"errors"
	"fmt"

	"github.com/julianstephens/ticktock/internal/constants"
	"github.com/julianstephens/ticktock/internal/logger"
	"github.com/julianstephens/ticktock/internal/models"
)

// Group is one category and its timers in insertion order
type Group struct {
	Category string
	Timers   []models.Timer
}

// Summary is the completion aggregate of one category
type Summary struct {
	Category        string
	CompletedCount  int
	TotalCount      int
	ProgressPercent float64
}

// GroupByCategory buckets timers under categories, keeping the order of
// categories. A category with no timers yields an empty group; timers whose
// category is not listed are left out.
func GroupByCategory(timers []models.Timer, categories []string) []Group {
	index := make(map[string]int, len(categories))
	groups := make([]Group, 0, len(categories))
	for _, c := range categories {
		if _, dup := index[c]; dup {
			continue
		}
		index[c] = len(groups)
		groups = append(groups, Group{Category: c, Timers: []models.Timer{}})
	}

	for _, t := range timers {
		if i, ok := index[t.Category]; ok {
			groups[i].Timers = append(groups[i].Timers, t)
		}
	}
	return groups
}

// Summarize counts completed timers. ProgressPercent is 0 for an empty slice.
func Summarize(timers []models.Timer) Summary {
	s := Summary{TotalCount: len(timers)}
	for _, t := range timers {
		if t.IsCompleted() {
			s.CompletedCount++
		}
	}
	if s.TotalCount > 0 {
		s.ProgressPercent = 100 * float64(s.CompletedCount) / float64(s.TotalCount)
	}
	return s
}

// Filter returns the timers in category, or all of them for the "all"
// pseudo-category.
func Filter(timers []models.Timer, category string) []models.Timer {
	if category == constants.AllCategories || category == "" {
		return timers
	}
	out := []models.Timer{}
	for _, t := range timers {
		if t.Category == category {
			out = append(out, t)
		}
	}
	return out
}

// Commander is the subset of the timer store used by bulk commands
type Commander interface {
	Timers() []models.Timer
	Categories() []string
	Start(id string) error
	Pause(id string) error
	Reset(id string) error
}

// batcher is implemented by stores that can coalesce saves
type batcher interface {
	Batch(fn func())
}

// Aggregator applies category-wide commands through a Commander.
type Aggregator struct {
	store Commander
}

// NewAggregator wraps store
func NewAggregator(store Commander) *Aggregator {
	return &Aggregator{store: store}
}

// StartCategory starts every timer in category that is not completed. It
// returns the number of timers it was applied to.
func (a *Aggregator) StartCategory(category string) (int, error) {
	return a.apply(category, "start", func(t models.Timer) bool {
		return !t.IsCompleted()
	}, a.store.Start)
}

// PauseCategory pauses every running timer in category
func (a *Aggregator) PauseCategory(category string) (int, error) {
	return a.apply(category, "pause", models.Timer.IsRunning, a.store.Pause)
}

// ResetCategory resets every timer in category regardless of status
func (a *Aggregator) ResetCategory(category string) (int, error) {
	return a.apply(category, "reset", func(models.Timer) bool { return true }, a.store.Reset)
}

// Groups returns the current timers grouped by the store's categories
func (a *Aggregator) Groups() []Group {
	return GroupByCategory(a.store.Timers(), a.store.Categories())
}

// Summaries returns one Summary per category in category order
func (a *Aggregator) Summaries() []Summary {
	groups := a.Groups()
	out := make([]Summary, 0, len(groups))
	for _, g := range groups {
		s := Summarize(g.Timers)
		s.Category = g.Category
		out = append(out, s)
	}
	return out
}

// apply selects the matching timers once, then runs op on each. Errors from
// individual timers are joined and do not stop the rest.
func (a *Aggregator) apply(category, verb string, match func(models.Timer) bool, op func(id string) error) (int, error) {
	var targets []string
	for _, t := range a.store.Timers() {
		if t.Category == category && match(t) {
			targets = append(targets, t.ID)
		}
	}

	var errs []error
	applied := 0
	run := func() {
		for _, id := range targets {
			if err := op(id); err != nil {
				errs = append(errs, fmt.Errorf("%s %s: %w", verb, id, err))
				continue
			}
			applied++
		}
	}

	if b, ok := a.store.(batcher); ok {
		b.Batch(run)
	} else {
		run()
	}

	logger.Debug("Applied category command", "command", verb, "category", category, "timers", applied)
	return applied, errors.Join(errs...)
}
