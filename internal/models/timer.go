package models

import (
	"fmt"
	"time"
)

type TimerStatus string

const (
	StatusIdle      TimerStatus = "idle"
	StatusRunning   TimerStatus = "running"
	StatusPaused    TimerStatus = "paused"
	StatusCompleted TimerStatus = "completed"
)

// Valid reports whether s is one of the known lifecycle states.
func (s TimerStatus) Valid() bool {
	switch s {
	case StatusIdle, StatusRunning, StatusPaused, StatusCompleted:
		return true
	}
	return false
}

// Timer is a named countdown. Durations and remaining time are whole seconds;
// timestamps are epoch milliseconds so exported files stay compatible with
// existing data.
type Timer struct {
	ID                    string      `json:"id"`
	Name                  string      `json:"name"`
	Duration              int         `json:"duration"`
	Category              string      `json:"category"`
	Status                TimerStatus `json:"status"`
	RemainingTime         int         `json:"remainingTime"`
	HalfwayAlert          bool        `json:"halfwayAlert"`
	HalfwayAlertTriggered bool        `json:"halfwayAlertTriggered"`
	CreatedAt             int64       `json:"createdAt"`
	CompletedAt           *int64      `json:"completedAt,omitempty"`
}

// HistoryEntry records a single completion of a timer
type HistoryEntry struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Duration    int    `json:"duration"`
	CompletedAt int64  `json:"completedAt"`
}

// Data is the pair of collections that crosses the persistence boundary
type Data struct {
	Timers  []Timer
	History []HistoryEntry
}

func (t Timer) IsRunning() bool   { return t.Status == StatusRunning }
func (t Timer) IsCompleted() bool { return t.Status == StatusCompleted }

// Created returns CreatedAt as a time.Time
func (t Timer) Created() time.Time {
	return time.UnixMilli(t.CreatedAt)
}

// Completed returns CompletedAt as a time.Time and whether it is set
func (t Timer) Completed() (time.Time, bool) {
	if t.CompletedAt == nil {
		return time.Time{}, false
	}
	return time.UnixMilli(*t.CompletedAt), true
}

// Remaining returns the remaining time as a time.Duration
func (t Timer) Remaining() time.Duration {
	return time.Duration(t.RemainingTime) * time.Second
}

// Fraction returns remainingTime/duration in [0, 1].
func (t Timer) Fraction() float64 {
	if t.Duration <= 0 {
		return 0
	}
	return float64(t.RemainingTime) / float64(t.Duration)
}

// AtOrPastHalfway reports whether remaining is at most half the duration.
// Compares 2*remaining with duration so odd durations are not truncated.
func (t Timer) AtOrPastHalfway() bool {
	return 2*t.RemainingTime <= t.Duration
}

// Validate checks the record-level invariants of a timer.
func (t Timer) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("timer id cannot be empty")
	}
	if t.Name == "" {
		return fmt.Errorf("timer %s: name cannot be empty", t.ID)
	}
	if t.Category == "" {
		return fmt.Errorf("timer %s: category cannot be empty", t.ID)
	}
	if t.Duration <= 0 {
		return fmt.Errorf("timer %s: duration must be positive, got %d", t.ID, t.Duration)
	}
	if t.RemainingTime < 0 || t.RemainingTime > t.Duration {
		return fmt.Errorf("timer %s: remaining time %d outside 0..%d", t.ID, t.RemainingTime, t.Duration)
	}
	if !t.Status.Valid() {
		return fmt.Errorf("timer %s: unknown status %q", t.ID, t.Status)
	}
	if t.Status == StatusCompleted && t.RemainingTime != 0 {
		return fmt.Errorf("timer %s: completed with %d seconds remaining", t.ID, t.RemainingTime)
	}
	if t.HalfwayAlertTriggered && !t.HalfwayAlert {
		return fmt.Errorf("timer %s: halfway alert triggered but not enabled", t.ID)
	}
	return nil
}

// Categories returns the distinct categories of timers in first-seen order.
func Categories(timers []Timer) []string {
	seen := make(map[string]struct{}, len(timers))
	var out []string
	for _, t := range timers {
		if _, ok := seen[t.Category]; ok {
			continue
		}
		seen[t.Category] = struct{}{}
		out = append(out, t.Category)
	}
	return out
}

// CloneTimers returns a deep copy of timers, including CompletedAt pointers.
func CloneTimers(timers []Timer) []Timer {
	out := make([]Timer, len(timers))
	for i, t := range timers {
		if t.CompletedAt != nil {
			at := *t.CompletedAt
			t.CompletedAt = &at
		}
		out[i] = t
	}
	return out
}

// CloneHistory returns a copy of entries
func CloneHistory(entries []HistoryEntry) []HistoryEntry {
	out := make([]HistoryEntry, len(entries))
	copy(out, entries)
	return out
}
