package models

import (
	"strings"
	"testing"
	"time"
)

func validTimer() Timer {
	return Timer{
		ID:            "t1",
		Name:          "Tea",
		Duration:      180,
		Category:      "kitchen",
		Status:        StatusIdle,
		RemainingTime: 180,
		CreatedAt:     1700000000000,
	}
}

func TestTimerValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Timer)
		wantErr string
	}{
		{"valid", func(*Timer) {}, ""},
		{"empty id", func(t *Timer) { t.ID = "" }, "id cannot be empty"},
		{"empty name", func(t *Timer) { t.Name = "" }, "name cannot be empty"},
		{"empty category", func(t *Timer) { t.Category = "" }, "category cannot be empty"},
		{"zero duration", func(t *Timer) { t.Duration = 0; t.RemainingTime = 0 }, "duration must be positive"},
		{"negative remaining", func(t *Timer) { t.RemainingTime = -1 }, "outside 0..180"},
		{"remaining over duration", func(t *Timer) { t.RemainingTime = 181 }, "outside 0..180"},
		{"unknown status", func(t *Timer) { t.Status = "stopped" }, "unknown status"},
		{"completed with time left", func(t *Timer) { t.Status = StatusCompleted }, "completed with 180 seconds remaining"},
		{"triggered without alert", func(t *Timer) { t.HalfwayAlertTriggered = true }, "halfway alert triggered"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm := validTimer()
			tt.mutate(&tm)
			err := tm.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestAtOrPastHalfway(t *testing.T) {
	tests := []struct {
		duration, remaining int
		want                bool
	}{
		{600, 301, false},
		{600, 300, true},
		{600, 0, true},
		{5, 3, false},
		{5, 2, true},
		{1, 1, false},
	}
	for _, tt := range tests {
		tm := Timer{Duration: tt.duration, RemainingTime: tt.remaining}
		if got := tm.AtOrPastHalfway(); got != tt.want {
			t.Errorf("AtOrPastHalfway(%d/%d) = %v, want %v", tt.remaining, tt.duration, got, tt.want)
		}
	}
}

func TestTimerAccessors(t *testing.T) {
	tm := validTimer()
	tm.RemainingTime = 45

	if got := tm.Remaining(); got != 45*time.Second {
		t.Errorf("Remaining() = %v", got)
	}
	if got := tm.Fraction(); got != 0.25 {
		t.Errorf("Fraction() = %v", got)
	}
	if got := (Timer{}).Fraction(); got != 0 {
		t.Errorf("Fraction() with zero duration = %v", got)
	}
	if !tm.Created().Equal(time.UnixMilli(1700000000000)) {
		t.Errorf("Created() = %v", tm.Created())
	}
	if _, ok := tm.Completed(); ok {
		t.Error("Completed() reported a time for an unfinished timer")
	}

	at := int64(1700000060000)
	tm.CompletedAt = &at
	if got, ok := tm.Completed(); !ok || got.UnixMilli() != at {
		t.Errorf("Completed() = %v, %v", got, ok)
	}
}

func TestCategories(t *testing.T) {
	timers := []Timer{
		{Category: "work"},
		{Category: "home"},
		{Category: "work"},
		{Category: "gym"},
	}
	got := Categories(timers)
	if strings.Join(got, ",") != "work,home,gym" {
		t.Errorf("Categories() = %v", got)
	}
	if got := Categories(nil); len(got) != 0 {
		t.Errorf("Categories(nil) = %v", got)
	}
}

func TestCloneTimersCopiesCompletedAt(t *testing.T) {
	at := int64(5)
	original := []Timer{{ID: "a", CompletedAt: &at}, {ID: "b"}}

	clone := CloneTimers(original)
	*clone[0].CompletedAt = 99
	clone[1].Name = "changed"

	if *original[0].CompletedAt != 5 {
		t.Error("clone shares CompletedAt with the original")
	}
	if original[1].Name != "" {
		t.Error("clone shares elements with the original")
	}
}

func TestSnapshot(t *testing.T) {
	at := time.Date(2025, 3, 14, 9, 26, 53, 589000000, time.FixedZone("EST", -5*3600))
	s := NewSnapshot(nil, nil, at)

	if s.ExportDate != "2025-03-14T14:26:53.589Z" {
		t.Errorf("ExportDate = %q", s.ExportDate)
	}
	if s.Timers == nil || s.History == nil {
		t.Error("nil collections should become empty slices")
	}

	tm := validTimer()
	d := NewSnapshot([]Timer{tm}, []HistoryEntry{{ID: "h1"}}, at).Data()
	if len(d.Timers) != 1 || len(d.History) != 1 || d.Timers[0].ID != "t1" {
		t.Errorf("Data() = %+v", d)
	}
}

func TestEventText(t *testing.T) {
	tests := []struct {
		kind        EventKind
		title, text string
	}{
		{EventHalfway, "Halfway Alert", "Tea is halfway complete!"},
		{EventCompleted, "Timer Complete", "Tea has finished!"},
		{"other", "Timer", "Tea"},
	}
	for _, tt := range tests {
		e := Event{Kind: tt.kind, Name: "Tea"}
		if e.Title() != tt.title || e.Message() != tt.text {
			t.Errorf("%s: got %q / %q", tt.kind, e.Title(), e.Message())
		}
	}
}
