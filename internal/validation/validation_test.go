package validation

import (
	"errors"
	"testing"

	apperrors "github.com/julianstephens/ticktock/internal/errors"
	"github.com/julianstephens/ticktock/internal/models"
)

func TestValidateNewTimer(t *testing.T) {
	validator := New()

	tests := []struct {
		name      string
		timerName string
		duration  int
		category  string
		wantField string
	}{
		{name: "valid", timerName: "Focus", duration: 1500, category: "work"},
		{name: "empty name", timerName: "", duration: 60, category: "work", wantField: "name"},
		{name: "blank name", timerName: "   ", duration: 60, category: "work", wantField: "name"},
		{name: "empty category", timerName: "Focus", duration: 60, category: "", wantField: "category"},
		{name: "zero duration", timerName: "Focus", duration: 0, category: "work", wantField: "duration"},
		{name: "negative duration", timerName: "Focus", duration: -5, category: "work", wantField: "duration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateNewTimer(tt.timerName, tt.duration, tt.category)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("ValidateNewTimer() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, apperrors.ErrValidation) {
				t.Fatalf("ValidateNewTimer() error = %v, want validation error", err)
			}
			var ve *apperrors.ValidationError
			if !errors.As(err, &ve) || ve.Field != tt.wantField {
				t.Errorf("field = %v, want %s", ve, tt.wantField)
			}
		})
	}
}

func TestValidateData_Clean(t *testing.T) {
	validator := New()
	done := int64(1700000000000)

	data := models.Data{
		Timers: []models.Timer{
			{ID: "1", Name: "A", Category: "work", Duration: 60, RemainingTime: 60, Status: models.StatusIdle},
			{ID: "2", Name: "B", Category: "work", Duration: 60, RemainingTime: 0, Status: models.StatusCompleted, CompletedAt: &done},
		},
		History: []models.HistoryEntry{
			{ID: "h1", Name: "B", Category: "work", Duration: 60, CompletedAt: done},
		},
	}

	result := validator.ValidateData(data)
	if result.HasConflicts() {
		t.Errorf("unexpected conflicts: %s", result.FormatReport())
	}
	if result.FormatReport() != "No conflicts detected." {
		t.Errorf("FormatReport() = %q", result.FormatReport())
	}
}

func TestValidateData_Conflicts(t *testing.T) {
	validator := New()

	data := models.Data{
		Timers: []models.Timer{
			{ID: "1", Name: "A", Category: "work", Duration: 60, RemainingTime: 90, Status: models.StatusRunning},
			{ID: "1", Name: "A again", Category: "work", Duration: 60, RemainingTime: 10, Status: models.StatusPaused},
			{ID: "2", Name: "B", Category: "home", Duration: 60, RemainingTime: 0, Status: models.StatusCompleted},
			{ID: "3", Name: "C", Category: "home", Duration: 60, RemainingTime: 20, Status: models.StatusRunning, HalfwayAlertTriggered: true},
		},
		History: []models.HistoryEntry{
			{ID: "h1", Name: "", Duration: 60},
		},
	}

	result := validator.ValidateData(data)

	counts := make(map[ConflictType]int)
	for _, c := range result.Conflicts {
		counts[c.Type]++
	}

	if counts[ConflictInvalidTimer] != 2 {
		t.Errorf("invalid timer conflicts = %d, want 2", counts[ConflictInvalidTimer])
	}
	if counts[ConflictDuplicateTimerID] != 1 {
		t.Errorf("duplicate id conflicts = %d, want 1", counts[ConflictDuplicateTimerID])
	}
	if counts[ConflictMissingCompletedAt] != 1 {
		t.Errorf("missing completedAt conflicts = %d, want 1", counts[ConflictMissingCompletedAt])
	}
	if counts[ConflictInvalidHistory] != 1 {
		t.Errorf("invalid history conflicts = %d, want 1", counts[ConflictInvalidHistory])
	}
}
