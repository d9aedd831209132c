package validation

import (
	"fmt"
	"sort"
	"strings"

	apperrors "github.com/julianstephens/ticktock/internal/errors"
	"github.com/julianstephens/ticktock/internal/models"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictDuplicateTimerID   ConflictType = "duplicate_timer_id"
	ConflictInvalidTimer       ConflictType = "invalid_timer"
	ConflictInvalidHistory     ConflictType = "invalid_history"
	ConflictMissingCompletedAt ConflictType = "missing_completed_at"
)

// Conflict represents a detected problem in stored timers or history
type Conflict struct {
	Type        ConflictType
	Description string
	TimerIDs    []string
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", conflict.Description)
	}
	return b.String()
}

// Validator validates timer input and stored timer data
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateNewTimer checks creation input. Returns a *errors.ValidationError.
func (v *Validator) ValidateNewTimer(name string, durationSeconds int, category string) error {
	if strings.TrimSpace(name) == "" {
		return apperrors.Validation("name", "cannot be empty")
	}
	if strings.TrimSpace(category) == "" {
		return apperrors.Validation("category", "cannot be empty")
	}
	if durationSeconds <= 0 {
		return apperrors.Validation("duration", "must be a positive number of seconds, got %d", durationSeconds)
	}
	return nil
}

// ValidateData checks loaded or imported timers and history for invariant violations
func (v *Validator) ValidateData(data models.Data) ValidationResult {
	var result ValidationResult

	seen := make(map[string]int)
	for _, t := range data.Timers {
		seen[t.ID]++
		if err := t.Validate(); err != nil {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidTimer,
				Description: err.Error(),
				TimerIDs:    []string{t.ID},
			})
		}
		if t.Status == models.StatusCompleted && t.CompletedAt == nil {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictMissingCompletedAt,
				Description: fmt.Sprintf("timer %s is completed but has no completion time", t.ID),
				TimerIDs:    []string{t.ID},
			})
		}
	}

	var dupes []string
	for id, n := range seen {
		if n > 1 {
			dupes = append(dupes, id)
		}
	}
	sort.Strings(dupes)
	for _, id := range dupes {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictDuplicateTimerID,
			Description: fmt.Sprintf("timer id %s appears %d times", id, seen[id]),
			TimerIDs:    []string{id},
		})
	}

	for i, h := range data.History {
		if h.Name == "" || h.Duration <= 0 || h.CompletedAt <= 0 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidHistory,
				Description: fmt.Sprintf("history entry %d (%q) is incomplete", i, h.Name),
				TimerIDs:    []string{h.ID},
			})
		}
	}

	return result
}
