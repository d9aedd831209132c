// Package timers holds the in-memory timer collection and its lifecycle
// operations. The Store is the single source of truth for timers and history;
// every mutation is followed by a best-effort save through the injected
// Persistence.
package timers

import (
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/julianstephens/ticktock/internal/errors"
	"github.com/julianstephens/ticktock/internal/logger"
	"github.com/julianstephens/ticktock/internal/models"
	"github.com/julianstephens/ticktock/internal/validation"
)

// Persistence is the load/save boundary consumed by the Store.
type Persistence interface {
	// Load returns the stored collections. found is false when nothing was saved yet.
	Load() (data models.Data, found bool, err error)
	Save(timers []models.Timer, history []models.HistoryEntry) error
}

// Option configures a Store
type Option func(*Store)

// WithClock overrides the time source used for createdAt/completedAt
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides uuid generation for timer and history ids
func WithIDGenerator(next func() string) Option {
	return func(s *Store) { s.newID = next }
}

// Store is safe for concurrent use.
type Store struct {
	mu          sync.RWMutex
	timers      []models.Timer
	history     []models.HistoryEntry
	persistence Persistence
	validator   *validation.Validator
	now         func() time.Time
	newID       func() string

	// batchDepth > 0 defers saves until the outermost Batch returns
	batchDepth int
	dirty      bool
	lastErr    error
}

// New creates an empty Store. Call Load to read persisted state.
func New(p Persistence, opts ...Option) *Store {
	s := &Store{
		persistence: p,
		validator:   validation.New(),
		now:         time.Now,
		newID:       func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads persisted state once at startup. Missing or malformed data
// leaves the store empty; the failure is logged, never returned.
func (s *Store) Load() {
	if s.persistence == nil {
		return
	}

	data, found, err := s.persistence.Load()
	if err != nil {
		logger.Warn("Discarding unreadable persisted timers", "error", apperrors.Persistence("load", err))
		return
	}
	if !found {
		logger.Debug("No persisted timers found")
		return
	}

	if result := s.validator.ValidateData(data); result.HasConflicts() {
		logger.Warn("Persisted timers failed validation, starting empty", "conflicts", len(result.Conflicts))
		return
	}

	s.mu.Lock()
	s.timers = models.CloneTimers(data.Timers)
	s.history = models.CloneHistory(data.History)
	s.mu.Unlock()

	logger.Debug("Loaded timers", "timers", len(data.Timers), "history", len(data.History))
}

// Import replaces the collections with data after validating it.
func (s *Store) Import(data models.Data) error {
	if result := s.validator.ValidateData(data); result.HasConflicts() {
		return apperrors.Validation("import", "%d conflict(s): %s", len(result.Conflicts), result.Conflicts[0].Description)
	}

	s.mu.Lock()
	s.timers = models.CloneTimers(data.Timers)
	s.history = models.CloneHistory(data.History)
	s.persistLocked()
	s.mu.Unlock()
	return nil
}

// Create adds a new idle timer.
func (s *Store) Create(name string, durationSeconds int, category string, halfwayAlert bool) (models.Timer, error) {
	if err := s.validator.ValidateNewTimer(name, durationSeconds, category); err != nil {
		return models.Timer{}, err
	}

	t := models.Timer{
		ID:                    s.newID(),
		Name:                  name,
		Duration:              durationSeconds,
		Category:              category,
		Status:                models.StatusIdle,
		RemainingTime:         durationSeconds,
		HalfwayAlert:          halfwayAlert,
		HalfwayAlertTriggered: false,
		CreatedAt:             s.now().UnixMilli(),
	}

	s.mu.Lock()
	s.timers = append(s.timers, t)
	s.persistLocked()
	s.mu.Unlock()

	logger.Debug("Created timer", "id", t.ID, "name", t.Name, "category", t.Category, "duration", t.Duration)
	return t, nil
}

// Start moves an idle or paused timer to running. Running timers are left
// as they are and completed timers are ignored.
func (s *Store) Start(id string) error {
	return s.mutate(id, func(t *models.Timer) bool {
		switch t.Status {
		case models.StatusIdle, models.StatusPaused:
			t.Status = models.StatusRunning
			return true
		}
		return false
	})
}

// Pause moves a running timer to paused; any other status is a no-op.
func (s *Store) Pause(id string) error {
	return s.mutate(id, func(t *models.Timer) bool {
		if t.Status != models.StatusRunning {
			return false
		}
		t.Status = models.StatusPaused
		return true
	})
}

// Reset returns a timer to idle with its full duration, from any status.
func (s *Store) Reset(id string) error {
	return s.mutate(id, func(t *models.Timer) bool {
		t.Status = models.StatusIdle
		t.RemainingTime = t.Duration
		t.HalfwayAlertTriggered = false
		t.CompletedAt = nil
		return true
	})
}

// Complete marks a timer completed and appends a history entry. The bool is
// false when the timer was already completed, in which case no entry is added.
func (s *Store) Complete(id string) (models.HistoryEntry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return models.HistoryEntry{}, false, apperrors.NotFound(id)
	}

	t := &s.timers[i]
	if t.Status == models.StatusCompleted {
		return models.HistoryEntry{}, false, nil
	}

	at := s.now().UnixMilli()
	entry := models.HistoryEntry{
		ID:          s.newID(),
		Name:        t.Name,
		Category:    t.Category,
		Duration:    t.Duration,
		CompletedAt: at,
	}

	t.Status = models.StatusCompleted
	t.RemainingTime = 0
	t.CompletedAt = &at
	s.history = append(s.history, entry)
	s.persistLocked()

	logger.Info("Timer completed", "id", id, "name", entry.Name)
	return entry, true, nil
}

// TickResult describes what a single Tick did to a timer
type TickResult struct {
	// Applied is false when the timer was not running or had no time left.
	Applied bool
	// Halfway is true when this tick triggered the halfway alert.
	Halfway bool
	// Due is true when the pre-decrement remaining time was at most one
	// second, meaning the timer should now be completed.
	Due   bool
	Timer models.Timer
}

// Tick advances a running timer by one second. The halfway condition is
// evaluated against the remaining time before the decrement.
func (s *Store) Tick(id string) (TickResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return TickResult{}, apperrors.NotFound(id)
	}

	t := &s.timers[i]
	if t.Status != models.StatusRunning || t.RemainingTime <= 0 {
		return TickResult{Timer: *t}, nil
	}

	halfway := t.HalfwayAlert && !t.HalfwayAlertTriggered && t.AtOrPastHalfway()
	due := t.RemainingTime <= 1

	t.RemainingTime--
	if t.RemainingTime < 0 {
		t.RemainingTime = 0
	}
	if halfway {
		t.HalfwayAlertTriggered = true
	}
	s.persistLocked()

	return TickResult{Applied: true, Halfway: halfway, Due: due, Timer: *t}, nil
}

// Delete removes a timer from the live collection. History is kept.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return apperrors.NotFound(id)
	}
	s.timers = append(s.timers[:i], s.timers[i+1:]...)
	s.persistLocked()
	return nil
}

// Get returns a copy of the timer with id
func (s *Store) Get(id string) (models.Timer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexLocked(id)
	if i < 0 {
		return models.Timer{}, apperrors.NotFound(id)
	}
	return models.CloneTimers(s.timers[i : i+1])[0], nil
}

// Timers returns a copy of all timers in insertion order
func (s *Store) Timers() []models.Timer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.CloneTimers(s.timers)
}

// History returns a copy of the completion history, oldest first
func (s *Store) History() []models.HistoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.CloneHistory(s.history)
}

// Categories returns the distinct categories of current timers
func (s *Store) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.Categories(s.timers)
}

// ExportSnapshot returns a copy of the current state stamped with the export time.
func (s *Store) ExportSnapshot() models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.NewSnapshot(models.CloneTimers(s.timers), models.CloneHistory(s.history), s.now())
}

// Batch runs fn with saves deferred; at most one save happens when the
// outermost Batch returns.
func (s *Store) Batch(fn func()) {
	s.mu.Lock()
	s.batchDepth++
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.batchDepth--
		if s.batchDepth == 0 && s.dirty {
			s.persistLocked()
		}
		s.mu.Unlock()
	}()

	fn()
}

// LastPersistError returns the error from the most recent save, or nil.
func (s *Store) LastPersistError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *Store) mutate(id string, fn func(t *models.Timer) bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return apperrors.NotFound(id)
	}
	if fn(&s.timers[i]) {
		s.persistLocked()
	}
	return nil
}

func (s *Store) indexLocked(id string) int {
	for i := range s.timers {
		if s.timers[i].ID == id {
			return i
		}
	}
	return -1
}

// persistLocked saves the current state. Failures are logged and remembered
// but never undo the in-memory change.
func (s *Store) persistLocked() {
	if s.persistence == nil {
		return
	}
	if s.batchDepth > 0 {
		s.dirty = true
		return
	}
	s.dirty = false

	err := s.persistence.Save(models.CloneTimers(s.timers), models.CloneHistory(s.history))
	if err != nil {
		s.lastErr = apperrors.Persistence("save", err)
		logger.Warn("Failed to persist timers", "error", s.lastErr)
		return
	}
	s.lastErr = nil
}
