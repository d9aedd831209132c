// Package scheduler drives running timers forward once per tick and emits
// halfway and completion events to subscribers.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/julianstephens/ticktock/internal/constants"
	"github.com/julianstephens/ticktock/internal/logger"
	"github.com/julianstephens/ticktock/internal/models"
	"github.com/julianstephens/ticktock/internal/timers"
)

// TimerStore is the subset of *timers.Store the scheduler mutates
type TimerStore interface {
	Timers() []models.Timer
	Tick(id string) (timers.TickResult, error)
	Complete(id string) (models.HistoryEntry, bool, error)
	Batch(fn func())
}

// Config contains runtime options for the Scheduler.
type Config struct {
	TickInterval time.Duration
	// Now stamps emitted events; defaults to time.Now
	Now func() time.Time
}

// Scheduler owns the periodic tick loop. Start and Stop may be called from
// any goroutine; ticks never overlap.
type Scheduler struct {
	store   TimerStore
	options Config

	mu      sync.Mutex
	events  []chan models.Event
	cancel  context.CancelFunc
	done    chan struct{}
	running bool

	// tickMu serializes ticks driven by the loop and by direct Tick calls
	tickMu sync.Mutex
}

// New creates a stopped Scheduler.
func New(store TimerStore, options Config) *Scheduler {
	if options.TickInterval <= 0 {
		options.TickInterval = constants.TickInterval
	}
	if options.Now == nil {
		options.Now = time.Now
	}
	return &Scheduler{store: store, options: options}
}

// Subscribe registers a new observer channel. Sends never block: a full
// channel drops the event for that subscriber.
func (s *Scheduler) Subscribe(buffer int) <-chan models.Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan models.Event, buffer)
	s.mu.Lock()
	s.events = append(s.events, ch)
	s.mu.Unlock()
	return ch
}

// Start launches the ticking loop. It returns immediately; the loop runs
// until ctx is cancelled or Stop is called. Once ctx is cancelled Running
// reports false and Start may be called again. Subscriber channels stay open
// until Stop.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	if s.cancel != nil {
		s.cancel()
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	s.running = true

	go s.run(ctx, s.done)
	logger.Debug("Scheduler started", "interval", s.options.TickInterval)
}

// Stop cancels future ticks and waits for an in-flight tick to finish. No
// tick is applied after Stop returns. Subscriber channels are closed.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	if cancel == nil {
		s.mu.Unlock()
		return
	}
	s.cancel, s.done = nil, nil
	s.running = false
	s.mu.Unlock()

	cancel()
	<-done

	s.mu.Lock()
	for _, ch := range s.events {
		close(ch)
	}
	s.events = nil
	s.mu.Unlock()

	logger.Debug("Scheduler stopped")
}

// Running reports whether the tick loop is active
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Scheduler) run(ctx context.Context, done chan struct{}) {
	defer func() {
		s.mu.Lock()
		if s.done == done {
			s.running = false
		}
		s.mu.Unlock()
		close(done)
	}()

	ticker := time.NewTicker(s.options.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// A tick that raced with cancellation is dropped
			if ctx.Err() != nil {
				return
			}
			s.Tick()
		}
	}
}

// Tick advances every running timer by one second. Timers are taken from a
// single snapshot at the start of the tick and saved once at the end.
func (s *Scheduler) Tick() {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()

	var due []models.Timer
	for _, t := range s.store.Timers() {
		if t.IsRunning() && t.RemainingTime > 0 {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return
	}

	s.store.Batch(func() {
		for _, t := range due {
			if err := s.advance(t); err != nil {
				logger.Error("Skipping timer for this tick", "id", t.ID, "name", t.Name, "error", err)
			}
		}
	})
}

// advance applies one tick to a single timer. Panics are converted to errors
// so one bad timer cannot stop the rest of the tick.
func (s *Scheduler) advance(t models.Timer) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during tick: %v", r)
		}
	}()

	res, err := s.store.Tick(t.ID)
	if err != nil {
		return err
	}
	if !res.Applied {
		return nil
	}

	if res.Halfway {
		s.emit(models.Event{Kind: models.EventHalfway, TimerID: t.ID, Name: res.Timer.Name, At: s.options.Now()})
	}

	if res.Due {
		_, added, err := s.store.Complete(t.ID)
		if err != nil {
			return err
		}
		if added {
			s.emit(models.Event{Kind: models.EventCompleted, TimerID: t.ID, Name: res.Timer.Name, At: s.options.Now()})
		}
	}
	return nil
}

func (s *Scheduler) emit(event models.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ch := range s.events {
		select {
		case ch <- event:
		default:
			logger.Debug("Dropped event for slow subscriber", "kind", event.Kind, "id", event.TimerID)
		}
	}
}
