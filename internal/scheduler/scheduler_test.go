package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/julianstephens/ticktock/internal/models"
	"github.com/julianstephens/ticktock/internal/timers"
)

func newStore(t *testing.T) *timers.Store {
	t.Helper()
	return timers.New(nil)
}

func startTimer(t *testing.T, store *timers.Store, name string, duration int, halfway bool) models.Timer {
	t.Helper()
	timer, err := store.Create(name, duration, "work", halfway)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := store.Start(timer.ID); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	return timer
}

func drain(ch <-chan models.Event) []models.Event {
	var out []models.Event
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, ev)
		default:
			return out
		}
	}
}

func TestTick_CompletesAfterDurationTicks(t *testing.T) {
	store := newStore(t)
	timer := startTimer(t, store, "Tea", 5, false)

	s := New(store, Config{})
	events := s.Subscribe(8)

	for i := 0; i < 5; i++ {
		s.Tick()
	}

	got, _ := store.Get(timer.ID)
	if got.Status != models.StatusCompleted || got.RemainingTime != 0 {
		t.Fatalf("timer after 5 ticks = %+v, want completed", got)
	}

	history := store.History()
	if len(history) != 1 || history[0].Name != "Tea" {
		t.Fatalf("history = %+v, want one Tea entry", history)
	}

	evs := drain(events)
	if len(evs) != 1 || evs[0].Kind != models.EventCompleted || evs[0].TimerID != timer.ID {
		t.Fatalf("events = %+v, want one completion", evs)
	}

	// Further ticks leave the completed timer alone
	s.Tick()
	if len(store.History()) != 1 {
		t.Error("extra tick added a second history entry")
	}
}

func TestTick_CompletionThresholdIsOneSecond(t *testing.T) {
	store := newStore(t)
	timer := startTimer(t, store, "A", 3, false)
	s := New(store, Config{})

	s.Tick()
	s.Tick()
	got, _ := store.Get(timer.ID)
	if got.Status != models.StatusRunning || got.RemainingTime != 1 {
		t.Fatalf("after 2 ticks = %+v, want running with 1s", got)
	}

	s.Tick()
	got, _ = store.Get(timer.ID)
	if got.Status != models.StatusCompleted {
		t.Fatalf("after 3 ticks status = %q, want completed", got.Status)
	}
}

func TestTick_HalfwayFiresOncePerRun(t *testing.T) {
	store := newStore(t)
	timer := startTimer(t, store, "Deep work", 600, true)

	s := New(store, Config{})
	events := s.Subscribe(16)

	for i := 0; i < 300; i++ {
		s.Tick()
	}
	if evs := drain(events); len(evs) != 0 {
		t.Fatalf("events after 300 ticks = %+v, want none", evs)
	}

	// Tick 301 sees remaining == 300 before decrementing
	s.Tick()
	evs := drain(events)
	if len(evs) != 1 || evs[0].Kind != models.EventHalfway {
		t.Fatalf("events after 301 ticks = %+v, want one halfway", evs)
	}
	got, _ := store.Get(timer.ID)
	if !got.HalfwayAlertTriggered {
		t.Error("HalfwayAlertTriggered = false after alert fired")
	}

	for i := 0; i < 299; i++ {
		s.Tick()
	}
	evs = drain(events)
	if len(evs) != 1 || evs[0].Kind != models.EventCompleted {
		t.Fatalf("events to completion = %+v, want only completion", evs)
	}
}

func TestTick_HalfwayRearmsAfterReset(t *testing.T) {
	store := newStore(t)
	timer := startTimer(t, store, "A", 4, true)
	s := New(store, Config{})
	events := s.Subscribe(8)

	for i := 0; i < 3; i++ {
		s.Tick()
	}
	if err := store.Reset(timer.ID); err != nil {
		t.Fatal(err)
	}
	if err := store.Start(timer.ID); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		s.Tick()
	}

	halfway := 0
	for _, ev := range drain(events) {
		if ev.Kind == models.EventHalfway {
			halfway++
		}
	}
	if halfway != 2 {
		t.Errorf("halfway events = %d, want 2 across two runs", halfway)
	}
}

func TestTick_HalfwayAndCompletionInSameTick(t *testing.T) {
	store := newStore(t)
	startTimer(t, store, "Blink", 2, true)
	s := New(store, Config{})
	events := s.Subscribe(4)

	s.Tick()
	if evs := drain(events); len(evs) != 0 {
		t.Fatalf("first tick events = %+v, want none", evs)
	}

	// 1 of 2 seconds left: halfway and due at once
	s.Tick()

	evs := drain(events)
	if len(evs) != 2 {
		t.Fatalf("events = %+v, want halfway then completion", evs)
	}
	if evs[0].Kind != models.EventHalfway || evs[1].Kind != models.EventCompleted {
		t.Errorf("event order = %s, %s", evs[0].Kind, evs[1].Kind)
	}
}

func TestTick_OneSecondTimerSkipsHalfway(t *testing.T) {
	store := newStore(t)
	startTimer(t, store, "Blink", 1, true)
	s := New(store, Config{})
	events := s.Subscribe(4)

	s.Tick()

	evs := drain(events)
	if len(evs) != 1 || evs[0].Kind != models.EventCompleted {
		t.Errorf("events = %+v, want only completion", evs)
	}
}

func TestTick_SkipsTimersNotRunning(t *testing.T) {
	store := newStore(t)
	idle, _ := store.Create("Idle", 10, "work", false)
	paused := startTimer(t, store, "Paused", 10, false)
	_ = store.Pause(paused.ID)
	running := startTimer(t, store, "Running", 10, false)

	s := New(store, Config{})
	s.Tick()

	for _, tt := range []struct {
		id   string
		want int
	}{
		{idle.ID, 10},
		{paused.ID, 10},
		{running.ID, 9},
	} {
		got, _ := store.Get(tt.id)
		if got.RemainingTime != tt.want {
			t.Errorf("%s remaining = %d, want %d", got.Name, got.RemainingTime, tt.want)
		}
	}
}

// faultyStore panics when ticking one specific timer
type faultyStore struct {
	*timers.Store
	badID string
}

func (f *faultyStore) Tick(id string) (timers.TickResult, error) {
	if id == f.badID {
		panic("corrupt timer")
	}
	return f.Store.Tick(id)
}

func TestTick_IsolatesPerTimerFaults(t *testing.T) {
	store := newStore(t)
	bad := startTimer(t, store, "Bad", 10, false)
	good := startTimer(t, store, "Good", 10, false)

	s := New(&faultyStore{Store: store, badID: bad.ID}, Config{})
	s.Tick()
	s.Tick()

	got, _ := store.Get(good.ID)
	if got.RemainingTime != 8 {
		t.Errorf("good timer remaining = %d, want 8", got.RemainingTime)
	}
}

func TestTick_FullSubscriberDoesNotBlock(t *testing.T) {
	store := newStore(t)
	startTimer(t, store, "A", 1, false)
	startTimer(t, store, "B", 1, false)

	s := New(store, Config{})
	events := s.Subscribe(1)

	done := make(chan struct{})
	go func() {
		s.Tick()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Tick blocked on a full subscriber")
	}
	if n := len(drain(events)); n != 1 {
		t.Errorf("delivered %d events, want 1", n)
	}
	if n := len(store.History()); n != 2 {
		t.Errorf("history = %d, want 2", n)
	}
}

func TestStartStop(t *testing.T) {
	store := newStore(t)
	timer := startTimer(t, store, "Long", 3600, false)

	s := New(store, Config{TickInterval: 5 * time.Millisecond})
	events := s.Subscribe(1)

	s.Start(context.Background())
	s.Start(context.Background()) // second call is a no-op
	if !s.Running() {
		t.Fatal("Running() = false after Start")
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		got, _ := store.Get(timer.ID)
		if got.RemainingTime < 3600 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("scheduler never ticked")
		}
		time.Sleep(5 * time.Millisecond)
	}

	s.Stop()
	if s.Running() {
		t.Error("Running() = true after Stop")
	}

	after, _ := store.Get(timer.ID)
	time.Sleep(30 * time.Millisecond)
	later, _ := store.Get(timer.ID)
	if later.RemainingTime != after.RemainingTime {
		t.Errorf("tick applied after Stop: %d -> %d", after.RemainingTime, later.RemainingTime)
	}
	if later.Status != models.StatusRunning {
		t.Errorf("Stop changed timer status to %q", later.Status)
	}

	if _, ok := <-events; ok {
		t.Error("subscriber channel still open after Stop")
	}

	s.Stop() // idempotent
}

func TestStart_ContextCancelStopsLoop(t *testing.T) {
	store := newStore(t)
	timer := startTimer(t, store, "Long", 3600, false)

	ctx, cancel := context.WithCancel(context.Background())
	s := New(store, Config{TickInterval: 5 * time.Millisecond})
	s.Start(ctx)
	cancel()

	// Stop still waits for the loop to exit
	s.Stop()
	after, _ := store.Get(timer.ID)
	time.Sleep(30 * time.Millisecond)
	later, _ := store.Get(timer.ID)
	if later.RemainingTime != after.RemainingTime {
		t.Errorf("tick applied after cancel: %d -> %d", after.RemainingTime, later.RemainingTime)
	}
}

func TestStart_RestartsAfterContextCancel(t *testing.T) {
	store := newStore(t)
	timer := startTimer(t, store, "Long", 3600, false)

	ctx, cancel := context.WithCancel(context.Background())
	s := New(store, Config{TickInterval: 5 * time.Millisecond})
	s.Start(ctx)
	cancel()

	deadline := time.Now().Add(2 * time.Second)
	for s.Running() {
		if time.Now().After(deadline) {
			t.Fatal("Running() still true after context cancel")
		}
		time.Sleep(5 * time.Millisecond)
	}

	s.Start(context.Background())
	defer s.Stop()
	if !s.Running() {
		t.Fatal("Start after cancel did not restart the loop")
	}

	before, _ := store.Get(timer.ID)
	for {
		got, _ := store.Get(timer.ID)
		if got.RemainingTime < before.RemainingTime {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("restarted scheduler never ticked")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
