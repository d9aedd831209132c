package notifier

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/julianstephens/ticktock/internal/logger"
	"github.com/julianstephens/ticktock/internal/models"
)

// Sender delivers a titled alert somewhere outside the process
type Sender interface {
	Notify(ctx context.Context, title, text string) error
}

// Options configures a Dispatcher
type Options struct {
	// Enabled false drops every event
	Enabled bool
	// Desktop is optional; nil disables desktop delivery
	Desktop Sender
	// Out receives one line per alert when set
	Out io.Writer
}

// Dispatcher turns scheduler events into user-visible alerts.
type Dispatcher struct {
	opts Options
	mu   sync.Mutex
}

func NewDispatcher(opts Options) *Dispatcher {
	return &Dispatcher{opts: opts}
}

// Run delivers events until the channel is closed or ctx is done.
func (d *Dispatcher) Run(ctx context.Context, events <-chan models.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			d.Deliver(ctx, ev)
		}
	}
}

// Deliver handles one event. Desktop failures are logged, never returned;
// the console line and log entry are written regardless.
func (d *Dispatcher) Deliver(ctx context.Context, ev models.Event) {
	if !d.opts.Enabled {
		return
	}

	logger.Info("Timer alert", "kind", ev.Kind, "id", ev.TimerID, "name", ev.Name)

	if d.opts.Out != nil {
		d.mu.Lock()
		fmt.Fprintf(d.opts.Out, "[%s] %s: %s\n", ev.At.Format("15:04:05"), ev.Title(), ev.Message())
		d.mu.Unlock()
	}

	if d.opts.Desktop == nil {
		return
	}
	if err := d.opts.Desktop.Notify(ctx, ev.Title(), ev.Message()); err != nil {
		if errors.Is(err, ErrTrayNotRunning) {
			logger.Debug("Tray app not running, skipped desktop alert", "id", ev.TimerID)
			return
		}
		logger.Warn("Failed to send desktop alert", "id", ev.TimerID, "error", err)
	}
}
