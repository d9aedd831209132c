package system

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/julianstephens/ticktock/internal/cli"
	"github.com/julianstephens/ticktock/internal/logger"
	"github.com/julianstephens/ticktock/internal/notifier"
)

const idlePollInterval = 200 * time.Millisecond

// RunCmd drives running timers without the TUI and prints alerts until
// interrupted.
type RunCmd struct {
	StartAll     bool `help:"Start every idle or paused timer first."`
	ExitWhenIdle bool `help:"Exit once no timer is running."`
}

// dispatcherFor builds the alert dispatcher configured by settings. out may be nil.
func dispatcherFor(ctx *cli.Context, out *os.File) *notifier.Dispatcher {
	opts := notifier.Options{Enabled: ctx.Settings.NotificationsEnabled}
	if out != nil {
		opts.Out = out
	}
	if ctx.Settings.DesktopNotifications {
		opts.Desktop = notifier.New()
	}
	return notifier.NewDispatcher(opts)
}

func (c *RunCmd) Run(ctx *cli.Context) error {
	if c.StartAll {
		ctx.Store.Batch(func() {
			for _, t := range ctx.Store.Timers() {
				if !t.IsCompleted() {
					if err := ctx.Store.Start(t.ID); err != nil {
						logger.Warn("Failed to start timer", "id", t.ID, "error", err)
					}
				}
			}
		})
	}

	if c.ExitWhenIdle && !anyRunning(ctx) {
		fmt.Println("No running timers.")
		return nil
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	events := ctx.Scheduler.Subscribe(64)
	dispatcher := dispatcherFor(ctx, os.Stdout)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		dispatcher.Run(context.Background(), events)
	}()

	ctx.Scheduler.Start(runCtx)
	fmt.Println("Timers running. Press Ctrl+C to stop.")

	if c.ExitWhenIdle {
		ticker := time.NewTicker(idlePollInterval)
		defer ticker.Stop()
	wait:
		for {
			select {
			case <-runCtx.Done():
				break wait
			case <-ticker.C:
				if !anyRunning(ctx) {
					break wait
				}
			}
		}
	} else {
		<-runCtx.Done()
	}

	// Stop closes the subscription, which lets the dispatcher drain and return
	ctx.Scheduler.Stop()
	wg.Wait()

	fmt.Println("Stopped. Remaining time is saved.")
	return ctx.Store.LastPersistError()
}

func anyRunning(ctx *cli.Context) bool {
	for _, t := range ctx.Store.Timers() {
		if t.IsRunning() {
			return true
		}
	}
	return false
}
