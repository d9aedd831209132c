package system

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/ticktock/internal/cli"
	"github.com/julianstephens/ticktock/internal/notifier"
)

// Sender is swapped in tests
var newSender = func() notifier.Sender { return notifier.New() }

type NotifyCmd struct {
	Title   string        `help:"Notification title." default:"ticktock"`
	Message string        `arg:"" optional:"" help:"Notification text." default:"Test notification"`
	DryRun  bool          `help:"Print the notification instead of sending it."`
	Timeout time.Duration `help:"Give up after this long." default:"5s"`
}

func (c *NotifyCmd) Run(ctx *cli.Context) error {
	if !ctx.Settings.NotificationsEnabled {
		fmt.Println("Notifications are disabled in settings.")
		return nil
	}

	if c.DryRun {
		fmt.Printf("[DryRun] %s: %s\n", c.Title, c.Message)
		return nil
	}

	sendCtx, cancel := context.WithTimeout(context.Background(), c.Timeout)
	defer cancel()

	if err := newSender().Notify(sendCtx, c.Title, c.Message); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	fmt.Println("✓ Notification sent")
	return nil
}
