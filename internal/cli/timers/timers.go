package timers

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/julianstephens/ticktock/internal/category"
	"github.com/julianstephens/ticktock/internal/cli"
	"github.com/julianstephens/ticktock/internal/models"
	"github.com/julianstephens/ticktock/internal/utils"
)

type TimerAddCmd struct {
	Name     string `arg:"" help:"Timer name."`
	Duration string `short:"d" help:"Duration: minutes, m:ss, or a value like 1h30m. Defaults to the configured duration."`
	Category string `short:"c" help:"Category. Defaults to the configured category."`
	Halfway  *bool  `help:"Alert at the halfway point. Defaults to the configured value. Use --halfway=false to turn off."`
	Start    bool   `short:"s" help:"Start the timer immediately."`
}

func (c *TimerAddCmd) Run(ctx *cli.Context) error {
	seconds := ctx.Settings.DefaultDurationMinutes * 60
	if c.Duration != "" {
		parsed, err := utils.ParseDurationSeconds(c.Duration)
		if err != nil {
			return err
		}
		seconds = parsed
	}

	categoryName := strings.TrimSpace(c.Category)
	if categoryName == "" {
		categoryName = ctx.Settings.DefaultCategory
	}

	halfway := ctx.Settings.HalfwayAlertDefault
	if c.Halfway != nil {
		halfway = *c.Halfway
	}

	t, err := ctx.Store.Create(strings.TrimSpace(c.Name), seconds, categoryName, halfway)
	if err != nil {
		return err
	}
	if c.Start {
		if err := ctx.Store.Start(t.ID); err != nil {
			return err
		}
	}

	fmt.Printf("Added timer: %s [%s] %s (ID: %s)\n", t.Name, t.Category, utils.FormatClock(t.Duration), cli.ShortID(t.ID))
	return nil
}

type TimerListCmd struct {
	Category string `short:"c" help:"Only show timers in this category ('all' for every category)." default:"all"`
}

func (c *TimerListCmd) Run(ctx *cli.Context) error {
	all := ctx.Store.Timers()
	if len(all) == 0 {
		fmt.Println("No timers yet. Add one with 'ticktock timer add'.")
		return nil
	}

	filtered := category.Filter(all, c.Category)
	if len(filtered) == 0 {
		fmt.Printf("No timers in category %q.\n", c.Category)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tSTATUS\tREMAINING\tDURATION\tHALFWAY")
	for _, g := range category.GroupByCategory(filtered, models.Categories(filtered)) {
		for _, t := range g.Timers {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				cli.ShortID(t.ID), t.Name, t.Category, t.Status,
				utils.FormatClock(t.RemainingTime), utils.FormatDuration(t.Duration), halfwayLabel(t))
		}
	}
	return w.Flush()
}

func halfwayLabel(t models.Timer) string {
	switch {
	case !t.HalfwayAlert:
		return "-"
	case t.HalfwayAlertTriggered:
		return "sent"
	default:
		return "on"
	}
}

type TimerStartCmd struct {
	ID string `arg:"" help:"Timer ID or unique prefix."`
}

func (c *TimerStartCmd) Run(ctx *cli.Context) error {
	t, err := ctx.ResolveTimer(c.ID)
	if err != nil {
		return err
	}
	if t.IsCompleted() {
		fmt.Printf("Timer %s is already completed; reset it to run again.\n", t.Name)
		return nil
	}
	if err := ctx.Store.Start(t.ID); err != nil {
		return err
	}
	fmt.Printf("Started: %s (%s left)\n", t.Name, utils.FormatClock(t.RemainingTime))
	return nil
}

type TimerPauseCmd struct {
	ID string `arg:"" help:"Timer ID or unique prefix."`
}

func (c *TimerPauseCmd) Run(ctx *cli.Context) error {
	t, err := ctx.ResolveTimer(c.ID)
	if err != nil {
		return err
	}
	if !t.IsRunning() {
		fmt.Printf("Timer %s is %s, nothing to pause.\n", t.Name, t.Status)
		return nil
	}
	if err := ctx.Store.Pause(t.ID); err != nil {
		return err
	}
	fmt.Printf("Paused: %s (%s left)\n", t.Name, utils.FormatClock(t.RemainingTime))
	return nil
}

type TimerResetCmd struct {
	ID string `arg:"" help:"Timer ID or unique prefix."`
}

func (c *TimerResetCmd) Run(ctx *cli.Context) error {
	t, err := ctx.ResolveTimer(c.ID)
	if err != nil {
		return err
	}
	if err := ctx.Store.Reset(t.ID); err != nil {
		return err
	}
	fmt.Printf("Reset: %s (%s)\n", t.Name, utils.FormatClock(t.Duration))
	return nil
}

type TimerCompleteCmd struct {
	ID string `arg:"" help:"Timer ID or unique prefix."`
}

func (c *TimerCompleteCmd) Run(ctx *cli.Context) error {
	t, err := ctx.ResolveTimer(c.ID)
	if err != nil {
		return err
	}
	_, added, err := ctx.Store.Complete(t.ID)
	if err != nil {
		return err
	}
	if !added {
		fmt.Printf("Timer %s was already completed.\n", t.Name)
		return nil
	}
	fmt.Printf("Completed: %s\n", t.Name)
	return nil
}

type TimerDeleteCmd struct {
	ID string `arg:"" help:"Timer ID or unique prefix."`
}

func (c *TimerDeleteCmd) Run(ctx *cli.Context) error {
	t, err := ctx.ResolveTimer(c.ID)
	if err != nil {
		return fmt.Errorf("failed to find timer with ID %s: %w", c.ID, err)
	}
	if err := ctx.Store.Delete(t.ID); err != nil {
		return fmt.Errorf("failed to delete timer: %w", err)
	}
	fmt.Printf("Deleted timer: %s (ID: %s)\n", t.Name, cli.ShortID(t.ID))
	return nil
}

// TimerCmd groups the single-timer commands
type TimerCmd struct {
	Add      TimerAddCmd      `cmd:"" help:"Add a new timer."`
	List     TimerListCmd     `cmd:"" help:"List timers." default:"1"`
	Start    TimerStartCmd    `cmd:"" help:"Start or resume a timer."`
	Pause    TimerPauseCmd    `cmd:"" help:"Pause a running timer."`
	Reset    TimerResetCmd    `cmd:"" help:"Reset a timer to its full duration."`
	Complete TimerCompleteCmd `cmd:"" help:"Mark a timer completed now."`
	Delete   TimerDeleteCmd   `cmd:"" help:"Delete a timer. History is kept."`
}
