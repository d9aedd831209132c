package data

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/ticktock/internal/category"
	"github.com/julianstephens/ticktock/internal/cli"
	"github.com/julianstephens/ticktock/internal/constants"
	"github.com/julianstephens/ticktock/internal/export"
	"github.com/julianstephens/ticktock/internal/models"
	"github.com/julianstephens/ticktock/internal/utils"
)

type HistoryCmd struct {
	Category string `short:"c" help:"Only show entries in this category ('all' for every category)." default:"all"`
	Limit    int    `short:"n" help:"Show at most this many entries, newest first (0 for all)." default:"20"`
}

func (c *HistoryCmd) Run(ctx *cli.Context) error {
	entries := ctx.Store.History()
	shown := recentHistory(entries, c.Category, c.Limit)

	if len(shown) == 0 {
		fmt.Println("No completed timers yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCATEGORY\tDURATION\tCOMPLETED")
	for _, h := range shown {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s (%s)\n", h.Name, h.Category, utils.FormatDuration(h.Duration),
			utils.FormatMillis(h.CompletedAt, "2006-01-02 15:04"), humanize.Time(time.UnixMilli(h.CompletedAt)))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\n%s completed timer(s) in total\n", humanize.Comma(int64(len(entries))))
	return nil
}

// recentHistory returns entries newest first, filtered by category and
// capped at limit (0 for no cap).
func recentHistory(entries []models.HistoryEntry, category string, limit int) []models.HistoryEntry {
	var shown []models.HistoryEntry
	for i := len(entries) - 1; i >= 0; i-- {
		if category != "" && category != constants.AllCategories && entries[i].Category != category {
			continue
		}
		shown = append(shown, entries[i])
		if limit > 0 && len(shown) == limit {
			break
		}
	}
	return shown
}

type ExportCmd struct {
	Output string `short:"o" help:"File or directory to write. Defaults to timer-data-<timestamp>.json in the current directory." default:"."`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	snapshot := ctx.Store.ExportSnapshot()
	path, err := export.WriteFile(c.Output, snapshot, time.Now())
	if err != nil {
		return err
	}
	fmt.Printf("Exported %d timer(s) and %d history entries to %s\n", len(snapshot.Timers), len(snapshot.History), path)
	return nil
}

type ImportCmd struct {
	File string `arg:"" help:"Previously exported JSON file." type:"existingfile"`
	Yes  bool   `short:"y" help:"Replace current timers without asking."`
}

func (c *ImportCmd) Run(ctx *cli.Context) error {
	snapshot, err := export.ReadFile(c.File)
	if err != nil {
		return err
	}

	if !c.Yes && len(ctx.Store.Timers())+len(ctx.Store.History()) > 0 {
		fmt.Printf("This replaces %d timer(s) and %d history entries with the contents of %s.\n",
			len(ctx.Store.Timers()), len(ctx.Store.History()), c.File)
		fmt.Print("Continue? [y/N]: ")

		reader := bufio.NewReader(os.Stdin)
		response, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "y" && response != "yes" {
			fmt.Println("Import cancelled.")
			return nil
		}
	}

	if err := ctx.Store.Import(snapshot.Data()); err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	if err := ctx.Store.LastPersistError(); err != nil {
		return fmt.Errorf("imported data could not be saved: %w", err)
	}

	groups := category.GroupByCategory(snapshot.Timers, models.Categories(snapshot.Timers))
	fmt.Printf("Imported %d timer(s) in %d categories and %d history entries\n",
		len(snapshot.Timers), len(groups), len(snapshot.History))
	return nil
}
