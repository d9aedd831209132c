package categories

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/julianstephens/ticktock/internal/cli"
	"github.com/julianstephens/ticktock/internal/constants"
)

const barWidth = 20

// bulk runs op on category, or on every category for "all"
func bulk(ctx *cli.Context, category string, op func(string) (int, error)) (int, error) {
	known := ctx.Store.Categories()

	var targets []string
	switch {
	case category == constants.AllCategories:
		targets = known
	case slices.Contains(known, category):
		targets = []string{category}
	default:
		return 0, fmt.Errorf("unknown category %q (have: %s)", category, strings.Join(known, ", "))
	}

	total := 0
	var errs []error
	for _, c := range targets {
		n, err := op(c)
		total += n
		if err != nil {
			errs = append(errs, err)
		}
	}
	return total, errors.Join(errs...)
}

type CategoryStartCmd struct {
	Category string `arg:"" help:"Category name, or 'all'."`
}

func (c *CategoryStartCmd) Run(ctx *cli.Context) error {
	n, err := bulk(ctx, c.Category, ctx.Aggregator.StartCategory)
	if err != nil {
		return err
	}
	fmt.Printf("Started %d timer(s) in %s\n", n, c.Category)
	return nil
}

type CategoryPauseCmd struct {
	Category string `arg:"" help:"Category name, or 'all'."`
}

func (c *CategoryPauseCmd) Run(ctx *cli.Context) error {
	n, err := bulk(ctx, c.Category, ctx.Aggregator.PauseCategory)
	if err != nil {
		return err
	}
	fmt.Printf("Paused %d timer(s) in %s\n", n, c.Category)
	return nil
}

type CategoryResetCmd struct {
	Category string `arg:"" help:"Category name, or 'all'."`
}

func (c *CategoryResetCmd) Run(ctx *cli.Context) error {
	n, err := bulk(ctx, c.Category, ctx.Aggregator.ResetCategory)
	if err != nil {
		return err
	}
	fmt.Printf("Reset %d timer(s) in %s\n", n, c.Category)
	return nil
}

type CategoryListCmd struct{}

func (c *CategoryListCmd) Run(ctx *cli.Context) error {
	summaries := ctx.Aggregator.Summaries()
	if len(summaries) == 0 {
		fmt.Println("No categories yet. Categories are created with their first timer.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tDONE\tPROGRESS")
	for _, s := range summaries {
		fmt.Fprintf(w, "%s\t%d/%d\t%s %3.0f%%\n", s.Category, s.CompletedCount, s.TotalCount, progressBar(s.ProgressPercent), s.ProgressPercent)
	}
	return w.Flush()
}

func progressBar(percent float64) string {
	filled := int(percent / 100 * barWidth)
	if filled < 0 {
		filled = 0
	}
	if filled > barWidth {
		filled = barWidth
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", barWidth-filled) + "]"
}

// CategoryCmd groups the category-wide commands
type CategoryCmd struct {
	List  CategoryListCmd  `cmd:"" help:"Show completion per category." default:"1"`
	Start CategoryStartCmd `cmd:"" help:"Start every unfinished timer in a category."`
	Pause CategoryPauseCmd `cmd:"" help:"Pause every running timer in a category."`
	Reset CategoryResetCmd `cmd:"" help:"Reset every timer in a category."`
}
