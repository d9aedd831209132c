package system

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/ticktock/internal/backup"
	"github.com/julianstephens/ticktock/internal/cli"
	"github.com/julianstephens/ticktock/internal/storage"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting the existing data file before initialization."`
	Source string `help:"Storage path or connection string to copy timers and history from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.removeExisting(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Provider.Init(); err != nil {
		return err
	}
	ctx.Store.Load()
	fmt.Printf("Initialized ticktock storage at: %s\n", ctx.Provider.GetConfigPath())

	if c.Source != "" {
		fmt.Printf("Copying data from: %s\n", c.Source)
		if err := c.copyFrom(ctx, c.Source); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		fmt.Println("Migration completed successfully!")
	}
	return nil
}

func (c *InitCmd) removeExisting(ctx *cli.Context) error {
	dbPath := ctx.Provider.GetConfigPath()
	if !backup.Supported(dbPath) {
		return fmt.Errorf("--force only applies to SQLite and JSON storage")
	}

	if c.Source != "" {
		absDB, err := filepath.Abs(dbPath)
		if err == nil {
			dbPath = absDB
		}
		if absSource, err := filepath.Abs(c.Source); err == nil && absSource == dbPath {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
		}
	}

	if _, err := os.Stat(dbPath); err == nil {
		if err := ctx.Provider.Close(); err != nil {
			return fmt.Errorf("failed to close existing storage: %w", err)
		}
		if err := os.Remove(dbPath); err != nil {
			return fmt.Errorf("failed to delete existing storage: %w", err)
		}
		fmt.Printf("Deleted existing storage at: %s\n", dbPath)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access existing storage: %w", err)
	}
	return nil
}

func (c *InitCmd) copyFrom(ctx *cli.Context, source string) error {
	src, err := cli.OpenProvider(source, os.Getenv)
	if err != nil {
		return err
	}
	if err := src.Load(); err != nil {
		return fmt.Errorf("failed to load source storage: %w", err)
	}
	defer src.Close()

	data, found, err := storage.NewRepository(src).Load()
	if err != nil {
		return fmt.Errorf("failed to read source data: %w", err)
	}
	if !found {
		fmt.Println("  Source has no timers, nothing to copy")
		return nil
	}

	if err := ctx.Store.Import(data); err != nil {
		return err
	}
	if err := ctx.Store.LastPersistError(); err != nil {
		return err
	}
	fmt.Printf("  Copied %d timers and %d history entries\n", len(data.Timers), len(data.History))
	return nil
}
