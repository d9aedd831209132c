package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/ticktock/internal/backup"
	"github.com/julianstephens/ticktock/internal/cli"
	"github.com/julianstephens/ticktock/internal/config"
	"github.com/julianstephens/ticktock/internal/logger"
	"github.com/julianstephens/ticktock/internal/notifier"
	"github.com/julianstephens/ticktock/internal/storage"
	"github.com/julianstephens/ticktock/internal/validation"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	fail := func(name string, err error) {
		fmt.Printf("❌ %s: FAIL\n", name)
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	}

	// Check 1: storage reachable
	reachable := false
	if err := ctx.Provider.Load(); err != nil {
		fail("Storage reachable", err)
	} else {
		fmt.Printf("✓ Storage reachable: OK (%s)\n", ctx.Provider.GetConfigPath())
		reachable = true
	}

	// Check 2: schema version
	if !reachable {
		fmt.Printf("⊘ Schema version: SKIPPED (storage not reachable)\n")
	} else if v, ok := ctx.Provider.(schemaVersioner); ok {
		if err := checkSchemaVersion(v); err != nil {
			fail("Schema version", err)
		} else {
			fmt.Printf("✓ Schema version: OK\n")
		}
	} else {
		fmt.Printf("⊘ Schema version: SKIPPED (no schema for this storage)\n")
	}

	// Check 3: persisted data passes validation
	if reachable {
		if err := checkData(ctx.Provider); err != nil {
			fail("Data validation", err)
		} else {
			fmt.Printf("✓ Data validation: OK\n")
		}
	} else {
		fmt.Printf("⊘ Data validation: SKIPPED (storage not reachable)\n")
	}

	// Check 4: backups present (warning only)
	if err := checkBackupsPresent(ctx.Provider.GetConfigPath()); err != nil {
		fmt.Printf("⚠ Backups present: WARNING\n")
		fmt.Printf("   %v\n", err)
	} else {
		fmt.Printf("✓ Backups present: OK\n")
	}

	// Check 5: settings file
	if _, err := config.Load(ctx.SettingsPath); err != nil {
		fail("Settings file", err)
	} else {
		fmt.Printf("✓ Settings file: OK\n")
	}

	// Check 6: tray app (informational)
	if ctx.Settings.DesktopNotifications {
		if dir, err := notifier.GetTrayAppConfigDir(); err != nil {
			fmt.Printf("⚠ Tray app: WARNING\n   %v\n", err)
		} else {
			fmt.Printf("ℹ Tray app config directory: %s\n", dir)
		}
	}

	if path := logger.Path(); path != "" {
		fmt.Printf("ℹ Log file: %s\n", path)
	}

	fmt.Println()
	if hasError {
		return errors.New("diagnostics failed")
	}
	fmt.Println("All checks passed.")
	return nil
}

func checkSchemaVersion(v schemaVersioner) error {
	current, latest, err := v.SchemaVersion()
	if err != nil {
		return err
	}
	if current > latest {
		return fmt.Errorf("schema version %d is newer than this build supports (%d)", current, latest)
	}
	if current < latest {
		return fmt.Errorf("schema version %d is behind latest %d, run 'ticktock migrate'", current, latest)
	}
	return nil
}

func checkData(p storage.Provider) error {
	data, _, err := storage.NewRepository(p).Load()
	if err != nil {
		return err
	}
	result := validation.New().ValidateData(data)
	if result.HasConflicts() {
		return errors.New(result.FormatReport())
	}
	return nil
}

func checkBackupsPresent(dbPath string) error {
	if !backup.Supported(dbPath) {
		return errors.New("backups are not available for this storage")
	}
	backups, err := backup.NewManager(dbPath).ListBackups()
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		return errors.New("no backups found, run 'ticktock backup create'")
	}
	if age := time.Since(backups[0].Timestamp); age > 7*24*time.Hour {
		return fmt.Errorf("latest backup is %d days old", int(age.Hours()/24))
	}
	return nil
}
