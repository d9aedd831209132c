package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/ticktock/internal/cli"
	"github.com/julianstephens/ticktock/internal/cli/backups"
	"github.com/julianstephens/ticktock/internal/cli/categories"
	"github.com/julianstephens/ticktock/internal/cli/data"
	"github.com/julianstephens/ticktock/internal/cli/settings"
	"github.com/julianstephens/ticktock/internal/cli/system"
	"github.com/julianstephens/ticktock/internal/cli/timers"
	"github.com/julianstephens/ticktock/internal/config"
	"github.com/julianstephens/ticktock/internal/constants"
	apperrors "github.com/julianstephens/ticktock/internal/errors"
	"github.com/julianstephens/ticktock/internal/logger"
)

var CLI struct {
	Version      kong.VersionFlag
	Config       string `help:"Data file (.db or .json), ':memory:', 'postgres' to use the keyring or ${env}, or a PostgreSQL connection string without credentials." type:"string" env:"TICKTOCK_CONFIG" default:"${config}"`
	SettingsFile string `name:"settings" help:"Settings file path." type:"path" env:"TICKTOCK_SETTINGS" default:"${settings}"`
	Debug        bool   `help:"Log debug output to stderr as well as the log file." env:"TICKTOCK_DEBUG"`

	Init     system.InitCmd         `cmd:"" help:"Initialize ticktock storage."`
	Migrate  system.MigrateCmd      `cmd:"" help:"Run database migrations."`
	Doctor   system.DoctorCmd       `cmd:"" help:"Run health checks and diagnostics."`
	Tui      system.TuiCmd          `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Run      system.RunCmd          `cmd:"" help:"Run the countdown scheduler in the foreground."`
	Timer    timers.TimerCmd        `cmd:"" help:"Manage timers."`
	Category categories.CategoryCmd `cmd:"" help:"Run bulk commands on a category."`
	History  data.HistoryCmd        `cmd:"" help:"Show completed timers."`
	Export   data.ExportCmd         `cmd:"" help:"Export timers and history to JSON."`
	Import   data.ImportCmd         `cmd:"" help:"Replace timers and history from an export file."`
	Backup   backups.BackupCmd      `cmd:"" help:"Manage data file backups."`
	Settings settings.SettingsCmd   `cmd:"" help:"View or change settings."`
	Keyring  system.KeyringCmd      `cmd:"" help:"Store the PostgreSQL connection string in the OS keyring."`
	Notify   system.NotifyCmd       `cmd:"" hidden:"" help:"Send a notification (used internally)."`
}

// needsStorage reports whether the selected command reads timer data
func needsStorage(command string) bool {
	switch command {
	case "init", "keyring", "settings", "notify", "doctor":
		return false
	}
	return true
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Countdown timers grouped by category, with halfway and completion alerts"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":  constants.Version,
			"config":   constants.DefaultConfigPath,
			"settings": constants.DefaultSettings,
			"env":      constants.ConnectionEnvVar,
		},
	)

	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug,
		ConfigDir: filepath.Dir(CLI.SettingsFile),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	userSettings, err := config.Load(CLI.SettingsFile)
	if err != nil {
		apperrors.Fatal(err)
	}

	provider, err := cli.OpenProvider(CLI.Config, os.Getenv)
	if err != nil {
		apperrors.Fatal(err)
	}

	appCtx := cli.NewContext(provider, userSettings, CLI.SettingsFile)
	defer appCtx.Close()

	command := ctx.Selected()
	if command != nil && needsStorage(rootCommand(command)) {
		if err := appCtx.Open(); err != nil {
			fmt.Fprintln(os.Stderr, apperrors.Format(err))
			fmt.Fprintf(os.Stderr, "Run '%s init' to create storage.\n", constants.AppName)
			appCtx.Close()
			os.Exit(1)
		}
	}

	if err := ctx.Run(appCtx); err != nil {
		logger.Error("Command execution failed", "command", ctx.Command(), "error", err)
		fmt.Fprintln(os.Stderr, apperrors.Format(err))
		appCtx.Close()
		os.Exit(1)
	}
}

// rootCommand walks up to the top-level command name
func rootCommand(node *kong.Node) string {
	for node.Parent != nil && node.Parent.Type == kong.CommandNode {
		node = node.Parent
	}
	return node.Name
}
