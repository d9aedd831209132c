package settings

import (
	"fmt"

	"github.com/julianstephens/ticktock/internal/cli"
	"github.com/julianstephens/ticktock/internal/config"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	NotificationsEnabled   *bool   `help:"Enable or disable halfway and completion alerts."`
	DesktopNotifications   *bool   `help:"Forward alerts to the tray app when it is running."`
	HalfwayAlertDefault    *bool   `help:"Turn the halfway alert on for new timers by default."`
	DefaultCategory        *string `help:"Category used when none is given."`
	DefaultDurationMinutes *int    `help:"Duration in minutes used when none is given."`
	AutoBackup             *bool   `help:"Back up the data file when the TUI starts."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	settings := ctx.Settings

	if c.List {
		fmt.Printf("Settings file: %s\n\n", ctx.SettingsPath)
		fmt.Printf("  Notifications Enabled:  %v\n", settings.NotificationsEnabled)
		fmt.Printf("  Desktop Notifications:  %v\n", settings.DesktopNotifications)
		fmt.Printf("  Halfway Alert Default:  %v\n", settings.HalfwayAlertDefault)
		fmt.Printf("  Default Category:       %s\n", settings.DefaultCategory)
		fmt.Printf("  Default Duration:       %d min\n", settings.DefaultDurationMinutes)
		fmt.Printf("  Automatic Backup:       %v\n", settings.AutoBackup)
		return nil
	}

	updated := false
	if c.NotificationsEnabled != nil {
		settings.NotificationsEnabled = *c.NotificationsEnabled
		updated = true
	}
	if c.DesktopNotifications != nil {
		settings.DesktopNotifications = *c.DesktopNotifications
		updated = true
	}
	if c.HalfwayAlertDefault != nil {
		settings.HalfwayAlertDefault = *c.HalfwayAlertDefault
		updated = true
	}
	if c.DefaultCategory != nil {
		settings.DefaultCategory = *c.DefaultCategory
		updated = true
	}
	if c.DefaultDurationMinutes != nil {
		settings.DefaultDurationMinutes = *c.DefaultDurationMinutes
		updated = true
	}
	if c.AutoBackup != nil {
		settings.AutoBackup = *c.AutoBackup
		updated = true
	}

	if !updated {
		fmt.Println("No changes specified. Use --list to view settings or flags to update them.")
		return nil
	}

	if err := config.Save(ctx.SettingsPath, settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	ctx.Settings = settings
	fmt.Println("Settings updated successfully.")
	return nil
}
