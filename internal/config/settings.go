// Package config reads and writes the user's settings.yaml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Settings are user preferences that are not part of timer data
type Settings struct {
	// NotificationsEnabled turns halfway and completion alerts on or off
	NotificationsEnabled bool
	// DesktopNotifications forwards alerts to the tray app when it is running
	DesktopNotifications bool
	// HalfwayAlertDefault pre-selects the halfway toggle for new timers
	HalfwayAlertDefault bool
	// DefaultCategory is offered first in the new-timer form
	DefaultCategory string
	// DefaultDurationMinutes pre-fills the new-timer form
	DefaultDurationMinutes int
	// AutoBackup takes a backup when the TUI starts
	AutoBackup bool
}

// Defaults returns the settings used when no file exists
func Defaults() Settings {
	return Settings{
		NotificationsEnabled:   true,
		DesktopNotifications:   true,
		HalfwayAlertDefault:    false,
		DefaultCategory:        "general",
		DefaultDurationMinutes: 25,
		AutoBackup:             true,
	}
}

// yamlSettings uses pointers so keys missing from the file keep their defaults
type yamlSettings struct {
	NotificationsEnabled   *bool   `yaml:"notifications_enabled,omitempty"`
	DesktopNotifications   *bool   `yaml:"desktop_notifications,omitempty"`
	HalfwayAlertDefault    *bool   `yaml:"halfway_alert_default,omitempty"`
	DefaultCategory        *string `yaml:"default_category,omitempty"`
	DefaultDurationMinutes *int    `yaml:"default_duration_minutes,omitempty"`
	AutoBackup             *bool   `yaml:"auto_backup,omitempty"`
}

// Load reads settings from path. A missing file yields Defaults.
func Load(path string) (Settings, error) {
	settings := Defaults()

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(raw, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	apply(&settings, fileData)
	return settings, settings.Validate()
}

// Save writes every setting to path, creating the directory if needed.
func Save(path string, settings Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	fileData := yamlSettings{
		NotificationsEnabled:   &settings.NotificationsEnabled,
		DesktopNotifications:   &settings.DesktopNotifications,
		HalfwayAlertDefault:    &settings.HalfwayAlertDefault,
		DefaultCategory:        &settings.DefaultCategory,
		DefaultDurationMinutes: &settings.DefaultDurationMinutes,
		AutoBackup:             &settings.AutoBackup,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}
	if err := os.WriteFile(path, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	return nil
}

// Validate rejects values the new-timer form cannot use
func (s Settings) Validate() error {
	if strings.TrimSpace(s.DefaultCategory) == "" {
		return fmt.Errorf("default_category cannot be empty")
	}
	if s.DefaultDurationMinutes <= 0 {
		return fmt.Errorf("default_duration_minutes must be positive, got %d", s.DefaultDurationMinutes)
	}
	return nil
}

func apply(settings *Settings, fileData yamlSettings) {
	if fileData.NotificationsEnabled != nil {
		settings.NotificationsEnabled = *fileData.NotificationsEnabled
	}
	if fileData.DesktopNotifications != nil {
		settings.DesktopNotifications = *fileData.DesktopNotifications
	}
	if fileData.HalfwayAlertDefault != nil {
		settings.HalfwayAlertDefault = *fileData.HalfwayAlertDefault
	}
	if fileData.DefaultCategory != nil {
		settings.DefaultCategory = *fileData.DefaultCategory
	}
	if fileData.DefaultDurationMinutes != nil {
		settings.DefaultDurationMinutes = *fileData.DefaultDurationMinutes
	}
	if fileData.AutoBackup != nil {
		settings.AutoBackup = *fileData.AutoBackup
	}
}
