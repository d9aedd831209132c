package cli

import (
	"fmt"
	"strings"

	"github.com/julianstephens/ticktock/internal/backup"
	"github.com/julianstephens/ticktock/internal/category"
	"github.com/julianstephens/ticktock/internal/config"
	"github.com/julianstephens/ticktock/internal/constants"
	apperrors "github.com/julianstephens/ticktock/internal/errors"
	"github.com/julianstephens/ticktock/internal/logger"
	"github.com/julianstephens/ticktock/internal/models"
	"github.com/julianstephens/ticktock/internal/scheduler"
	"github.com/julianstephens/ticktock/internal/storage"
	"github.com/julianstephens/ticktock/internal/timers"
)

// Context is shared by every command. Provider is not loaded until Open is
// called, so init can create storage first.
type Context struct {
	Provider     storage.Provider
	Store        *timers.Store
	Scheduler    *scheduler.Scheduler
	Aggregator   *category.Aggregator
	Settings     config.Settings
	SettingsPath string
}

// NewContext wires the timer store, scheduler and aggregator around provider
func NewContext(provider storage.Provider, settings config.Settings, settingsPath string, opts ...timers.Option) *Context {
	store := timers.New(storage.NewRepository(provider), opts...)
	return &Context{
		Provider:     provider,
		Store:        store,
		Scheduler:    scheduler.New(store, scheduler.Config{TickInterval: constants.TickInterval}),
		Aggregator:   category.NewAggregator(store),
		Settings:     settings,
		SettingsPath: settingsPath,
	}
}

// Open loads the provider and reads persisted timers into the store
func (c *Context) Open() error {
	if err := c.Provider.Load(); err != nil {
		return err
	}
	c.Store.Load()
	return nil
}

// Close stops the scheduler and releases the provider
func (c *Context) Close() error {
	c.Scheduler.Stop()
	return c.Provider.Close()
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	if !c.Settings.AutoBackup || !backup.Supported(c.Provider.GetConfigPath()) {
		return
	}
	mgr := backup.NewManager(c.Provider.GetConfigPath())
	if _, err := mgr.CreateBackup(); err != nil {
		// Don't interrupt the user over a failed backup
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// ResolveTimer finds a timer by full id or unique id prefix.
func (c *Context) ResolveTimer(ref string) (models.Timer, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return models.Timer{}, apperrors.Validation("id", "cannot be empty")
	}
	if t, err := c.Store.Get(ref); err == nil {
		return t, nil
	}

	var matches []models.Timer
	for _, t := range c.Store.Timers() {
		if strings.HasPrefix(t.ID, ref) {
			matches = append(matches, t)
		}
	}

	switch len(matches) {
	case 0:
		return models.Timer{}, apperrors.NotFound(ref)
	case 1:
		return matches[0], nil
	default:
		return models.Timer{}, fmt.Errorf("id prefix %q matches %d timers, use more characters", ref, len(matches))
	}
}

// ShortID is the id prefix shown in listings
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
