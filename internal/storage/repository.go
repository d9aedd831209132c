package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianstephens/ticktock/internal/constants"
	"github.com/julianstephens/ticktock/internal/models"
)

// Repository maps the timer and history collections onto two provider
// records, "timers" and "timerHistory".
type Repository struct {
	provider Provider
}

func NewRepository(p Provider) *Repository {
	return &Repository{provider: p}
}

// Load reads both records. found is false only when neither record exists.
// A record that exists but does not decode is an error.
func (r *Repository) Load() (models.Data, bool, error) {
	var data models.Data

	timersFound, err := r.read(constants.TimersKey, &data.Timers)
	if err != nil {
		return models.Data{}, false, err
	}
	historyFound, err := r.read(constants.HistoryKey, &data.History)
	if err != nil {
		return models.Data{}, false, err
	}

	if data.Timers == nil {
		data.Timers = []models.Timer{}
	}
	if data.History == nil {
		data.History = []models.HistoryEntry{}
	}
	return data, timersFound || historyFound, nil
}

// Save writes both records. Both writes are attempted; errors are joined.
func (r *Repository) Save(timers []models.Timer, history []models.HistoryEntry) error {
	if timers == nil {
		timers = []models.Timer{}
	}
	if history == nil {
		history = []models.HistoryEntry{}
	}
	return errors.Join(
		r.write(constants.TimersKey, timers),
		r.write(constants.HistoryKey, history),
	)
}

func (r *Repository) read(key string, into any) (bool, error) {
	raw, err := r.provider.Get(key)
	if errors.Is(err, ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, into); err != nil {
		return false, fmt.Errorf("failed to parse %s: %w", key, err)
	}
	return true, nil
}

func (r *Repository) write(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to serialize %s: %w", key, err)
	}
	if err := r.provider.Set(key, raw); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}
