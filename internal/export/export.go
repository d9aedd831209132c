// Package export reads and writes the snapshot file shared with earlier
// versions of the app.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/julianstephens/ticktock/internal/constants"
	"github.com/julianstephens/ticktock/internal/models"
)

// FileName returns the default export file name for at,
// e.g. timer-data-2025-03-14T09:00:00.000Z.json
func FileName(at time.Time) string {
	return constants.ExportFilePrefix + at.UTC().Format(models.ExportDateFormat) + ".json"
}

// Write encodes snapshot as JSON indented with two spaces
func Write(w io.Writer, snapshot models.Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snapshot); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return nil
}

// WriteFile writes snapshot to path. When path is a directory the default
// file name is used inside it. The written path is returned.
func WriteFile(path string, snapshot models.Snapshot, at time.Time) (string, error) {
	if path == "" {
		path = "."
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, FileName(at))
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	if err := Write(f, snapshot); err != nil {
		return "", err
	}
	return path, f.Sync()
}

// document mirrors models.Snapshot with pointer collections so a file that
// lacks one of them can be told apart from an empty one.
type document struct {
	Timers     *[]models.Timer        `json:"timers"`
	History    *[]models.HistoryEntry `json:"history"`
	ExportDate string                 `json:"exportDate"`
}

// Read decodes an exported snapshot. Both collections must be present.
func Read(r io.Reader) (models.Snapshot, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return models.Snapshot{}, fmt.Errorf("failed to parse export: %w", err)
	}

	var missing []string
	if doc.Timers == nil {
		missing = append(missing, "timers")
	}
	if doc.History == nil {
		missing = append(missing, "history")
	}
	if len(missing) > 0 {
		return models.Snapshot{}, fmt.Errorf("export is missing %s", strings.Join(missing, " and "))
	}

	snapshot := models.Snapshot{
		Timers:     *doc.Timers,
		History:    *doc.History,
		ExportDate: doc.ExportDate,
	}
	if snapshot.Timers == nil {
		snapshot.Timers = []models.Timer{}
	}
	if snapshot.History == nil {
		snapshot.History = []models.HistoryEntry{}
	}
	return snapshot, nil
}

// ReadFile reads an exported snapshot from path
func ReadFile(path string) (models.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("failed to open export file: %w", err)
	}
	defer f.Close()
	return Read(f)
}
