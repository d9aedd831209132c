package models

import "time"

// Snapshot is the export document. Field names match files written by
// earlier versions of the app.
type Snapshot struct {
	Timers     []Timer        `json:"timers"`
	History    []HistoryEntry `json:"history"`
	ExportDate string         `json:"exportDate"`
}

// ExportDateFormat is ISO 8601 with millisecond precision in UTC.
const ExportDateFormat = "2006-01-02T15:04:05.000Z"

// NewSnapshot builds a snapshot stamped with at.
func NewSnapshot(timers []Timer, history []HistoryEntry, at time.Time) Snapshot {
	if timers == nil {
		timers = []Timer{}
	}
	if history == nil {
		history = []HistoryEntry{}
	}
	return Snapshot{
		Timers:     timers,
		History:    history,
		ExportDate: at.UTC().Format(ExportDateFormat),
	}
}

// Data returns the persisted pair held by the snapshot
func (s Snapshot) Data() Data {
	return Data{Timers: s.Timers, History: s.History}
}
