package models

import (
	"fmt"
	"time"
)

// EventKind identifies a scheduler notification
type EventKind string

const (
	EventHalfway   EventKind = "halfway"
	EventCompleted EventKind = "completed"
)

// Event is emitted by the scheduler for observers such as the notifier and the TUI.
type Event struct {
	Kind    EventKind
	TimerID string
	Name    string
	At      time.Time
}

// Title is the notification heading for the event
func (e Event) Title() string {
	switch e.Kind {
	case EventHalfway:
		return "Halfway Alert"
	case EventCompleted:
		return "Timer Complete"
	default:
		return "Timer"
	}
}

// Message is the notification body for the event
func (e Event) Message() string {
	switch e.Kind {
	case EventHalfway:
		return fmt.Sprintf("%s is halfway complete!", e.Name)
	case EventCompleted:
		return fmt.Sprintf("%s has finished!", e.Name)
	default:
		return e.Name
	}
}
