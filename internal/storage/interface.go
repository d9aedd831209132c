package storage

import "errors"

var (
	// ErrKeyNotFound is returned by Get when nothing was stored under the key
	ErrKeyNotFound = errors.New("key not found")
	// ErrNotLoaded is returned when a provider is used before Init or Load
	ErrNotLoaded = errors.New("storage not loaded")
)

// Provider is an opaque key/value byte store. Values written by the timer
// repository are JSON documents.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Records
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Keys() ([]string, error)

	// Utils
	GetConfigPath() string
}
