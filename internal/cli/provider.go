package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/ticktock/internal/constants"
	"github.com/julianstephens/ticktock/internal/keyring"
	"github.com/julianstephens/ticktock/internal/logger"
	"github.com/julianstephens/ticktock/internal/storage"
	"github.com/julianstephens/ticktock/internal/storage/postgres"
	"github.com/julianstephens/ticktock/internal/storage/sqlite"
)

// PostgresConfig selects PostgreSQL with the connection string taken from
// the environment or the OS keyring.
const PostgresConfig = "postgres"

// OpenProvider picks a storage backend for config:
//
//	:memory:            in-memory, nothing persisted
//	postgres            connection string from TICKTOCK_DB_CONNECTION or the keyring
//	postgres://...      PostgreSQL, password must not be embedded
//	*.json              JSON file
//	anything else       SQLite file
//
// The returned provider is not loaded.
func OpenProvider(config string, getenv func(string) string) (storage.Provider, error) {
	config = strings.TrimSpace(config)

	switch {
	case config == constants.MemoryConfig:
		return storage.NewMemoryStore(), nil

	case config == PostgresConfig:
		connStr, source, err := keyring.ResolveConnectionString(getenv)
		if err != nil {
			if errors.Is(err, keyring.ErrNotFound) {
				return nil, fmt.Errorf("no PostgreSQL connection configured: set %s or run '%s keyring set'", constants.ConnectionEnvVar, constants.AppName)
			}
			return nil, err
		}
		logger.Debug("Using PostgreSQL connection", "source", source)
		return postgres.New(connStr), nil

	case postgres.IsConnString(config):
		if _, err := postgres.ValidateConnString(config); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("%w: store the full connection string with '%s keyring set', export %s, or use .pgpass",
					err, constants.AppName, constants.ConnectionEnvVar)
			}
			return nil, err
		}
		return postgres.New(config), nil

	case config == "":
		return nil, errors.New("no storage configured")
	}

	path := kong.ExpandPath(config)
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return storage.NewJSONStore(path), nil
	}
	return sqlite.NewStore(path), nil
}
