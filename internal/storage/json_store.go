package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/julianstephens/ticktock/internal/constants"
)

const jsonStoreVersion = 1

type jsonDocument struct {
	Version int                        `json:"version"`
	Records map[string]json.RawMessage `json:"records"`
}

// JSONStore keeps every record in a single pretty-printed JSON file. Values
// must themselves be valid JSON.
type JSONStore struct {
	mu   sync.Mutex
	path string
	doc  *jsonDocument
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Init creates the file if it does not exist yet and loads it otherwise.
func (s *JSONStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return s.Load()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = &jsonDocument{Version: jsonStoreVersion, Records: map[string]json.RawMessage{}}
	return s.saveLocked()
}

func (s *JSONStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run '%s init' first", constants.AppName)
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	doc := &jsonDocument{}
	if err := json.Unmarshal(data, doc); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}
	if doc.Version > jsonStoreVersion {
		return fmt.Errorf("storage file version (%d) is newer than supported version (%d)", doc.Version, jsonStoreVersion)
	}
	if doc.Records == nil {
		doc.Records = map[string]json.RawMessage{}
	}

	s.mu.Lock()
	s.doc = doc
	s.mu.Unlock()
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) Get(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return nil, ErrNotLoaded
	}
	raw, ok := s.doc.Records[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return append([]byte(nil), raw...), nil
}

func (s *JSONStore) Set(key string, value []byte) error {
	if !json.Valid(value) {
		return fmt.Errorf("value for %q is not valid JSON", key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return ErrNotLoaded
	}
	s.doc.Records[key] = append(json.RawMessage(nil), value...)
	return s.saveLocked()
}

func (s *JSONStore) Keys() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return nil, ErrNotLoaded
	}
	keys := make([]string, 0, len(s.doc.Records))
	for k := range s.doc.Records {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}

func (s *JSONStore) saveLocked() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	return nil
}
