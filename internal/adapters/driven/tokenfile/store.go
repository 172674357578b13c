package tokenfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/trinoor/o365-cli/internal/core/domain"
	"github.com/trinoor/o365-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.TokenStore = (*Store)(nil)

// Store is a file-based implementation of driven.TokenStore. One JSON
// file holds the single token record; fields the endpoint returned
// that the record does not model round-trip unchanged.
type Store struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// NewStore creates a token store at the given path. If path is empty,
// defaults to ~/.config/o365/tokens.json. Nothing is created on disk
// until the first save.
func NewStore(path string) (*Store, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(home, ".config", "o365", "tokens.json")
	}
	return &Store{path: path, now: time.Now}, nil
}

// Load reads the stored token record. Returns domain.ErrNotAuthenticated
// when no record has been saved.
func (s *Store) Load() (*domain.TokenRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrNotAuthenticated
		}
		return nil, fmt.Errorf("read token file: %w", err)
	}

	var rec domain.TokenRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse token file %s: %w", s.path, err)
	}
	return &rec, nil
}

// Save stamps the record's save time and writes it with restricted
// permissions, creating the parent directory if needed.
func (s *Store) Save(rec *domain.TokenRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec.SavedAt = s.now().Unix()

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encode token record: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("create token directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}

// Clear removes the stored record. Clearing an empty store is not an
// error.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove token file: %w", err)
	}
	return nil
}

// Path returns the token file path.
func (s *Store) Path() string {
	return s.path
}
