// File: internal/client/tokenstore/store.go
package tokenstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Pair is an access/refresh token pair. The two tokens are always read and
// written together so neither can be stale relative to the other.
type Pair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// IsZero reports whether the pair holds no tokens.
func (p Pair) IsZero() bool {
	return p.AccessToken == "" && p.RefreshToken == ""
}

// Store is durable storage for a single token pair. Get never blocks on I/O;
// implementations keep an in-memory mirror of the persisted state.
type Store interface {
	// Get returns the stored pair and whether one is present.
	Get() (Pair, bool)
	// Set replaces the stored pair. Both tokens are persisted in one write.
	Set(pair Pair) error
	// Clear removes the stored pair.
	Clear() error
}

// FileStore persists the pair as a JSON file and serves reads from memory.
type FileStore struct {
	mu   sync.RWMutex
	path string
	pair Pair
	ok   bool
}

// DefaultPath returns the token file location under the user config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(dir, "camera", "tokens.json"), nil
}

// NewFileStore opens (or prepares to create) the token file at path. A
// missing or unreadable file is treated as an empty store, not an error.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("read token file: %w", err)
	}

	var pair Pair
	if err := json.Unmarshal(data, &pair); err != nil || pair.IsZero() {
		// Corrupt or empty file. Start anonymous rather than failing startup.
		return s, nil
	}
	s.pair = pair
	s.ok = true
	return s, nil
}

func (s *FileStore) Get() (Pair, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pair, s.ok
}

func (s *FileStore) Set(pair Pair) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(pair)
	if err != nil {
		return fmt.Errorf("encode token pair: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}

	// Write to a temp file then rename so a crash mid-write never leaves a
	// half-updated pair on disk.
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".tokens-*")
	if err != nil {
		return fmt.Errorf("create temp token file: %w", err)
	}
	tmpName := tmp.Name()
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp token file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp token file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp token file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace token file: %w", err)
	}

	s.pair = pair
	s.ok = true
	return nil
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pair = Pair{}
	s.ok = false
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove token file: %w", err)
	}
	return nil
}

// MemoryStore is a volatile Store used by tests and short-lived commands.
type MemoryStore struct {
	mu   sync.RWMutex
	pair Pair
	ok   bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Get() (Pair, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pair, s.ok
}

func (s *MemoryStore) Set(pair Pair) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = pair
	s.ok = true
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = Pair{}
	s.ok = false
	return nil
}
