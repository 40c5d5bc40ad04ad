// Package session persists the client session blob (bearer token, refresh
// token, serialized user) to disk. Writes go through a temp file and an
// atomic rename, so a reader sees either the previous blob or the new one,
// never a torn write.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const (
	fileName = "session.json"
	dirPerm  = 0o700
	filePerm = 0o600
)

type Store struct {
	path string
	mu   sync.Mutex
}

type blob struct {
	Token        string          `json:"token,omitempty"`
	RefreshToken string          `json:"refreshToken,omitempty"`
	User         json.RawMessage `json:"user,omitempty"`
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}

	return &Store{path: filepath.Join(dir, fileName)}, nil
}

func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load().Token
}

func (s *Store) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.load()
	b.Token = token

	return s.save(b)
}

func (s *Store) RefreshToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load().RefreshToken
}

func (s *Store) SetRefreshToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.load()
	b.RefreshToken = token

	return s.save(b)
}

// User returns the serialized user blob, or nil when none is stored.
func (s *Store) User() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load().User
}

func (s *Store) SetUser(userJSON []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.load()
	b.User = userJSON

	return s.save(b)
}

// Clear removes the token, refresh token and user blob together. Clearing
// an already empty store is a no-op.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clear session: %w", err)
	}

	return nil
}

// load tolerates a missing or corrupt file by returning an empty blob: a
// broken session blob is equivalent to being logged out.
func (s *Store) load() blob {
	var b blob

	data, err := os.ReadFile(s.path)
	if err != nil {
		return blob{}
	}

	if err := json.Unmarshal(data, &b); err != nil {
		return blob{}
	}

	return b
}

func (s *Store) save(b blob) error {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	tempPath := s.path + ".tmp"

	if err := os.WriteFile(tempPath, data, filePerm); err != nil {
		return fmt.Errorf("write session: %w", err)
	}

	if err := os.Rename(tempPath, s.path); err != nil {
		return fmt.Errorf("replace session: %w", err)
	}

	return nil
}
