// Package session persists the authenticated user's profile and auth
// token between runs, mirroring the two string keys the web UI kept in
// browser storage. One owner (the composition root) restores it at
// startup and passes the store explicitly to components that need it.
package session

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/kubukshop/storefront/internal/models"
)

const (
	userFile  = "user.json"
	tokenFile = "token"
)

type Store struct {
	dir string

	mu    sync.Mutex
	user  *models.User
	token string
}

// DefaultDir resolves the per-user state directory.
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(base, "kubukshop"), nil
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}

	return &Store{dir: dir}, nil
}

// Load restores the persisted session. A corrupted user record clears
// both keys and yields a logged-out state; no error escapes (fail-safe
// logout, same as the web UI's parse-failure path).
func (s *Store) Load() (*models.User, string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(filepath.Join(s.dir, userFile))
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("failed to read persisted session", slog.String("error", err.Error()))
		}

		s.user, s.token = nil, ""

		return nil, ""
	}

	var user models.User
	if err := json.Unmarshal(raw, &user); err != nil {
		slog.Warn("corrupted session state, clearing", slog.String("error", err.Error()))
		s.clearLocked()

		return nil, ""
	}

	token := ""
	if rawToken, err := os.ReadFile(filepath.Join(s.dir, tokenFile)); err == nil {
		token = string(rawToken)
	}

	s.user, s.token = &user, token

	return &user, token
}

// Save persists both keys. Two writes, caller-atomic: if the second one
// fails the first is not rolled back (accepted weak consistency).
func (s *Store) Save(user *models.User, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}

	if err := os.WriteFile(filepath.Join(s.dir, userFile), raw, 0o600); err != nil {
		return err
	}

	if err := os.WriteFile(filepath.Join(s.dir, tokenFile), []byte(token), 0o600); err != nil {
		return err
	}

	s.user, s.token = user, token

	return nil
}

// SaveToken persists the token alone. Login writes the token first and
// the user record after the profile fetch, mirroring the web UI's order.
func (s *Store) SaveToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.WriteFile(filepath.Join(s.dir, tokenFile), []byte(token), 0o600); err != nil {
		return err
	}

	s.token = token

	return nil
}

// Clear deletes both keys unconditionally.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clearLocked()
}

func (s *Store) clearLocked() {
	for _, name := range []string{userFile, tokenFile} {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
			slog.Warn("failed to remove session file", slog.String("file", name), slog.String("error", err.Error()))
		}
	}

	s.user, s.token = nil, ""
}

// Token implements the API client's token source.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.token
}

func (s *Store) User() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.user
}
