package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/concave-dev/thinkmap/internal/tokens"
)

// ExpiryLeeway treats access tokens this close to expiry as expired.
const ExpiryLeeway = 10 * time.Second

// Credentials are the persisted session of one CLI user.
type Credentials struct {
	API      string `yaml:"api"`
	Username string `yaml:"username"`
	Access   string `yaml:"access"`
	Refresh  string `yaml:"refresh"`
}

// accessValid reports whether token has an exp claim later than now+leeway.
func accessValid(token string, now time.Time) bool {
	if token == "" {
		return false
	}
	exp, err := tokens.ExpiresAt(token)
	if err != nil {
		return false
	}
	return exp.After(now.Add(ExpiryLeeway))
}

// MemoryStore is an in-process TokenStore.
type MemoryStore struct {
	mu    sync.RWMutex
	creds Credentials
	now   func() time.Time
}

// NewMemoryStore returns a store holding the given tokens.
func NewMemoryStore(access, refresh string) *MemoryStore {
	return &MemoryStore{
		creds: Credentials{Access: access, Refresh: refresh},
		now:   time.Now,
	}
}

func (s *MemoryStore) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds.Access
}

func (s *MemoryStore) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds.Refresh
}

func (s *MemoryStore) AccessTokenValid() bool {
	return accessValid(s.AccessToken(), s.now())
}

func (s *MemoryStore) SaveAccessToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds.Access = token
	return nil
}

// FileStore is a TokenStore persisted as YAML, by default at
// ~/.thinkmap/credentials.yaml. The file is written with 0600 permissions.
type FileStore struct {
	path string

	mu    sync.RWMutex
	creds Credentials
	now   func() time.Time
}

// DefaultCredentialsPath returns ~/.thinkmap/credentials.yaml.
func DefaultCredentialsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".thinkmap", "credentials.yaml")
	}
	return filepath.Join(home, ".thinkmap", "credentials.yaml")
}

// OpenFileStore loads credentials from path. A missing file yields an empty
// store.
func OpenFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path, now: time.Now}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read credentials file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &s.creds); err != nil {
		return nil, fmt.Errorf("failed to parse credentials file %s: %w", path, err)
	}
	return s, nil
}

// Path returns the credentials file location.
func (s *FileStore) Path() string { return s.path }

// Credentials returns a copy of the stored credentials.
func (s *FileStore) Credentials() Credentials {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds
}

// LoggedIn reports whether a refresh token is stored.
func (s *FileStore) LoggedIn() bool {
	return s.RefreshToken() != ""
}

func (s *FileStore) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds.Access
}

func (s *FileStore) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds.Refresh
}

func (s *FileStore) AccessTokenValid() bool {
	return accessValid(s.AccessToken(), s.now())
}

func (s *FileStore) SaveAccessToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds.Access = token
	return s.writeLocked()
}

// Save replaces all stored credentials.
func (s *FileStore) Save(creds Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = creds
	return s.writeLocked()
}

// Clear removes the credentials file.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = Credentials{}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove credentials file: %w", err)
	}
	return nil
}

func (s *FileStore) writeLocked() error {
	data, err := yaml.Marshal(&s.creds)
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create credentials directory: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write credentials file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace credentials file: %w", err)
	}
	return nil
}
