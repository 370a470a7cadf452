package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/idilsaglam/evotodo/internal/store/jsonstore"
)

const (
	credFileName = "credentials.json"
	// EnvToken overrides the credentials file when set.
	EnvToken = "EVOTODO_TOKEN"
)

var ErrEmptyToken = errors.New("empty token")

// FileStore persists the token under the user's home directory, with an
// environment override. Clearing an env-sourced token suppresses it for the
// rest of the process, since the variable itself cannot be unset for the
// parent shell.
type FileStore struct {
	Path string

	mu          sync.Mutex
	suppressEnv bool
}

// DefaultPath is ~/.evotodo/credentials.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, ".evotodo", credFileName), nil
}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

func (f *FileStore) Get() (*Token, error) {
	f.mu.Lock()
	suppress := f.suppressEnv
	f.mu.Unlock()

	// 1) env override
	if env := strings.TrimSpace(os.Getenv(EnvToken)); env != "" && !suppress {
		t := NewToken(env, "")
		t.Source = "env"
		return t, nil
	}

	// 2) file
	var t Token
	if err := jsonstore.Read(f.Path, &t); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil // not logged in
		}
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	t.AccessToken = stripBearer(t.AccessToken)
	if t.AccessToken == "" {
		return nil, nil
	}
	t.Source = "file"
	return &t, nil
}

func (f *FileStore) Set(t *Token) error {
	if t == nil || strings.TrimSpace(t.AccessToken) == "" {
		return ErrEmptyToken
	}
	cp := *t
	cp.AccessToken = stripBearer(strings.TrimSpace(cp.AccessToken))
	cp.Source = "file"
	// owner-only
	if err := jsonstore.Write(f.Path, cp, 0o600); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	f.mu.Lock()
	f.suppressEnv = true
	f.mu.Unlock()
	return nil
}

func (f *FileStore) Clear() error {
	f.mu.Lock()
	f.suppressEnv = true
	f.mu.Unlock()
	if err := jsonstore.Remove(f.Path); err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}
