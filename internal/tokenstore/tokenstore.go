// ABOUTME: Durable client-local storage for the bearer token
// ABOUTME: Stores one opaque string under a fixed key in the config directory

package tokenstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Key is the fixed name the token is stored under
const Key = "token"

// Store persists the bearer token between runs. Load returns "" with a nil
// error when nothing is stored.
type Store interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// File stores the token as a 0600 file named Key inside a directory
type File struct {
	dir string
}

// NewFile creates a file-backed store rooted at dir
func NewFile(dir string) *File {
	return &File{dir: dir}
}

// Path returns the path of the token file
func (f *File) Path() string {
	return filepath.Join(f.dir, Key)
}

// Load reads the stored token
func (f *File) Load() (string, error) {
	if f.dir == "" {
		return "", errors.New("no config directory available")
	}
	data, err := os.ReadFile(f.Path())
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Save writes the token, replacing any previous one
func (f *File) Save(token string) error {
	if f.dir == "" {
		return errors.New("no config directory available")
	}
	if err := os.MkdirAll(f.dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Write to a temp file first so a crash never leaves a truncated token
	tmp, err := os.CreateTemp(f.dir, Key+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to write token: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write token: %w", err)
	}
	if _, err := tmp.WriteString(token); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write token: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write token: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.Path()); err != nil {
		return fmt.Errorf("failed to write token: %w", err)
	}
	return nil
}

// Clear removes the stored token. Clearing an empty store is not an error.
func (f *File) Clear() error {
	if f.dir == "" {
		return nil
	}
	if err := os.Remove(f.Path()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove token: %w", err)
	}
	return nil
}

// Memory is an in-process store, used for tests and ephemeral sessions
type Memory struct {
	mu    sync.Mutex
	token string
}

// NewMemory creates an in-memory store holding token
func NewMemory(token string) *Memory {
	return &Memory{token: token}
}

func (m *Memory) Load() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *Memory) Save(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *Memory) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}
