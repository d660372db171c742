package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/MalayathiGeetha/MailMind-AI/internal/log"
)

const sessionFilename = "session.json"

// FileStore persists the session as a single JSON file. Each change is one
// atomic write (temp file + rename) so a crash never leaves a torn session
// on disk.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a store rooted at dir, creating dir if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating session dir: %w", err)
	}
	return &FileStore{path: filepath.Join(dir, sessionFilename)}, nil
}

// DefaultDir returns the per-user directory used for session storage.
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "mailmind"), nil
}

// Path returns the session file location. Used by the file watcher.
func (f *FileStore) Path() string {
	return f.path
}

// Save implements Store.
func (f *FileStore) Save(s Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replacing session file: %w", err)
	}

	log.Info(log.CatAuth, "Session saved", "username", s.User.Username)
	return nil
}

// Load implements Store.
func (f *FileStore) Load() (Session, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.ErrorErr(log.CatAuth, "Failed to read session file", err, "path", f.path)
		}
		return Session{}, false
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		log.ErrorErr(log.CatAuth, "Session file is corrupt, treating as logged out", err)
		return Session{}, false
	}
	if s.Token == "" {
		return Session{}, false
	}
	return s, true
}

// Clear implements Store. Removing an absent session is not an error.
func (f *FileStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	err := os.Remove(f.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing session file: %w", err)
	}
	if err == nil {
		log.Info(log.CatAuth, "Session cleared")
	}
	return nil
}
