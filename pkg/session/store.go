package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"igfetch/pkg/instagram"
	"igfetch/pkg/storage"
)

const fileExt = ".session"

// ErrSessionNotFound is returned when no session file exists for a username
var ErrSessionNotFound = errors.New("session not found")

// Info describes a stored session file
type Info struct {
	Username     string
	Path         string
	LastModified time.Time
}

// FileStore keeps one session file per username in a directory
type FileStore struct {
	dir string
}

// NewFileStore creates a store rooted at dir. The directory is created lazily.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Dir returns the session directory
func (s *FileStore) Dir() string {
	return s.dir
}

// Path returns <dir>/<sanitized username>.session
func (s *FileStore) Path(username string) string {
	return filepath.Join(s.dir, storage.SanitizeFilename(username)+fileExt)
}

// Exists reports whether a session file is stored for username
func (s *FileStore) Exists(username string) bool {
	if username == "" {
		return false
	}
	_, err := os.Stat(s.Path(username))
	return err == nil
}

// Import stores data as the session of username after checking that it
// holds a usable session cookie.
func (s *FileStore) Import(username string, data []byte) (string, error) {
	if strings.TrimSpace(username) == "" {
		return "", errors.New("username is required")
	}
	if _, err := instagram.ParseSessionData(data); err != nil {
		return "", fmt.Errorf("invalid session data: %w", err)
	}

	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create session directory: %w", err)
	}

	path := s.Path(username)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return "", fmt.Errorf("failed to write session file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("failed to store session file: %w", err)
	}
	return path, nil
}

// Delete removes the session file of username
func (s *FileStore) Delete(username string) error {
	err := os.Remove(s.Path(username))
	if errors.Is(err, os.ErrNotExist) {
		return ErrSessionNotFound
	}
	return err
}

// List returns stored sessions sorted by username
func (s *FileStore) List() ([]Info, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session directory: %w", err)
	}

	var infos []Info
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != fileExt {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			continue
		}
		infos = append(infos, Info{
			Username:     strings.TrimSuffix(entry.Name(), fileExt),
			Path:         filepath.Join(s.dir, entry.Name()),
			LastModified: fi.ModTime(),
		})
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Username < infos[j].Username })
	return infos, nil
}
