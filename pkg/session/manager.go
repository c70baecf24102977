package session

import (
	"errors"
	"fmt"
	"sync"

	"igfetch/pkg/logger"
)

// Manager combines the session files with the default-user pointer.
// The keychain is preferred and a file next to the sessions is the fallback.
type Manager struct {
	files  *FileStore
	logger logger.Logger

	once     sync.Once
	load     func() []DefaultStore
	defaults []DefaultStore
}

// NewManager creates a manager for sessions stored in dir. The keychain is
// opened on first use of the default user, not here.
func NewManager(dir string, log logger.Logger) *Manager {
	return newManager(dir, log, func() (DefaultStore, error) { return NewKeyringDefault() })
}

func newManager(dir string, log logger.Logger, keychain func() (DefaultStore, error)) *Manager {
	if log == nil {
		log = logger.GetLogger()
	}

	m := &Manager{files: NewFileStore(dir), logger: log}
	m.load = func() []DefaultStore {
		var defaults []DefaultStore
		if kr, err := keychain(); err == nil {
			defaults = append(defaults, kr)
		} else {
			log.DebugWithFields("keyring unavailable, using file for default session", map[string]interface{}{
				"error": err.Error(),
			})
		}
		return append(defaults, NewFileDefault(dir))
	}
	return m
}

// NewManagerWithStores wires explicit stores, mostly for tests
func NewManagerWithStores(files *FileStore, log logger.Logger, defaults ...DefaultStore) *Manager {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Manager{
		files:  files,
		logger: log,
		load:   func() []DefaultStore { return defaults },
	}
}

func (m *Manager) stores() []DefaultStore {
	m.once.Do(func() { m.defaults = m.load() })
	return m.defaults
}

// Files exposes the session file store
func (m *Manager) Files() *FileStore {
	return m.files
}

// SetDefault records username as the default using the first store that accepts it
func (m *Manager) SetDefault(username string) error {
	if username == "" {
		return errors.New("username is required")
	}
	if !m.files.Exists(username) {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, username)
	}

	var lastErr error
	for _, store := range m.stores() {
		if err := store.Set(username); err != nil {
			lastErr = err
			continue
		}
		m.logger.DebugWithFields("default session user stored", map[string]interface{}{
			"username": username,
			"store":    store.Name(),
		})
		return nil
	}
	if lastErr != nil {
		return fmt.Errorf("failed to store default session user: %w", lastErr)
	}
	return errors.New("no available default stores")
}

// Default returns the default session username
func (m *Manager) Default() (string, error) {
	for _, store := range m.stores() {
		if v, err := store.Get(); err == nil && v != "" {
			return v, nil
		}
	}
	return "", ErrNoDefault
}

// ClearDefault forgets the default in every store
func (m *Manager) ClearDefault() error {
	var errs []error
	for _, store := range m.stores() {
		if err := store.Clear(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", store.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// Resolve picks the session to use. An explicit username wins over the
// default. The returned path is empty when no session file exists, which
// callers treat as anonymous access.
func (m *Manager) Resolve(username string) (string, string) {
	if username == "" {
		def, err := m.Default()
		if err != nil {
			return "", ""
		}
		username = def
	}
	if !m.files.Exists(username) {
		m.logger.WarnWithFields("no stored session for user", map[string]interface{}{
			"username": username,
			"path":     m.files.Path(username),
		})
		return username, ""
	}
	return username, m.files.Path(username)
}
