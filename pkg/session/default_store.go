package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "igfetch"
	keyringKey     = "default_session_user"
	defaultFile    = ".default"
)

// ErrNoDefault is returned when no default session user has been chosen
var ErrNoDefault = errors.New("no default session user")

// DefaultStore remembers which stored session is used when none is named
type DefaultStore interface {
	Get() (string, error)
	Set(username string) error
	Clear() error
	Name() string
}

// KeyringDefault keeps the default username in the system keychain
type KeyringDefault struct{}

// NewKeyringDefault returns a keychain-backed store if the keychain works here
func NewKeyringDefault() (*KeyringDefault, error) {
	testKey := "test_availability"
	if err := keyring.Set(keyringService, testKey, "test"); err != nil {
		return nil, fmt.Errorf("keyring not available: %w", err)
	}
	_ = keyring.Delete(keyringService, testKey)

	return &KeyringDefault{}, nil
}

func (k *KeyringDefault) Get() (string, error) {
	v, err := keyring.Get(keyringService, keyringKey)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNoDefault
	}
	if err != nil {
		return "", fmt.Errorf("failed to read keyring: %w", err)
	}
	return v, nil
}

func (k *KeyringDefault) Set(username string) error {
	if err := keyring.Set(keyringService, keyringKey, username); err != nil {
		return fmt.Errorf("failed to store in keyring: %w", err)
	}
	return nil
}

func (k *KeyringDefault) Clear() error {
	err := keyring.Delete(keyringService, keyringKey)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete from keyring: %w", err)
	}
	return nil
}

func (k *KeyringDefault) Name() string { return "keyring" }

// FileDefault keeps the default username in a plain file
type FileDefault struct {
	path string
}

// NewFileDefault stores the default username next to the session files
func NewFileDefault(dir string) *FileDefault {
	return &FileDefault{path: filepath.Join(dir, defaultFile)}
}

func (f *FileDefault) Get() (string, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNoDefault
	}
	if err != nil {
		return "", err
	}
	v := strings.TrimSpace(string(data))
	if v == "" {
		return "", ErrNoDefault
	}
	return v, nil
}

func (f *FileDefault) Set(username string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return err
	}
	return os.WriteFile(f.path, []byte(username+"\n"), 0600)
}

func (f *FileDefault) Clear() error {
	err := os.Remove(f.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (f *FileDefault) Name() string { return "file" }
