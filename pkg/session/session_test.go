package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"igfetch/pkg/logger"
)

const validSession = `{"sessionid":"abc","csrftoken":"c"}`

func TestFileStorePathIsSanitized(t *testing.T) {
	store := NewFileStore("/tmp/sessions")
	assert.Equal(t, filepath.Join("/tmp/sessions", "alice.session"), store.Path("alice"))
	assert.Equal(t, filepath.Join("/tmp/sessions", ".._evil_user.session"), store.Path("../evil user"))
}

func TestFileStoreImportListDelete(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "sessions"))

	path, err := store.Import("alice", []byte(validSession))
	require.NoError(t, err)
	assert.Equal(t, store.Path("alice"), path)
	assert.True(t, store.Exists("alice"))

	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), fi.Mode().Perm())

	_, err = store.Import("bob", []byte(validSession))
	require.NoError(t, err)

	infos, err := store.List()
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "alice", infos[0].Username)
	assert.Equal(t, "bob", infos[1].Username)

	require.NoError(t, store.Delete("alice"))
	assert.False(t, store.Exists("alice"))
	assert.ErrorIs(t, store.Delete("alice"), ErrSessionNotFound)
}

func TestFileStoreRejectsInvalidSessions(t *testing.T) {
	store := NewFileStore(t.TempDir())

	_, err := store.Import("alice", []byte(`{"csrftoken":"c"}`))
	assert.Error(t, err)
	assert.False(t, store.Exists("alice"))

	_, err = store.Import("  ", []byte(validSession))
	assert.Error(t, err)
}

func TestListMissingDirectory(t *testing.T) {
	infos, err := NewFileStore(filepath.Join(t.TempDir(), "nope")).List()
	require.NoError(t, err)
	assert.Empty(t, infos)
}

func TestManagerDefaultViaKeyring(t *testing.T) {
	keyring.MockInit()
	dir := t.TempDir()

	kr, err := NewKeyringDefault()
	require.NoError(t, err)
	m := NewManagerWithStores(NewFileStore(dir), nil, kr, NewFileDefault(dir))

	_, err = m.Files().Import("alice", []byte(validSession))
	require.NoError(t, err)

	require.NoError(t, m.SetDefault("alice"))
	def, err := m.Default()
	require.NoError(t, err)
	assert.Equal(t, "alice", def)

	// keychain took it, so no fallback file was written
	_, err = os.Stat(filepath.Join(dir, defaultFile))
	assert.True(t, os.IsNotExist(err))

	user, path := m.Resolve("")
	assert.Equal(t, "alice", user)
	assert.Equal(t, m.Files().Path("alice"), path)

	require.NoError(t, m.ClearDefault())
	_, err = m.Default()
	assert.ErrorIs(t, err, ErrNoDefault)
}

func TestManagerOpensKeychainOnFirstDefaultUse(t *testing.T) {
	dir := t.TempDir()
	opens := 0
	m := newManager(dir, logger.NewNopLogger(), func() (DefaultStore, error) {
		opens++
		return nil, errors.New("no keychain here")
	})

	_, err := m.Files().Import("bob", []byte(validSession))
	require.NoError(t, err)
	user, path := m.Resolve("bob")
	assert.Equal(t, "bob", user)
	assert.NotEmpty(t, path)
	assert.Equal(t, 0, opens, "an explicit user never needs the default")

	require.NoError(t, m.SetDefault("bob"))
	def, err := m.Default()
	require.NoError(t, err)
	assert.Equal(t, "bob", def)
	assert.Equal(t, 1, opens)
	assert.FileExists(t, filepath.Join(dir, defaultFile))
}

func TestManagerDefaultFileFallback(t *testing.T) {
	dir := t.TempDir()
	m := NewManagerWithStores(NewFileStore(dir), nil, NewFileDefault(dir))

	_, err := m.Files().Import("bob", []byte(validSession))
	require.NoError(t, err)
	require.NoError(t, m.SetDefault("bob"))

	data, err := os.ReadFile(filepath.Join(dir, defaultFile))
	require.NoError(t, err)
	assert.Equal(t, "bob\n", string(data))

	def, err := m.Default()
	require.NoError(t, err)
	assert.Equal(t, "bob", def)
}

func TestManagerSetDefaultRequiresSession(t *testing.T) {
	dir := t.TempDir()
	m := NewManagerWithStores(NewFileStore(dir), nil, NewFileDefault(dir))

	assert.ErrorIs(t, m.SetDefault("ghost"), ErrSessionNotFound)
}

func TestManagerResolve(t *testing.T) {
	dir := t.TempDir()
	m := NewManagerWithStores(NewFileStore(dir), nil, NewFileDefault(dir))

	user, path := m.Resolve("")
	assert.Empty(t, user)
	assert.Empty(t, path)

	user, path = m.Resolve("carol")
	assert.Equal(t, "carol", user)
	assert.Empty(t, path)

	_, err := m.Files().Import("carol", []byte(validSession))
	require.NoError(t, err)
	_, path = m.Resolve("carol")
	assert.Equal(t, m.Files().Path("carol"), path)
}
