package selection

import (
	"os"
	"path/filepath"
	"testing"

	"igfetch/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() models.BatchResult {
	r := models.NewBatchResult()
	r.Order = []string{"u1", "u2", "u3"}
	r.Media["u1"] = []models.MediaItem{{ID: "A_0", Shortcode: "A"}, {ID: "A_1", Shortcode: "A"}}
	r.Media["u3"] = []models.MediaItem{{ID: "C_0", Shortcode: "C"}}
	r.Errors["u2"] = "not_found: post not found"
	return r
}

func ids(items []models.MediaItem) []string {
	out := []string{}
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestSelectionOperations(t *testing.T) {
	m := New(sampleResult())
	assert.Empty(t, m.SelectedItems())

	assert.True(t, m.Toggle("C_0"))
	assert.True(t, m.Toggle("A_0"))
	assert.Equal(t, []string{"A_0", "C_0"}, ids(m.SelectedItems()))

	assert.False(t, m.Toggle("A_0"))
	assert.False(t, m.IsSelected("A_0"))

	m.SelectAll()
	assert.Equal(t, []string{"A_0", "A_1", "C_0"}, ids(m.SelectedItems()))

	m.ClearAll()
	assert.Empty(t, m.SelectedItems())
}

func TestSelectRejectsUnknownIDs(t *testing.T) {
	m := New(sampleResult())

	err := m.Select("A_1", "Z_9")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Z_9")
	assert.Empty(t, m.SelectedItems())

	require.NoError(t, m.Select("A_1"))
	assert.Equal(t, []string{"A_1"}, ids(m.SelectedItems()))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "selection.json")
	m := New(sampleResult())
	m.Toggle("A_1")
	require.NoError(t, m.Save(path))

	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"A_1"}, ids(loaded.SelectedItems()))
	assert.Equal(t, m.Result.Order, loaded.Result.Order)
	assert.Equal(t, "not_found: post not found", loaded.Result.Errors["u2"])
	assert.Equal(t, []string{"A_0", "A_1", "C_0"}, ids(loaded.Items()))
}

func TestLoadRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version": 7}`), 0644))

	_, err := Load(path)
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
