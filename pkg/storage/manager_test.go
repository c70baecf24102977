package storage

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"ABC_1.jpg":      "ABC_1.jpg",
		"a b/c.mp4":      "a_b_c.mp4",
		"ümlaut.jpg":     "_mlaut.jpg",
		"../../etc":      ".._.._etc",
		"..":             "_",
		"":               "_",
		"x-y.z_0":        "x-y.z_0",
		"weird:*?<>|.jp": "weird______.jp",
	}
	for in, want := range tests {
		assert.Equal(t, want, SanitizeFilename(in), "input %q", in)
	}
}

func TestPrepareTargetAndSave(t *testing.T) {
	base := filepath.Join(t.TempDir(), "downloads")
	m, err := NewManager(base)
	require.NoError(t, err)
	assert.Equal(t, base, m.BaseDir())

	path, err := m.PrepareTarget("SC1", "SC1 0.jpg")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "SC1", "SC1_0.jpg"), path)
	assert.False(t, m.Exists(path))

	payload := bytes.Repeat([]byte("x"), 3*ChunkSize+17)
	n, err := m.Save(bytes.NewReader(payload), path)
	require.NoError(t, err)
	assert.Equal(t, int64(len(payload)), n)
	assert.True(t, m.Exists(path))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

type chunkRecorder struct {
	sizes []int
}

func (c *chunkRecorder) Write(p []byte) (int, error) {
	c.sizes = append(c.sizes, len(p))
	return len(p), nil
}

func TestCopyUsesChunkBuffer(t *testing.T) {
	rec := &chunkRecorder{}
	_, err := io.CopyBuffer(onlyWriter{rec}, io.LimitReader(bytes.NewReader(make([]byte, 20000)), 20000), make([]byte, ChunkSize))
	require.NoError(t, err)
	for _, s := range rec.sizes {
		assert.LessOrEqual(t, s, ChunkSize)
	}
}

type failingReader struct {
	sent bool
}

func (f *failingReader) Read(p []byte) (int, error) {
	if !f.sent {
		f.sent = true
		return copy(p, "partial"), nil
	}
	return 0, errors.New("connection reset")
}

func TestSaveLeavesPartialFileOnFailure(t *testing.T) {
	m, err := NewManager(t.TempDir())
	require.NoError(t, err)

	path, err := m.PrepareTarget("SC", "SC.mp4")
	require.NoError(t, err)

	_, err = m.Save(&failingReader{}, path)
	require.Error(t, err)

	// the truncated file stays and counts as existing
	assert.True(t, m.Exists(path))
}
