package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
)

// ChunkSize is the buffer size used when streaming a body to disk
const ChunkSize = 8192

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// SanitizeFilename replaces every character outside [A-Za-z0-9._-] with '_'
func SanitizeFilename(name string) string {
	cleaned := unsafeChars.ReplaceAllString(name, "_")
	switch cleaned {
	case "", ".", "..":
		return "_"
	}
	return cleaned
}

// Manager lays out downloads as <base>/<shortcode>/<filename>
type Manager struct {
	baseDir string
}

// NewManager creates the base directory if needed
func NewManager(baseDir string) (*Manager, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &Manager{baseDir: baseDir}, nil
}

// BaseDir returns the download root
func (m *Manager) BaseDir() string {
	return m.baseDir
}

// PrepareTarget creates the post folder and returns the sanitized target path
func (m *Manager) PrepareTarget(shortcode, filename string) (string, error) {
	dir := filepath.Join(m.baseDir, SanitizeFilename(shortcode))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create post directory: %w", err)
	}
	return filepath.Join(dir, SanitizeFilename(filename)), nil
}

// Exists reports whether something is already stored at path
func (m *Manager) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Save streams r to path in ChunkSize pieces. The file is written in place,
// so an interrupted copy leaves a partial file behind that Exists reports
// as present.
func (m *Manager) Save(r io.Reader, path string) (int64, error) {
	out, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create file: %w", err)
	}

	written, err := io.CopyBuffer(onlyWriter{out}, r, make([]byte, ChunkSize))
	closeErr := out.Close()

	if err != nil {
		return written, fmt.Errorf("failed to write media data: %w", err)
	}
	if closeErr != nil {
		return written, fmt.Errorf("failed to close file: %w", closeErr)
	}
	return written, nil
}

// onlyWriter hides ReadFrom so io.CopyBuffer keeps to the chunk buffer
type onlyWriter struct {
	w io.Writer
}

func (o onlyWriter) Write(p []byte) (int, error) {
	return o.w.Write(p)
}
