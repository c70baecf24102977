package selection

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"igfetch/pkg/models"
)

const manifestVersion = 1

// Manifest is the presentation state of one preview cycle: what was
// resolved and which items are checked.
type Manifest struct {
	Version   int                `json:"version"`
	Result    models.BatchResult `json:"result"`
	Selected  map[string]bool    `json:"selected"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// New creates a manifest with nothing selected
func New(result models.BatchResult) *Manifest {
	now := time.Now()
	return &Manifest{
		Version:   manifestVersion,
		Result:    result,
		Selected:  make(map[string]bool),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Items returns every resolved item in input order
func (m *Manifest) Items() []models.MediaItem {
	return m.Result.Items()
}

// SelectAll checks every item
func (m *Manifest) SelectAll() {
	for _, item := range m.Items() {
		m.Selected[item.ID] = true
	}
}

// ClearAll unchecks every item
func (m *Manifest) ClearAll() {
	m.Selected = make(map[string]bool)
}

// Toggle flips the item with the given id and returns its new state
func (m *Manifest) Toggle(id string) bool {
	if m.Selected[id] {
		delete(m.Selected, id)
		return false
	}
	m.Selected[id] = true
	return true
}

// IsSelected reports whether id is checked
func (m *Manifest) IsSelected(id string) bool {
	return m.Selected[id]
}

// Select checks the given ids. Unknown ids are reported and nothing changes.
func (m *Manifest) Select(ids ...string) error {
	known := make(map[string]bool)
	for _, item := range m.Items() {
		known[item.ID] = true
	}

	var unknown []string
	for _, id := range ids {
		if !known[id] {
			unknown = append(unknown, id)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("unknown media ids: %s", strings.Join(unknown, ", "))
	}

	for _, id := range ids {
		m.Selected[id] = true
	}
	return nil
}

// SelectedItems returns the checked items in display order
func (m *Manifest) SelectedItems() []models.MediaItem {
	var out []models.MediaItem
	for _, item := range m.Items() {
		if m.Selected[item.ID] {
			out = append(out, item)
		}
	}
	return out
}

// Save writes the manifest to path atomically
func (m *Manifest) Save(path string) error {
	m.UpdatedAt = time.Now()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create manifest directory: %w", err)
	}

	tempPath := path + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create temporary manifest file: %w", err)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(m); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to encode manifest: %w", err)
	}

	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to sync manifest file: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close manifest file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to replace manifest file: %w", err)
	}
	return nil
}

// Load reads a manifest written by Save
func Load(path string) (*Manifest, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer file.Close()

	var m Manifest
	if err := json.NewDecoder(file).Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}
	if m.Version != manifestVersion {
		return nil, fmt.Errorf("unsupported manifest version %d", m.Version)
	}

	if m.Selected == nil {
		m.Selected = make(map[string]bool)
	}
	if m.Result.Media == nil {
		m.Result.Media = make(map[string][]models.MediaItem)
	}
	if m.Result.Errors == nil {
		m.Result.Errors = make(map[string]string)
	}
	return &m, nil
}
