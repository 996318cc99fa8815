package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// ManifestName is the manifest file name inside the scratch directory.
const ManifestName = "manifest.json"

// ManifestEntry records the outcome for one identifier.
type ManifestEntry struct {
	Identifier string `json:"identifier"`
	Status     string `json:"status"`
	Path       string `json:"path,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

// Manifest describes one run: what was attempted and why items failed.
type Manifest struct {
	RunID      string          `json:"run_id"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt *time.Time      `json:"finished_at,omitempty"`
	State      string          `json:"state"`
	Output     string          `json:"output,omitempty"`
	Pages      int             `json:"pages,omitempty"`
	Entries    []ManifestEntry `json:"entries"`
}

// NewManifest starts a manifest with a fresh run id.
func NewManifest(started time.Time) *Manifest {
	return &Manifest{
		RunID:     uuid.NewString(),
		StartedAt: started.UTC(),
		Entries:   []ManifestEntry{},
	}
}

// WriteManifest writes m as indented JSON into the scratch directory.
func (s *Scratch) WriteManifest(m *Manifest) (string, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling manifest: %w", err)
	}
	path := filepath.Join(s.Dir, ManifestName)
	if err := os.WriteFile(path, data, filePermissions); err != nil {
		return "", fmt.Errorf("writing manifest %s: %w", path, err)
	}
	return path, nil
}

// ReadManifest loads the manifest from the scratch directory.
func (s *Scratch) ReadManifest() (*Manifest, error) {
	path := filepath.Join(s.Dir, ManifestName)
	data, err := os.ReadFile(path) // #nosec G304 -- scratch path
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decoding manifest %s: %w", path, err)
	}
	return &m, nil
}
