// Package output manages the scratch directory: per-page artifact naming,
// the wholesale reset at the start of a run and the run manifest.
package output

import (
	"crypto/md5" // #nosec G501 -- naming only, not a security boundary
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
)

// File permission constants.
const (
	dirPermissions  = 0o750
	filePermissions = 0o644
)

// Scratch is the working directory holding per-page PDF artifacts.
type Scratch struct {
	Dir string
}

// New creates a Scratch rooted at dir. The directory is not touched until Reset.
func New(dir string) *Scratch {
	return &Scratch{Dir: dir}
}

// Reset deletes the scratch directory if present and recreates it empty.
func (s *Scratch) Reset() error {
	if err := os.RemoveAll(s.Dir); err != nil {
		return fmt.Errorf("removing scratch directory %s: %w", s.Dir, err)
	}
	if err := os.MkdirAll(s.Dir, dirPermissions); err != nil {
		return fmt.Errorf("creating scratch directory %s: %w", s.Dir, err)
	}
	return nil
}

// Ensure creates the scratch directory if needed, keeping existing artifacts.
func (s *Scratch) Ensure() error {
	if err := os.MkdirAll(s.Dir, dirPermissions); err != nil {
		return fmt.Errorf("creating scratch directory %s: %w", s.Dir, err)
	}
	return nil
}

// ArtifactPath returns the PDF path for id. It is a pure function of id, so
// reruns regenerate the same file and distinct ids never share a name.
func (s *Scratch) ArtifactPath(id string) string {
	return filepath.Join(s.Dir, ArtifactName(id))
}

// ArtifactName is the hex MD5 digest of id with a .pdf extension.
func ArtifactName(id string) string {
	sum := md5.Sum([]byte(id)) // #nosec G401
	return hex.EncodeToString(sum[:]) + ".pdf"
}
