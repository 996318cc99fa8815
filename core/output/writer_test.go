package output

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"
)

var artifactNameRe = regexp.MustCompile(`^[0-9a-f]{32}\.pdf$`)

func TestArtifactName_Deterministic(t *testing.T) {
	t.Parallel()

	ids := []string{"Page_A", "Page_B", "XSS_Prevention_Cheat_Sheet", "page_a", "Page_A "}
	seen := make(map[string]string)
	for _, id := range ids {
		first := ArtifactName(id)
		if second := ArtifactName(id); first != second {
			t.Errorf("ArtifactName(%q) not stable: %q vs %q", id, first, second)
		}
		if !artifactNameRe.MatchString(first) {
			t.Errorf("ArtifactName(%q) = %q, want 32 hex chars + .pdf", id, first)
		}
		if other, ok := seen[first]; ok {
			t.Errorf("ArtifactName collision between %q and %q", other, id)
		}
		seen[first] = id
	}
}

func TestArtifactName_KnownDigest(t *testing.T) {
	t.Parallel()

	// md5("") is well known.
	if got := ArtifactName(""); got != "d41d8cd98f00b204e9800998ecf8427e.pdf" {
		t.Errorf("ArtifactName(\"\") = %q", got)
	}
}

func TestScratch_ArtifactPath(t *testing.T) {
	t.Parallel()

	s := New("work")
	if got, want := s.ArtifactPath("Page_A"), filepath.Join("work", ArtifactName("Page_A")); got != want {
		t.Errorf("ArtifactPath() = %q, want %q", got, want)
	}
}

func TestScratch_Reset(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "work")
	s := New(dir)

	if err := s.Reset(); err != nil {
		t.Fatalf("Reset() on missing dir: %v", err)
	}
	stale := filepath.Join(dir, "stale.pdf")
	if err := os.WriteFile(stale, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := s.Reset(); err != nil {
		t.Fatalf("Reset() on existing dir: %v", err)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Errorf("stale file survived reset: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("scratch dir has %d entries after reset, want 0", len(entries))
	}
}

func TestScratch_EnsureKeepsArtifacts(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "nested", "work")
	s := New(dir)
	if err := s.Ensure(); err != nil {
		t.Fatalf("Ensure() on missing dir: %v", err)
	}
	kept := s.ArtifactPath("Page_A")
	if err := os.WriteFile(kept, []byte("%PDF"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := s.Ensure(); err != nil {
		t.Fatalf("Ensure() on existing dir: %v", err)
	}
	if _, err := os.Stat(kept); err != nil {
		t.Errorf("artifact removed by Ensure: %v", err)
	}
}

func TestScratch_ManifestRoundTrip(t *testing.T) {
	t.Parallel()

	s := New(t.TempDir())
	m := NewManifest(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	m.State = "done"
	m.Entries = append(m.Entries,
		ManifestEntry{Identifier: "Page_A", Status: "converted", Path: s.ArtifactPath("Page_A")},
		ManifestEntry{Identifier: "Page_B", Status: "failed", Reason: "render failed"},
	)

	path, err := s.WriteManifest(m)
	if err != nil {
		t.Fatalf("WriteManifest() error = %v", err)
	}
	if filepath.Base(path) != ManifestName {
		t.Errorf("manifest path = %q", path)
	}

	got, err := s.ReadManifest()
	if err != nil {
		t.Fatalf("ReadManifest() error = %v", err)
	}
	if got.RunID != m.RunID || got.RunID == "" {
		t.Errorf("RunID = %q, want %q", got.RunID, m.RunID)
	}
	if len(got.Entries) != 2 || got.Entries[1].Reason != "render failed" {
		t.Errorf("Entries = %+v", got.Entries)
	}
}
