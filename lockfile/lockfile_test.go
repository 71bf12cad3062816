package lockfile

import (
	"os"
	"path/filepath"
	"testing"
)

func TestHashDeterministic(t *testing.T) {
	h1 := Hash("Pozione")
	h2 := Hash("Pozione")
	if h1 != h2 {
		t.Errorf("Hash not deterministic: %s != %s", h1, h2)
	}
	h3 := Hash("Pozione Max")
	if h1 == h3 {
		t.Errorf("Hash collision: %s == %s", h1, h3)
	}
}

func TestLoadNonExistent(t *testing.T) {
	lf, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load returned error for non-existent file: %v", err)
	}
	if lf.Version != Version {
		t.Errorf("Version = %d, want %d", lf.Version, Version)
	}
	if len(lf.Checksums) != 0 {
		t.Errorf("Checksums not empty: %v", lf.Checksums)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()

	lf, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	lf.UpdateBatch(TargetKey("it", "item"), map[string]string{
		"Potion": "Pozione",
		"Elixir": "Elisir",
	})
	lf.UpdateBatch(TargetKey("it", "move"), map[string]string{
		"Tackle": "Azione",
	})

	if err := lf.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// Verify file exists
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatalf("Lock file not created at %s", path)
	}

	// Reload and verify
	lf2, err := Load(dir)
	if err != nil {
		t.Fatalf("Load after save: %v", err)
	}

	targets, keys := lf2.Stats()
	if targets != 2 {
		t.Errorf("targets = %d, want 2", targets)
	}
	if keys != 3 {
		t.Errorf("keys = %d, want 3", keys)
	}
}

func TestModified(t *testing.T) {
	lf := &LockFile{
		Version:   Version,
		Checksums: make(map[string]map[string]string),
	}
	target := TargetKey("it", "item")

	// An entry the build never wrote has no baseline.
	if lf.Modified(target, "Potion", "Pozione") {
		t.Error("unknown entry should not count as modified")
	}

	lf.UpdateBatch(target, map[string]string{"Potion": "Pozione"})
	if lf.Modified(target, "Potion", "Pozione") {
		t.Error("unchanged entry should not be modified")
	}
	if !lf.Modified(target, "Potion", "Pozione Magica") {
		t.Error("hand-edited entry should be modified")
	}
	if lf.Modified(TargetKey("es", "item"), "Potion", "Pozione") {
		t.Error("different target has no baseline")
	}
}

func TestCleanRemovesStaleKeys(t *testing.T) {
	lf := &LockFile{
		Version:   Version,
		Checksums: make(map[string]map[string]string),
	}
	target := TargetKey("it", "item")
	lf.UpdateBatch(target, map[string]string{
		"Potion": "Pozione",
		"Gone":   "Sparita",
	})

	lf.Clean(target, []string{"Potion"})

	if _, ok := lf.Checksums[target]["Gone"]; ok {
		t.Error("stale key survived Clean")
	}
	if _, ok := lf.Checksums[target]["Potion"]; !ok {
		t.Error("current key removed by Clean")
	}
}

func TestRemoveTargetAndSummary(t *testing.T) {
	lf := &LockFile{
		Version:   Version,
		Checksums: make(map[string]map[string]string),
	}
	if lf.Summary() != "empty" {
		t.Errorf("Summary of empty lock = %q", lf.Summary())
	}

	lf.UpdateBatch(TargetKey("it", "item"), map[string]string{"Potion": "Pozione"})
	lf.RemoveTarget(TargetKey("it", "item"))
	if targets, _ := lf.Stats(); targets != 0 {
		t.Errorf("targets after RemoveTarget = %d", targets)
	}
}
