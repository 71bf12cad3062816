// Package manifest handles the archive's info.xml: the list of string-table
// files it ships and the resource attributes stamped onto a translated
// release. Edits are byte-preserving regex rewrites, never a re-serialization,
// so untouched parts of the manifest survive byte-exact.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const FileName = "info.xml"

var (
	filePattern = regexp.MustCompile(`<string\s+path="([^"]+)"\s*/>`)

	namePattern        = regexp.MustCompile(`(<resource\s+name="[^"]*)"`)
	versionPattern     = regexp.MustCompile(`(<resource\s+[^>]*version=")([^"]*)"`)
	authorPattern      = regexp.MustCompile(`(<resource\s+[^>]*author=")([^"]*)"`)
	descriptionPattern = regexp.MustCompile(`(<resource\s+[^>]*description=")([^"]*)"`)

	versionAttr = regexp.MustCompile(`<resource\s+[^>]*version="([^"]*)"`)
)

// Manifest is one info.xml document.
type Manifest struct {
	name string
	data []byte
}

// Parse wraps manifest bytes. name labels errors.
func Parse(name string, data []byte) *Manifest {
	return &Manifest{name: name, data: data}
}

// Load reads a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	return Parse(filepath.Base(path), data), nil
}

// Files returns the relative paths of the string-table files the manifest
// references, in document order.
func (m *Manifest) Files() []string {
	var paths []string
	for _, sub := range filePattern.FindAllSubmatch(m.data, -1) {
		paths = append(paths, string(sub[1]))
	}
	return paths
}

// Version returns the resource version attribute.
func (m *Manifest) Version() string {
	if sub := versionAttr.FindSubmatch(m.data); sub != nil {
		return string(sub[1])
	}
	return ""
}

// StampOptions describe the release credits written into the output copy.
type StampOptions struct {
	NameSuffix string // appended to the resource name, e.g. "ITA(ClientENG)"
	ModVersion string // appended to the version as "-mod_{v}"
	EditedBy   string // appended to the author as " (edited by {who})"
	SourceURL  string // appended to the description as " (edited version from: {url})"
}

// Stamp rewrites the resource attributes in place for a translated release.
// Only the four credited attributes change; every other byte is kept.
func (m *Manifest) Stamp(opts StampOptions) {
	if opts.NameSuffix != "" {
		m.data = namePattern.ReplaceAll(m.data, []byte(`$1 `+opts.NameSuffix+`"`))
	}
	if opts.ModVersion != "" {
		m.data = versionPattern.ReplaceAll(m.data, []byte(`$1$2-mod_`+opts.ModVersion+`"`))
	}
	if opts.EditedBy != "" {
		m.data = authorPattern.ReplaceAll(m.data, []byte(`$1$2 (edited by `+opts.EditedBy+`)"`))
	}
	if opts.SourceURL != "" {
		m.data = descriptionPattern.ReplaceAll(m.data, []byte(`$1$2 (edited version from: `+opts.SourceURL+`)"`))
	}
}

// RemoveFiles drops the references to paths not in keep, so a manifest
// shipped with a partial run only lists files that exist in the output.
func (m *Manifest) RemoveFiles(keep []string) {
	kept := make(map[string]bool, len(keep))
	for _, p := range keep {
		kept[p] = true
	}
	for _, p := range m.Files() {
		if kept[p] {
			continue
		}
		re := regexp.MustCompile(`[ \t]*<string\s+path="` + regexp.QuoteMeta(p) + `"\s*/>\r?\n?`)
		m.data = re.ReplaceAll(m.data, nil)
	}
}

// Bytes returns the current manifest bytes.
func (m *Manifest) Bytes() []byte {
	return m.data
}

// WriteFile writes the manifest to path, creating parent directories.
func (m *Manifest) WriteFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(path, m.data, 0o644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// ZipName composes the release archive name, e.g.
// "SupersStoryStrings_IT-EN_@ClientEN@-@1.2.3-mod_0.5@".
func ZipName(prefix, lang, version, modVersion string) string {
	return fmt.Sprintf("%s_%s-EN_@ClientEN@-@%s-mod_%s@",
		prefix, strings.ToUpper(lang), version, modVersion)
}
