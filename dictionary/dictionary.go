// Package dictionary implements the key→text dictionary files produced by
// builds and consumed by the applier. A dictionary is a flat JSON object
// mapping original text to translated text, one file per language/category,
// kept human-editable: UTF-8, 2-space indentation, original key order
// preserved across load/save cycles.
package dictionary

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Dictionary maps original text to translated text, preserving the order in
// which keys were first added or parsed.
type Dictionary struct {
	keys    []string
	entries map[string]string
}

// New returns an empty dictionary.
func New() *Dictionary {
	return &Dictionary{entries: make(map[string]string)}
}

// Parse reads a flat string→string JSON object preserving key order.
func Parse(data []byte) (*Dictionary, error) {
	dec := json.NewDecoder(strings.NewReader(string(data)))

	// Read opening brace.
	t, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := t.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected {, got %v", t)
	}

	d := New()

	for dec.More() {
		// Read key.
		kt, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := kt.(string)
		if !ok {
			return nil, fmt.Errorf("expected string key, got %T", kt)
		}

		// Read value.
		vt, err := dec.Token()
		if err != nil {
			return nil, err
		}
		value, ok := vt.(string)
		if !ok {
			return nil, fmt.Errorf("expected string value for key %q, got %T", key, vt)
		}

		d.Set(key, value)
	}

	return d, nil
}

// Load reads a dictionary file. A missing file is not an error: it yields an
// empty dictionary, so a fresh language starts from nothing.
func Load(path string) (*Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(), nil
		}
		return nil, fmt.Errorf("reading dictionary: %w", err)
	}
	d, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return d, nil
}

// Set adds or replaces an entry. A repeated key keeps its original position.
func (d *Dictionary) Set(key, value string) {
	if _, exists := d.entries[key]; !exists {
		d.keys = append(d.keys, key)
	}
	d.entries[key] = value
}

// Get returns the translation for key.
func (d *Dictionary) Get(key string) (string, bool) {
	v, ok := d.entries[key]
	return v, ok
}

// Keys returns the keys in their original order.
func (d *Dictionary) Keys() []string {
	return d.keys
}

// Len returns the number of entries.
func (d *Dictionary) Len() int {
	return len(d.keys)
}

// Marshal renders the dictionary as a flat JSON object with 2-space
// indentation, keys in original order, non-ASCII text unescaped.
func (d *Dictionary) Marshal() []byte {
	if len(d.keys) == 0 {
		return []byte("{}\n")
	}

	var b strings.Builder
	b.WriteString("{\n")
	for i, k := range d.keys {
		b.WriteString(fmt.Sprintf("  %s: %s", jsonString(k), jsonString(d.entries[k])))
		if i < len(d.keys)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	b.WriteString("}\n")
	return []byte(b.String())
}

// WriteFile writes the dictionary to path, creating parent directories.
func (d *Dictionary) WriteFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating dictionary directory: %w", err)
	}
	if err := os.WriteFile(path, d.Marshal(), 0o644); err != nil {
		return fmt.Errorf("writing dictionary: %w", err)
	}
	return nil
}

// jsonString returns a JSON-encoded string value. HTML escaping is off so
// printable non-ASCII text stays literal and the files stay hand-editable;
// control characters still get their \uXXXX escapes.
func jsonString(s string) string {
	var b strings.Builder
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s) // a plain string cannot fail to encode
	return strings.TrimSuffix(b.String(), "\n")
}

// Merge combines dictionaries into a new one. On key collision the later
// dictionary wins; the key keeps the position of its first appearance.
func Merge(dicts ...*Dictionary) *Dictionary {
	out := New()
	for _, d := range dicts {
		if d == nil {
			continue
		}
		for _, k := range d.keys {
			out.Set(k, d.entries[k])
		}
	}
	return out
}

// FileName returns the on-disk name for a category dictionary,
// e.g. "item-it.json".
func FileName(category, lang string) string {
	return category + "-" + lang + ".json"
}

// Path returns the full path of a category dictionary under the
// translations directory layout: translations/{lang}/{category}-{lang}.json.
func Path(translationsDir, lang, category string) string {
	return filepath.Join(translationsDir, lang, FileName(category, lang))
}
