// Package cache implements persistent storage of raw API responses.
//
// The cache is an explicit store object passed to whatever needs it, so
// tests can substitute an in-memory store. Entries are keyed by resource
// identity ("item/23", "move/_list") and never expire: invalidation is a
// manual operation (Clear or Delete). A populated entry is immutable for
// the lifetime of the store.
package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Store is the cache contract. Get reports (payload, found); a missing key
// is not an error. Put overwrites silently (last writer wins).
type Store interface {
	Get(key string) ([]byte, bool, error)
	Put(key string, payload []byte) error
	Delete(key string) error
	Keys() ([]string, error)
}

// Key builds a cache key from a resource category and id.
func Key(category string, id int) string {
	return fmt.Sprintf("%s/%d", category, id)
}

// ListKey builds the cache key for a category's id listing.
func ListKey(category string) string {
	return category + "/_list"
}

// ---------------------------------------------------------------------------
// Directory-backed store
// ---------------------------------------------------------------------------

// Dir is a Store backed by a directory tree: one file per key, key slashes
// become subdirectories, payloads stored verbatim with a .json suffix.
type Dir struct {
	root string
}

// NewDir creates a directory-backed store rooted at root. The directory is
// created lazily on first Put.
func NewDir(root string) *Dir {
	return &Dir{root: root}
}

// Root returns the root directory of the store.
func (d *Dir) Root() string {
	return d.root
}

func (d *Dir) path(key string) string {
	return filepath.Join(d.root, filepath.FromSlash(key)+".json")
}

// Get reads the payload for key. A missing file means a cache miss, not an error.
func (d *Dir) Get(key string) ([]byte, bool, error) {
	data, err := os.ReadFile(d.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading cache entry %s: %w", key, err)
	}
	return data, true, nil
}

// Put writes the payload for key, creating parent directories as needed.
func (d *Dir) Put(key string, payload []byte) error {
	path := d.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}
	if err := os.WriteFile(path, payload, 0644); err != nil {
		return fmt.Errorf("writing cache entry %s: %w", key, err)
	}
	return nil
}

// Delete removes a single entry. Deleting a missing entry is not an error.
func (d *Dir) Delete(key string) error {
	err := os.Remove(d.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting cache entry %s: %w", key, err)
	}
	return nil
}

// Keys returns all cached keys in sorted order.
func (d *Dir) Keys() ([]string, error) {
	var keys []string
	err := filepath.Walk(d.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if info.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		rel, err := filepath.Rel(d.root, path)
		if err != nil {
			return err
		}
		keys = append(keys, strings.TrimSuffix(filepath.ToSlash(rel), ".json"))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing cache: %w", err)
	}
	sort.Strings(keys)
	return keys, nil
}

// Clear removes the whole store directory.
func (d *Dir) Clear() error {
	if err := os.RemoveAll(d.root); err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// In-memory store
// ---------------------------------------------------------------------------

// Memory is a Store kept entirely in memory, for tests and dry runs.
type Memory struct {
	mu      sync.Mutex
	entries map[string][]byte
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string][]byte)}
}

// Get returns the payload for key if present.
func (m *Memory) Get(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	payload, ok := m.entries[key]
	return payload, ok, nil
}

// Put stores the payload for key.
func (m *Memory) Put(key string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(payload))
	copy(cp, payload)
	m.entries[key] = cp
	return nil
}

// Delete removes a single entry.
func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

// Keys returns all cached keys in sorted order.
func (m *Memory) Keys() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Len returns the number of cached entries.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
