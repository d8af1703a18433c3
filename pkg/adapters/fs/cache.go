package fs

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"
)

// indexEntry is the persisted token for a single origin.
type indexEntry struct {
	Token   string    `json:"token"`
	SavedAt time.Time `json:"savedAt"`
}

// index represents the persistent token state.
type index struct {
	Version int                    `json:"version"`
	Entries map[string]*indexEntry `json:"entries"` // Key is the origin (e.g. "https://notes.example.com")
	mu      sync.RWMutex
}

// cache manages the loading, updating, and saving of the token index.
// Every read goes back to disk so that a token written by another
// client instance is picked up without a restart.
type cache struct {
	Path  string
	index *index
}

func newCache(path string) *cache {
	return &cache{
		Path: path,
		index: &index{
			Version: 1,
			Entries: make(map[string]*indexEntry),
		},
	}
}

// Load reads the index from disk. A missing or corrupted file yields an
// empty index (no error).
func (c *cache) Load() error {
	c.index.mu.Lock()
	defer c.index.mu.Unlock()

	data, err := os.ReadFile(c.Path)
	if os.IsNotExist(err) {
		c.index.Entries = make(map[string]*indexEntry)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read token index: %w", err)
	}

	fresh := struct {
		Version int                    `json:"version"`
		Entries map[string]*indexEntry `json:"entries"`
	}{}
	if err := json.Unmarshal(data, &fresh); err != nil || fresh.Entries == nil {
		// Self-heal: a corrupted index reads as "no tokens".
		c.index.Entries = make(map[string]*indexEntry)
		return nil
	}

	c.index.Entries = fresh.Entries
	return nil
}

// Save persists the index atomically with owner-only permissions.
func (c *cache) Save() error {
	c.index.mu.RLock()
	data, err := json.MarshalIndent(c.index, "", "  ")
	c.index.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to encode token index: %w", err)
	}

	return writeFileAtomic(c.Path, data, 0o600)
}

// Get returns the entry for origin, if any.
func (c *cache) Get(origin string) (*indexEntry, bool) {
	c.index.mu.RLock()
	defer c.index.mu.RUnlock()

	entry, ok := c.index.Entries[origin]
	if !ok || entry == nil || entry.Token == "" {
		return nil, false
	}
	return entry, true
}

// Set updates the entry for origin.
func (c *cache) Set(origin string, entry *indexEntry) {
	c.index.mu.Lock()
	defer c.index.mu.Unlock()
	c.index.Entries[origin] = entry
}

// Delete removes the entry for origin. It reports whether one existed.
func (c *cache) Delete(origin string) bool {
	c.index.mu.Lock()
	defer c.index.mu.Unlock()

	_, ok := c.index.Entries[origin]
	delete(c.index.Entries, origin)
	return ok
}

// Origins lists the origins holding a token, sorted.
func (c *cache) Origins() []string {
	c.index.mu.RLock()
	defer c.index.mu.RUnlock()

	out := make([]string, 0, len(c.index.Entries))
	for k, v := range c.index.Entries {
		if v != nil && v.Token != "" {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// Len returns the number of entries in the index.
func (c *cache) Len() int {
	c.index.mu.RLock()
	defer c.index.mu.RUnlock()
	return len(c.index.Entries)
}
