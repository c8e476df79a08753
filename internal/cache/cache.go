package cache

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/panbanda/mood/pkg/models"
	"github.com/zeebo/blake3"
)

// schemaVersion is mixed into every key; bump it when the class model's
// wire form changes so stale entries miss.
const schemaVersion = "classes/v1"

// Cache stores parsed class models on disk, keyed by source path and
// validated against a BLAKE3 hash of the source bytes.
type Cache struct {
	dir     string
	ttl     time.Duration
	enabled bool
}

// Entry represents a cached parse result.
type Entry struct {
	Hash      string    `json:"hash"`
	Timestamp time.Time `json:"timestamp"`
	Data      []byte    `json:"data"`
}

// New creates a new cache instance. A ttlHours of 0 keeps entries until
// their source changes.
func New(dir string, ttlHours int, enabled bool) (*Cache, error) {
	if !enabled {
		return &Cache{enabled: false}, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	return &Cache{
		dir:     dir,
		ttl:     time.Duration(ttlHours) * time.Hour,
		enabled: true,
	}, nil
}

// Enabled reports whether lookups can hit.
func (c *Cache) Enabled() bool {
	return c != nil && c.enabled
}

// HashBytes computes a BLAKE3 hash of bytes and returns it as a hex string.
func HashBytes(data []byte) string {
	hash := blake3.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// Get retrieves a cached entry only if the hash matches and it has not expired.
func (c *Cache) Get(key, hash string) ([]byte, bool) {
	if !c.Enabled() {
		return nil, false
	}

	path := c.keyPath(key)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false
	}

	if entry.Hash != hash {
		return nil, false
	}

	if c.ttl > 0 && time.Since(entry.Timestamp) > c.ttl {
		os.Remove(path)
		return nil, false
	}

	return entry.Data, true
}

// Set stores data in the cache with a hash for validation.
func (c *Cache) Set(key, hash string, data []byte) error {
	if !c.Enabled() {
		return nil
	}

	entry := Entry{
		Hash:      hash,
		Timestamp: time.Now(),
		Data:      data,
	}

	entryData, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	// Write then rename so concurrent loaders never read a torn entry.
	path := c.keyPath(key)
	tmp, err := os.CreateTemp(c.dir, ".entry-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(entryData); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Classes returns the class models cached for path, provided source still
// hashes to the same value.
func (c *Cache) Classes(path string, source []byte) ([]models.Class, bool) {
	data, ok := c.Get(path, HashBytes(source))
	if !ok {
		return nil, false
	}
	var classes []models.Class
	if err := json.Unmarshal(data, &classes); err != nil {
		return nil, false
	}
	return classes, true
}

// StoreClasses caches the class models parsed from source at path.
func (c *Cache) StoreClasses(path string, source []byte, classes []models.Class) error {
	if !c.Enabled() {
		return nil
	}
	if classes == nil {
		classes = []models.Class{}
	}
	data, err := json.Marshal(classes)
	if err != nil {
		return fmt.Errorf("encode classes of %s: %w", path, err)
	}
	return c.Set(path, HashBytes(source), data)
}

// Clear removes all cache entries.
func (c *Cache) Clear() error {
	if !c.Enabled() {
		return nil
	}
	return os.RemoveAll(c.dir)
}

// keyPath converts a key to a filesystem path.
func (c *Cache) keyPath(key string) string {
	// Use BLAKE3 hash of key for filename to avoid path issues
	hash := blake3.Sum256([]byte(schemaVersion + "\x00" + key))
	return filepath.Join(c.dir, hex.EncodeToString(hash[:])+".json")
}
