// Package storage persists enumerated store lists between runs so a
// repeat sweep for the same postcode and radius skips the slow,
// rate-limited store enumeration entirely.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/pharmscan/internal/common"
	"github.com/ternarybob/pharmscan/internal/models"
)

// CacheKey identifies one cached store list. Postcode is stored in
// normalized form.
type CacheKey struct {
	Postcode    string
	RadiusMiles int
}

// NewCacheKey builds a key from a raw postcode and radius.
func NewCacheKey(postcode string, radiusMiles int) CacheKey {
	return CacheKey{
		Postcode:    common.NormalizePostcode(postcode),
		RadiusMiles: radiusMiles,
	}
}

// Filename returns the cache file name for this key.
func (k CacheKey) Filename() string {
	return fmt.Sprintf("stores_%s_%d.json", k.Postcode, k.RadiusMiles)
}

// FileStoreCache is a write-through store-list cache backed by one JSON
// file per key. Entries never expire; deleting the file forces a
// refetch. Single-process access is assumed, so there is no locking.
type FileStoreCache struct {
	dir    string
	logger arbor.ILogger
}

// NewFileStoreCache creates a cache rooted at dir.
func NewFileStoreCache(dir string, logger arbor.ILogger) *FileStoreCache {
	return &FileStoreCache{
		dir:    dir,
		logger: logger,
	}
}

// Load returns the cached store list for key, or ok=false on a miss.
// Every failure mode (missing file, unreadable file, malformed JSON) is
// a plain miss; the caller falls back to a fresh fetch.
func (c *FileStoreCache) Load(key CacheKey) ([]models.Store, bool) {
	path := filepath.Join(c.dir, key.Filename())

	data, err := os.ReadFile(path)
	if err != nil {
		if c.logger != nil {
			c.logger.Debug().Str("path", path).Msg("Store cache miss")
		}
		return nil, false
	}

	var stores []models.Store
	if err := json.Unmarshal(data, &stores); err != nil {
		if c.logger != nil {
			c.logger.Warn().Err(err).Str("path", path).Msg("Store cache unreadable, treating as miss")
		}
		return nil, false
	}

	if c.logger != nil {
		c.logger.Info().Str("path", path).Int("stores", len(stores)).Msg("Store cache hit")
	}

	return stores, true
}

// Save writes the full store list for key, creating the cache directory
// if it does not yet exist.
func (c *FileStoreCache) Save(key CacheKey, stores []models.Store) error {
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	data, err := json.Marshal(stores)
	if err != nil {
		return fmt.Errorf("failed to marshal stores: %w", err)
	}

	path := filepath.Join(c.dir, key.Filename())
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	if c.logger != nil {
		c.logger.Info().Str("path", path).Int("stores", len(stores)).Msg("Store cache written")
	}

	return nil
}
