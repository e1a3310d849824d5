package driven

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ErrCacheMiss is returned when no cached copy exists for a key.
var ErrCacheMiss = errors.New("playlist cache entry not found")

// PlaylistCacheEntry is a cached playlist download.
type PlaylistCacheEntry struct {
	Content   []byte    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// PlaylistFileCache stores downloaded playlists on disk, one JSON file per
// source URL.
type PlaylistFileCache struct {
	baseDir string
	now     func() time.Time
}

// NewPlaylistFileCache creates the cache, making sure baseDir exists.
func NewPlaylistFileCache(baseDir string) (*PlaylistFileCache, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("cache directory cannot be empty")
	}
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &PlaylistFileCache{baseDir: baseDir, now: time.Now}, nil
}

// Get returns the cached entry for key, or ErrCacheMiss.
func (c *PlaylistFileCache) Get(key string) (*PlaylistCacheEntry, error) {
	data, err := os.ReadFile(c.filePath(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}

	var entry PlaylistCacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache entry: %w", err)
	}
	return &entry, nil
}

// Set stores content under key stamped with the current time.
func (c *PlaylistFileCache) Set(key string, content []byte) error {
	data, err := json.Marshal(PlaylistCacheEntry{Content: content, Timestamp: c.now()})
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	// Write then rename so readers never see a partial file.
	path := c.filePath(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace cache file: %w", err)
	}
	return nil
}

// IsExpired reports whether the entry is older than ttl. A missing entry
// counts as expired.
func (c *PlaylistFileCache) IsExpired(key string, ttl time.Duration) (bool, error) {
	entry, err := c.Get(key)
	if err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return true, nil
		}
		return false, fmt.Errorf("failed to check expiration: %w", err)
	}
	return c.now().Sub(entry.Timestamp) > ttl, nil
}

// filePath hashes key into a safe file name.
func (c *PlaylistFileCache) filePath(key string) string {
	hash := sha256.Sum256([]byte(key))
	return filepath.Join(c.baseDir, hex.EncodeToString(hash[:])+".json")
}
