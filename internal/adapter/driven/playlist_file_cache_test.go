package driven

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func TestNewPlaylistFileCache(t *testing.T) {
	if _, err := NewPlaylistFileCache(""); err == nil {
		t.Error("expected error for empty directory")
	}

	dir := filepath.Join(t.TempDir(), "nested", "cache")
	if _, err := NewPlaylistFileCache(dir); err != nil {
		t.Fatalf("NewPlaylistFileCache failed: %v", err)
	}
}

func TestPlaylistFileCache_SetGetExpire(t *testing.T) {
	c, err := NewPlaylistFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewPlaylistFileCache failed: %v", err)
	}
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	const key = "http://example.com/list.m3u?x=1"

	if _, err := c.Get(key); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get on empty cache error = %v, want ErrCacheMiss", err)
	}
	if expired, err := c.IsExpired(key, time.Hour); err != nil || !expired {
		t.Errorf("IsExpired on missing entry = %v, %v; want true, nil", expired, err)
	}

	if err := c.Set(key, []byte("#EXTM3U")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	entry, err := c.Get(key)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(entry.Content) != "#EXTM3U" || !entry.Timestamp.Equal(now) {
		t.Errorf("entry = %q at %v", entry.Content, entry.Timestamp)
	}

	tests := []struct {
		name    string
		advance time.Duration
		want    bool
	}{
		{"fresh", 30 * time.Minute, false},
		{"at ttl", time.Hour, false},
		{"past ttl", time.Hour + time.Second, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c.now = func() time.Time { return now.Add(tt.advance) }
			expired, err := c.IsExpired(key, time.Hour)
			if err != nil {
				t.Fatalf("IsExpired failed: %v", err)
			}
			if expired != tt.want {
				t.Errorf("IsExpired = %v, want %v", expired, tt.want)
			}
		})
	}
}

func TestPlaylistFileCache_FilePath(t *testing.T) {
	c := &PlaylistFileCache{baseDir: "/cache"}
	a := c.filePath("http://a")
	if a != c.filePath("http://a") {
		t.Error("filePath is not deterministic")
	}
	if a == c.filePath("http://b") {
		t.Error("different keys map to the same file")
	}
	if filepath.Dir(a) != "/cache" || filepath.Ext(a) != ".json" {
		t.Errorf("unexpected path %q", a)
	}
}
