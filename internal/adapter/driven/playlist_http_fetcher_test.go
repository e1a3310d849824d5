package driven

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alorle/iptv-curator/internal/source"
)

type memoryPlaylistCache struct {
	data map[string]*PlaylistCacheEntry
}

func newMemoryPlaylistCache() *memoryPlaylistCache {
	return &memoryPlaylistCache{data: make(map[string]*PlaylistCacheEntry)}
}

func (m *memoryPlaylistCache) Get(key string) (*PlaylistCacheEntry, error) {
	e, ok := m.data[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	return e, nil
}

func (m *memoryPlaylistCache) Set(key string, content []byte) error {
	m.data[key] = &PlaylistCacheEntry{Content: content, Timestamp: time.Now()}
	return nil
}

func TestPlaylistHTTPFetcher_FetchWithCache(t *testing.T) {
	var hits atomic.Int32
	var fail atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if fail.Load() {
			http.Error(w, "down", http.StatusBadGateway)
			return
		}
		w.Write([]byte("A,http://example.com/a\n"))
	}))
	defer server.Close()

	cache := newMemoryPlaylistCache()
	f := NewPlaylistHTTPFetcher([]string{server.URL}, server.Client(), cache, time.Hour, nil, newTestLogger())

	content, err := f.FetchWithCache(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("first fetch failed: %v", err)
	}
	if string(content) != "A,http://example.com/a\n" || hits.Load() != 1 {
		t.Fatalf("content=%q hits=%d", content, hits.Load())
	}

	// Fresh cache: no request.
	if _, err := f.FetchWithCache(context.Background(), server.URL); err != nil {
		t.Fatalf("cached fetch failed: %v", err)
	}
	if hits.Load() != 1 {
		t.Errorf("fresh cache should not hit upstream, hits=%d", hits.Load())
	}

	// Expired cache and failing upstream: stale copy.
	f.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	fail.Store(true)
	content, err = f.FetchWithCache(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("stale fallback failed: %v", err)
	}
	if string(content) != "A,http://example.com/a\n" || hits.Load() != 2 {
		t.Errorf("stale content=%q hits=%d", content, hits.Load())
	}
}

func TestPlaylistHTTPFetcher_BreakerSkipsFailingUpstream(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	cache := newMemoryPlaylistCache()
	cache.data[server.URL] = &PlaylistCacheEntry{Content: []byte("A,http://example.com/a\n"), Timestamp: time.Now().Add(-48 * time.Hour)}
	f := NewPlaylistHTTPFetcher([]string{server.URL}, server.Client(), cache, time.Hour, nil, newTestLogger())

	for i := 0; i < fetchFailureThreshold+2; i++ {
		content, err := f.FetchWithCache(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("fetch %d: stale fallback failed: %v", i, err)
		}
		if string(content) != "A,http://example.com/a\n" {
			t.Fatalf("fetch %d: content=%q", i, content)
		}
	}
	if got := hits.Load(); got != fetchFailureThreshold {
		t.Errorf("upstream hit %d times, want %d before the breaker opens", got, fetchFailureThreshold)
	}
}

func TestPlaylistHTTPFetcher_NoCacheFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	f := NewPlaylistHTTPFetcher(nil, server.Client(), newMemoryPlaylistCache(), time.Hour, nil, newTestLogger())
	if _, err := f.FetchWithCache(context.Background(), server.URL); !errors.Is(err, ErrNoPlaylistContent) {
		t.Errorf("error = %v, want ErrNoPlaylistContent", err)
	}
}

func TestPlaylistHTTPFetcher_Load(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/tv.m3u", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("#EXTM3U\n#EXTINF:-1,CCTV-1\nhttp://example.com/1\nhttp://example.com/bare\n"))
	})
	mux.HandleFunc("/broken.txt", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	good := server.URL + "/tv.m3u"
	bad := server.URL + "/broken.txt"

	f := NewPlaylistHTTPFetcher([]string{good, bad}, server.Client(), newMemoryPlaylistCache(), time.Hour,
		map[string]string{good: "Kodi"}, newTestLogger())

	got, err := f.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d candidates, want 2", len(got))
	}
	if got[0].Name() != "CCTV-1" || got[0].Origin() != source.OriginOnline || got[0].UserAgent() != "Kodi" || got[0].Path() != good {
		t.Errorf("unexpected first candidate: %+v", got[0])
	}
	if got[1].Name() != "Channel from tv.m3u" {
		t.Errorf("bare URL name = %q, want %q", got[1].Name(), "Channel from tv.m3u")
	}

	f = NewPlaylistHTTPFetcher([]string{bad}, server.Client(), newMemoryPlaylistCache(), time.Hour, nil, newTestLogger())
	if _, err := f.Load(context.Background()); err == nil {
		t.Error("expected error when every playlist fails")
	}
}

func TestPlaylistName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"http://example.com/lists/tv.m3u?token=1", "tv.m3u"},
		{"http://example.com/", "example.com"},
		{"http://example.com", "example.com"},
	}
	for _, tt := range tests {
		if got := playlistName(tt.in); got != tt.want {
			t.Errorf("playlistName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
