package driven

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/alorle/iptv-curator/circuitbreaker"
	"github.com/alorle/iptv-curator/internal/source"
)

// ErrNoPlaylistContent is returned when a download fails and no cached
// copy exists.
var ErrNoPlaylistContent = errors.New("upstream fetch failed and no cache available")

const (
	defaultFetchTimeout = 30 * time.Second
	// maxPlaylistSize caps a single playlist download.
	maxPlaylistSize = 64 << 20

	// An upstream that fails this many downloads in a row is left alone
	// for fetchCooldown; its cached copy is served meanwhile.
	fetchFailureThreshold = 3
	fetchCooldown         = 6 * time.Hour
)

// PlaylistCache is the storage the fetcher falls back on.
type PlaylistCache interface {
	Get(key string) (*PlaylistCacheEntry, error)
	Set(key string, content []byte) error
}

// PlaylistHTTPFetcher downloads online playlists, serving a fresh cached
// copy when one exists and a stale one when the download fails.
// It implements the driven.PlaylistSource port.
type PlaylistHTTPFetcher struct {
	urls       []string
	client     *http.Client
	cache      PlaylistCache
	cacheTTL   time.Duration
	userAgents map[string]string
	breakers   *circuitbreaker.Group
	logger     *slog.Logger
	now        func() time.Time
}

// NewPlaylistHTTPFetcher creates a fetcher over urls.
// If client is nil, a client with a 30-second timeout is used.
func NewPlaylistHTTPFetcher(urls []string, client *http.Client, cache PlaylistCache, cacheTTL time.Duration, userAgents map[string]string, logger *slog.Logger) *PlaylistHTTPFetcher {
	if client == nil {
		client = &http.Client{Timeout: defaultFetchTimeout}
	}
	return &PlaylistHTTPFetcher{
		urls:       urls,
		client:     client,
		cache:      cache,
		cacheTTL:   cacheTTL,
		userAgents: userAgents,
		breakers: circuitbreaker.NewGroup(circuitbreaker.Config{
			FailureThreshold: fetchFailureThreshold,
			Cooldown:         fetchCooldown,
			Logger:           logger,
		}),
		logger: logger,
		now:    time.Now,
	}
}

// Load fetches every configured URL. It fails only when none of them
// produced content.
func (f *PlaylistHTTPFetcher) Load(ctx context.Context) ([]source.Candidate, error) {
	var (
		candidates []source.Candidate
		failures   int
		lastErr    error
	)

	for _, u := range f.urls {
		content, err := f.FetchWithCache(ctx, u)
		if err != nil {
			f.logger.Error("failed to load online playlist", "url", u, "error", err)
			failures++
			lastErr = err
			continue
		}
		attrs := source.Attributes{
			Origin:    source.OriginOnline,
			Path:      u,
			UserAgent: lookupUserAgent(f.userAgents, u),
		}
		parsed := parsePlaylist(content, "Channel from "+playlistName(u), attrs, f.logger)
		f.logger.Info("loaded online playlist", "url", u, "sources", len(parsed))
		candidates = append(candidates, parsed...)
	}

	if len(f.urls) > 0 && failures == len(f.urls) {
		return nil, fmt.Errorf("all %d online playlists failed: %w", failures, lastErr)
	}
	return candidates, nil
}

// FetchWithCache returns the cached playlist while it is younger than the
// TTL, otherwise downloads it. A failed download, or one skipped because
// the upstream keeps failing, falls back to the stale cached copy.
func (f *PlaylistHTTPFetcher) FetchWithCache(ctx context.Context, rawURL string) ([]byte, error) {
	entry, cacheErr := f.cache.Get(rawURL)
	if cacheErr == nil {
		age := f.now().Sub(entry.Timestamp)
		if age <= f.cacheTTL {
			f.logger.Debug("serving fresh playlist cache", "url", rawURL, "age", age)
			return entry.Content, nil
		}
		f.logger.Debug("playlist cache expired", "url", rawURL, "age", age)
	} else if !errors.Is(cacheErr, ErrCacheMiss) {
		f.logger.Warn("playlist cache unreadable", "url", rawURL, "error", cacheErr)
	}

	var content []byte
	fetchErr := f.breakers.For(rawURL).Execute(func() error {
		var err error
		content, err = f.fetch(ctx, rawURL)
		return err
	})
	if fetchErr == nil {
		if err := f.cache.Set(rawURL, content); err != nil {
			f.logger.Warn("failed to update playlist cache", "url", rawURL, "error", err)
		}
		return content, nil
	}

	if cacheErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoPlaylistContent, fetchErr)
	}

	f.logger.Warn("serving stale playlist cache",
		"url", rawURL,
		"cached_at", entry.Timestamp.Format(time.RFC3339),
		"error", fetchErr)
	return entry.Content, nil
}

func (f *PlaylistHTTPFetcher) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected HTTP status: %d %s", resp.StatusCode, resp.Status)
	}

	content, err := io.ReadAll(io.LimitReader(resp.Body, maxPlaylistSize))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return content, nil
}

// playlistName is the last path element of rawURL, or its host.
func playlistName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	if base := path.Base(u.Path); base != "." && base != "/" {
		return base
	}
	return u.Host
}
