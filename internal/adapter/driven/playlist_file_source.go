package driven

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/simplifiedchinese"

	"github.com/alorle/iptv-curator/internal/m3u"
	"github.com/alorle/iptv-curator/internal/source"
)

var playlistExtensions = map[string]bool{
	".m3u":  true,
	".m3u8": true,
	".txt":  true,
}

// PlaylistFileSource reads candidates from playlist files under a set of
// local directories. It implements the driven.PlaylistSource port.
type PlaylistFileSource struct {
	dirs       []string
	userAgents map[string]string
	logger     *slog.Logger
}

// NewPlaylistFileSource creates a source over dirs. userAgents maps a file
// path or base name to the user agent its streams require.
func NewPlaylistFileSource(dirs []string, userAgents map[string]string, logger *slog.Logger) *PlaylistFileSource {
	return &PlaylistFileSource{dirs: dirs, userAgents: userAgents, logger: logger}
}

// Load walks every directory for .m3u, .m3u8 and .txt files. Missing
// directories and unreadable files are logged and skipped.
func (s *PlaylistFileSource) Load(ctx context.Context) ([]source.Candidate, error) {
	var candidates []source.Candidate

	for _, dir := range s.dirs {
		files, err := findPlaylists(dir)
		if err != nil {
			s.logger.Warn("skipping playlist directory", "dir", dir, "error", err)
			continue
		}

		found := 0
		for _, path := range files {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				s.logger.Error("failed to read playlist", "path", path, "error", err)
				continue
			}
			attrs := source.Attributes{
				Origin:    source.OriginLocal,
				Path:      path,
				UserAgent: lookupUserAgent(s.userAgents, path, filepath.Base(path)),
			}
			parsed := parsePlaylist(data, "Channel from "+filepath.Base(path), attrs, s.logger)
			found += len(parsed)
			candidates = append(candidates, parsed...)
		}
		s.logger.Info("loaded local playlists", "dir", dir, "files", len(files), "sources", found)
	}

	return candidates, nil
}

// findPlaylists returns playlist files under dir in lexical order.
func findPlaylists(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && playlistExtensions[strings.ToLower(filepath.Ext(path))] {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

// decodePlaylistText returns data as UTF-8, treating anything that is not
// valid UTF-8 as GB18030.
func decodePlaylistText(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}
	decoded, err := simplifiedchinese.GB18030.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decoding GB18030: %w", err)
	}
	return string(decoded), nil
}

// parsePlaylist turns playlist bytes into candidates carrying attrs.
// A user agent on the line itself overrides the one in attrs.
func parsePlaylist(data []byte, bareName string, attrs source.Attributes, logger *slog.Logger) []source.Candidate {
	text, err := decodePlaylistText(data)
	if err != nil {
		logger.Error("failed to decode playlist", "path", attrs.Path, "error", err)
		return nil
	}

	entries, err := m3u.Decode(text, bareName)
	if err != nil {
		logger.Warn("playlist truncated", "path", attrs.Path, "entries", len(entries), "error", err)
	}
	candidates := make([]source.Candidate, 0, len(entries))
	for _, e := range entries {
		a := attrs
		a.Logo = e.Logo
		a.Group = e.Group
		if e.UserAgent != "" {
			a.UserAgent = e.UserAgent
		}
		c, err := source.NewCandidate(e.Name, e.URL, a)
		if err != nil {
			logger.Debug("skipping playlist entry", "path", attrs.Path, "name", e.Name, "error", err)
			continue
		}
		candidates = append(candidates, c)
	}
	return candidates
}

func lookupUserAgent(userAgents map[string]string, keys ...string) string {
	for _, k := range keys {
		if ua, ok := userAgents[k]; ok {
			return ua
		}
	}
	return ""
}
