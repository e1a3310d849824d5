package driven

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alorle/iptv-curator/internal/m3u"
	"github.com/alorle/iptv-curator/internal/pipeline"
	"github.com/alorle/iptv-curator/internal/probe"
)

// UserAgentPosition selects where a stream's user agent is written.
type UserAgentPosition string

const (
	UserAgentInExtinf UserAgentPosition = "extinf"
	UserAgentInURL    UserAgentPosition = "url"
)

const defaultPlaylistBaseName = "live"

// PlaylistFormat controls how sources are rendered.
type PlaylistFormat struct {
	UserAgentEnabled  bool
	UserAgentPosition UserAgentPosition
	GuideURLs         []string
}

// RenderM3U writes groups as an extended M3U playlist. The qualified tier
// additionally carries response time and download speed.
func (f PlaylistFormat) RenderM3U(w io.Writer, tier pipeline.Tier, groups []pipeline.Group) error {
	enc := m3u.NewEncoder(f.GuideURLs)
	for _, g := range groups {
		enc.AddGroup(g.Name)
		for _, s := range g.Sources {
			uri := s.URL()
			if ua := f.userAgent(s); ua != "" && f.UserAgentPosition == UserAgentInURL {
				uri += "|User-Agent=" + ua
			}
			enc.AddChannel(&m3u.Channel{
				Title:    s.Name(),
				URI:      uri,
				Duration: -1,
				Attrs:    f.extinfAttrs(s, tier),
			})
		}
	}
	return enc.Encode(w)
}

// RenderText writes groups as a "name,url" text playlist.
func (f PlaylistFormat) RenderText(w io.Writer, groups []pipeline.Group) error {
	text := make([]m3u.TextGroup, 0, len(groups))
	for _, g := range groups {
		tg := m3u.TextGroup{Name: g.Name, Lines: make([]m3u.TextLine, 0, len(g.Sources))}
		for _, s := range g.Sources {
			uri := s.URL()
			if ua := f.userAgent(s); ua != "" {
				if f.UserAgentPosition == UserAgentInURL {
					uri += "|User-Agent=" + ua
				} else {
					uri += "#User-Agent=" + ua
				}
			}
			tg.Lines = append(tg.Lines, m3u.TextLine{Name: s.Name(), URL: uri})
		}
		text = append(text, tg)
	}
	return m3u.EncodeText(w, text)
}

func (f PlaylistFormat) userAgent(s pipeline.Source) string {
	if !f.UserAgentEnabled {
		return ""
	}
	return s.Candidate().UserAgent()
}

func (f PlaylistFormat) extinfAttrs(s pipeline.Source, tier pipeline.Tier) m3u.Attrs {
	c := s.Candidate()
	class := s.Classification()
	result := s.Probe()

	groupTitle := class.Category
	if groupTitle == "" {
		groupTitle = c.Group()
	}
	if groupTitle == "" {
		groupTitle = pipeline.UnknownGroup
	}
	mediaType := result.MediaType()
	if mediaType == "" {
		mediaType = probe.MediaTypeVideo
	}

	var attrs m3u.Attrs
	attrs.Add("tvg-id", tvgID(s.Name()))
	attrs.Add("tvg-name", s.Name())
	attrs.Add("tvg-logo", c.Logo())
	attrs.Add("group-title", groupTitle)
	attrs.Add("media-type", string(mediaType))
	attrs.Add("tvg-country", class.Country)
	attrs.Add("tvg-region", class.Region)
	attrs.Add("tvg-province", class.Province)
	if f.UserAgentPosition == UserAgentInExtinf {
		attrs.Add("user-agent", f.userAgent(s))
	}
	if tier == pipeline.TierQualified {
		if ms := result.ResponseTimeMs(); ms > 0 {
			attrs.Add("response-time", strconv.Itoa(ms)+"ms")
		}
		if speed := result.DownloadSpeed(); speed > 0 {
			attrs.Add("download-speed", fmt.Sprintf("%.1fKB/s", speed))
		}
	}
	attrs.Add("resolution", result.Resolution())
	if kbps := result.BitrateKbps(); kbps > 0 {
		attrs.Add("bitrate", strconv.Itoa(kbps)+"kbps")
	}
	if !result.Succeeded() {
		attrs.Add("status", string(result.Status()))
	}
	return attrs
}

// tvgID lowercases name and replaces every non-alphanumeric ASCII byte
// with an underscore.
func tvgID(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// PlaylistFileWriter writes each tier as an M3U and a TXT playlist in one
// directory. It implements the driven.PlaylistWriter port.
type PlaylistFileWriter struct {
	dir      string
	baseName string
	format   PlaylistFormat
	logger   *slog.Logger
}

// NewPlaylistFileWriter creates a writer. An empty baseName means "live".
func NewPlaylistFileWriter(dir, baseName string, format PlaylistFormat, logger *slog.Logger) *PlaylistFileWriter {
	if baseName == "" {
		baseName = defaultPlaylistBaseName
	}
	return &PlaylistFileWriter{dir: dir, baseName: baseName, format: format, logger: logger}
}

// Paths returns the M3U and TXT file paths for tier. The base tier uses
// the plain base name; other tiers are prefixed with the tier name.
func (w *PlaylistFileWriter) Paths(tier pipeline.Tier) (string, string) {
	name := w.baseName
	if tier != pipeline.TierBase {
		name = string(tier) + "_" + name
	}
	return filepath.Join(w.dir, name+".m3u"), filepath.Join(w.dir, name+".txt")
}

// Write renders both playlist files for tier, replacing earlier output.
func (w *PlaylistFileWriter) Write(ctx context.Context, tier pipeline.Tier, groups []pipeline.Group) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	m3uPath, txtPath := w.Paths(tier)
	if err := writeFileAtomic(m3uPath, func(out io.Writer) error {
		return w.format.RenderM3U(out, tier, groups)
	}); err != nil {
		return fmt.Errorf("writing %s: %w", m3uPath, err)
	}
	if err := writeFileAtomic(txtPath, func(out io.Writer) error {
		return w.format.RenderText(out, groups)
	}); err != nil {
		return fmt.Errorf("writing %s: %w", txtPath, err)
	}

	count := 0
	for _, g := range groups {
		count += len(g.Sources)
	}
	w.logger.Info("playlist written", "tier", tier, "m3u", m3uPath, "txt", txtPath, "groups", len(groups), "sources", count)
	return nil
}

func writeFileAtomic(path string, render func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := render(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
