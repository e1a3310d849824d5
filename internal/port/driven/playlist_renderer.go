package driven

import (
	"io"

	"github.com/alorle/iptv-curator/internal/pipeline"
)

// PlaylistRenderer encodes grouped sources as an M3U playlist.
type PlaylistRenderer interface {
	RenderM3U(w io.Writer, tier pipeline.Tier, groups []pipeline.Group) error
}
