package driven

import (
	"context"

	"github.com/alorle/iptv-curator/internal/pipeline"
)

// PlaylistWriter persists grouped sources as playlist files.
type PlaylistWriter interface {
	// Write renders groups for tier, replacing any previous output.
	Write(ctx context.Context, tier pipeline.Tier, groups []pipeline.Group) error
}
