package driven

import (
	"context"

	"github.com/alorle/iptv-curator/internal/source"
)

// PlaylistSource discovers stream candidates.
// Implemented by the local directory scanner and the online fetcher.
type PlaylistSource interface {
	// Load returns every candidate the source can currently see.
	// Individual unreadable playlists are skipped; an error means the
	// source as a whole was unusable.
	Load(ctx context.Context) ([]source.Candidate, error)
}
