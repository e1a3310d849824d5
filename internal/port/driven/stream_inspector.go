package driven

import (
	"context"
	"time"

	"github.com/alorle/iptv-curator/internal/probe"
)

// InspectRequest describes a single stream inspection.
type InspectRequest struct {
	URL       string
	Timeout   time.Duration
	UserAgent string
}

// StreamInspector extracts stream metadata from a URL.
// This is a driven port implemented by concrete adapters (e.g., ffprobe).
type StreamInspector interface {
	// Inspect reads the stream at req.URL. It returns probe.ErrTimeout when
	// the inspection exceeded req.Timeout, probe.ErrNoStreams when the
	// stream had no decodable tracks and probe.ErrInspectFailed for any
	// other failure.
	Inspect(ctx context.Context, req InspectRequest) (probe.Metadata, error)
}
