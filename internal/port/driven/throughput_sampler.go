package driven

import (
	"context"
	"time"
)

// ThroughputSampler measures how fast a stream can be downloaded.
type ThroughputSampler interface {
	// Sample downloads from url for at most window and returns the
	// observed rate in KB/s. Any failure yields 0.
	Sample(ctx context.Context, url, userAgent string, window time.Duration) float64
}
