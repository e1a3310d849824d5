package probe

import (
	"strings"
	"time"
)

// UnknownResponseTime stands in for a response time that was never measured.
const UnknownResponseTime = 9999

// Result represents a single probe of a stream URL.
// It is an immutable value object.
type Result struct {
	url            string
	checkedAt      time.Time
	status         Status
	responseTimeMs int
	metadata       Metadata
	downloadSpeed  float64
	mediaType      MediaType
	reason         string
}

// NewSuccess creates a successful probe result.
func NewSuccess(
	rawURL string,
	checkedAt time.Time,
	responseTime time.Duration,
	metadata Metadata,
	downloadSpeed float64,
	mediaType MediaType,
) (Result, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return Result{}, ErrEmptyURL
	}
	if checkedAt.IsZero() {
		return Result{}, ErrInvalidTimestamp
	}
	if mediaType == "" {
		mediaType = MediaTypeVideo
	}
	return Result{
		url:            rawURL,
		checkedAt:      checkedAt,
		status:         StatusSuccess,
		responseTimeMs: int(responseTime.Milliseconds()),
		metadata:       metadata,
		downloadSpeed:  downloadSpeed,
		mediaType:      mediaType,
	}, nil
}

// NewFailure creates a failed probe result. Failures carry no stream metadata.
func NewFailure(
	rawURL string,
	checkedAt time.Time,
	status Status,
	responseTime time.Duration,
	reason string,
) (Result, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return Result{}, ErrEmptyURL
	}
	if checkedAt.IsZero() {
		return Result{}, ErrInvalidTimestamp
	}
	if !status.IsFailure() {
		return Result{}, ErrInvalidStatus
	}
	return Result{
		url:            rawURL,
		checkedAt:      checkedAt,
		status:         status,
		responseTimeMs: int(responseTime.Milliseconds()),
		mediaType:      MediaTypeVideo,
		reason:         reason,
	}, nil
}

// Failure builds a failed result without validation. Used where a result
// must exist for every input even when the input itself is malformed.
func Failure(rawURL string, checkedAt time.Time, status Status, reason string) Result {
	return Result{
		url:       rawURL,
		checkedAt: checkedAt,
		status:    status,
		mediaType: MediaTypeVideo,
		reason:    reason,
	}
}

// ReconstructResult rebuilds a Result from persisted state.
// Intended for repository adapters only, it bypasses validation.
func ReconstructResult(
	rawURL string,
	checkedAt time.Time,
	status Status,
	responseTimeMs int,
	metadata Metadata,
	downloadSpeed float64,
	mediaType MediaType,
	reason string,
) Result {
	return Result{
		url:            rawURL,
		checkedAt:      checkedAt,
		status:         status,
		responseTimeMs: responseTimeMs,
		metadata:       metadata,
		downloadSpeed:  downloadSpeed,
		mediaType:      mediaType,
		reason:         reason,
	}
}

// WithMediaType returns a copy of r with its media type replaced.
func (r Result) WithMediaType(m MediaType) Result {
	r.mediaType = m
	return r
}

func (r Result) URL() string            { return r.url }
func (r Result) CheckedAt() time.Time   { return r.checkedAt }
func (r Result) Status() Status         { return r.status }
func (r Result) Succeeded() bool        { return r.status == StatusSuccess }
func (r Result) ResponseTimeMs() int    { return r.responseTimeMs }
func (r Result) Metadata() Metadata     { return r.metadata }
func (r Result) DownloadSpeed() float64 { return r.downloadSpeed }
func (r Result) MediaType() MediaType   { return r.mediaType }
func (r Result) Reason() string         { return r.reason }
func (r Result) Resolution() string     { return r.metadata.Resolution() }
func (r Result) BitrateKbps() int       { return r.metadata.BitrateKbps }
func (r Result) HasVideo() bool         { return r.metadata.HasVideo }

// LatencyMs returns the response time, or UnknownResponseTime if none
// was measured. Ranking and filtering both go through it.
func (r Result) LatencyMs() int {
	if r.responseTimeMs <= 0 {
		return UnknownResponseTime
	}
	return r.responseTimeMs
}
