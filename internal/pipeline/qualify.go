package pipeline

// ResolutionMode selects which resolution bounds apply to video sources.
type ResolutionMode string

const (
	ModeRange   ResolutionMode = "range"
	ModeMinOnly ResolutionMode = "min_only"
	ModeMaxOnly ResolutionMode = "max_only"
)

// Filter holds the user-configured quality thresholds of the qualified tier.
type Filter struct {
	MaxLatencyMs   int            `json:"max_latency"`
	MinBitrateKbps int            `json:"min_bitrate"`
	MustHD         bool           `json:"must_hd"`
	Must4K         bool           `json:"must_4k"`
	MinSpeedKBps   float64        `json:"min_download_speed"`
	MinResolution  string         `json:"min_resolution"`
	MaxResolution  string         `json:"max_resolution"`
	Mode           ResolutionMode `json:"resolution_filter_mode"`
}

// DefaultFilter returns the stock thresholds.
func DefaultFilter() Filter {
	return Filter{
		MaxLatencyMs:   5000,
		MinBitrateKbps: 100,
		MinSpeedKBps:   40,
		MinResolution:  "720p",
		MaxResolution:  "4k",
		Mode:           ModeRange,
	}
}

// Reject returns why s fails the filter, or "" when it passes. Audio and
// radio sources are only held to success and latency.
func (f Filter) Reject(s Source) string {
	r := s.Probe()
	if !r.Succeeded() {
		return "probe failed"
	}
	if r.LatencyMs() > f.MaxLatencyMs {
		return "latency above maximum"
	}
	if s.MediaType().IsAudible() {
		return ""
	}

	if !f.resolutionOK(s.Resolution()) {
		return "resolution out of range"
	}
	if bitrate := r.BitrateKbps(); bitrate != 0 && bitrate < f.MinBitrateKbps {
		return "bitrate below minimum"
	}
	meta := r.Metadata()
	if f.MustHD && !meta.IsHD() {
		return "not HD"
	}
	if f.Must4K && !meta.Is4K() {
		return "not 4K"
	}
	if speed := r.DownloadSpeed(); speed != 0 && speed < f.MinSpeedKBps {
		return "download speed below minimum"
	}
	return ""
}

// Accepts reports whether s passes every threshold.
func (f Filter) Accepts(s Source) bool { return f.Reject(s) == "" }

func (f Filter) resolutionOK(resolution string) bool {
	switch f.Mode {
	case ModeMinOnly:
		return meetsMin(resolution, f.MinResolution)
	case ModeMaxOnly:
		return meetsMax(resolution, f.MaxResolution)
	default:
		return meetsMin(resolution, f.MinResolution) && meetsMax(resolution, f.MaxResolution)
	}
}

// Qualify keeps the sources accepted by f, in input order.
func Qualify(sources []Source, f Filter) []Source {
	out := make([]Source, 0, len(sources))
	for _, s := range sources {
		if f.Accepts(s) {
			out = append(out, s)
		}
	}
	return out
}
