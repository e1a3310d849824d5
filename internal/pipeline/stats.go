package pipeline

import (
	"cmp"
	"slices"

	"github.com/alorle/iptv-curator/internal/probe"
)

// Stats aggregates a batch of sources. Status counts cover every source;
// media type, category and resolution counts cover successful ones only.
type Stats struct {
	Total        int                     `json:"total"`
	ByStatus     map[probe.Status]int    `json:"by_status"`
	ByMediaType  map[probe.MediaType]int `json:"by_media_type"`
	ByCategory   map[string]int          `json:"by_category"`
	ByResolution map[string]int          `json:"by_resolution"`
}

// Count is one entry of a ranked breakdown.
type Count struct {
	Key string `json:"key"`
	N   int    `json:"count"`
}

// ResolutionBucket names the quality class of a "WxH" resolution.
func ResolutionBucket(resolution string) string {
	_, h, ok := ParseResolution(resolution)
	switch {
	case !ok || h <= 0:
		return "unknown"
	case h >= 2160:
		return "4K"
	case h >= 1080:
		return "1080p"
	case h >= 720:
		return "720p"
	default:
		return "SD"
	}
}

// Summarize computes Stats over sources.
func Summarize(sources []Source) Stats {
	st := Stats{
		Total:        len(sources),
		ByStatus:     make(map[probe.Status]int),
		ByMediaType:  make(map[probe.MediaType]int),
		ByCategory:   make(map[string]int),
		ByResolution: make(map[string]int),
	}
	for _, s := range sources {
		st.ByStatus[s.Probe().Status()]++
		if !s.Succeeded() {
			continue
		}
		st.ByMediaType[s.MediaType()]++
		st.ByCategory[orUnknown(s.Category())]++
		if s.MediaType() == probe.MediaTypeVideo {
			st.ByResolution[ResolutionBucket(s.Resolution())]++
		}
	}
	return st
}

// Top returns the n largest entries of counts, largest first, ties broken
// by key. A non-positive n returns every entry.
func Top(counts map[string]int, n int) []Count {
	out := make([]Count, 0, len(counts))
	for k, v := range counts {
		out = append(out, Count{Key: k, N: v})
	}
	slices.SortFunc(out, func(a, b Count) int {
		return cmp.Or(cmp.Compare(b.N, a.N), cmp.Compare(a.Key, b.Key))
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
