package pipeline

import (
	"cmp"
	"slices"
	"strings"
)

// DefaultPerChannel is how many sources the base tier keeps per channel.
const DefaultPerChannel = 5

type channelKey struct {
	name       string
	resolution string
	audible    bool
}

func keyOf(s Source) channelKey {
	if s.MediaType().IsAudible() {
		return channelKey{name: s.Name(), audible: true}
	}
	return channelKey{name: s.Name(), resolution: s.Resolution()}
}

// compareQuality orders sources best first: download speed descending,
// latency ascending, bitrate descending, then name and URL.
func compareQuality(a, b Source) int {
	pa, pb := a.Probe(), b.Probe()
	return cmp.Or(
		cmp.Compare(pb.DownloadSpeed(), pa.DownloadSpeed()),
		cmp.Compare(pa.LatencyMs(), pb.LatencyMs()),
		cmp.Compare(pb.BitrateKbps(), pa.BitrateKbps()),
		strings.Compare(a.Name(), b.Name()),
		strings.Compare(a.URL(), b.URL()),
	)
}

// Base keeps at most perChannel of the best sources for every channel.
// Audio and radio channels are keyed by name, video channels by name and
// resolution. Channels appear in order of first occurrence. A perChannel
// below 1 selects DefaultPerChannel.
func Base(sources []Source, perChannel int) []Source {
	if perChannel < 1 {
		perChannel = DefaultPerChannel
	}

	var order []channelKey
	groups := make(map[channelKey][]Source)
	for _, s := range sources {
		k := keyOf(s)
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], s)
	}

	out := make([]Source, 0, len(sources))
	for _, k := range order {
		g := groups[k]
		slices.SortStableFunc(g, compareQuality)
		if len(g) > perChannel {
			g = g[:perChannel]
		}
		out = append(out, g...)
	}
	return out
}
