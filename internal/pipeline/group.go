package pipeline

import (
	"cmp"
	"slices"
	"strings"

	"github.com/alorle/iptv-curator/internal/probe"
)

// GroupBy selects the attribute video sources are grouped on.
type GroupBy string

const (
	GroupByCountry   GroupBy = "country"
	GroupByRegion    GroupBy = "region"
	GroupByCategory  GroupBy = "category"
	GroupByMediaType GroupBy = "media_type"
	GroupBySource    GroupBy = "source"
)

// Fixed group names.
const (
	RadioGroup   = "Radio Stations"
	AudioGroup   = "Online Audio"
	AllGroup     = "All Channels"
	UnknownGroup = "Unknown"
)

// Group is a named, ordered list of sources.
type Group struct {
	Name    string
	Sources []Source
}

func orUnknown(s string) string {
	if s == "" {
		return UnknownGroup
	}
	return s
}

func groupKey(s Source, by GroupBy) string {
	c := s.Classification()
	switch by {
	case GroupByCountry:
		return orUnknown(c.Country)
	case GroupByRegion:
		return orUnknown(c.Region)
	case GroupByCategory:
		return orUnknown(c.Category)
	case GroupByMediaType:
		return string(probe.MediaTypeVideo)
	case GroupBySource:
		return orUnknown(string(s.Candidate().Origin()))
	default:
		return AllGroup
	}
}

func compareByName(a, b Source) int {
	return cmp.Or(strings.Compare(a.Name(), b.Name()), strings.Compare(a.URL(), b.URL()))
}

func compareVideo(a, b Source) int {
	ca, cb := a.Classification(), b.Classification()
	pa, pb := a.Probe(), b.Probe()
	return cmp.Or(
		strings.Compare(ca.Continent, cb.Continent),
		strings.Compare(ca.Country, cb.Country),
		strings.Compare(ca.Province, cb.Province),
		cmp.Compare(pb.DownloadSpeed(), pa.DownloadSpeed()),
		cmp.Compare(pa.LatencyMs(), pb.LatencyMs()),
		compareByName(a, b),
	)
}

// GroupAndSort partitions sources into playlist groups. Radio sources go
// to RadioGroup and other audio to AudioGroup, both ordered by name.
// Video sources are grouped by the by attribute and ordered by geography,
// then speed, latency and name. Video groups come first in ascending name
// order, followed by the radio and audio groups. Empty groups are omitted.
func GroupAndSort(sources []Source, by GroupBy) []Group {
	var radio, audio []Source
	video := make(map[string][]Source)

	for _, s := range sources {
		switch s.MediaType() {
		case probe.MediaTypeRadio:
			radio = append(radio, s)
		case probe.MediaTypeAudio:
			audio = append(audio, s)
		default:
			k := groupKey(s, by)
			video[k] = append(video[k], s)
		}
	}

	names := make([]string, 0, len(video))
	for name := range video {
		names = append(names, name)
	}
	slices.Sort(names)

	groups := make([]Group, 0, len(names)+2)
	for _, name := range names {
		g := video[name]
		slices.SortStableFunc(g, compareVideo)
		groups = append(groups, Group{Name: name, Sources: g})
	}
	if len(radio) > 0 {
		slices.SortStableFunc(radio, compareByName)
		groups = append(groups, Group{Name: RadioGroup, Sources: radio})
	}
	if len(audio) > 0 {
		slices.SortStableFunc(audio, compareByName)
		groups = append(groups, Group{Name: AudioGroup, Sources: audio})
	}
	return groups
}
