package pipeline

import (
	"fmt"
	"time"

	"github.com/alorle/iptv-curator/internal/classify"
	"github.com/alorle/iptv-curator/internal/probe"
	"github.com/alorle/iptv-curator/internal/source"
)

type fixture struct {
	name    string
	url     string
	status  probe.Status
	media   probe.MediaType
	width   int
	height  int
	speed   float64
	latency int
	bitrate int
	class   classify.Result
	origin  source.Origin
}

var fixtureSeq int

func (f fixture) build() Source {
	if f.url == "" {
		fixtureSeq++
		f.url = fmt.Sprintf("http://example.com/%s/%d", f.name, fixtureSeq)
	}
	if f.status == "" {
		f.status = probe.StatusSuccess
	}
	if f.media == "" {
		f.media = probe.MediaTypeVideo
	}
	meta := probe.Metadata{
		HasVideo:    f.media == probe.MediaTypeVideo,
		HasAudio:    true,
		Width:       f.width,
		Height:      f.height,
		BitrateKbps: f.bitrate,
	}
	r := probe.ReconstructResult(f.url, time.Now(), f.status, f.latency, meta, f.speed, f.media, "")
	c := source.ReconstructCandidate(f.name, f.url, source.Attributes{Origin: f.origin})
	return NewSource(c, r, f.class)
}

func hd(name string, speed float64, latency int) fixture {
	return fixture{name: name, width: 1920, height: 1080, speed: speed, latency: latency, bitrate: 3000}
}

func names(sources []Source) []string {
	out := make([]string, len(sources))
	for i, s := range sources {
		out[i] = s.Name()
	}
	return out
}

func urls(sources []Source) []string {
	out := make([]string, len(sources))
	for i, s := range sources {
		out[i] = s.URL()
	}
	return out
}
