package application

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/url"
	"sync"
	"time"

	"github.com/alorle/iptv-curator/internal/port/driven"
	"github.com/alorle/iptv-curator/internal/probe"
	"github.com/alorle/iptv-curator/internal/source"
	"github.com/alorle/iptv-curator/metrics"
)

// ProbeOptions configures a StreamProber.
type ProbeOptions struct {
	Timeout     time.Duration
	SpeedTest   bool
	SpeedWindow time.Duration
}

// StreamProber probes a single candidate, memoizing results in a cache.
type StreamProber struct {
	inspector     driven.StreamInspector
	sampler       driven.ThroughputSampler
	cache         *probe.Cache
	opts          ProbeOptions
	logger        *slog.Logger
	now           func() time.Time
	ipv6Supported func() bool
}

// NewStreamProber creates a StreamProber. sampler may be nil when speed
// tests are disabled.
func NewStreamProber(
	inspector driven.StreamInspector,
	sampler driven.ThroughputSampler,
	cache *probe.Cache,
	opts ProbeOptions,
	logger *slog.Logger,
) *StreamProber {
	return &StreamProber{
		inspector:     inspector,
		sampler:       sampler,
		cache:         cache,
		opts:          opts,
		logger:        logger,
		now:           time.Now,
		ipv6Supported: hostHasIPv6,
	}
}

// Probe inspects c and returns its result. It never fails: every error is
// folded into a failed or timed out result.
func (p *StreamProber) Probe(ctx context.Context, c source.Candidate) probe.Result {
	if cached, ok := p.cache.Get(c.URL()); ok {
		metrics.RecordCacheLookup(true)
		p.logger.Debug("probe cache hit", "url", c.URL())
		// The cache is keyed by URL; the media type depends on the name too.
		if cached.Succeeded() {
			cached = cached.WithMediaType(probe.DeriveMediaType(cached.HasVideo(), cached.Resolution(), c.Name()))
		}
		return cached
	}
	metrics.RecordCacheLookup(false)

	if isIPv6Literal(c.URL()) && !p.ipv6Supported() {
		p.logger.Debug("skipping IPv6 stream, host has no IPv6", "url", c.URL())
		return probe.Failure(c.URL(), p.now(), probe.StatusFailed, "network_incompatible")
	}

	result := p.inspect(ctx, c)
	p.cache.Put(c.URL(), result)
	metrics.SetCacheEntries(p.cache.Len())
	metrics.RecordProbe(string(result.Status()), time.Duration(result.ResponseTimeMs())*time.Millisecond)
	return result
}

func (p *StreamProber) inspect(ctx context.Context, c source.Candidate) probe.Result {
	start := p.now()
	meta, err := p.inspector.Inspect(ctx, driven.InspectRequest{
		URL:       c.URL(),
		Timeout:   p.opts.Timeout,
		UserAgent: c.UserAgent(),
	})
	elapsed := p.now().Sub(start)

	if err != nil {
		status := probe.StatusFailed
		if errors.Is(err, probe.ErrTimeout) {
			status = probe.StatusTimeout
		}
		result, rerr := probe.NewFailure(c.URL(), p.now(), status, elapsed, err.Error())
		if rerr != nil {
			return probe.Failure(c.URL(), p.now(), status, err.Error())
		}
		return result
	}

	var speed float64
	if p.opts.SpeedTest && p.sampler != nil {
		speed = p.sampler.Sample(ctx, c.URL(), c.UserAgent(), p.opts.SpeedWindow)
	}

	mediaType := probe.DeriveMediaType(meta.HasVideo, meta.Resolution(), c.Name())
	result, err := probe.NewSuccess(c.URL(), p.now(), elapsed, meta, speed, mediaType)
	if err != nil {
		return probe.Failure(c.URL(), p.now(), probe.StatusError, err.Error())
	}
	return result
}

// isIPv6Literal reports whether the host of rawURL is an IPv6 address.
func isIPv6Literal(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	ip := net.ParseIP(u.Hostname())
	return ip != nil && ip.To4() == nil
}

// hostHasIPv6 reports once whether an IPv6 loopback socket can be opened.
var hostHasIPv6 = sync.OnceValue(func() bool {
	conn, err := net.ListenPacket("udp6", "[::1]:0")
	if err != nil {
		return false
	}
	conn.Close()
	return true
})
