package application

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alorle/iptv-curator/internal/pipeline"
	"github.com/alorle/iptv-curator/internal/port/driven"
	"github.com/alorle/iptv-curator/internal/probe"
	"github.com/alorle/iptv-curator/internal/run"
	"github.com/alorle/iptv-curator/internal/source"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func mustCandidate(t *testing.T, name, url string, attrs source.Attributes) source.Candidate {
	t.Helper()
	c, err := source.NewCandidate(name, url, attrs)
	if err != nil {
		t.Fatalf("NewCandidate(%q, %q): %v", name, url, err)
	}
	return c
}

type mockInspector struct {
	inspectFunc func(ctx context.Context, req driven.InspectRequest) (probe.Metadata, error)
	calls       int
}

func (m *mockInspector) Inspect(ctx context.Context, req driven.InspectRequest) (probe.Metadata, error) {
	m.calls++
	if m.inspectFunc != nil {
		return m.inspectFunc(ctx, req)
	}
	return probe.Metadata{}, nil
}

type mockSampler struct {
	sampleFunc func(ctx context.Context, url, userAgent string, window time.Duration) float64
}

func (m *mockSampler) Sample(ctx context.Context, url, userAgent string, window time.Duration) float64 {
	if m.sampleFunc != nil {
		return m.sampleFunc(ctx, url, userAgent, window)
	}
	return 0
}

type mockPlaylistSource struct {
	loadFunc func(ctx context.Context) ([]source.Candidate, error)
}

func (m *mockPlaylistSource) Load(ctx context.Context) ([]source.Candidate, error) {
	if m.loadFunc != nil {
		return m.loadFunc(ctx)
	}
	return nil, nil
}

type mockPlaylistWriter struct {
	writeFunc func(ctx context.Context, tier pipeline.Tier, groups []pipeline.Group) error
	written   map[pipeline.Tier][]pipeline.Group
}

func (m *mockPlaylistWriter) Write(ctx context.Context, tier pipeline.Tier, groups []pipeline.Group) error {
	if m.written == nil {
		m.written = make(map[pipeline.Tier][]pipeline.Group)
	}
	m.written[tier] = groups
	if m.writeFunc != nil {
		return m.writeFunc(ctx, tier, groups)
	}
	return nil
}

type mockRunRepository struct {
	saveFunc         func(ctx context.Context, r run.Record) error
	latestFunc       func(ctx context.Context) (run.Record, error)
	findByIDFunc     func(ctx context.Context, id string) (run.Record, error)
	deleteBeforeFunc func(ctx context.Context, before time.Time) (int, error)
	saved            []run.Record
}

func (m *mockRunRepository) Save(ctx context.Context, r run.Record) error {
	m.saved = append(m.saved, r)
	if m.saveFunc != nil {
		return m.saveFunc(ctx, r)
	}
	return nil
}

func (m *mockRunRepository) Latest(ctx context.Context) (run.Record, error) {
	if m.latestFunc != nil {
		return m.latestFunc(ctx)
	}
	return run.Record{}, run.ErrNotFound
}

func (m *mockRunRepository) FindByID(ctx context.Context, id string) (run.Record, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return run.Record{}, run.ErrNotFound
}

func (m *mockRunRepository) DeleteBefore(ctx context.Context, before time.Time) (int, error) {
	if m.deleteBeforeFunc != nil {
		return m.deleteBeforeFunc(ctx, before)
	}
	return 0, nil
}

type mockProber struct {
	probeFunc func(ctx context.Context, c source.Candidate) probe.Result
}

func (m *mockProber) Probe(ctx context.Context, c source.Candidate) probe.Result {
	return m.probeFunc(ctx, c)
}

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(ctx context.Context) error { return m.err }

type mockInspectorChecker struct {
	err error
}

func (m *mockInspectorChecker) CheckAvailable(ctx context.Context) error { return m.err }

type mockRenderer struct {
	renderFunc func(w io.Writer, tier pipeline.Tier, groups []pipeline.Group) error
}

func (m *mockRenderer) RenderM3U(w io.Writer, tier pipeline.Tier, groups []pipeline.Group) error {
	return m.renderFunc(w, tier, groups)
}
