package driver

import (
	"context"
	"testing"
	"time"

	"github.com/alorle/iptv-curator/internal/classify"
	"github.com/alorle/iptv-curator/internal/pipeline"
	"github.com/alorle/iptv-curator/internal/probe"
	"github.com/alorle/iptv-curator/internal/run"
	"github.com/alorle/iptv-curator/internal/source"
)

type mockRunRepository struct {
	latestFunc func(ctx context.Context) (run.Record, error)
}

func (m *mockRunRepository) Save(ctx context.Context, r run.Record) error { return nil }

func (m *mockRunRepository) Latest(ctx context.Context) (run.Record, error) {
	if m.latestFunc != nil {
		return m.latestFunc(ctx)
	}
	return run.Record{}, run.ErrNotFound
}

func (m *mockRunRepository) FindByID(ctx context.Context, id string) (run.Record, error) {
	return run.Record{}, run.ErrNotFound
}

func (m *mockRunRepository) DeleteBefore(ctx context.Context, before time.Time) (int, error) {
	return 0, nil
}

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(ctx context.Context) error { return m.err }

type mockInspectorChecker struct {
	err error
}

func (m *mockInspectorChecker) CheckAvailable(ctx context.Context) error { return m.err }

// sampleRun builds a stored run with two national channels, one of which
// qualifies.
func sampleRun(t *testing.T) run.Record {
	t.Helper()
	mk := func(name, url string, width, height int) pipeline.Source {
		c, err := source.NewCandidate(name, url, source.Attributes{})
		if err != nil {
			t.Fatalf("NewCandidate: %v", err)
		}
		meta := probe.Metadata{HasVideo: true, HasAudio: true, Width: width, Height: height, BitrateKbps: 2000}
		r, err := probe.NewSuccess(url, time.Now(), 200*time.Millisecond, meta, 0, probe.MediaTypeVideo)
		if err != nil {
			t.Fatalf("NewSuccess: %v", err)
		}
		return pipeline.NewSource(c, r, classify.Result{Category: classify.CategoryNational})
	}
	hd := mk("CCTV-1", "http://example.com/cctv1", 1920, 1080)
	sd := mk("CCTV-2", "http://example.com/cctv2", 640, 360)

	tiers := pipeline.Tiers{
		Valid:     []pipeline.Source{hd, sd},
		Base:      []pipeline.Source{hd, sd},
		Qualified: []pipeline.Source{hd},
	}
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rec, err := run.NewRecord("run-42", start, start.Add(2*time.Minute), 3, pipeline.Summarize(tiers.Valid), tiers)
	if err != nil {
		t.Fatalf("NewRecord: %v", err)
	}
	return rec
}

func withLatest(rec run.Record) *mockRunRepository {
	return &mockRunRepository{latestFunc: func(ctx context.Context) (run.Record, error) { return rec, nil }}
}
