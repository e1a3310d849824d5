package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/alorle/iptv-curator/internal/classify"
	"github.com/alorle/iptv-curator/internal/pipeline"
	"github.com/alorle/iptv-curator/internal/run"
	"github.com/alorle/iptv-curator/internal/source"
)

func storedRun(t *testing.T) run.Record {
	t.Helper()
	a := mustCandidate(t, "CCTV-1", "http://example.com/a", source.Attributes{})
	b := mustCandidate(t, "CCTV-2", "http://example.com/b", source.Attributes{})
	sa := pipeline.NewSource(a, successFor(a), classify.Result{Category: classify.CategoryNational})
	sb := pipeline.NewSource(b, successFor(b), classify.Result{Category: classify.CategoryNational})

	tiers := pipeline.Tiers{
		Valid:     []pipeline.Source{sa, sb},
		Base:      []pipeline.Source{sa, sb},
		Qualified: []pipeline.Source{sa},
	}
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rec, err := run.NewRecord("run-1", start, start.Add(90*time.Second), 4, pipeline.Summarize(tiers.Valid), tiers)
	if err != nil {
		t.Fatalf("NewRecord: %v", err)
	}
	return rec
}

func TestPlaylistService_GenerateM3U(t *testing.T) {
	t.Run("renders the requested tier of the latest run", func(t *testing.T) {
		rec := storedRun(t)
		runs := &mockRunRepository{latestFunc: func(ctx context.Context) (run.Record, error) { return rec, nil }}

		var gotTier pipeline.Tier
		var gotSources int
		renderer := &mockRenderer{renderFunc: func(w io.Writer, tier pipeline.Tier, groups []pipeline.Group) error {
			gotTier = tier
			for _, g := range groups {
				gotSources += len(g.Sources)
			}
			_, err := fmt.Fprint(w, "#EXTM3U\n")
			return err
		}}

		service := NewPlaylistService(runs, renderer, pipeline.GroupByCategory)
		out, err := service.GenerateM3U(context.Background(), pipeline.TierQualified)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if out != "#EXTM3U\n" {
			t.Errorf("output = %q", out)
		}
		if gotTier != pipeline.TierQualified || gotSources != 1 {
			t.Errorf("rendered tier=%s sources=%d, want qualified/1", gotTier, gotSources)
		}
	})

	t.Run("returns ErrNotFound when no run is stored", func(t *testing.T) {
		renderer := &mockRenderer{renderFunc: func(w io.Writer, tier pipeline.Tier, groups []pipeline.Group) error {
			t.Fatal("renderer should not be called")
			return nil
		}}
		service := NewPlaylistService(&mockRunRepository{}, renderer, pipeline.GroupByCategory)

		if _, err := service.GenerateM3U(context.Background(), pipeline.TierBase); !errors.Is(err, run.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("wraps renderer errors", func(t *testing.T) {
		rec := storedRun(t)
		runs := &mockRunRepository{latestFunc: func(ctx context.Context) (run.Record, error) { return rec, nil }}
		renderErr := errors.New("broken pipe")
		renderer := &mockRenderer{renderFunc: func(w io.Writer, tier pipeline.Tier, groups []pipeline.Group) error {
			return renderErr
		}}
		service := NewPlaylistService(runs, renderer, pipeline.GroupByCategory)

		if _, err := service.GenerateM3U(context.Background(), pipeline.TierBase); !errors.Is(err, renderErr) {
			t.Errorf("expected wrapped render error, got %v", err)
		}
	})
}

func TestPlaylistService_LatestReport(t *testing.T) {
	rec := storedRun(t)
	runs := &mockRunRepository{latestFunc: func(ctx context.Context) (run.Record, error) { return rec, nil }}
	service := NewPlaylistService(runs, &mockRenderer{}, pipeline.GroupByCategory)

	report, err := service.LatestReport(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if report.ID != "run-1" || report.Candidates != 4 {
		t.Errorf("report id=%q candidates=%d", report.ID, report.Candidates)
	}
	if report.Valid != 2 || report.Base != 2 || report.Qualified != 1 {
		t.Errorf("tier sizes = %d/%d/%d, want 2/2/1", report.Valid, report.Base, report.Qualified)
	}
	if report.Duration != 90*time.Second {
		t.Errorf("duration = %v, want 90s", report.Duration)
	}
	if report.Stats.Total != 2 {
		t.Errorf("stats total = %d, want 2", report.Stats.Total)
	}

	empty := NewPlaylistService(&mockRunRepository{}, &mockRenderer{}, pipeline.GroupByCategory)
	if _, err := empty.LatestReport(context.Background()); !errors.Is(err, run.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
