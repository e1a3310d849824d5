package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alorle/iptv-curator/internal/pipeline"
	"github.com/alorle/iptv-curator/internal/port/driven"
)

// PlaylistService serves the results of the latest stored run.
// It depends only on port interfaces.
type PlaylistService struct {
	runs     driven.RunRepository
	renderer driven.PlaylistRenderer
	groupBy  pipeline.GroupBy
}

// NewPlaylistService creates a new PlaylistService.
func NewPlaylistService(runs driven.RunRepository, renderer driven.PlaylistRenderer, groupBy pipeline.GroupBy) *PlaylistService {
	return &PlaylistService{
		runs:     runs,
		renderer: renderer,
		groupBy:  groupBy,
	}
}

// GenerateM3U renders tier of the latest run. Returns run.ErrNotFound
// when no run has been stored yet.
func (p *PlaylistService) GenerateM3U(ctx context.Context, tier pipeline.Tier) (string, error) {
	rec, err := p.runs.Latest(ctx)
	if err != nil {
		return "", err
	}

	groups := pipeline.GroupAndSort(rec.Tiers().Get(tier), p.groupBy)

	var builder strings.Builder
	if err := p.renderer.RenderM3U(&builder, tier, groups); err != nil {
		return "", fmt.Errorf("rendering %s playlist: %w", tier, err)
	}
	return builder.String(), nil
}

// RunReport summarizes a stored run.
type RunReport struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Duration   time.Duration
	Candidates int
	Valid      int
	Base       int
	Qualified  int
	Stats      pipeline.Stats
}

// LatestReport summarizes the latest run.
// Returns run.ErrNotFound when no run has been stored yet.
func (p *PlaylistService) LatestReport(ctx context.Context) (RunReport, error) {
	rec, err := p.runs.Latest(ctx)
	if err != nil {
		return RunReport{}, err
	}
	tiers := rec.Tiers()
	return RunReport{
		ID:         rec.ID(),
		StartedAt:  rec.StartedAt(),
		FinishedAt: rec.FinishedAt(),
		Duration:   rec.Duration(),
		Candidates: rec.Candidates(),
		Valid:      len(tiers.Valid),
		Base:       len(tiers.Base),
		Qualified:  len(tiers.Qualified),
		Stats:      rec.Stats(),
	}, nil
}
