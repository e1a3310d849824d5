package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/alorle/iptv-curator/internal/run"
)

// Curator performs one curation run.
type Curator interface {
	Run(ctx context.Context) (run.Record, error)
}

// RunScheduler triggers a curation run at start and then every interval.
// Runs never overlap: a tick that arrives during a run is dropped.
type RunScheduler struct {
	curator  Curator
	interval time.Duration
	logger   *slog.Logger
}

// NewRunScheduler creates a RunScheduler.
func NewRunScheduler(curator Curator, interval time.Duration, logger *slog.Logger) *RunScheduler {
	return &RunScheduler{curator: curator, interval: interval, logger: logger}
}

// Start blocks until ctx is cancelled.
func (s *RunScheduler) Start(ctx context.Context) {
	s.logger.Info("run scheduler started", "interval", s.interval)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.runOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("run scheduler stopped")
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *RunScheduler) runOnce(ctx context.Context) {
	rec, err := s.curator.Run(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		s.logger.Error("scheduled run failed", "error", err)
		return
	}
	s.logger.Info("scheduled run completed",
		"run_id", rec.ID(),
		"base", len(rec.Tiers().Base),
		"qualified", len(rec.Tiers().Qualified),
		"next_in", s.interval)
}
