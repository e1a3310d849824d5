package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/alorle/iptv-curator/internal/classify"
	"github.com/alorle/iptv-curator/internal/pipeline"
	"github.com/alorle/iptv-curator/internal/port/driven"
	"github.com/alorle/iptv-curator/internal/run"
	"github.com/alorle/iptv-curator/internal/source"
	"github.com/alorle/iptv-curator/metrics"
)

// ErrNoCandidates is returned when no playlist source yielded a candidate.
var ErrNoCandidates = errors.New("no stream candidates found")

// Classifier assigns categories and geography to channel names.
type Classifier interface {
	Classify(name string) classify.Result
	Merge(name, existing string) string
	Priority(category string) int
}

// ProbeRunner probes a batch of candidates.
type ProbeRunner interface {
	Run(ctx context.Context, candidates []source.Candidate) []Outcome
}

// CurationOptions configures a curation run.
type CurationOptions struct {
	PerChannel int
	Filter     pipeline.Filter
	GroupBy    pipeline.GroupBy
	// Retention removes stored runs older than this after each run. Zero keeps all.
	Retention time.Duration
}

// CurationService runs the whole pipeline: load, probe, classify, reduce,
// write and persist.
type CurationService struct {
	sources    []driven.PlaylistSource
	runner     ProbeRunner
	classifier Classifier
	writer     driven.PlaylistWriter
	runs       driven.RunRepository
	opts       CurationOptions
	logger     *slog.Logger
	now        func() time.Time
	newID      func() string
}

// NewCurationService creates a CurationService. A non-positive PerChannel
// means pipeline.DefaultPerChannel.
func NewCurationService(
	sources []driven.PlaylistSource,
	runner ProbeRunner,
	classifier Classifier,
	writer driven.PlaylistWriter,
	runs driven.RunRepository,
	opts CurationOptions,
	logger *slog.Logger,
) *CurationService {
	if opts.PerChannel <= 0 {
		opts.PerChannel = pipeline.DefaultPerChannel
	}
	return &CurationService{
		sources:    sources,
		runner:     runner,
		classifier: classifier,
		writer:     writer,
		runs:       runs,
		opts:       opts,
		logger:     logger,
		now:        time.Now,
		newID:      func() string { return uuid.New().String() },
	}
}

// Run executes one batch and returns the stored record.
func (s *CurationService) Run(ctx context.Context) (run.Record, error) {
	rec, err := s.run(ctx)
	metrics.RecordRun(err, s.now())
	return rec, err
}

func (s *CurationService) run(ctx context.Context) (run.Record, error) {
	id := s.newID()
	startedAt := s.now()
	logger := s.logger.With("run_id", id)
	logger.Info("curation run started")

	candidates, err := s.load(ctx, logger)
	if err != nil {
		return run.Record{}, err
	}
	if len(candidates) == 0 {
		return run.Record{}, ErrNoCandidates
	}

	outcomes := s.runner.Run(ctx, candidates)
	if err := ctx.Err(); err != nil {
		return run.Record{}, fmt.Errorf("probing interrupted: %w", err)
	}

	sources := make([]pipeline.Source, 0, len(outcomes))
	for _, o := range outcomes {
		sources = append(sources, pipeline.NewSource(o.Candidate, o.Result, s.classify(o.Candidate)))
	}

	tiers := pipeline.Reduce(sources, s.opts.PerChannel, s.opts.Filter)
	s.logQualification(logger, tiers.Base)

	for _, tier := range []pipeline.Tier{pipeline.TierBase, pipeline.TierQualified} {
		members := tiers.Get(tier)
		if len(members) == 0 {
			logger.Warn("tier is empty, playlist not written", "tier", tier)
			continue
		}
		groups := pipeline.GroupAndSort(members, s.opts.GroupBy)
		if err := s.writer.Write(ctx, tier, groups); err != nil {
			return run.Record{}, fmt.Errorf("writing %s playlist: %w", tier, err)
		}
	}

	for _, tier := range []pipeline.Tier{pipeline.TierValid, pipeline.TierBase, pipeline.TierQualified} {
		metrics.SetTierSources(string(tier), len(tiers.Get(tier)))
	}

	stats := pipeline.Summarize(sources)
	s.logStats(logger, stats, tiers)

	rec, err := run.NewRecord(id, startedAt, s.now(), len(candidates), stats, tiers)
	if err != nil {
		return run.Record{}, fmt.Errorf("building run record: %w", err)
	}
	if err := s.runs.Save(ctx, rec); err != nil {
		return run.Record{}, fmt.Errorf("saving run: %w", err)
	}

	if s.opts.Retention > 0 {
		removed, err := s.runs.DeleteBefore(ctx, s.now().Add(-s.opts.Retention))
		if err != nil {
			logger.Warn("failed to prune old runs", "error", err)
		} else if removed > 0 {
			logger.Info("pruned old runs", "removed", removed)
		}
	}

	logger.Info("curation run finished", "duration", rec.Duration())
	return rec, nil
}

// load collects candidates from every source and drops duplicates. A
// failing source is logged and skipped.
func (s *CurationService) load(ctx context.Context, logger *slog.Logger) ([]source.Candidate, error) {
	var all []source.Candidate
	for _, src := range s.sources {
		found, err := src.Load(ctx)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			logger.Error("playlist source failed", "error", err)
			continue
		}
		all = append(all, found...)
	}
	unique := source.Unique(all)
	logger.Info("candidates loaded", "total", len(all), "unique", len(unique))
	return unique, nil
}

// classify combines rule classification with the playlist's declared group.
func (s *CurationService) classify(c source.Candidate) classify.Result {
	r := s.classifier.Classify(c.Name())
	r.Category = s.classifier.Merge(c.Name(), c.Group())
	r.Priority = s.classifier.Priority(r.Category)
	return r
}

func (s *CurationService) logQualification(logger *slog.Logger, base []pipeline.Source) {
	for _, src := range base {
		if reason := s.opts.Filter.Reject(src); reason != "" {
			logger.Info("source not qualified", "name", src.Name(), "url", src.URL(), "reason", reason)
			continue
		}
		logger.Info("source qualified", "name", src.Name(), "url", src.URL())
	}
}

func (s *CurationService) logStats(logger *slog.Logger, stats pipeline.Stats, tiers pipeline.Tiers) {
	logger.Info("tier summary",
		"probed", stats.Total,
		"valid", len(tiers.Valid),
		"base", len(tiers.Base),
		"qualified", len(tiers.Qualified))

	for status, n := range stats.ByStatus {
		logger.Info("status breakdown", "status", status, "count", n)
	}
	for media, n := range stats.ByMediaType {
		logger.Info("media type breakdown", "media_type", media, "count", n)
	}
	for _, c := range pipeline.Top(stats.ByResolution, 10) {
		logger.Info("resolution breakdown", "resolution", c.Key, "count", c.N)
	}
	for _, c := range pipeline.Top(stats.ByCategory, 10) {
		logger.Info("category breakdown", "category", c.Key, "count", c.N)
	}
}
