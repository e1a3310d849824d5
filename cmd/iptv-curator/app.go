package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"go.etcd.io/bbolt"

	"github.com/alorle/iptv-curator/config"
	"github.com/alorle/iptv-curator/internal/adapter/driven"
	"github.com/alorle/iptv-curator/internal/application"
	"github.com/alorle/iptv-curator/internal/classify"
	"github.com/alorle/iptv-curator/internal/pipeline"
	port "github.com/alorle/iptv-curator/internal/port/driven"
	"github.com/alorle/iptv-curator/internal/probe"
	"github.com/alorle/iptv-curator/metrics"
)

// app holds the wired services for one process.
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	db        *bbolt.DB
	inspector *driven.FFprobeInspector
	cache     *probe.Cache
	runs      *driven.RunBoltDBRepository
	curation  *application.CurationService
	playlists *application.PlaylistService
	health    *application.HealthService
}

func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return nil, nil, err
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)
	cfg.LogSummary(logger)
	return cfg, logger, nil
}

func newEngine(cfg *config.Config, logger *slog.Logger) *classify.Engine {
	rules, ok := classify.LoadRulesOrFallback(cfg.Rules.Path, logger)
	if !ok {
		metrics.RecordRulesFallback()
	}
	return classify.NewEngine(rules, logger)
}

// newApp opens storage and wires every service. The ffprobe check is the
// only fatal dependency check.
func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	inspector := driven.NewFFprobeInspector("", logger)
	if err := inspector.CheckAvailable(ctx); err != nil {
		return nil, err
	}

	db, err := bbolt.Open(cfg.Storage.DBPath, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	runs, err := driven.NewRunBoltDBRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create run repository: %w", err)
	}

	engine := newEngine(cfg, logger)
	engine.SelfTest(classify.DefaultSelfTestCases())

	client := &http.Client{}
	sources := []port.PlaylistSource{
		driven.NewPlaylistFileSource(cfg.Sources.LocalDirs, cfg.UserAgents.Sources, logger),
	}
	if len(cfg.Sources.OnlineURLs) > 0 {
		fileCache, err := driven.NewPlaylistFileCache(cfg.Sources.CacheDir)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to create playlist cache: %w", err)
		}
		sources = append(sources, driven.NewPlaylistHTTPFetcher(
			cfg.Sources.OnlineURLs, client, fileCache, cfg.Sources.CacheTTL, cfg.UserAgents.Sources, logger))
	}

	cache := probe.NewCache(cfg.Testing.CacheTTL)
	prober := application.NewStreamProber(
		inspector,
		driven.NewHTTPThroughputSampler(client, logger),
		cache,
		application.ProbeOptions{
			Timeout:     cfg.Testing.Timeout,
			SpeedTest:   cfg.Testing.SpeedTest,
			SpeedWindow: cfg.Testing.SpeedTestDuration,
		},
		logger,
	)
	orchestrator := application.NewProbeOrchestrator(prober, application.OrchestratorOptions{
		Concurrency:  cfg.Testing.Concurrency,
		ProbeTimeout: cfg.Testing.Timeout,
	}, logger)

	format := driven.PlaylistFormat{
		UserAgentEnabled:  cfg.UserAgents.Enabled,
		UserAgentPosition: driven.UserAgentPosition(cfg.UserAgents.Position),
		GuideURLs:         cfg.Output.GuideURLs,
	}
	writer := driven.NewPlaylistFileWriter(cfg.Output.Dir, cfg.Output.BaseName, format, logger)
	groupBy := pipeline.GroupBy(cfg.Output.GroupBy)

	curation := application.NewCurationService(
		sources,
		orchestrator,
		engine,
		writer,
		runs,
		application.CurationOptions{
			PerChannel: cfg.Output.PerChannel,
			Filter:     filterFromConfig(cfg),
			GroupBy:    groupBy,
			Retention:  cfg.Storage.Retention,
		},
		logger,
	)

	return &app{
		cfg:       cfg,
		logger:    logger,
		db:        db,
		inspector: inspector,
		cache:     cache,
		runs:      runs,
		curation:  curation,
		playlists: application.NewPlaylistService(runs, format, groupBy),
		health:    application.NewHealthService(runs, inspector),
	}, nil
}

func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		a.logger.Error("error closing database", "error", err)
	}
}

func filterFromConfig(cfg *config.Config) pipeline.Filter {
	return pipeline.Filter{
		MaxLatencyMs:   cfg.Filter.MaxLatencyMs,
		MinBitrateKbps: cfg.Filter.MinBitrateKbps,
		MustHD:         cfg.Filter.MustHD,
		Must4K:         cfg.Filter.Must4K,
		MinSpeedKBps:   cfg.Filter.MinSpeedKBps,
		MinResolution:  cfg.Filter.MinResolution,
		MaxResolution:  cfg.Filter.MaxResolution,
		Mode:           pipeline.ResolutionMode(cfg.Filter.Mode),
	}
}

func newScheduler(a *app, interval time.Duration) *application.RunScheduler {
	return application.NewRunScheduler(a.curation, interval, a.logger)
}
