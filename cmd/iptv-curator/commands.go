package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alorle/iptv-curator/internal/adapter/driver"
	"github.com/alorle/iptv-curator/internal/classify"
	"github.com/alorle/iptv-curator/internal/pipeline"
)

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

type runCommand struct{}

// Execute runs one curation batch and exits.
func (c *runCommand) Execute(args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		return err
	}
	defer a.Close()

	rec, err := a.curation.Run(ctx)
	if err != nil {
		logger.Error("curation run failed", "error", err)
		return err
	}
	logger.Info("curation run complete",
		"run_id", rec.ID(),
		"duration", rec.Duration(),
		"base", len(rec.Tiers().Base),
		"qualified", len(rec.Tiers().Qualified))
	return nil
}

type serveCommand struct {
	Interval time.Duration `long:"interval" env:"RUN_INTERVAL" description:"Time between curation runs (overrides schedule.interval)"`
}

// Execute serves playlists over HTTP and curates on a schedule until a
// termination signal arrives.
func (c *serveCommand) Execute(args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	if c.Interval > 0 {
		cfg.Schedule.Interval = c.Interval
	}

	ctx, stop := signalContext()
	defer stop()

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		return err
	}
	defer a.Close()

	a.cache.StartSweeper(ctx, cfg.Testing.CacheTTL/4, logger)

	doc, err := driver.LoadOpenAPI(ctx)
	if err != nil {
		logger.Error("startup failed", "error", err)
		return err
	}

	apiMux := http.NewServeMux()
	apiMux.Handle("/playlist.m3u", driver.NewPlaylistHTTPHandler(a.playlists, pipeline.TierBase, logger))
	apiMux.Handle("/qualified.m3u", driver.NewPlaylistHTTPHandler(a.playlists, pipeline.TierQualified, logger))
	apiMux.Handle("/health", driver.NewHealthHTTPHandler(a.health))
	apiMux.Handle("/stats", driver.NewStatsHTTPHandler(a.playlists, logger))

	mux := http.NewServeMux()
	mux.Handle("/", driver.NewRequestValidator(doc)(apiMux))
	mux.Handle("/openapi.json", driver.NewDocumentationHandler(doc))
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:         net.JoinHostPort(cfg.HTTP.Address, cfg.HTTP.Port),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	scheduler := make(chan struct{})
	go func() {
		defer close(scheduler)
		newScheduler(a, cfg.Schedule.Interval).Start(ctx)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received, shutting down gracefully")
	case err = <-serverErr:
		logger.Error("server error", "error", err)
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	<-scheduler

	logger.Info("server stopped")
	return err
}

type classifyCommand struct {
	Args struct {
		Names []string `positional-arg-name:"NAME"`
	} `positional-args:"yes"`
}

// Execute prints the classification of each name. It does not need ffprobe
// or the database.
func (c *classifyCommand) Execute(args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	engine := newEngine(cfg, logger)

	if len(c.Args.Names) == 0 {
		failed := 0
		for _, r := range engine.SelfTest(classify.DefaultSelfTestCases()) {
			if !r.Passed() {
				failed++
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d self-test cases failed", failed)
		}
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tCATEGORY\tPRIORITY\tCOUNTRY\tREGION\tPROVINCE\tLANGUAGE")
	for _, name := range c.Args.Names {
		r := engine.Classify(name)
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\t%s\n", name, r.Category, r.Priority, r.Country, r.Region, r.Province, r.Language)
	}
	return tw.Flush()
}
