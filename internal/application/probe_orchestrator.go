package application

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alorle/iptv-curator/internal/probe"
	"github.com/alorle/iptv-curator/internal/source"
)

const (
	// MaxProbeWorkers is the hard ceiling on concurrent probes.
	MaxProbeWorkers = 50
	// DefaultTaskSlack is added to the probe timeout before a task is abandoned.
	DefaultTaskSlack = 15 * time.Second
)

// Prober probes one candidate. Implementations must always return a result.
type Prober interface {
	Probe(ctx context.Context, c source.Candidate) probe.Result
}

// Outcome is the probe result of one candidate.
type Outcome struct {
	Candidate source.Candidate
	Result    probe.Result
}

// OrchestratorOptions configures a ProbeOrchestrator.
type OrchestratorOptions struct {
	Concurrency  int
	ProbeTimeout time.Duration
	TaskSlack    time.Duration
}

// ProbeOrchestrator probes candidates with a fixed pool of workers.
type ProbeOrchestrator struct {
	prober Prober
	opts   OrchestratorOptions
	logger *slog.Logger
	now    func() time.Time
}

// NewProbeOrchestrator creates an orchestrator. A zero TaskSlack means
// DefaultTaskSlack.
func NewProbeOrchestrator(prober Prober, opts OrchestratorOptions, logger *slog.Logger) *ProbeOrchestrator {
	if opts.TaskSlack <= 0 {
		opts.TaskSlack = DefaultTaskSlack
	}
	return &ProbeOrchestrator{prober: prober, opts: opts, logger: logger, now: time.Now}
}

// PoolSize returns the number of workers used for n candidates:
// min(configured concurrency, NumCPU*4, MaxProbeWorkers, n), at least 1.
func (o *ProbeOrchestrator) PoolSize(n int) int {
	return max(1, min(o.opts.Concurrency, runtime.NumCPU()*4, MaxProbeWorkers, n))
}

// Run probes every candidate and returns exactly one outcome per input,
// in input order. Tasks that overrun the probe timeout plus slack are
// recorded as timed out and left to finish in the background. Once ctx is
// cancelled, remaining candidates are recorded as errors.
func (o *ProbeOrchestrator) Run(ctx context.Context, candidates []source.Candidate) []Outcome {
	outcomes := make([]Outcome, len(candidates))
	if len(candidates) == 0 {
		return outcomes
	}

	workers := o.PoolSize(len(candidates))
	o.logger.Info("probing candidates",
		"candidates", len(candidates),
		"workers", workers,
		"timeout", o.opts.ProbeTimeout)

	jobs := make(chan int, len(candidates))
	for i := range candidates {
		jobs <- i
	}
	close(jobs)

	var g errgroup.Group
	for range workers {
		g.Go(func() error {
			for i := range jobs {
				c := candidates[i]
				outcomes[i] = Outcome{Candidate: c, Result: o.probeOne(ctx, c)}
				o.logResult(c, outcomes[i].Result)
			}
			return nil
		})
	}
	_ = g.Wait()

	results := make([]probe.Result, len(outcomes))
	for i, out := range outcomes {
		results[i] = out.Result
	}
	if tally, err := probe.NewTally(results); err == nil {
		o.logger.Info("probing finished",
			"total", tally.Total(),
			"successful", tally.Successful(),
			"failed", tally.Count(probe.StatusFailed),
			"timeout", tally.Count(probe.StatusTimeout),
			"error", tally.Count(probe.StatusError),
			"success_ratio", fmt.Sprintf("%.1f%%", tally.SuccessRatio()*100),
			"avg_response_ms", int(tally.AvgResponseTime()),
			"avg_speed_kbps", fmt.Sprintf("%.1f", tally.AvgDownloadSpeed()))
	}

	return outcomes
}

// probeOne runs a single probe under the task deadline. A panic in the
// prober becomes an error result.
func (o *ProbeOrchestrator) probeOne(ctx context.Context, c source.Candidate) probe.Result {
	if err := ctx.Err(); err != nil {
		return probe.Failure(c.URL(), o.now(), probe.StatusError, err.Error())
	}

	taskCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan probe.Result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- probe.Failure(c.URL(), o.now(), probe.StatusError, fmt.Sprintf("panic: %v", r))
			}
		}()
		done <- o.prober.Probe(taskCtx, c)
	}()

	timer := time.NewTimer(o.opts.ProbeTimeout + o.opts.TaskSlack)
	defer timer.Stop()

	select {
	case r := <-done:
		return r
	case <-timer.C:
		o.logger.Error("probe abandoned after deadline", "name", c.Name(), "url", c.URL())
		return probe.Failure(c.URL(), o.now(), probe.StatusTimeout, "task deadline exceeded")
	case <-ctx.Done():
		return probe.Failure(c.URL(), o.now(), probe.StatusError, ctx.Err().Error())
	}
}

func (o *ProbeOrchestrator) logResult(c source.Candidate, r probe.Result) {
	if r.Succeeded() {
		o.logger.Info("probe succeeded",
			"name", c.Name(),
			"url", c.URL(),
			"media_type", r.MediaType(),
			"resolution", r.Resolution(),
			"response_ms", r.ResponseTimeMs(),
			"bitrate_kbps", r.BitrateKbps(),
			"speed_kbps", fmt.Sprintf("%.1f", r.DownloadSpeed()))
		return
	}
	o.logger.Error("probe failed",
		"name", c.Name(),
		"url", c.URL(),
		"status", r.Status(),
		"reason", r.Reason())
}
