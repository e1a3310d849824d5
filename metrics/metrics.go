package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ProbesTotal counts finished probes by outcome status
	ProbesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "iptv_probes_total",
		Help: "Total number of stream probes by status",
	}, []string{"status"})

	// ProbeDuration observes how long each probe took
	ProbeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "iptv_probe_duration_seconds",
		Help:    "Duration of stream probes",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 30},
	})

	// ProbeCacheLookups counts probe cache lookups by result (hit or miss)
	ProbeCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "iptv_probe_cache_lookups_total",
		Help: "Total number of probe cache lookups by result",
	}, []string{"result"})

	// ProbeCacheEntries tracks the number of cached probe results
	ProbeCacheEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "iptv_probe_cache_entries",
		Help: "Number of entries in the probe cache",
	})

	// TierSources tracks how many sources the last run kept per tier
	TierSources = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "iptv_tier_sources",
		Help: "Number of sources in each tier after the last run",
	}, []string{"tier"})

	// RunsTotal counts curation runs by result (success or error)
	RunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "iptv_runs_total",
		Help: "Total number of curation runs by result",
	}, []string{"result"})

	// LastRunTimestamp is the unix time the last successful run finished
	LastRunTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "iptv_last_run_timestamp_seconds",
		Help: "Unix time of the last successful curation run",
	})

	// RulesFallbacks counts how often the built-in minimal rules were used
	RulesFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "iptv_rules_fallback_total",
		Help: "Total number of times classification fell back to minimal rules",
	})
)

// RecordProbe records a finished probe
func RecordProbe(status string, elapsed time.Duration) {
	ProbesTotal.WithLabelValues(status).Inc()
	ProbeDuration.Observe(elapsed.Seconds())
}

// RecordCacheLookup increments the hit or miss counter
func RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	ProbeCacheLookups.WithLabelValues(result).Inc()
}

// SetCacheEntries sets the number of cached probe results
func SetCacheEntries(n int) {
	ProbeCacheEntries.Set(float64(n))
}

// SetTierSources sets the source count of a tier
func SetTierSources(tier string, n int) {
	TierSources.WithLabelValues(tier).Set(float64(n))
}

// RecordRun increments the run counter and, on success, stamps the finish time
func RecordRun(err error, finishedAt time.Time) {
	if err != nil {
		RunsTotal.WithLabelValues("error").Inc()
		return
	}
	RunsTotal.WithLabelValues("success").Inc()
	LastRunTimestamp.Set(float64(finishedAt.Unix()))
}

// RecordRulesFallback increments the rules fallback counter
func RecordRulesFallback() {
	RulesFallbacks.Inc()
}
