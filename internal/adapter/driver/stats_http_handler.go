package driver

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/alorle/iptv-curator/internal/application"
	"github.com/alorle/iptv-curator/internal/pipeline"
	"github.com/alorle/iptv-curator/internal/run"
)

// StatsHTTPHandler reports the latest run's statistics.
type StatsHTTPHandler struct {
	service *application.PlaylistService
	logger  *slog.Logger
}

// NewStatsHTTPHandler creates a new HTTP handler for run statistics.
func NewStatsHTTPHandler(service *application.PlaylistService, logger *slog.Logger) *StatsHTTPHandler {
	return &StatsHTTPHandler{service: service, logger: logger}
}

type tierCounts struct {
	Valid     int `json:"valid"`
	Base      int `json:"base"`
	Qualified int `json:"qualified"`
}

type statsResponse struct {
	RunID          string           `json:"run_id"`
	StartedAt      string           `json:"started_at"`
	FinishedAt     string           `json:"finished_at"`
	DurationMs     int64            `json:"duration_ms"`
	Candidates     int              `json:"candidates"`
	Tiers          tierCounts       `json:"tiers"`
	Stats          pipeline.Stats   `json:"stats"`
	TopResolutions []pipeline.Count `json:"top_resolutions"`
	TopCategories  []pipeline.Count `json:"top_categories"`
}

// ServeHTTP handles GET /stats
func (h *StatsHTTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	report, err := h.service.LatestReport(r.Context())
	if err != nil {
		if errors.Is(err, run.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no curation run has completed yet")
			return
		}
		h.logger.Error("failed to load run report", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, statsResponse{
		RunID:      report.ID,
		StartedAt:  report.StartedAt.Format(time.RFC3339),
		FinishedAt: report.FinishedAt.Format(time.RFC3339),
		DurationMs: report.Duration.Milliseconds(),
		Candidates: report.Candidates,
		Tiers: tierCounts{
			Valid:     report.Valid,
			Base:      report.Base,
			Qualified: report.Qualified,
		},
		Stats:          report.Stats,
		TopResolutions: pipeline.Top(report.Stats.ByResolution, 10),
		TopCategories:  pipeline.Top(report.Stats.ByCategory, 10),
	})
}
