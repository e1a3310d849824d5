package driver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/alorle/iptv-curator/internal/application"
	"github.com/alorle/iptv-curator/internal/pipeline"
	"github.com/alorle/iptv-curator/internal/run"
)

// PlaylistHTTPHandler serves one tier of the latest run as M3U.
type PlaylistHTTPHandler struct {
	service *application.PlaylistService
	tier    pipeline.Tier
	logger  *slog.Logger
}

// NewPlaylistHTTPHandler creates a new HTTP handler for the given tier.
func NewPlaylistHTTPHandler(service *application.PlaylistService, tier pipeline.Tier, logger *slog.Logger) *PlaylistHTTPHandler {
	return &PlaylistHTTPHandler{service: service, tier: tier, logger: logger}
}

// ServeHTTP handles GET /playlist.m3u and GET /qualified.m3u
func (h *PlaylistHTTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	m3u, err := h.service.GenerateM3U(r.Context(), h.tier)
	if err != nil {
		if errors.Is(err, run.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no curation run has completed yet")
			return
		}
		h.logger.Error("failed to render playlist", "tier", h.tier, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Content-Type", "audio/x-mpegurl")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(m3u))
}
