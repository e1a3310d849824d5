package driven

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const sampleChunkSize = 64 * 1024

// HTTPThroughputSampler measures download speed by reading a stream for a
// fixed window. It implements the driven.ThroughputSampler port.
type HTTPThroughputSampler struct {
	client *http.Client
	logger *slog.Logger
}

// NewHTTPThroughputSampler creates a sampler. If client is nil a client
// without an overall timeout is used; the sample window bounds each read.
func NewHTTPThroughputSampler(client *http.Client, logger *slog.Logger) *HTTPThroughputSampler {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPThroughputSampler{client: client, logger: logger}
}

// Sample returns the observed download rate in KB/s, or 0 on any failure.
func (s *HTTPThroughputSampler) Sample(ctx context.Context, url, userAgent string, window time.Duration) float64 {
	ctx, cancel := context.WithTimeout(ctx, window)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Debug("speed sample request failed", "url", url, "error", err)
		return 0
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		s.logger.Debug("speed sample rejected", "url", url, "status", resp.StatusCode)
		return 0
	}

	var total int64
	buf := make([]byte, sampleChunkSize)
	for {
		n, err := resp.Body.Read(buf)
		total += int64(n)
		if err != nil {
			if !errors.Is(err, io.EOF) && ctx.Err() == nil {
				s.logger.Debug("speed sample read failed", "url", url, "error", err)
			}
			break
		}
		if time.Since(start) >= window {
			break
		}
	}

	elapsed := time.Since(start).Seconds()
	if elapsed <= 0 || total == 0 {
		return 0
	}
	return float64(total) / 1024 / elapsed
}
