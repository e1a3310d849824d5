// Package run describes one complete curation pass and its outcome.
package run

import (
	"strings"
	"time"

	"github.com/alorle/iptv-curator/internal/pipeline"
)

// Record is the outcome of a curation run. It is an immutable value object.
type Record struct {
	id         string
	startedAt  time.Time
	finishedAt time.Time
	candidates int
	stats      pipeline.Stats
	tiers      pipeline.Tiers
}

// NewRecord creates a Record with validation.
func NewRecord(
	id string,
	startedAt, finishedAt time.Time,
	candidates int,
	stats pipeline.Stats,
	tiers pipeline.Tiers,
) (Record, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Record{}, ErrEmptyID
	}
	if startedAt.IsZero() || finishedAt.IsZero() || finishedAt.Before(startedAt) {
		return Record{}, ErrInvalidTimestamp
	}
	return Record{
		id:         id,
		startedAt:  startedAt,
		finishedAt: finishedAt,
		candidates: candidates,
		stats:      stats,
		tiers:      tiers,
	}, nil
}

// ReconstructRecord rebuilds a Record from persisted state.
// Intended for repository adapters only, it bypasses validation.
func ReconstructRecord(
	id string,
	startedAt, finishedAt time.Time,
	candidates int,
	stats pipeline.Stats,
	tiers pipeline.Tiers,
) Record {
	return Record{
		id:         id,
		startedAt:  startedAt,
		finishedAt: finishedAt,
		candidates: candidates,
		stats:      stats,
		tiers:      tiers,
	}
}

func (r Record) ID() string              { return r.id }
func (r Record) StartedAt() time.Time    { return r.startedAt }
func (r Record) FinishedAt() time.Time   { return r.finishedAt }
func (r Record) Duration() time.Duration { return r.finishedAt.Sub(r.startedAt) }
func (r Record) Candidates() int         { return r.candidates }
func (r Record) Stats() pipeline.Stats   { return r.stats }
func (r Record) Tiers() pipeline.Tiers   { return r.tiers }
