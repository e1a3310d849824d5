package driven

import (
	"context"
	"time"

	"github.com/alorle/iptv-curator/internal/run"
)

// RunRepository defines the interface for curation run persistence.
// This is a driven port implemented by concrete adapters (e.g., BoltDB).
type RunRepository interface {
	// Save persists a run record.
	Save(ctx context.Context, r run.Record) error

	// Latest returns the most recently started run.
	// Returns run.ErrNotFound when nothing has been stored.
	Latest(ctx context.Context) (run.Record, error)

	// FindByID returns the run with the given id.
	// Returns run.ErrNotFound if it does not exist.
	FindByID(ctx context.Context, id string) (run.Record, error)

	// DeleteBefore removes all runs started before the given time and
	// returns how many were removed.
	DeleteBefore(ctx context.Context, before time.Time) (int, error)
}
