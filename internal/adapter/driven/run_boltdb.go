package driven

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"time"

	"go.etcd.io/bbolt"

	"github.com/alorle/iptv-curator/internal/classify"
	"github.com/alorle/iptv-curator/internal/pipeline"
	"github.com/alorle/iptv-curator/internal/probe"
	"github.com/alorle/iptv-curator/internal/run"
	"github.com/alorle/iptv-curator/internal/source"
)

const (
	runsBucket   = "runs"
	runIDsBucket = "run_ids"
)

// RunBoltDBRepository implements the RunRepository port using BoltDB.
// Runs are keyed by start timestamp; a second bucket maps run ids to
// those keys.
type RunBoltDBRepository struct {
	db *bbolt.DB
}

// NewRunBoltDBRepository creates a new BoltDB-backed run repository.
// It initializes the required buckets if they don't exist.
func NewRunBoltDBRepository(db *bbolt.DB) (*RunBoltDBRepository, error) {
	if db == nil {
		return nil, errors.New("db cannot be nil")
	}

	err := db.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{runsBucket, runIDsBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &RunBoltDBRepository{db: db}, nil
}

type sourceDTO struct {
	Name      string `json:"name"`
	URL       string `json:"url"`
	Logo      string `json:"logo,omitempty"`
	Group     string `json:"group,omitempty"`
	Origin    string `json:"origin"`
	UserAgent string `json:"user_agent,omitempty"`
	Path      string `json:"path,omitempty"`

	CheckedAt      int64          `json:"checked_at"`
	Status         string         `json:"status"`
	ResponseTimeMs int            `json:"response_time_ms"`
	Metadata       probe.Metadata `json:"metadata"`
	DownloadSpeed  float64        `json:"download_speed"`
	MediaType      string         `json:"media_type"`
	Reason         string         `json:"reason,omitempty"`

	Classification classify.Result `json:"classification"`
}

// runDTO is the JSON serialization format for a run record. Base and
// qualified tiers are stored as indexes into the valid tier.
type runDTO struct {
	ID         string         `json:"id"`
	StartedAt  int64          `json:"started_at"`
	FinishedAt int64          `json:"finished_at"`
	Candidates int            `json:"candidates"`
	Stats      pipeline.Stats `json:"stats"`
	Valid      []sourceDTO    `json:"valid"`
	Base       []int          `json:"base"`
	Qualified  []int          `json:"qualified"`
}

// Save persists a run record, replacing any run with the same id.
func (r *RunBoltDBRepository) Save(ctx context.Context, rec run.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(recordToDTO(rec))
	if err != nil {
		return err
	}

	return r.db.Update(func(tx *bbolt.Tx) error {
		runs := tx.Bucket([]byte(runsBucket))
		ids := tx.Bucket([]byte(runIDsBucket))
		if runs == nil || ids == nil {
			return errors.New("runs bucket not found")
		}

		if old := ids.Get([]byte(rec.ID())); old != nil {
			if err := runs.Delete(old); err != nil {
				return err
			}
		}

		key := timestampToKey(rec.StartedAt())
		if err := runs.Put(key, data); err != nil {
			return err
		}
		return ids.Put([]byte(rec.ID()), key)
	})
}

// Latest returns the most recently started run.
func (r *RunBoltDBRepository) Latest(ctx context.Context) (run.Record, error) {
	if err := ctx.Err(); err != nil {
		return run.Record{}, err
	}

	var rec run.Record
	err := r.db.View(func(tx *bbolt.Tx) error {
		runs := tx.Bucket([]byte(runsBucket))
		if runs == nil {
			return errors.New("runs bucket not found")
		}

		k, v := runs.Cursor().Last()
		if k == nil {
			return run.ErrNotFound
		}

		var err error
		rec, err = dtoToRecord(v)
		return err
	})
	return rec, err
}

// FindByID returns the run with the given id.
func (r *RunBoltDBRepository) FindByID(ctx context.Context, id string) (run.Record, error) {
	if err := ctx.Err(); err != nil {
		return run.Record{}, err
	}

	var rec run.Record
	err := r.db.View(func(tx *bbolt.Tx) error {
		runs := tx.Bucket([]byte(runsBucket))
		ids := tx.Bucket([]byte(runIDsBucket))
		if runs == nil || ids == nil {
			return errors.New("runs bucket not found")
		}

		key := ids.Get([]byte(id))
		if key == nil {
			return run.ErrNotFound
		}
		v := runs.Get(key)
		if v == nil {
			return run.ErrNotFound
		}

		var err error
		rec, err = dtoToRecord(v)
		return err
	})
	return rec, err
}

// DeleteBefore removes all runs started before the given time.
func (r *RunBoltDBRepository) DeleteBefore(ctx context.Context, before time.Time) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	deleted := 0
	err := r.db.Update(func(tx *bbolt.Tx) error {
		runs := tx.Bucket([]byte(runsBucket))
		ids := tx.Bucket([]byte(runIDsBucket))
		if runs == nil || ids == nil {
			return errors.New("runs bucket not found")
		}

		beforeKey := timestampToKey(before)

		// Collect keys to delete (can't delete during iteration)
		var stale [][]byte
		c := runs.Cursor()
		for k, _ := c.First(); k != nil && compareKeys(k, beforeKey) < 0; k, _ = c.Next() {
			stale = append(stale, append([]byte(nil), k...))
		}

		staleSet := make(map[string]struct{}, len(stale))
		for _, k := range stale {
			staleSet[string(k)] = struct{}{}
			if err := runs.Delete(k); err != nil {
				return err
			}
		}

		var staleIDs [][]byte
		err := ids.ForEach(func(id, key []byte) error {
			if _, ok := staleSet[string(key)]; ok {
				staleIDs = append(staleIDs, append([]byte(nil), id...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, id := range staleIDs {
			if err := ids.Delete(id); err != nil {
				return err
			}
		}

		deleted = len(stale)
		return nil
	})
	return deleted, err
}

// Ping verifies the database can serve a read transaction.
func (r *RunBoltDBRepository) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.db.View(func(tx *bbolt.Tx) error {
		if tx.Bucket([]byte(runsBucket)) == nil {
			return errors.New("runs bucket not found")
		}
		return nil
	})
}

// timestampToKey converts a time.Time to an 8-byte big-endian key.
// This ensures chronological ordering in BoltDB's byte-sorted keys.
func timestampToKey(t time.Time) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(t.UnixNano()))
	return key
}

// compareKeys compares two 8-byte big-endian keys.
func compareKeys(a, b []byte) int {
	va := binary.BigEndian.Uint64(a)
	vb := binary.BigEndian.Uint64(b)
	switch {
	case va < vb:
		return -1
	case va > vb:
		return 1
	}
	return 0
}

func sourceToDTO(s pipeline.Source) sourceDTO {
	c, p := s.Candidate(), s.Probe()
	return sourceDTO{
		Name:           c.Name(),
		URL:            c.URL(),
		Logo:           c.Logo(),
		Group:          c.Group(),
		Origin:         string(c.Origin()),
		UserAgent:      c.UserAgent(),
		Path:           c.Path(),
		CheckedAt:      p.CheckedAt().UnixNano(),
		Status:         string(p.Status()),
		ResponseTimeMs: p.ResponseTimeMs(),
		Metadata:       p.Metadata(),
		DownloadSpeed:  p.DownloadSpeed(),
		MediaType:      string(p.MediaType()),
		Reason:         p.Reason(),
		Classification: s.Classification(),
	}
}

func dtoToSource(d sourceDTO) pipeline.Source {
	c := source.ReconstructCandidate(d.Name, d.URL, source.Attributes{
		Logo:      d.Logo,
		Group:     d.Group,
		Origin:    source.Origin(d.Origin),
		UserAgent: d.UserAgent,
		Path:      d.Path,
	})
	p := probe.ReconstructResult(
		d.URL,
		time.Unix(0, d.CheckedAt),
		probe.Status(d.Status),
		d.ResponseTimeMs,
		d.Metadata,
		d.DownloadSpeed,
		probe.MediaType(d.MediaType),
		d.Reason,
	)
	return pipeline.NewSource(c, p, d.Classification)
}

func recordToDTO(rec run.Record) runDTO {
	tiers := rec.Tiers()
	dto := runDTO{
		ID:         rec.ID(),
		StartedAt:  rec.StartedAt().UnixNano(),
		FinishedAt: rec.FinishedAt().UnixNano(),
		Candidates: rec.Candidates(),
		Stats:      rec.Stats(),
		Valid:      make([]sourceDTO, len(tiers.Valid)),
	}

	index := make(map[string]int, len(tiers.Valid))
	for i, s := range tiers.Valid {
		dto.Valid[i] = sourceToDTO(s)
		index[s.Candidate().Key()] = i
	}
	dto.Base = indexesOf(tiers.Base, index)
	dto.Qualified = indexesOf(tiers.Qualified, index)
	return dto
}

func indexesOf(sources []pipeline.Source, index map[string]int) []int {
	out := make([]int, 0, len(sources))
	for _, s := range sources {
		if i, ok := index[s.Candidate().Key()]; ok {
			out = append(out, i)
		}
	}
	return out
}

// dtoToRecord deserializes a JSON value into a run.Record.
func dtoToRecord(data []byte) (run.Record, error) {
	var dto runDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return run.Record{}, err
	}

	valid := make([]pipeline.Source, len(dto.Valid))
	for i, d := range dto.Valid {
		valid[i] = dtoToSource(d)
	}
	pick := func(idx []int) []pipeline.Source {
		out := make([]pipeline.Source, 0, len(idx))
		for _, i := range idx {
			if i >= 0 && i < len(valid) {
				out = append(out, valid[i])
			}
		}
		return out
	}

	return run.ReconstructRecord(
		dto.ID,
		time.Unix(0, dto.StartedAt),
		time.Unix(0, dto.FinishedAt),
		dto.Candidates,
		dto.Stats,
		pipeline.Tiers{Valid: valid, Base: pick(dto.Base), Qualified: pick(dto.Qualified)},
	), nil
}
