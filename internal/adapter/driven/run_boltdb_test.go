package driven

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.etcd.io/bbolt"

	"github.com/alorle/iptv-curator/internal/classify"
	"github.com/alorle/iptv-curator/internal/pipeline"
	"github.com/alorle/iptv-curator/internal/probe"
	"github.com/alorle/iptv-curator/internal/run"
	"github.com/alorle/iptv-curator/internal/source"
)

func setupTestDB(t *testing.T) (*bbolt.DB, func()) {
	t.Helper()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	cleanup := func() {
		db.Close()
		os.RemoveAll(tmpDir)
	}

	return db, cleanup
}

func newStoredSource(t *testing.T, name, url string, speed float64) pipeline.Source {
	t.Helper()
	c, err := source.NewCandidate(name, url, source.Attributes{Group: "央视", Origin: source.OriginOnline})
	if err != nil {
		t.Fatalf("NewCandidate: %v", err)
	}
	meta := probe.Metadata{HasVideo: true, HasAudio: true, Width: 1920, Height: 1080, VideoCodec: "h264", BitrateKbps: 4000}
	r, err := probe.NewSuccess(url, time.Unix(1700000000, 0), 250*time.Millisecond, meta, speed, probe.MediaTypeVideo)
	if err != nil {
		t.Fatalf("NewSuccess: %v", err)
	}
	class := classify.Result{Category: classify.CategoryNational, Priority: 1, Continent: "Asia", Country: "CN", Language: "zh"}
	return pipeline.NewSource(c, r, class)
}

func newStoredRun(t *testing.T, id string, started time.Time) run.Record {
	t.Helper()
	a := newStoredSource(t, "CCTV-1", "http://example.com/a", 500)
	b := newStoredSource(t, "CCTV-1", "http://example.com/b", 20)
	tiers := pipeline.Tiers{
		Valid:     []pipeline.Source{a, b},
		Base:      []pipeline.Source{a, b},
		Qualified: []pipeline.Source{a},
	}
	rec, err := run.NewRecord(id, started, started.Add(time.Minute), 3, pipeline.Summarize(tiers.Valid), tiers)
	if err != nil {
		t.Fatalf("NewRecord: %v", err)
	}
	return rec
}

func TestNewRunBoltDBRepository(t *testing.T) {
	t.Run("nil db returns error", func(t *testing.T) {
		_, err := NewRunBoltDBRepository(nil)
		if err == nil {
			t.Fatal("expected error for nil db, got nil")
		}
	})

	t.Run("valid db succeeds", func(t *testing.T) {
		db, cleanup := setupTestDB(t)
		defer cleanup()

		repo, err := NewRunBoltDBRepository(db)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := repo.Ping(context.Background()); err != nil {
			t.Errorf("Ping() = %v", err)
		}
	})
}

func TestRunBoltDBRepository_SaveAndLatest(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo, err := NewRunBoltDBRepository(db)
	if err != nil {
		t.Fatalf("failed to create repo: %v", err)
	}
	ctx := context.Background()

	if _, err := repo.Latest(ctx); !errors.Is(err, run.ErrNotFound) {
		t.Fatalf("Latest() on empty db = %v, want ErrNotFound", err)
	}

	base := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	older := newStoredRun(t, "run-old", base)
	newer := newStoredRun(t, "run-new", base.Add(time.Hour))

	for _, rec := range []run.Record{newer, older} {
		if err := repo.Save(ctx, rec); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	got, err := repo.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if got.ID() != "run-new" {
		t.Errorf("Latest().ID() = %q, want run-new", got.ID())
	}
	if !got.StartedAt().Equal(newer.StartedAt()) {
		t.Errorf("StartedAt() = %v, want %v", got.StartedAt(), newer.StartedAt())
	}
	if got.Candidates() != 3 {
		t.Errorf("Candidates() = %d, want 3", got.Candidates())
	}

	tiers := got.Tiers()
	if len(tiers.Valid) != 2 || len(tiers.Base) != 2 || len(tiers.Qualified) != 1 {
		t.Fatalf("tier sizes = %d/%d/%d, want 2/2/1", len(tiers.Valid), len(tiers.Base), len(tiers.Qualified))
	}

	q := tiers.Qualified[0]
	if q.URL() != "http://example.com/a" {
		t.Errorf("qualified URL = %q", q.URL())
	}
	if q.Candidate().Group() != "央视" || q.Candidate().Origin() != source.OriginOnline {
		t.Errorf("candidate attributes lost: %+v", q.Candidate().Attributes())
	}
	if q.Probe().Metadata().VideoCodec != "h264" || q.Resolution() != "1920x1080" {
		t.Errorf("metadata lost: %+v", q.Probe().Metadata())
	}
	if q.Probe().ResponseTimeMs() != 250 || q.Probe().DownloadSpeed() != 500 {
		t.Errorf("probe figures lost: %d ms, %v KB/s", q.Probe().ResponseTimeMs(), q.Probe().DownloadSpeed())
	}
	if q.Category() != classify.CategoryNational {
		t.Errorf("Category() = %q", q.Category())
	}
	if got.Stats().ByStatus[probe.StatusSuccess] != 2 {
		t.Errorf("Stats().ByStatus = %v", got.Stats().ByStatus)
	}
}

func TestRunBoltDBRepository_FindByID(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo, err := NewRunBoltDBRepository(db)
	if err != nil {
		t.Fatalf("failed to create repo: %v", err)
	}
	ctx := context.Background()

	rec := newStoredRun(t, "run-1", time.Now())
	if err := repo.Save(ctx, rec); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := repo.FindByID(ctx, "run-1")
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if got.ID() != "run-1" {
		t.Errorf("ID() = %q", got.ID())
	}

	if _, err := repo.FindByID(ctx, "missing"); !errors.Is(err, run.ErrNotFound) {
		t.Errorf("FindByID(missing) = %v, want ErrNotFound", err)
	}
}

func TestRunBoltDBRepository_SaveReplacesSameID(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo, err := NewRunBoltDBRepository(db)
	if err != nil {
		t.Fatalf("failed to create repo: %v", err)
	}
	ctx := context.Background()

	start := time.Now()
	if err := repo.Save(ctx, newStoredRun(t, "run-1", start)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := repo.Save(ctx, newStoredRun(t, "run-1", start.Add(time.Second))); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	n, err := repo.DeleteBefore(ctx, start.Add(time.Hour))
	if err != nil {
		t.Fatalf("DeleteBefore failed: %v", err)
	}
	if n != 1 {
		t.Errorf("DeleteBefore removed %d runs, want 1", n)
	}
}

func TestRunBoltDBRepository_DeleteBefore(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo, err := NewRunBoltDBRepository(db)
	if err != nil {
		t.Fatalf("failed to create repo: %v", err)
	}
	ctx := context.Background()

	now := time.Now()
	for i, id := range []string{"a", "b", "c"} {
		rec := newStoredRun(t, id, now.Add(time.Duration(-i)*24*time.Hour))
		if err := repo.Save(ctx, rec); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	n, err := repo.DeleteBefore(ctx, now.Add(-12*time.Hour))
	if err != nil {
		t.Fatalf("DeleteBefore failed: %v", err)
	}
	if n != 2 {
		t.Errorf("DeleteBefore removed %d runs, want 2", n)
	}

	if _, err := repo.FindByID(ctx, "b"); !errors.Is(err, run.ErrNotFound) {
		t.Errorf("FindByID(b) = %v, want ErrNotFound", err)
	}
	got, err := repo.Latest(ctx)
	if err != nil || got.ID() != "a" {
		t.Errorf("Latest() = %v, %v, want run a", got.ID(), err)
	}
}

func TestRunBoltDBRepository_CancelledContext(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo, err := NewRunBoltDBRepository(db)
	if err != nil {
		t.Fatalf("failed to create repo: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := repo.Save(ctx, newStoredRun(t, "x", time.Now())); !errors.Is(err, context.Canceled) {
		t.Errorf("Save() = %v, want context.Canceled", err)
	}
	if _, err := repo.Latest(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Latest() = %v, want context.Canceled", err)
	}
}
