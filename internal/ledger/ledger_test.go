package ledger

import (
	"errors"
	"testing"

	pebblestore "github.com/vestflow/vestflow/internal/storage/pebble"
)

func newTestLedger(t *testing.T) (*Ledger, *pebblestore.DB) {
	t.Helper()
	db, err := pebblestore.Open(pebblestore.Options{DataDir: t.TempDir(), Fsync: pebblestore.FsyncModeAlways})
	if err != nil {
		t.Fatalf("open pebble: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return Open(db), db
}

func TestInitExactlyOnce(t *testing.T) {
	l, db := newTestLedger(t)

	if _, err := l.Config(); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("want ErrNotInitialized, got %v", err)
	}

	b := db.NewIndexedBatch()
	if err := l.StageInit(b, Config{Token: "TOKEN", Admin: "GADMIN"}); err != nil {
		t.Fatalf("stage init: %v", err)
	}
	if err := db.CommitBatch(b); err != nil {
		t.Fatalf("commit: %v", err)
	}
	b.Close()

	cfg, err := l.Config()
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if cfg.Token != "TOKEN" || cfg.Admin != "GADMIN" {
		t.Fatalf("unexpected config: %+v", cfg)
	}

	b2 := db.NewIndexedBatch()
	defer b2.Close()
	if err := l.StageInit(b2, Config{Token: "OTHER", Admin: "GOTHER"}); !errors.Is(err, ErrAlreadyInitialized) {
		t.Fatalf("want ErrAlreadyInitialized, got %v", err)
	}

	// the failed attempt must not disturb the stored values
	cfg, err = l.Config()
	if err != nil {
		t.Fatalf("config after failed re-init: %v", err)
	}
	if cfg.Token != "TOKEN" || cfg.Admin != "GADMIN" {
		t.Fatalf("config changed by failed re-init: %+v", cfg)
	}
}

func TestInitVisibleWithinBatch(t *testing.T) {
	l, db := newTestLedger(t)
	b := db.NewIndexedBatch()
	defer b.Close()
	if err := l.StageInit(b, Config{Token: "T", Admin: "A"}); err != nil {
		t.Fatalf("stage init: %v", err)
	}
	if err := l.StageInit(b, Config{Token: "T2", Admin: "A2"}); !errors.Is(err, ErrAlreadyInitialized) {
		t.Fatalf("second stage in same batch: want ErrAlreadyInitialized, got %v", err)
	}
}

func TestCounterDefaultsToZero(t *testing.T) {
	l, _ := newTestLedger(t)
	next, err := l.NextID()
	if err != nil {
		t.Fatalf("next id: %v", err)
	}
	if next != 0 {
		t.Fatalf("fresh counter must be 0, got %d", next)
	}
}

func TestCounterDurableAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	db, err := pebblestore.Open(pebblestore.Options{DataDir: dir, Fsync: pebblestore.FsyncModeAlways})
	if err != nil {
		t.Fatalf("open pebble: %v", err)
	}
	l := Open(db)
	b := db.NewIndexedBatch()
	if err := l.StageNextID(b, 5); err != nil {
		t.Fatalf("stage counter: %v", err)
	}
	if err := db.CommitBatch(b); err != nil {
		t.Fatalf("commit: %v", err)
	}
	b.Close()
	if err := db.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	db2, err := pebblestore.Open(pebblestore.Options{DataDir: dir, Fsync: pebblestore.FsyncModeAlways})
	if err != nil {
		t.Fatalf("reopen pebble: %v", err)
	}
	t.Cleanup(func() { _ = db2.Close() })
	next, err := Open(db2).NextID()
	if err != nil {
		t.Fatalf("next id: %v", err)
	}
	if next != 5 {
		t.Fatalf("counter lost across reopen: want 5, got %d", next)
	}
}

func TestStreamRoundtripAndListing(t *testing.T) {
	l, db := newTestLedger(t)

	if _, err := l.Stream(0); !errors.Is(err, ErrStreamNotFound) {
		t.Fatalf("want ErrStreamNotFound, got %v", err)
	}

	for id := uint64(0); id < 3; id++ {
		s := sampleStream()
		s.ID = id
		b := db.NewIndexedBatch()
		if err := l.StageStream(b, s); err != nil {
			t.Fatalf("stage stream %d: %v", id, err)
		}
		if err := db.CommitBatch(b); err != nil {
			t.Fatalf("commit %d: %v", id, err)
		}
		b.Close()
	}

	got, err := l.Stream(1)
	if err != nil {
		t.Fatalf("stream 1: %v", err)
	}
	if got.ID != 1 || got.Sender != "GSENDER" {
		t.Fatalf("unexpected record: %+v", got)
	}

	all, err := l.Streams()
	if err != nil {
		t.Fatalf("streams: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("want 3 streams, got %d", len(all))
	}
	for i, s := range all {
		if s.ID != uint64(i) {
			t.Fatalf("listing out of order: index %d has id %d", i, s.ID)
		}
	}
}
