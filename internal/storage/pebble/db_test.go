package pebblestore

import (
	"errors"
	"testing"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(Options{DataDir: t.TempDir(), Fsync: FsyncModeAlways})
	if err != nil {
		t.Fatalf("open pebble: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestOpenRequiresDataDir(t *testing.T) {
	if _, err := Open(Options{}); err == nil {
		t.Fatalf("expected error for empty DataDir")
	}
}

func TestSetGetRoundtrip(t *testing.T) {
	db := newTestDB(t)
	if err := db.Set([]byte("k"), []byte("v")); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := db.Get([]byte("k"))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != "v" {
		t.Fatalf("want v, got %q", got)
	}
}

func TestGetMissingReturnsNotFound(t *testing.T) {
	db := newTestDB(t)
	if _, err := db.Get([]byte("absent")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestIndexedBatchReadsOwnWrites(t *testing.T) {
	db := newTestDB(t)
	if err := db.Set([]byte("a"), []byte("1")); err != nil {
		t.Fatalf("set: %v", err)
	}
	b := db.NewIndexedBatch()
	defer b.Close()
	if err := b.Set([]byte("a"), []byte("2"), nil); err != nil {
		t.Fatalf("batch set: %v", err)
	}
	got, err := GetFrom(b, []byte("a"))
	if err != nil {
		t.Fatalf("batch get: %v", err)
	}
	if string(got) != "2" {
		t.Fatalf("batch must see staged write, got %q", got)
	}
	// DB still sees the old value until commit.
	got, err = db.Get([]byte("a"))
	if err != nil {
		t.Fatalf("db get: %v", err)
	}
	if string(got) != "1" {
		t.Fatalf("uncommitted write leaked: %q", got)
	}
	if err := db.CommitBatch(b); err != nil {
		t.Fatalf("commit: %v", err)
	}
	got, err = db.Get([]byte("a"))
	if err != nil {
		t.Fatalf("db get after commit: %v", err)
	}
	if string(got) != "2" {
		t.Fatalf("commit not applied: %q", got)
	}
}

func TestUncommittedBatchLeavesNoTrace(t *testing.T) {
	db := newTestDB(t)
	b := db.NewIndexedBatch()
	if err := b.Set([]byte("ghost"), []byte("x"), nil); err != nil {
		t.Fatalf("batch set: %v", err)
	}
	b.Close()
	if _, err := db.Get([]byte("ghost")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("abandoned batch must not persist, got %v", err)
	}
}
