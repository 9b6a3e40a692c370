package runtime

import (
	"context"
	"testing"

	cfgpkg "github.com/vestflow/vestflow/internal/config"
	pebblestore "github.com/vestflow/vestflow/internal/storage/pebble"
)

func TestOpenAndHealth(t *testing.T) {
	rt, err := Open(Options{DataDir: t.TempDir(), Fsync: pebblestore.FsyncModeAlways, Config: cfgpkg.Default()})
	if err != nil {
		t.Fatalf("open runtime: %v", err)
	}
	t.Cleanup(func() { _ = rt.Close() })

	if err := rt.CheckHealth(context.Background()); err != nil {
		t.Fatalf("health: %v", err)
	}
	if rt.Ledger() == nil || rt.Bank() == nil || rt.DB() == nil {
		t.Fatalf("facades must be wired")
	}
	if rt.Config().HTTPAddr == "" {
		t.Fatalf("config not carried")
	}
}

func TestOpenFailsWithoutDataDir(t *testing.T) {
	if _, err := Open(Options{}); err == nil {
		t.Fatalf("expected error for empty data dir")
	}
}
