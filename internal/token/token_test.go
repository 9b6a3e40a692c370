package token

import (
	"errors"
	"math"
	"testing"

	pebblestore "github.com/vestflow/vestflow/internal/storage/pebble"
)

func newTestBank(t *testing.T) (*Bank, *pebblestore.DB) {
	t.Helper()
	db, err := pebblestore.Open(pebblestore.Options{DataDir: t.TempDir(), Fsync: pebblestore.FsyncModeAlways})
	if err != nil {
		t.Fatalf("open pebble: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewBank(db), db
}

func balance(t *testing.T, bk *Bank, account string) int64 {
	t.Helper()
	v, err := bk.Balance(account)
	if err != nil {
		t.Fatalf("balance %s: %v", account, err)
	}
	return v
}

func TestMintAndBalance(t *testing.T) {
	bk, _ := newTestBank(t)
	if got := balance(t, bk, "GA"); got != 0 {
		t.Fatalf("unknown account must read 0, got %d", got)
	}
	if err := bk.Mint("GA", 10_000); err != nil {
		t.Fatalf("mint: %v", err)
	}
	if err := bk.Mint("GA", 500); err != nil {
		t.Fatalf("second mint: %v", err)
	}
	if got := balance(t, bk, "GA"); got != 10_500 {
		t.Fatalf("want 10500, got %d", got)
	}
}

func TestMintRejectsBadInput(t *testing.T) {
	bk, _ := newTestBank(t)
	if err := bk.Mint("", 1); !errors.Is(err, ErrInvalidAccount) {
		t.Fatalf("want ErrInvalidAccount, got %v", err)
	}
	if err := bk.Mint("GA", 0); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("want ErrInvalidAmount, got %v", err)
	}
	if err := bk.Mint("GA", -5); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("want ErrInvalidAmount for negative, got %v", err)
	}
}

func TestTransferMovesFunds(t *testing.T) {
	bk, db := newTestBank(t)
	if err := bk.Mint("GA", 1_000); err != nil {
		t.Fatalf("mint: %v", err)
	}
	b := db.NewIndexedBatch()
	if err := bk.Transfer(b, "GA", "GB", 300); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if err := db.CommitBatch(b); err != nil {
		t.Fatalf("commit: %v", err)
	}
	b.Close()
	if got := balance(t, bk, "GA"); got != 700 {
		t.Fatalf("GA: want 700, got %d", got)
	}
	if got := balance(t, bk, "GB"); got != 300 {
		t.Fatalf("GB: want 300, got %d", got)
	}
}

func TestTransferInsufficientFunds(t *testing.T) {
	bk, db := newTestBank(t)
	if err := bk.Mint("GA", 100); err != nil {
		t.Fatalf("mint: %v", err)
	}
	b := db.NewIndexedBatch()
	defer b.Close()
	if err := bk.Transfer(b, "GA", "GB", 101); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("want ErrInsufficientFunds, got %v", err)
	}
}

func TestSequentialTransfersInOneBatch(t *testing.T) {
	// Cancel settles two legs from the vault in one call; the second leg
	// must see the first leg's debit.
	bk, db := newTestBank(t)
	if err := bk.Mint(Vault, 1_000); err != nil {
		t.Fatalf("mint: %v", err)
	}
	b := db.NewIndexedBatch()
	if err := bk.Transfer(b, Vault, "GRECIPIENT", 400); err != nil {
		t.Fatalf("first leg: %v", err)
	}
	if err := bk.Transfer(b, Vault, "GSENDER", 600); err != nil {
		t.Fatalf("second leg: %v", err)
	}
	if err := bk.Transfer(b, Vault, "GX", 1); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("vault must be empty within batch, got %v", err)
	}
	if err := db.CommitBatch(b); err != nil {
		t.Fatalf("commit: %v", err)
	}
	b.Close()
	if got := balance(t, bk, Vault); got != 0 {
		t.Fatalf("vault: want 0, got %d", got)
	}
	if got := balance(t, bk, "GRECIPIENT"); got != 400 {
		t.Fatalf("recipient: want 400, got %d", got)
	}
	if got := balance(t, bk, "GSENDER"); got != 600 {
		t.Fatalf("sender: want 600, got %d", got)
	}
}

func TestAbandonedTransferLeavesBalances(t *testing.T) {
	bk, db := newTestBank(t)
	if err := bk.Mint("GA", 1_000); err != nil {
		t.Fatalf("mint: %v", err)
	}
	b := db.NewIndexedBatch()
	if err := bk.Transfer(b, "GA", "GB", 999); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	b.Close() // dropped without commit
	if got := balance(t, bk, "GA"); got != 1_000 {
		t.Fatalf("abandoned batch mutated balance: %d", got)
	}
}

func TestMintOverflowLeavesBalance(t *testing.T) {
	bk, _ := newTestBank(t)
	if err := bk.Mint("GA", math.MaxInt64); err != nil {
		t.Fatalf("mint: %v", err)
	}
	if err := bk.Mint("GA", 1); !errors.Is(err, ErrOverflow) {
		t.Fatalf("want ErrOverflow, got %v", err)
	}
	if got := balance(t, bk, "GA"); got != math.MaxInt64 {
		t.Fatalf("failed mint changed balance: %d", got)
	}
}

func TestTransferOverflowStagesNothing(t *testing.T) {
	bk, db := newTestBank(t)
	if err := bk.Mint("GA", math.MaxInt64); err != nil {
		t.Fatalf("mint: %v", err)
	}
	if err := bk.Mint("GB", 10); err != nil {
		t.Fatalf("mint: %v", err)
	}
	b := db.NewIndexedBatch()
	if err := bk.Transfer(b, "GB", "GA", 10); !errors.Is(err, ErrOverflow) {
		t.Fatalf("want ErrOverflow, got %v", err)
	}
	// the failed credit must not have staged the debit either
	if err := db.CommitBatch(b); err != nil {
		t.Fatalf("commit: %v", err)
	}
	b.Close()
	if got := balance(t, bk, "GA"); got != math.MaxInt64 {
		t.Fatalf("GA: want MaxInt64, got %d", got)
	}
	if got := balance(t, bk, "GB"); got != 10 {
		t.Fatalf("GB: want 10, got %d", got)
	}
}

func TestSelfTransferIsNoop(t *testing.T) {
	bk, db := newTestBank(t)
	if err := bk.Mint("GA", 50); err != nil {
		t.Fatalf("mint: %v", err)
	}
	b := db.NewIndexedBatch()
	if err := bk.Transfer(b, "GA", "GA", 50); err != nil {
		t.Fatalf("self transfer: %v", err)
	}
	if err := db.CommitBatch(b); err != nil {
		t.Fatalf("commit: %v", err)
	}
	b.Close()
	if got := balance(t, bk, "GA"); got != 50 {
		t.Fatalf("self transfer changed balance: %d", got)
	}
}
