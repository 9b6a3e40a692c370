package token

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/cockroachdb/pebble"

	pebblestore "github.com/vestflow/vestflow/internal/storage/pebble"
)

// Vault is the custody account holding escrowed deposits. The leading "@"
// keeps it out of the caller address space.
const Vault = "@vault"

// Transfer failures surfaced to the engine.
var (
	ErrInsufficientFunds = errors.New("token: insufficient funds")
	ErrInvalidAmount     = errors.New("token: amount must be positive")
	ErrInvalidAccount    = errors.New("token: empty account address")
	ErrOverflow          = errors.New("token: balance overflow")
)

// Service is the external token-transfer boundary. Implementations must
// fully apply or fully reject a transfer; the engine treats any error as a
// reason to abort the whole call.
type Service interface {
	// Transfer stages a movement of amount from one account to another
	// into b. Nothing is durable until the caller commits the batch.
	Transfer(b *pebble.Batch, from, to string, amount int64) error
	// Balance returns the committed balance of an account (0 when unknown).
	Balance(account string) (int64, error)
}

// Bank is the reference Service: per-address balances persisted in Pebble.
type Bank struct {
	db *pebblestore.DB
}

// NewBank returns a Bank over the given store.
func NewBank(db *pebblestore.DB) *Bank { return &Bank{db: db} }

var acctPrefix = []byte("acct/")

func acctKey(account string) []byte {
	k := make([]byte, 0, len(acctPrefix)+len(account))
	k = append(k, acctPrefix...)
	return append(k, account...)
}

func decodeBalance(raw []byte) (int64, error) {
	if len(raw) != 8 {
		return 0, fmt.Errorf("token: corrupt balance record (%d bytes)", len(raw))
	}
	return int64(binary.BigEndian.Uint64(raw)), nil
}

func encodeBalance(v int64) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(v))
	return buf[:]
}

// addChecked adds two non-negative amounts, failing instead of wrapping.
// Balances are never negative, so a negative sum always means overflow.
func addChecked(a, b int64) (int64, error) {
	if a > math.MaxInt64-b {
		return 0, ErrOverflow
	}
	return a + b, nil
}

func balanceFrom(r pebble.Reader, account string) (int64, error) {
	raw, err := pebblestore.GetFrom(r, acctKey(account))
	if err != nil {
		if errors.Is(err, pebblestore.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return decodeBalance(raw)
}

// Transfer implements Service. Balances are read through the batch so
// earlier staged movements in the same call are observed.
func (bk *Bank) Transfer(b *pebble.Batch, from, to string, amount int64) error {
	if from == "" || to == "" {
		return ErrInvalidAccount
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if from == to {
		return nil
	}
	fromBal, err := balanceFrom(b, from)
	if err != nil {
		return err
	}
	if fromBal < amount {
		return fmt.Errorf("%w: %s has %d, needs %d", ErrInsufficientFunds, from, fromBal, amount)
	}
	toBal, err := balanceFrom(b, to)
	if err != nil {
		return err
	}
	credited, err := addChecked(toBal, amount)
	if err != nil {
		return fmt.Errorf("%w: crediting %s with %d", ErrOverflow, to, amount)
	}
	if err := b.Set(acctKey(from), encodeBalance(fromBal-amount), nil); err != nil {
		return err
	}
	return b.Set(acctKey(to), encodeBalance(credited), nil)
}

// Balance implements Service.
func (bk *Bank) Balance(account string) (int64, error) {
	if account == "" {
		return 0, ErrInvalidAccount
	}
	raw, err := bk.db.Get(acctKey(account))
	if err != nil {
		if errors.Is(err, pebblestore.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return decodeBalance(raw)
}

// Mint credits an account directly, committing immediately. It exists for
// operators and test harnesses; stream settlement never mints.
func (bk *Bank) Mint(to string, amount int64) error {
	if to == "" {
		return ErrInvalidAccount
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}
	b := bk.db.NewIndexedBatch()
	defer b.Close()
	bal, err := balanceFrom(b, to)
	if err != nil {
		return err
	}
	credited, err := addChecked(bal, amount)
	if err != nil {
		return fmt.Errorf("%w: crediting %s with %d", ErrOverflow, to, amount)
	}
	if err := b.Set(acctKey(to), encodeBalance(credited), nil); err != nil {
		return err
	}
	return bk.db.CommitBatch(b)
}
