package runtime

import (
	"context"
	"errors"
	"time"

	cfgpkg "github.com/vestflow/vestflow/internal/config"
	"github.com/vestflow/vestflow/internal/ledger"
	pebblestore "github.com/vestflow/vestflow/internal/storage/pebble"
	"github.com/vestflow/vestflow/internal/token"
)

// Options for building the Runtime.
type Options struct {
	DataDir       string
	Fsync         pebblestore.FsyncMode
	FsyncInterval int // milliseconds, when Fsync is interval mode
	Config        cfgpkg.Config
}

// Runtime holds the open store and the facades built over it.
type Runtime struct {
	db     *pebblestore.DB
	config cfgpkg.Config
	ledger *ledger.Ledger
	bank   *token.Bank
}

// Open initializes the underlying storage and returns a Runtime.
func Open(opts Options) (*Runtime, error) {
	db, err := pebblestore.Open(pebblestore.Options{
		DataDir:       opts.DataDir,
		Fsync:         opts.Fsync,
		FsyncInterval: time.Duration(opts.FsyncInterval) * time.Millisecond,
	})
	if err != nil {
		return nil, err
	}
	return &Runtime{
		db:     db,
		config: opts.Config,
		ledger: ledger.Open(db),
		bank:   token.NewBank(db),
	}, nil
}

// Close closes underlying resources.
func (r *Runtime) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

// CheckHealth performs a simple storage round trip.
func (r *Runtime) CheckHealth(ctx context.Context) error {
	if r.db == nil {
		return errors.New("db not open")
	}
	it, err := r.db.NewIter(nil)
	if err != nil {
		return err
	}
	return it.Close()
}

// DB exposes the underlying store for batch construction.
func (r *Runtime) DB() *pebblestore.DB { return r.db }

// Ledger returns the stream ledger facade.
func (r *Runtime) Ledger() *ledger.Ledger { return r.ledger }

// Bank returns the reference token bank.
func (r *Runtime) Bank() *token.Bank { return r.bank }

// Config returns the runtime configuration.
func (r *Runtime) Config() cfgpkg.Config { return r.config }
