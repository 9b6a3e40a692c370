package ledger

import (
	"encoding/binary"
	"encoding/json"
	"errors"

	"github.com/cockroachdb/pebble"

	pebblestore "github.com/vestflow/vestflow/internal/storage/pebble"
)

// Configuration lifecycle errors.
var (
	ErrAlreadyInitialized = errors.New("ledger: already initialized")
	ErrNotInitialized     = errors.New("ledger: not initialized")
	ErrStreamNotFound     = errors.New("ledger: stream not found")
)

// Ledger provides typed access to VestFlow's persisted records. All
// mutations are staged into a caller-supplied indexed batch so an operation
// commits atomically with everything else it touches.
type Ledger struct {
	db *pebblestore.DB
}

// Open returns a Ledger over the given store.
func Open(db *pebblestore.DB) *Ledger { return &Ledger{db: db} }

// StageInit writes the singleton config into b. Fails with
// ErrAlreadyInitialized when a config record exists (committed, or staged
// earlier in the same batch).
func (l *Ledger) StageInit(b *pebble.Batch, cfg Config) error {
	if _, err := pebblestore.GetFrom(b, keyConfig); err == nil {
		return ErrAlreadyInitialized
	} else if !errors.Is(err, pebblestore.ErrNotFound) {
		return err
	}
	raw, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	return b.Set(keyConfig, raw, nil)
}

// Config returns the installed config, or ErrNotInitialized.
func (l *Ledger) Config() (Config, error) {
	raw, err := l.db.Get(keyConfig)
	if err != nil {
		if errors.Is(err, pebblestore.ErrNotFound) {
			return Config{}, ErrNotInitialized
		}
		return Config{}, err
	}
	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Initialized reports whether the config record exists.
func (l *Ledger) Initialized() (bool, error) {
	_, err := l.db.Get(keyConfig)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, pebblestore.ErrNotFound) {
		return false, nil
	}
	return false, err
}

// NextID returns the id the next created stream will be assigned. Ids are
// dense and start at 0; the counter only advances when a creation commits.
func (l *Ledger) NextID() (uint64, error) {
	raw, err := l.db.Get(keyCounter)
	if err != nil {
		if errors.Is(err, pebblestore.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	if len(raw) != 8 {
		return 0, ErrCorruptRecord
	}
	return binary.BigEndian.Uint64(raw), nil
}

// StageNextID stages the counter value that will apply after the batch
// commits.
func (l *Ledger) StageNextID(b *pebble.Batch, next uint64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], next)
	return b.Set(keyCounter, buf[:], nil)
}

// StageStream stages the full stream record (create or update).
func (l *Ledger) StageStream(b *pebble.Batch, s *Stream) error {
	return b.Set(keyStream(s.ID), EncodeStream(s), nil)
}

// Stream loads a stream record by id.
func (l *Ledger) Stream(id uint64) (*Stream, error) {
	raw, err := l.db.Get(keyStream(id))
	if err != nil {
		if errors.Is(err, pebblestore.ErrNotFound) {
			return nil, ErrStreamNotFound
		}
		return nil, err
	}
	return DecodeStream(raw)
}

// Streams returns all stream records in ascending id order.
func (l *Ledger) Streams() ([]*Stream, error) {
	start, end := streamKeyRange()
	it, err := l.db.NewIter(&pebble.IterOptions{LowerBound: start, UpperBound: end})
	if err != nil {
		return nil, err
	}
	defer it.Close()

	var out []*Stream
	for it.First(); it.Valid(); it.Next() {
		s, err := DecodeStream(it.Value())
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := it.Error(); err != nil {
		return nil, err
	}
	return out, nil
}
