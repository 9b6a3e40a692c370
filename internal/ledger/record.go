package ledger

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"math"
)

// Stream record encoding: u8 version | fields | crc32c(version|fields).
//
// Fields are fixed-width big-endian integers except the two addresses, which
// are uvarint-length-prefixed byte strings. Amounts are int64 stored as
// two's-complement u64.

const recordVersion = 1

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// ErrCorruptRecord is returned when a stored stream record fails its
// checksum or cannot be parsed.
var ErrCorruptRecord = errors.New("ledger: corrupt stream record")

func appendUvarint(dst []byte, v uint64) []byte {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	return append(dst, tmp[:n]...)
}

func appendString(dst []byte, s string) []byte {
	dst = appendUvarint(dst, uint64(len(s)))
	return append(dst, s...)
}

// EncodeStream serializes s with a trailing crc32c.
func EncodeStream(s *Stream) []byte {
	out := make([]byte, 0, 96+len(s.Sender)+len(s.Recipient))
	out = append(out, recordVersion)
	out = appendBE8(out, s.ID)
	out = appendString(out, s.Sender)
	out = appendString(out, s.Recipient)
	out = appendBE8(out, uint64(s.DepositAmount))
	out = appendBE8(out, uint64(s.RatePerSecond))
	out = appendBE8(out, s.StartTime)
	out = appendBE8(out, s.CliffTime)
	out = appendBE8(out, s.EndTime)
	out = appendBE8(out, uint64(s.WithdrawnAmount))
	out = appendBE8(out, s.PausedTotal)
	out = appendBE8(out, s.PausedSince)
	out = append(out, byte(s.Status))

	crc := crc32.Checksum(out, castagnoli)
	var crcb [4]byte
	binary.BigEndian.PutUint32(crcb[:], crc)
	return append(out, crcb[:]...)
}

type reader struct {
	b []byte
}

func (r *reader) u64() (uint64, error) {
	if len(r.b) < 8 {
		return 0, ErrCorruptRecord
	}
	v := binary.BigEndian.Uint64(r.b[:8])
	r.b = r.b[8:]
	return v, nil
}

func (r *reader) str() (string, error) {
	n, w := binary.Uvarint(r.b)
	if w <= 0 || n > math.MaxInt32 || uint64(len(r.b)-w) < n {
		return "", ErrCorruptRecord
	}
	s := string(r.b[w : w+int(n)])
	r.b = r.b[w+int(n):]
	return s, nil
}

func (r *reader) u8() (byte, error) {
	if len(r.b) < 1 {
		return 0, ErrCorruptRecord
	}
	v := r.b[0]
	r.b = r.b[1:]
	return v, nil
}

// DecodeStream parses a record previously produced by EncodeStream,
// verifying the checksum.
func DecodeStream(b []byte) (*Stream, error) {
	if len(b) < 1+4 {
		return nil, ErrCorruptRecord
	}
	body, tail := b[:len(b)-4], b[len(b)-4:]
	if crc32.Checksum(body, castagnoli) != binary.BigEndian.Uint32(tail) {
		return nil, ErrCorruptRecord
	}
	if body[0] != recordVersion {
		return nil, fmt.Errorf("%w: unknown version %d", ErrCorruptRecord, body[0])
	}

	r := &reader{b: body[1:]}
	var s Stream
	var err error
	if s.ID, err = r.u64(); err != nil {
		return nil, err
	}
	if s.Sender, err = r.str(); err != nil {
		return nil, err
	}
	if s.Recipient, err = r.str(); err != nil {
		return nil, err
	}
	var v uint64
	if v, err = r.u64(); err != nil {
		return nil, err
	}
	s.DepositAmount = int64(v)
	if v, err = r.u64(); err != nil {
		return nil, err
	}
	s.RatePerSecond = int64(v)
	if s.StartTime, err = r.u64(); err != nil {
		return nil, err
	}
	if s.CliffTime, err = r.u64(); err != nil {
		return nil, err
	}
	if s.EndTime, err = r.u64(); err != nil {
		return nil, err
	}
	if v, err = r.u64(); err != nil {
		return nil, err
	}
	s.WithdrawnAmount = int64(v)
	if s.PausedTotal, err = r.u64(); err != nil {
		return nil, err
	}
	if s.PausedSince, err = r.u64(); err != nil {
		return nil, err
	}
	st, err := r.u8()
	if err != nil {
		return nil, err
	}
	if st > uint8(StatusCompleted) {
		return nil, fmt.Errorf("%w: bad status %d", ErrCorruptRecord, st)
	}
	s.Status = Status(st)
	if len(r.b) != 0 {
		return nil, ErrCorruptRecord
	}
	return &s, nil
}
