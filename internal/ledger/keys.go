package ledger

import "encoding/binary"

// Keyspace helpers for Pebble keys.
//
// Layout (byte-wise, lexicographically sortable):
// - vest/cfg              singleton engine config (JSON)
// - vest/ctr              next stream id (big-endian u64)
// - vest/s/{id_be8}       stream record (binary, crc-framed)

var (
	keyConfig    = []byte("vest/cfg")
	keyCounter   = []byte("vest/ctr")
	streamPrefix = []byte("vest/s/")
)

func appendBE8(dst []byte, v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return append(dst, b[:]...)
}

// keyStream builds the record key with a big-endian id for ordered iteration.
func keyStream(id uint64) []byte {
	k := make([]byte, 0, len(streamPrefix)+8)
	k = append(k, streamPrefix...)
	k = appendBE8(k, id)
	return k
}

// streamKeyRange returns the [start, end) bounds covering all stream records.
func streamKeyRange() (start, end []byte) {
	start = append([]byte(nil), streamPrefix...)
	end = append([]byte(nil), streamPrefix...)
	end = append(end, 0xff)
	return start, end
}
