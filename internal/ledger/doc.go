// Package ledger owns VestFlow's persisted state: the singleton engine
// config, the dense monotonically increasing stream id counter, and one
// record per payment stream.
//
// Records are stored in Pebble under a lexicographically sortable keyspace.
// Stream records use a compact binary encoding framed with a crc32c so
// corruption is detected on read; the config record is small and stored as
// JSON. Records are never deleted: cancelled and completed streams remain
// queryable forever.
package ledger
