// Package token defines the transfer service boundary the engine moves
// funds through, and ships a Pebble-backed reference bank implementing it.
//
// The engine only ever sees the Service interface: transfer and balance.
// The bank stages its balance updates into the caller's indexed batch, so a
// transfer commits atomically with the stream record that motivated it, and
// a second transfer in the same call observes the first one's debit.
package token
