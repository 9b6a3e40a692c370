// Package pebblestore provides a thin wrapper around Pebble with an fsync
// policy and indexed batches for atomic multi-key updates.
//
// Every mutating engine call stages all of its writes (stream record, id
// counter, token balances) into a single indexed batch and commits once, so
// a call either fully applies or leaves no trace. Indexed batches also give
// read-your-writes inside a call, which settlement relies on when it debits
// the same account twice.
//
// Usage:
//
//	db, err := pebblestore.Open(pebblestore.Options{
//	    DataDir: "./data",
//	    Fsync:   pebblestore.FsyncModeAlways,
//	})
//	if err != nil { /* handle */ }
//	defer db.Close()
//
//	b := db.NewIndexedBatch()
//	defer b.Close()
//	_ = b.Set([]byte("k"), []byte("v"), nil)
//	_ = db.CommitBatch(b)
package pebblestore
