package engine

// CreateParams are the caller-supplied arguments to CreateStream.
// StartTime is assigned by the engine from the ledger clock, never by the
// caller.
type CreateParams struct {
	Sender        string `json:"sender"`
	Recipient     string `json:"recipient"`
	DepositAmount int64  `json:"deposit_amount"`
	RatePerSecond int64  `json:"rate_per_second"`
	CliffTime     uint64 `json:"cliff_time"`
	EndTime       uint64 `json:"end_time"`
}

// State is the externally visible snapshot of a stream, including the
// amounts derived at query time.
type State struct {
	ID              uint64 `json:"id"`
	Sender          string `json:"sender"`
	Recipient       string `json:"recipient"`
	DepositAmount   int64  `json:"deposit_amount"`
	RatePerSecond   int64  `json:"rate_per_second"`
	StartTime       uint64 `json:"start_time"`
	CliffTime       uint64 `json:"cliff_time"`
	EndTime         uint64 `json:"end_time"`
	WithdrawnAmount int64  `json:"withdrawn_amount"`
	PausedTotal     uint64 `json:"paused_total"`
	Status          string `json:"status"`
	VestedAmount    int64  `json:"vested_amount"`
	Withdrawable    int64  `json:"withdrawable"`
	AsOf            uint64 `json:"as_of"`
}

// CancelResult reports how a cancellation settled the remaining escrow.
// ToRecipient + ToSender + the previously withdrawn amount always equals
// the original deposit.
type CancelResult struct {
	ToRecipient int64 `json:"to_recipient"`
	ToSender    int64 `json:"to_sender"`
}
