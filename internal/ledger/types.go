package ledger

// Status is the lifecycle state of a stream.
type Status uint8

// Stream lifecycle states. Cancelled and Completed are terminal: a stream in
// either state is never mutated again.
const (
	StatusActive Status = iota
	StatusPaused
	StatusCancelled
	StatusCompleted
)

// String returns the canonical name of the status.
func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusPaused:
		return "paused"
	case StatusCancelled:
		return "cancelled"
	case StatusCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Terminal reports whether the status permits no further mutation.
func (s Status) Terminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// Config is the singleton engine configuration installed by the one-time
// init call. Immutable once written.
type Config struct {
	// Token is the address of the external token-transfer service.
	Token string `json:"token"`
	// Admin holds elevated lifecycle rights (pause/resume/cancel any stream).
	Admin string `json:"admin"`
}

// Stream is one escrow agreement vesting a fixed deposit from Sender to
// Recipient at RatePerSecond between CliffTime and EndTime.
//
// PausedTotal accumulates completed pause durations in seconds; PausedSince
// is the start of the in-progress pause and is meaningful only while the
// status is paused. Together they shift the effective vesting schedule
// without touching the original StartTime/EndTime, which are kept for audit.
type Stream struct {
	ID             uint64
	Sender         string
	Recipient      string
	DepositAmount  int64
	RatePerSecond  int64
	StartTime      uint64
	CliffTime      uint64
	EndTime        uint64
	WithdrawnAmount int64
	PausedTotal    uint64
	PausedSince    uint64
	Status         Status
}
