// Package accrual computes how much of a stream's deposit has vested at a
// given ledger time. The math is pure integer arithmetic with explicit
// overflow checks; callers abort the whole call on ErrOverflow.
package accrual

import (
	"errors"
	"math"

	"github.com/vestflow/vestflow/internal/ledger"
)

// ErrOverflow signals that accrual arithmetic would exceed int64.
var ErrOverflow = errors.New("accrual: arithmetic overflow")

// VestedAmount returns the cumulative amount earned by the recipient as of
// at, clamped to the deposit.
//
// Nothing vests before the cliff. Past it, elapsed time is measured from
// StartTime after shifting by the paused offset: completed pauses
// (PausedTotal) plus the in-progress pause when the stream is paused.
// Shifting before clamping to EndTime is what makes a pause extend the
// schedule instead of forfeiting the tail, and what keeps the value frozen
// for as long as the stream stays paused.
func VestedAmount(s *ledger.Stream, at uint64) (int64, error) {
	if at < s.CliffTime {
		return 0, nil
	}

	offset := s.PausedTotal
	if s.Status == ledger.StatusPaused && at >= s.PausedSince {
		offset += at - s.PausedSince
	}

	// Effective time on the original schedule. Pauses only ever happen
	// after StartTime, so offset <= at - StartTime; guard regardless.
	if offset > at {
		return 0, nil
	}
	eff := at - offset
	if eff > s.EndTime {
		eff = s.EndTime
	}
	if eff <= s.StartTime {
		return 0, nil
	}
	elapsed := eff - s.StartTime

	vested, err := MulChecked(s.RatePerSecond, elapsed)
	if err != nil {
		return 0, err
	}
	if vested > s.DepositAmount {
		vested = s.DepositAmount
	}
	return vested, nil
}

// Withdrawable returns the portion of the vested amount not yet paid out.
func Withdrawable(s *ledger.Stream, at uint64) (int64, error) {
	vested, err := VestedAmount(s, at)
	if err != nil {
		return 0, err
	}
	return vested - s.WithdrawnAmount, nil
}

// MulChecked multiplies a non-negative rate by a duration in seconds,
// failing with ErrOverflow instead of wrapping.
func MulChecked(rate int64, seconds uint64) (int64, error) {
	if rate < 0 {
		return 0, ErrOverflow
	}
	if rate == 0 || seconds == 0 {
		return 0, nil
	}
	if seconds > math.MaxInt64 {
		return 0, ErrOverflow
	}
	s := int64(seconds)
	if rate > math.MaxInt64/s {
		return 0, ErrOverflow
	}
	return rate * s, nil
}

// AddChecked adds two non-negative amounts, failing with ErrOverflow
// instead of wrapping.
func AddChecked(a, b int64) (int64, error) {
	if a < 0 || b < 0 {
		return 0, ErrOverflow
	}
	if a > math.MaxInt64-b {
		return 0, ErrOverflow
	}
	return a + b, nil
}
