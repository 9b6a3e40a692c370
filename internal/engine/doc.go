// Package engine implements the payment stream lifecycle over the runtime:
// one-time initialization, stream creation with escrow, withdrawals,
// pause/resume, cancellation, and state queries. Every mutating operation
// stages its writes (stream record, id counter, token balances) into a
// single indexed batch and commits once, so a failure anywhere leaves no
// partial state.
//
// Errors carry a Kind from the engine's taxonomy; use KindOf or IsKind to
// discriminate causes.
package engine
