// Package auth implements VestFlow's capability checks. The caller identity
// arrives pre-authenticated (signature verification belongs to the hosting
// layer); this package only decides whether that address may perform an
// operation on a given stream.
package auth

import "github.com/vestflow/vestflow/internal/ledger"

// Guard evaluates the permission table for one installed config.
//
//	create_stream         the declared sender only
//	withdraw              recipient only
//	pause/resume/cancel   sender or admin
//	reads, init           anyone
type Guard struct {
	admin string
}

// NewGuard returns a Guard enforcing the given admin address.
func NewGuard(admin string) Guard { return Guard{admin: admin} }

// CanCreate reports whether caller may open a stream escrowing funds from
// sender. Only the owner of the funds may commit them.
func (g Guard) CanCreate(caller, sender string) bool {
	return caller != "" && caller == sender
}

// CanWithdraw reports whether caller may withdraw from s.
func (g Guard) CanWithdraw(caller string, s *ledger.Stream) bool {
	return caller != "" && caller == s.Recipient
}

// CanControl reports whether caller may pause, resume, or cancel s.
func (g Guard) CanControl(caller string, s *ledger.Stream) bool {
	if caller == "" {
		return false
	}
	return caller == s.Sender || caller == g.admin
}

// IsAdmin reports whether caller is the installed admin.
func (g Guard) IsAdmin(caller string) bool {
	return caller != "" && caller == g.admin
}
