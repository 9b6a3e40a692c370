package engine

import (
	"context"
	"errors"

	"github.com/vestflow/vestflow/internal/accrual"
	"github.com/vestflow/vestflow/internal/auth"
	"github.com/vestflow/vestflow/internal/ledger"
	"github.com/vestflow/vestflow/internal/runtime"
	"github.com/vestflow/vestflow/internal/token"
	"github.com/vestflow/vestflow/pkg/clock"
	logpkg "github.com/vestflow/vestflow/pkg/log"
)

// Service orchestrates the stream lifecycle: it validates arguments,
// enforces capabilities, computes accrual, and stages every mutation of a
// call (stream record, id counter, token balances) into one indexed batch
// committed at the end. A failing call commits nothing.
//
// The hosting layer serializes calls; Service performs no locking of its
// own. Ledger time is read exactly once per call.
type Service struct {
	rt     *runtime.Runtime
	tokens token.Service
	clk    clock.Clock
	logger logpkg.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock substitutes the ledger time source. Tests use a manual clock.
func WithClock(c clock.Clock) Option { return func(s *Service) { s.clk = c } }

// WithTokenService substitutes the token-transfer boundary.
func WithTokenService(t token.Service) Option { return func(s *Service) { s.tokens = t } }

// WithLogger substitutes the service logger.
func WithLogger(l logpkg.Logger) Option { return func(s *Service) { s.logger = l } }

// New returns a Service over rt. Defaults: the runtime's reference bank,
// the system clock, and a default logger.
func New(rt *runtime.Runtime, opts ...Option) *Service {
	s := &Service{
		rt:     rt,
		tokens: rt.Bank(),
		clk:    clock.System{},
		logger: logpkg.NewLogger().With(logpkg.Component("engine")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init installs the singleton (token, admin) config. Anyone may call it;
// only the first call ever succeeds.
func (s *Service) Init(ctx context.Context, tokenAddr, admin string) error {
	const op = "init"
	if tokenAddr == "" || admin == "" {
		return errf(KindInvalidParameters, op, "token and admin addresses are required")
	}
	b := s.rt.DB().NewIndexedBatch()
	defer b.Close()
	if err := s.rt.Ledger().StageInit(b, ledger.Config{Token: tokenAddr, Admin: admin}); err != nil {
		if errors.Is(err, ledger.ErrAlreadyInitialized) {
			return wrap(KindAlreadyInitialized, op, "config already installed", err)
		}
		return err
	}
	if err := s.rt.DB().CommitBatch(b); err != nil {
		return err
	}
	s.logger.Info("engine initialized", logpkg.Str("token", tokenAddr), logpkg.Str("admin", admin))
	return nil
}

// Config returns the installed config.
func (s *Service) Config(ctx context.Context) (ledger.Config, error) {
	cfg, err := s.rt.Ledger().Config()
	if err != nil {
		if errors.Is(err, ledger.ErrNotInitialized) {
			return ledger.Config{}, wrap(KindNotInitialized, "get_config", "init has not been called", err)
		}
		return ledger.Config{}, err
	}
	return cfg, nil
}

// CreateStream validates the parameters, escrows the deposit from the
// sender into the vault, and persists the new stream. Returns the assigned
// id. The id counter only advances when the whole call commits.
func (s *Service) CreateStream(ctx context.Context, caller string, p CreateParams) (uint64, error) {
	const op = "create_stream"
	cfg, err := s.rt.Ledger().Config()
	if err != nil {
		if errors.Is(err, ledger.ErrNotInitialized) {
			return 0, wrap(KindNotInitialized, op, "init has not been called", err)
		}
		return 0, err
	}
	guard := auth.NewGuard(cfg.Admin)
	if !guard.CanCreate(caller, p.Sender) {
		return 0, errf(KindUnauthorized, op, "caller %q is not the declared sender %q", caller, p.Sender)
	}
	now := s.clk.Now()

	switch {
	case p.Recipient == "":
		return 0, errf(KindInvalidParameters, op, "recipient address is required")
	case p.DepositAmount <= 0:
		return 0, errf(KindInvalidParameters, op, "deposit_amount must be positive, got %d", p.DepositAmount)
	case p.RatePerSecond <= 0:
		return 0, errf(KindInvalidParameters, op, "rate_per_second must be positive, got %d", p.RatePerSecond)
	case p.CliffTime < now:
		return 0, errf(KindInvalidParameters, op, "cliff_time %d is in the past (now %d)", p.CliffTime, now)
	case p.EndTime <= p.CliffTime:
		return 0, errf(KindInvalidParameters, op, "end_time %d must be after cliff_time %d", p.EndTime, p.CliffTime)
	}
	// The schedule must be able to vest the full deposit by end_time.
	// Excess capacity is allowed; accrual clamps to the deposit.
	capacity, err := accrual.MulChecked(p.RatePerSecond, p.EndTime-p.CliffTime)
	if err != nil {
		return 0, wrap(KindArithmeticOverflow, op, "schedule capacity overflows", err)
	}
	if capacity < p.DepositAmount {
		return 0, errf(KindInvalidParameters, op,
			"rate %d over %d seconds cannot vest deposit %d", p.RatePerSecond, p.EndTime-p.CliffTime, p.DepositAmount)
	}

	id, err := s.rt.Ledger().NextID()
	if err != nil {
		return 0, err
	}

	b := s.rt.DB().NewIndexedBatch()
	defer b.Close()
	if err := s.tokens.Transfer(b, p.Sender, token.Vault, p.DepositAmount); err != nil {
		return 0, transferError(op, "escrow transfer rejected", err)
	}
	rec := &ledger.Stream{
		ID:            id,
		Sender:        p.Sender,
		Recipient:     p.Recipient,
		DepositAmount: p.DepositAmount,
		RatePerSecond: p.RatePerSecond,
		StartTime:     now,
		CliffTime:     p.CliffTime,
		EndTime:       p.EndTime,
		Status:        ledger.StatusActive,
	}
	if err := s.rt.Ledger().StageStream(b, rec); err != nil {
		return 0, err
	}
	if err := s.rt.Ledger().StageNextID(b, id+1); err != nil {
		return 0, err
	}
	if err := s.rt.DB().CommitBatch(b); err != nil {
		return 0, err
	}
	s.logger.Info("stream created",
		logpkg.Uint64("id", id),
		logpkg.Str("sender", p.Sender),
		logpkg.Str("recipient", p.Recipient),
		logpkg.Int64("deposit", p.DepositAmount),
		logpkg.Int64("rate", p.RatePerSecond),
	)
	return id, nil
}

// Withdraw pays the currently withdrawable balance to the recipient.
// Returns the amount transferred.
func (s *Service) Withdraw(ctx context.Context, caller string, id uint64) (int64, error) {
	const op = "withdraw"
	rec, err := s.loadStream(op, id)
	if err != nil {
		return 0, err
	}
	cfg, err := s.rt.Ledger().Config()
	if err != nil {
		return 0, err
	}
	if !auth.NewGuard(cfg.Admin).CanWithdraw(caller, rec) {
		return 0, errf(KindUnauthorized, op, "caller %q is not the recipient of stream %d", caller, id)
	}
	if rec.Status != ledger.StatusActive {
		return 0, errf(KindInvalidStateTransition, op, "stream %d is %s, withdrawals require an active stream", id, rec.Status)
	}
	now := s.clk.Now()

	withdrawable, err := accrual.Withdrawable(rec, now)
	if err != nil {
		return 0, wrap(KindArithmeticOverflow, op, "accrual overflow", err)
	}
	if withdrawable <= 0 {
		return 0, errf(KindNothingToWithdraw, op, "stream %d has no withdrawable balance at %d", id, now)
	}

	b := s.rt.DB().NewIndexedBatch()
	defer b.Close()
	if err := s.tokens.Transfer(b, token.Vault, rec.Recipient, withdrawable); err != nil {
		return 0, transferError(op, "payout transfer rejected", err)
	}
	rec.WithdrawnAmount, err = accrual.AddChecked(rec.WithdrawnAmount, withdrawable)
	if err != nil {
		return 0, wrap(KindArithmeticOverflow, op, "withdrawn total overflow", err)
	}
	if rec.WithdrawnAmount == rec.DepositAmount {
		rec.Status = ledger.StatusCompleted
	}
	if err := s.rt.Ledger().StageStream(b, rec); err != nil {
		return 0, err
	}
	if err := s.rt.DB().CommitBatch(b); err != nil {
		return 0, err
	}
	s.logger.Info("withdrawal settled",
		logpkg.Uint64("id", id),
		logpkg.Int64("amount", withdrawable),
		logpkg.Str("status", rec.Status.String()),
	)
	return withdrawable, nil
}

// Pause freezes accrual on an active stream.
func (s *Service) Pause(ctx context.Context, caller string, id uint64) error {
	const op = "pause"
	rec, err := s.controlTarget(op, caller, id)
	if err != nil {
		return err
	}
	if rec.Status != ledger.StatusActive {
		return errf(KindInvalidStateTransition, op, "stream %d is %s, only active streams pause", id, rec.Status)
	}
	rec.Status = ledger.StatusPaused
	rec.PausedSince = s.clk.Now()
	if err := s.commitStream(rec); err != nil {
		return err
	}
	s.logger.Info("stream paused", logpkg.Uint64("id", id), logpkg.Uint64("since", rec.PausedSince))
	return nil
}

// Resume reactivates a paused stream, folding the pause duration into the
// accumulated offset so the vesting window extends by exactly that long.
func (s *Service) Resume(ctx context.Context, caller string, id uint64) error {
	const op = "resume"
	rec, err := s.controlTarget(op, caller, id)
	if err != nil {
		return err
	}
	if rec.Status != ledger.StatusPaused {
		return errf(KindInvalidStateTransition, op, "stream %d is %s, only paused streams resume", id, rec.Status)
	}
	now := s.clk.Now()
	if now > rec.PausedSince {
		rec.PausedTotal += now - rec.PausedSince
	}
	rec.PausedSince = 0
	rec.Status = ledger.StatusActive
	if err := s.commitStream(rec); err != nil {
		return err
	}
	s.logger.Info("stream resumed", logpkg.Uint64("id", id), logpkg.Uint64("paused_total", rec.PausedTotal))
	return nil
}

// Cancel settles a stream: the vested-but-unwithdrawn part goes to the
// recipient, the unvested remainder back to the sender, both in the same
// atomic commit. The record stays queryable forever.
func (s *Service) Cancel(ctx context.Context, caller string, id uint64) (CancelResult, error) {
	const op = "cancel"
	rec, err := s.controlTarget(op, caller, id)
	if err != nil {
		return CancelResult{}, err
	}
	if rec.Status.Terminal() {
		return CancelResult{}, errf(KindInvalidStateTransition, op, "stream %d is already %s", id, rec.Status)
	}
	now := s.clk.Now()

	vested, err := accrual.VestedAmount(rec, now)
	if err != nil {
		return CancelResult{}, wrap(KindArithmeticOverflow, op, "accrual overflow", err)
	}
	res := CancelResult{
		ToRecipient: vested - rec.WithdrawnAmount,
		ToSender:    rec.DepositAmount - vested,
	}

	b := s.rt.DB().NewIndexedBatch()
	defer b.Close()
	if res.ToRecipient > 0 {
		if err := s.tokens.Transfer(b, token.Vault, rec.Recipient, res.ToRecipient); err != nil {
			return CancelResult{}, transferError(op, "recipient payout rejected", err)
		}
	}
	if res.ToSender > 0 {
		if err := s.tokens.Transfer(b, token.Vault, rec.Sender, res.ToSender); err != nil {
			return CancelResult{}, transferError(op, "sender refund rejected", err)
		}
	}
	if rec.Status == ledger.StatusPaused && now > rec.PausedSince {
		rec.PausedTotal += now - rec.PausedSince
	}
	rec.PausedSince = 0
	rec.WithdrawnAmount = vested
	rec.Status = ledger.StatusCancelled
	if err := s.rt.Ledger().StageStream(b, rec); err != nil {
		return CancelResult{}, err
	}
	if err := s.rt.DB().CommitBatch(b); err != nil {
		return CancelResult{}, err
	}
	s.logger.Info("stream cancelled",
		logpkg.Uint64("id", id),
		logpkg.Int64("to_recipient", res.ToRecipient),
		logpkg.Int64("to_sender", res.ToSender),
	)
	return res, nil
}

// StreamState returns the current snapshot of a stream, with vested and
// withdrawable amounts computed at the ledger clock. Read-only, anyone.
func (s *Service) StreamState(ctx context.Context, id uint64) (State, error) {
	rec, err := s.loadStream("get_stream_state", id)
	if err != nil {
		return State{}, err
	}
	return s.snapshot(rec)
}

// ListStreams returns snapshots of all streams in id order, optionally
// filtered by a CEL expression over the snapshot fields.
func (s *Service) ListStreams(ctx context.Context, filterExpr string) ([]State, error) {
	const op = "list_streams"
	filter, err := newListFilter(filterExpr)
	if err != nil {
		return nil, errf(KindInvalidParameters, op, "bad filter: %v", err)
	}
	recs, err := s.rt.Ledger().Streams()
	if err != nil {
		return nil, err
	}
	out := make([]State, 0, len(recs))
	for _, rec := range recs {
		st, err := s.snapshot(rec)
		if err != nil {
			return nil, err
		}
		if filter.Eval(st) {
			out = append(out, st)
		}
	}
	return out, nil
}

// Mint credits an account on the reference bank. Admin only.
func (s *Service) Mint(ctx context.Context, caller, to string, amount int64) error {
	const op = "mint"
	cfg, err := s.rt.Ledger().Config()
	if err != nil {
		if errors.Is(err, ledger.ErrNotInitialized) {
			return wrap(KindNotInitialized, op, "init has not been called", err)
		}
		return err
	}
	if !auth.NewGuard(cfg.Admin).IsAdmin(caller) {
		return errf(KindUnauthorized, op, "caller %q is not the admin", caller)
	}
	if err := s.rt.Bank().Mint(to, amount); err != nil {
		if errors.Is(err, token.ErrInvalidAmount) || errors.Is(err, token.ErrInvalidAccount) {
			return wrap(KindInvalidParameters, op, "bad mint arguments", err)
		}
		if errors.Is(err, token.ErrOverflow) {
			return wrap(KindArithmeticOverflow, op, "mint overflows the balance", err)
		}
		return err
	}
	s.logger.Info("minted", logpkg.Str("to", to), logpkg.Int64("amount", amount))
	return nil
}

// Balance returns an account's committed balance. Read-only, anyone.
func (s *Service) Balance(ctx context.Context, account string) (int64, error) {
	bal, err := s.tokens.Balance(account)
	if err != nil {
		if errors.Is(err, token.ErrInvalidAccount) {
			return 0, wrap(KindInvalidParameters, "balance", "bad account", err)
		}
		return 0, err
	}
	return bal, nil
}

func (s *Service) loadStream(op string, id uint64) (*ledger.Stream, error) {
	rec, err := s.rt.Ledger().Stream(id)
	if err != nil {
		if errors.Is(err, ledger.ErrStreamNotFound) {
			return nil, errf(KindStreamNotFound, op, "no stream with id %d", id)
		}
		return nil, err
	}
	return rec, nil
}

// controlTarget loads a stream and checks the sender-or-admin capability
// shared by pause, resume, and cancel.
func (s *Service) controlTarget(op, caller string, id uint64) (*ledger.Stream, error) {
	rec, err := s.loadStream(op, id)
	if err != nil {
		return nil, err
	}
	cfg, err := s.rt.Ledger().Config()
	if err != nil {
		return nil, err
	}
	if !auth.NewGuard(cfg.Admin).CanControl(caller, rec) {
		return nil, errf(KindUnauthorized, op, "caller %q is neither the sender nor the admin of stream %d", caller, id)
	}
	return rec, nil
}

// transferError maps bank failures onto the engine taxonomy.
func transferError(op, message string, err error) error {
	switch {
	case errors.Is(err, token.ErrInsufficientFunds):
		return wrap(KindInsufficientFunds, op, message, err)
	case errors.Is(err, token.ErrOverflow):
		return wrap(KindArithmeticOverflow, op, message, err)
	}
	return err
}

func (s *Service) commitStream(rec *ledger.Stream) error {
	b := s.rt.DB().NewIndexedBatch()
	defer b.Close()
	if err := s.rt.Ledger().StageStream(b, rec); err != nil {
		return err
	}
	return s.rt.DB().CommitBatch(b)
}

func (s *Service) snapshot(rec *ledger.Stream) (State, error) {
	now := s.clk.Now()
	st := State{
		ID:              rec.ID,
		Sender:          rec.Sender,
		Recipient:       rec.Recipient,
		DepositAmount:   rec.DepositAmount,
		RatePerSecond:   rec.RatePerSecond,
		StartTime:       rec.StartTime,
		CliffTime:       rec.CliffTime,
		EndTime:         rec.EndTime,
		WithdrawnAmount: rec.WithdrawnAmount,
		PausedTotal:     rec.PausedTotal,
		Status:          rec.Status.String(),
		AsOf:            now,
	}
	if rec.Status.Terminal() {
		// Terminal streams are fully settled: nothing accrues or remains.
		st.VestedAmount = rec.WithdrawnAmount
		return st, nil
	}
	vested, err := accrual.VestedAmount(rec, now)
	if err != nil {
		return State{}, wrap(KindArithmeticOverflow, "get_stream_state", "accrual overflow", err)
	}
	st.VestedAmount = vested
	st.Withdrawable = vested - rec.WithdrawnAmount
	return st, nil
}
