package usecase

import (
	"context"
	"fmt"
	"time"

	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/Ruby405/double-entry/internal/domain"
)

// Ledger orchestrates transfers: validation, ordered locking, balance
// mutation and paired line creation.
type Ledger struct {
	runner   *Runner
	registry *domain.TransferRegistry
	balances BalanceRepository
	lines    LineRepository
	metadata LineMetadataRepository
	idGen    IDGenerator
	cache    Cache
	logger   *slog.Logger
}

// NewLedger creates a Ledger. cache may be nil; it is only used to
// invalidate the balance read path after commits.
func NewLedger(
	runner *Runner,
	registry *domain.TransferRegistry,
	balances BalanceRepository,
	lines LineRepository,
	metadata LineMetadataRepository,
	idGen IDGenerator,
	cache Cache,
	logger *slog.Logger,
) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}

	return &Ledger{
		runner:   runner,
		registry: registry,
		balances: balances,
		lines:    lines,
		metadata: metadata,
		idGen:    idGen,
		cache:    cache,
		logger:   logger,
	}
}

// TransferInput describes a single transfer.
type TransferInput struct {
	Amount   decimal.Decimal
	From     domain.AccountRef
	To       domain.AccountRef
	Code     string
	Detail   string
	Metadata domain.Metadata
}

// TransferResult holds the two lines created by a transfer: the credit
// line on the source account and the debit line on the destination.
type TransferResult struct {
	Credit *domain.Line
	Debit  *domain.Line
}

// Transfer moves amount from input.From to input.To, creating the paired
// credit and debit lines atomically. Validation failures are permanent and
// surface before any lock is taken; classified deadlocks restart the whole
// unit of work until it commits.
func (l *Ledger) Transfer(ctx context.Context, input TransferInput) (*TransferResult, error) {
	if input.Amount.IsNegative() {
		return nil, domain.ErrTransferAmountNegative
	}

	if input.From.ScopeIdentity() == input.To.ScopeIdentity() {
		return nil, fmt.Errorf("%w: from and to are identical", domain.ErrTransferNotAllowed)
	}

	if input.From.Currency != input.To.Currency {
		return nil, fmt.Errorf("%w: %s <> %s", domain.ErrMismatchedCurrencies, input.To.Currency, input.From.Currency)
	}

	if _, err := l.registry.Lookup(input.From.Identifier, input.To.Identifier, input.Code); err != nil {
		return nil, err
	}

	var result *TransferResult

	err := l.runner.Run(ctx, func(ctx context.Context, tx Transaction) error {
		var err error
		result, err = l.process(ctx, tx, input)

		return err
	})
	if err != nil {
		return nil, err
	}

	l.invalidateBalances(ctx, input.From, input.To)

	return result, nil
}

func (l *Ledger) process(ctx context.Context, tx Transaction, input TransferInput) (*TransferResult, error) {
	balances, err := l.lockBalances(ctx, tx, input.From, input.To)
	if err != nil {
		return nil, err
	}

	creditBal := balances[input.From.Key()]
	debitBal := balances[input.To.Key()]

	now := time.Now().UTC()

	creditNew, err := creditBal.Decrease(input.Amount)
	if err != nil {
		return nil, err
	}
	debitNew := debitBal.Increase(input.Amount)

	if err := l.balances.UpdateBalance(ctx, tx, creditBal.ID, creditNew, now); err != nil {
		return nil, err
	}

	if err := l.balances.UpdateBalance(ctx, tx, debitBal.ID, debitNew, now); err != nil {
		return nil, err
	}

	credit := &domain.Line{
		Account:        input.From,
		PartnerAccount: input.To,
		Amount:         input.Amount.Neg(),
		Balance:        creditNew,
		Code:           input.Code,
		Detail:         input.Detail,
		CreatedAt:      now,
	}
	debit := &domain.Line{
		Account:        input.To,
		PartnerAccount: input.From,
		Amount:         input.Amount,
		Balance:        debitNew,
		Code:           input.Code,
		Detail:         input.Detail,
		CreatedAt:      now,
	}

	// The lines reference each other and neither id exists until its own
	// insert: insert the credit, insert the debit pointing back at it, then
	// backfill the credit's partner id.
	if err := l.lines.Create(ctx, tx, credit); err != nil {
		return nil, err
	}

	debit.PartnerID = credit.ID
	if err := l.lines.Create(ctx, tx, debit); err != nil {
		return nil, err
	}

	if err := l.lines.SetPartnerID(ctx, tx, credit.ID, debit.ID); err != nil {
		return nil, err
	}
	credit.PartnerID = debit.ID

	if err := l.createMetadata(ctx, tx, credit, debit, input.Metadata, now); err != nil {
		return nil, err
	}

	return &TransferResult{Credit: credit, Debit: debit}, nil
}

// lockBalances locks the balance rows for the given accounts in canonical
// order. Accounts without a row yet get one created through the
// duplicate-tolerant path, outside the current transaction, and the unit of
// work restarts so the locks are reacquired against the full set of rows.
func (l *Ledger) lockBalances(ctx context.Context, tx Transaction, refs ...domain.AccountRef) (map[string]*domain.AccountBalance, error) {
	ordered := domain.CanonicalOrder(refs)

	locked, err := l.balances.LockOrdered(ctx, tx, ordered)
	if err != nil {
		return nil, err
	}

	byKey := make(map[string]*domain.AccountBalance, len(locked))
	for _, bal := range locked {
		byKey[bal.Account.Key()] = bal
	}

	missing := false
	for _, ref := range ordered {
		if _, ok := byKey[ref.Key()]; ok {
			continue
		}

		missing = true
		if err := l.ensureBalanceRow(ctx, ref); err != nil {
			return nil, err
		}
	}

	if missing {
		return nil, ErrRestartTransaction
	}

	return byKey, nil
}

func (l *Ledger) ensureBalanceRow(ctx context.Context, ref domain.AccountRef) error {
	now := time.Now().UTC()
	row := &domain.AccountBalance{
		ID:        l.idGen.Generate(),
		Account:   ref,
		Balance:   decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}

	return l.runner.CreateIgnoringDuplicates(ctx, func() error {
		return l.balances.Create(ctx, row)
	})
}

// createMetadata attaches every (key, value) pair to both lines: a key with
// N values produces N rows per line, 2N in total.
func (l *Ledger) createMetadata(ctx context.Context, tx Transaction, credit, debit *domain.Line, metadata domain.Metadata, now time.Time) error {
	for key, values := range metadata {
		for _, value := range values {
			for _, line := range []*domain.Line{credit, debit} {
				meta := &domain.LineMetadata{
					LineID:    line.ID,
					Key:       key,
					Value:     value,
					CreatedAt: now,
				}
				if err := l.metadata.Create(ctx, tx, meta); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

func (l *Ledger) invalidateBalances(ctx context.Context, refs ...domain.AccountRef) {
	if l.cache == nil {
		return
	}

	for _, ref := range refs {
		if err := l.cache.Delete(ctx, balanceCacheKey(ref)); err != nil {
			l.logger.WarnContext(ctx, "balance cache invalidation failed", "account", ref.Key(), "error", err)
		}
	}
}

// ConsistencyReport is the result of a ledger-wide consistency check.
type ConsistencyReport struct {
	TotalBalance    decimal.Decimal
	TotalLineAmount decimal.Decimal
	Consistent      bool
}

// CheckConsistency verifies the global double-entry invariant: every
// transfer writes offsetting amounts, so both the sum of all balances and
// the sum of all line amounts must be zero.
func (l *Ledger) CheckConsistency(ctx context.Context) (*ConsistencyReport, error) {
	totalBalance, err := l.balances.SumBalances(ctx)
	if err != nil {
		return nil, err
	}

	totalAmount, err := l.lines.SumAmounts(ctx)
	if err != nil {
		return nil, err
	}

	return &ConsistencyReport{
		TotalBalance:    totalBalance,
		TotalLineAmount: totalAmount,
		Consistent:      totalBalance.IsZero() && totalAmount.IsZero(),
	}, nil
}
