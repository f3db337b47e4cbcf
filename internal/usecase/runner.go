package usecase

import (
	"context"
	"errors"
	"time"

	"log/slog"

	"github.com/cenkalti/backoff/v4"
)

// ErrRestartTransaction signals that the current unit of work must be
// rolled back and re-run from its outermost boundary. Partial progress
// inside a failed transaction is invalid, so the whole sequence of reads,
// locks and writes is replayed rather than the failing statement alone.
var ErrRestartTransaction = errors.New("restart transaction")

// Runner executes units of work against the transactional store and
// resolves retryable storage failures: a classified deadlock restarts the
// whole unit of work, a duplicate-key race on a guarded write counts as
// success for the losing writer.
type Runner struct {
	txManager  TransactionManager
	classifier ErrorClassifier
	observer   RetryObserver
	logger     *slog.Logger

	initialInterval time.Duration
	maxInterval     time.Duration
}

// NewRunner creates a Runner. A nil observer discards events.
func NewRunner(txManager TransactionManager, classifier ErrorClassifier, observer RetryObserver, logger *slog.Logger) *Runner {
	if observer == nil {
		observer = NopObserver{}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Runner{
		txManager:       txManager,
		classifier:      classifier,
		observer:        observer,
		logger:          logger,
		initialInterval: 5 * time.Millisecond,
		maxInterval:     500 * time.Millisecond,
	}
}

// Run executes fn inside a fresh transaction, committing when fn succeeds.
// A classified deadlock, or an ErrRestartTransaction returned by fn, rolls
// the transaction back and re-runs fn from scratch; no state from the
// failed attempt survives. The loop has no attempt cap: it backs off
// exponentially between restarts and stops only on success, a permanent
// error, or context cancellation.
func (r *Runner) Run(ctx context.Context, fn func(ctx context.Context, tx Transaction) error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.initialInterval
	b.MaxInterval = r.maxInterval
	b.MaxElapsedTime = 0

	for {
		err := r.runOnce(ctx, fn)
		if err == nil {
			return nil
		}

		if !r.shouldRestart(err) {
			return err
		}

		r.observer.DeadlockRestart(err)
		r.logger.WarnContext(ctx, "deadlock_restart", "error", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(b.NextBackOff()):
		}
	}
}

func (r *Runner) runOnce(ctx context.Context, fn func(ctx context.Context, tx Transaction) error) error {
	tx, err := r.txManager.Begin(ctx)
	if err != nil {
		return err
	}

	if err := fn(ctx, tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	return tx.Commit(ctx)
}

func (r *Runner) shouldRestart(err error) bool {
	if errors.Is(err, ErrRestartTransaction) {
		return true
	}

	return r.classifier.Classify(err) == ErrorClassDeadlock
}

// Guard executes a single write outside the restart machinery. A classified
// deadlock retries fn in place, a duplicate key means someone else already
// wrote the row and is suppressed, anything else propagates unchanged.
func (r *Runner) Guard(ctx context.Context, fn func() error) error {
	for {
		err := fn()
		if err == nil {
			return nil
		}

		switch r.classifier.Classify(err) {
		case ErrorClassDeadlock:
			r.observer.DeadlockRetry(err)
			r.logger.WarnContext(ctx, "deadlock_retry", "error", err)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(r.initialInterval):
			}
		case ErrorClassDuplicateKey:
			r.observer.DuplicateIgnore(err)
			r.logger.InfoContext(ctx, "duplicate_ignore", "error", err)

			return nil
		default:
			return err
		}
	}
}

// CreateIgnoringDuplicates runs a single insert so that row existence is
// idempotent across racing initializers: deadlocks retry the insert, and
// the losing writer of a duplicate-key race observes success as a no-op.
// At most one row per key is persisted without a prior existence check,
// which would itself race.
func (r *Runner) CreateIgnoringDuplicates(ctx context.Context, create func() error) error {
	return r.Guard(ctx, create)
}
