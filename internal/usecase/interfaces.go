package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Ruby405/double-entry/internal/domain"
)

// ErrorClass is the classification of a raw storage-layer failure, used to
// decide whether to restart, suppress or propagate.
type ErrorClass int

const (
	ErrorClassOther ErrorClass = iota
	ErrorClassDeadlock
	ErrorClassDuplicateKey
)

// ErrorClassifier maps a storage failure onto an ErrorClass for the store
// in use. Misclassification is undefined behavior: a deadlock classified as
// Other aborts permanently, a permanent error classified as Deadlock
// retries forever.
type ErrorClassifier interface {
	Classify(err error) ErrorClass
}

// BalanceRepository defines data access for account balance rows.
type BalanceRepository interface {
	// Create inserts a balance row outside any caller transaction, so the
	// row survives a unit-of-work restart. The account identity carries a
	// unique constraint; racing creators surface a duplicate-key failure.
	Create(ctx context.Context, balance *domain.AccountBalance) error
	GetByAccount(ctx context.Context, account domain.AccountRef) (*domain.AccountBalance, error)
	// LockOrdered acquires exclusive row locks for the given accounts,
	// strictly in the order given, and returns the locked rows. Accounts
	// without a row yet are absent from the result.
	LockOrdered(ctx context.Context, tx Transaction, accounts []domain.AccountRef) ([]*domain.AccountBalance, error)
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	SumBalances(ctx context.Context) (decimal.Decimal, error)
}

// LineRepository defines data access for ledger lines.
type LineRepository interface {
	// Create inserts the line and assigns line.ID.
	Create(ctx context.Context, tx Transaction, line *domain.Line) error
	SetPartnerID(ctx context.Context, tx Transaction, id, partnerID int64) error
	GetByID(ctx context.Context, id int64) (*domain.Line, error)
	ListByAccount(ctx context.Context, account domain.AccountRef, limit, offset int) ([]*domain.Line, error)
	SumAmounts(ctx context.Context) (decimal.Decimal, error)
}

// LineMetadataRepository defines data access for line annotations.
type LineMetadataRepository interface {
	Create(ctx context.Context, tx Transaction, meta *domain.LineMetadata) error
	ListByLine(ctx context.Context, lineID int64) ([]*domain.LineMetadata, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs for balance rows.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations for the balance read path.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage for the HTTP surface.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

// RetryObserver receives the retry events emitted by the Runner. Emission
// is observational only and never affects control flow.
type RetryObserver interface {
	DeadlockRestart(err error)
	DeadlockRetry(err error)
	DuplicateIgnore(err error)
}

// NopObserver is a RetryObserver that discards all events.
type NopObserver struct{}

func (NopObserver) DeadlockRestart(error) {}
func (NopObserver) DeadlockRetry(error)   {}
func (NopObserver) DuplicateIgnore(error) {}
