package usecase

import (
	"context"
	"errors"
	"time"

	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/Ruby405/double-entry/internal/domain"
)

func balanceCacheKey(ref domain.AccountRef) string {
	return "balance:" + ref.Key()
}

// BalanceUseCase serves the balance read path. Reads go through the cache
// when one is configured; the ledger invalidates entries after each commit,
// and a short TTL bounds staleness when invalidation is missed.
type BalanceUseCase struct {
	balances BalanceRepository
	cache    Cache
	cacheTTL time.Duration
	logger   *slog.Logger
}

// NewBalanceUseCase creates a BalanceUseCase. cache may be nil.
func NewBalanceUseCase(balances BalanceRepository, cache Cache, cacheTTL time.Duration, logger *slog.Logger) *BalanceUseCase {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Second
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &BalanceUseCase{
		balances: balances,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// Balance returns the current balance of the account. An account whose
// balance row has not been created yet has balance zero.
func (uc *BalanceUseCase) Balance(ctx context.Context, ref domain.AccountRef) (decimal.Decimal, error) {
	if uc.cache != nil {
		cached, err := uc.cache.Get(ctx, balanceCacheKey(ref))
		if err == nil {
			if balance, perr := decimal.NewFromString(cached); perr == nil {
				return balance, nil
			}
		}
	}

	row, err := uc.balances.GetByAccount(ctx, ref)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return decimal.Zero, nil
		}

		return decimal.Decimal{}, err
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, balanceCacheKey(ref), row.Balance.String(), uc.cacheTTL); err != nil {
			uc.logger.WarnContext(ctx, "balance cache write failed", "account", ref.Key(), "error", err)
		}
	}

	return row.Balance, nil
}
