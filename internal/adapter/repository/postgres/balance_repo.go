package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/Ruby405/double-entry/internal/domain"
	"github.com/Ruby405/double-entry/internal/usecase"
)

// BalanceRepository implements usecase.BalanceRepository.
type BalanceRepository struct {
	pool *pgxpool.Pool
}

// NewBalanceRepository creates a new BalanceRepository.
func NewBalanceRepository(pool *pgxpool.Pool) *BalanceRepository {
	return &BalanceRepository{pool: pool}
}

const balanceColumns = `id, account_identifier, scope, currency, positive_only, balance, created_at, updated_at`

// Create inserts a balance row on the pool, outside any caller transaction,
// so the row survives a unit-of-work restart. The unique constraint on the
// account identity surfaces racing creators as a duplicate-key error.
func (r *BalanceRepository) Create(ctx context.Context, balance *domain.AccountBalance) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO account_balances (id, account_identifier, scope, currency, positive_only, balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		balance.ID,
		balance.Account.Identifier,
		balance.Account.Scope,
		balance.Account.Currency,
		balance.Account.PositiveOnly,
		decimalToNumeric(balance.Balance),
		timeToPgTimestamptz(balance.CreatedAt),
		timeToPgTimestamptz(balance.UpdatedAt),
	)

	return err
}

// GetByAccount retrieves a balance row without locking it.
func (r *BalanceRepository) GetByAccount(ctx context.Context, account domain.AccountRef) (*domain.AccountBalance, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+balanceColumns+`
		FROM account_balances
		WHERE account_identifier = $1 AND scope = $2 AND currency = $3`,
		account.Identifier, account.Scope, account.Currency,
	)

	balance, err := scanBalance(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return balance, nil
}

// LockOrdered acquires FOR UPDATE locks on the balance rows, one statement
// per account in the order given, so the storage layer grants locks in
// exactly the canonical sequence the caller computed. Accounts without a
// row yet are skipped; the caller creates them and restarts.
func (r *BalanceRepository) LockOrdered(ctx context.Context, tx usecase.Transaction, accounts []domain.AccountRef) ([]*domain.AccountBalance, error) {
	pgxTx := tx.(*Tx).PgxTx()

	locked := make([]*domain.AccountBalance, 0, len(accounts))
	for _, account := range accounts {
		row := pgxTx.QueryRow(ctx, `
			SELECT `+balanceColumns+`
			FROM account_balances
			WHERE account_identifier = $1 AND scope = $2 AND currency = $3
			FOR UPDATE`,
			account.Identifier, account.Scope, account.Currency,
		)

		balance, err := scanBalance(row)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				continue
			}

			return nil, err
		}

		locked = append(locked, balance)
	}

	return locked, nil
}

// UpdateBalance updates a locked balance row.
func (r *BalanceRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		UPDATE account_balances SET balance = $2, updated_at = $3 WHERE id = $1`,
		id, decimalToNumeric(balance), timeToPgTimestamptz(updatedAt),
	)

	return err
}

// SumBalances returns the sum of all balances across the ledger.
func (r *BalanceRepository) SumBalances(ctx context.Context) (decimal.Decimal, error) {
	var total pgtype.Numeric

	err := r.pool.QueryRow(ctx, `SELECT COALESCE(SUM(balance), 0) FROM account_balances`).Scan(&total)
	if err != nil {
		return decimal.Decimal{}, err
	}

	return numericToDecimal(total), nil
}

type pgxRow interface {
	Scan(dest ...any) error
}

func scanBalance(row pgxRow) (*domain.AccountBalance, error) {
	var (
		balance   domain.AccountBalance
		amount    pgtype.Numeric
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&balance.ID,
		&balance.Account.Identifier,
		&balance.Account.Scope,
		&balance.Account.Currency,
		&balance.Account.PositiveOnly,
		&amount,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	balance.Balance = numericToDecimal(amount)
	balance.CreatedAt = createdAt.Time
	balance.UpdatedAt = updatedAt.Time

	return &balance, nil
}

// Type conversion helpers.
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}

	d, _ := decimal.NewFromString(n.Int.String())
	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}
