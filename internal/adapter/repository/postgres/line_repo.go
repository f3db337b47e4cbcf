package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/Ruby405/double-entry/internal/domain"
	"github.com/Ruby405/double-entry/internal/usecase"
)

// LineRepository implements usecase.LineRepository.
type LineRepository struct {
	pool *pgxpool.Pool
}

// NewLineRepository creates a new LineRepository.
func NewLineRepository(pool *pgxpool.Pool) *LineRepository {
	return &LineRepository{pool: pool}
}

const lineColumns = `id, account_identifier, scope, currency, partner_identifier, partner_scope, amount, balance, code, detail, partner_id, created_at`

// Create inserts the line and assigns its generated id. Line ids come from
// the database because the partner linkage needs an id that exists before
// the partner row does.
func (r *LineRepository) Create(ctx context.Context, tx usecase.Transaction, line *domain.Line) error {
	pgxTx := tx.(*Tx).PgxTx()

	var partnerID *int64
	if line.PartnerID != 0 {
		partnerID = &line.PartnerID
	}

	return pgxTx.QueryRow(ctx, `
		INSERT INTO lines (account_identifier, scope, currency, partner_identifier, partner_scope, amount, balance, code, detail, partner_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`,
		line.Account.Identifier,
		line.Account.Scope,
		line.Account.Currency,
		line.PartnerAccount.Identifier,
		line.PartnerAccount.Scope,
		decimalToNumeric(line.Amount),
		decimalToNumeric(line.Balance),
		line.Code,
		line.Detail,
		partnerID,
		timeToPgTimestamptz(line.CreatedAt),
	).Scan(&line.ID)
}

// SetPartnerID backfills the partner reference on an already-inserted line.
// This is the only mutation a line ever sees.
func (r *LineRepository) SetPartnerID(ctx context.Context, tx usecase.Transaction, id, partnerID int64) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `UPDATE lines SET partner_id = $2 WHERE id = $1`, id, partnerID)

	return err
}

// GetByID retrieves a line by id.
func (r *LineRepository) GetByID(ctx context.Context, id int64) (*domain.Line, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+lineColumns+` FROM lines WHERE id = $1`, id)

	line, err := scanLine(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrLineNotFound
		}

		return nil, err
	}

	return line, nil
}

// ListByAccount lists an account's lines in creation order.
func (r *LineRepository) ListByAccount(ctx context.Context, account domain.AccountRef, limit, offset int) ([]*domain.Line, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+lineColumns+`
		FROM lines
		WHERE account_identifier = $1 AND scope = $2 AND currency = $3
		ORDER BY id
		LIMIT $4 OFFSET $5`,
		account.Identifier, account.Scope, account.Currency, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []*domain.Line
	for rows.Next() {
		line, err := scanLine(rows)
		if err != nil {
			return nil, err
		}

		lines = append(lines, line)
	}

	return lines, rows.Err()
}

// SumAmounts returns the sum of all line amounts across the ledger.
func (r *LineRepository) SumAmounts(ctx context.Context) (decimal.Decimal, error) {
	var total pgtype.Numeric

	err := r.pool.QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0) FROM lines`).Scan(&total)
	if err != nil {
		return decimal.Decimal{}, err
	}

	return numericToDecimal(total), nil
}

func scanLine(row pgxRow) (*domain.Line, error) {
	var (
		line      domain.Line
		amount    pgtype.Numeric
		balance   pgtype.Numeric
		partnerID *int64
		createdAt pgtype.Timestamptz
	)

	err := row.Scan(
		&line.ID,
		&line.Account.Identifier,
		&line.Account.Scope,
		&line.Account.Currency,
		&line.PartnerAccount.Identifier,
		&line.PartnerAccount.Scope,
		&amount,
		&balance,
		&line.Code,
		&line.Detail,
		&partnerID,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	// Partner rows share the line's currency; the currency column is not
	// duplicated.
	line.PartnerAccount.Currency = line.Account.Currency

	line.Amount = numericToDecimal(amount)
	line.Balance = numericToDecimal(balance)
	line.CreatedAt = createdAt.Time
	if partnerID != nil {
		line.PartnerID = *partnerID
	}

	return &line, nil
}
