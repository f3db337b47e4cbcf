package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Ruby405/double-entry/internal/domain"
	"github.com/Ruby405/double-entry/internal/usecase"
)

// LineMetadataRepository implements usecase.LineMetadataRepository.
type LineMetadataRepository struct {
	pool *pgxpool.Pool
}

// NewLineMetadataRepository creates a new LineMetadataRepository.
func NewLineMetadataRepository(pool *pgxpool.Pool) *LineMetadataRepository {
	return &LineMetadataRepository{pool: pool}
}

// Create inserts one (key, value) annotation row for a line.
func (r *LineMetadataRepository) Create(ctx context.Context, tx usecase.Transaction, meta *domain.LineMetadata) error {
	pgxTx := tx.(*Tx).PgxTx()

	return pgxTx.QueryRow(ctx, `
		INSERT INTO line_metadata (line_id, key, value, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		meta.LineID, meta.Key, meta.Value, timeToPgTimestamptz(meta.CreatedAt),
	).Scan(&meta.ID)
}

// ListByLine retrieves a line's annotations in insertion order.
func (r *LineMetadataRepository) ListByLine(ctx context.Context, lineID int64) ([]*domain.LineMetadata, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, line_id, key, value, created_at
		FROM line_metadata
		WHERE line_id = $1
		ORDER BY id`,
		lineID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var metas []*domain.LineMetadata
	for rows.Next() {
		var (
			meta      domain.LineMetadata
			createdAt pgtype.Timestamptz
		)

		if err := rows.Scan(&meta.ID, &meta.LineID, &meta.Key, &meta.Value, &createdAt); err != nil {
			return nil, err
		}

		meta.CreatedAt = createdAt.Time
		metas = append(metas, &meta)
	}

	return metas, rows.Err()
}
