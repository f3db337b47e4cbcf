package usecase

import (
	"context"

	"github.com/Ruby405/double-entry/internal/domain"
)

// LineUseCase serves the line read path.
type LineUseCase struct {
	lines    LineRepository
	metadata LineMetadataRepository
}

// NewLineUseCase creates a LineUseCase.
func NewLineUseCase(lines LineRepository, metadata LineMetadataRepository) *LineUseCase {
	return &LineUseCase{lines: lines, metadata: metadata}
}

// ListByAccountInput describes a paginated line listing.
type ListByAccountInput struct {
	Account domain.AccountRef
	Limit   int
	Offset  int
}

// ListByAccount lists an account's lines in creation order.
func (uc *LineUseCase) ListByAccount(ctx context.Context, input ListByAccountInput) ([]*domain.Line, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	if input.Limit > 100 {
		input.Limit = 100
	}

	return uc.lines.ListByAccount(ctx, input.Account, input.Limit, input.Offset)
}

// GetWithMetadata fetches a line and its annotations.
func (uc *LineUseCase) GetWithMetadata(ctx context.Context, id int64) (*domain.Line, []*domain.LineMetadata, error) {
	line, err := uc.lines.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	meta, err := uc.metadata.ListByLine(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	return line, meta, nil
}
