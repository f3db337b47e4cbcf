package dto

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Ruby405/double-entry/internal/domain"
	"github.com/Ruby405/double-entry/internal/usecase"
)

// AccountParam identifies an account in a request.
type AccountParam struct {
	Identifier string `json:"identifier"`
	Scope      string `json:"scope,omitempty"`
}

// MetadataValues is the values side of a metadata key. The wire format
// accepts a scalar or an array; both decode into an ordered slice so
// nothing downstream branches on the shape.
type MetadataValues []string

// UnmarshalJSON accepts "v" and ["v1", "v2"].
func (m *MetadataValues) UnmarshalJSON(data []byte) error {
	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		*m = many
		return nil
	}

	var one string
	if err := json.Unmarshal(data, &one); err != nil {
		return fmt.Errorf("metadata value must be a string or an array of strings: %w", err)
	}

	*m = MetadataValues{one}

	return nil
}

// CreateTransferRequest represents a transfer creation request.
type CreateTransferRequest struct {
	From     AccountParam              `json:"from"`
	To       AccountParam              `json:"to"`
	Amount   string                    `json:"amount"`
	Code     string                    `json:"code"`
	Detail   string                    `json:"detail,omitempty"`
	Metadata map[string]MetadataValues `json:"metadata,omitempty"`
}

// ToInput resolves the request against the chart of accounts.
func (r CreateTransferRequest) ToInput(accounts *domain.AccountSet) (usecase.TransferInput, error) {
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return usecase.TransferInput{}, fmt.Errorf("invalid amount %q: %w", r.Amount, err)
	}

	from, err := accounts.Account(r.From.Identifier, r.From.Scope)
	if err != nil {
		return usecase.TransferInput{}, err
	}

	to, err := accounts.Account(r.To.Identifier, r.To.Scope)
	if err != nil {
		return usecase.TransferInput{}, err
	}

	var metadata domain.Metadata
	if len(r.Metadata) > 0 {
		metadata = make(domain.Metadata, len(r.Metadata))
		for key, values := range r.Metadata {
			metadata[key] = values
		}
	}

	return usecase.TransferInput{
		Amount:   amount,
		From:     from,
		To:       to,
		Code:     r.Code,
		Detail:   r.Detail,
		Metadata: metadata,
	}, nil
}
