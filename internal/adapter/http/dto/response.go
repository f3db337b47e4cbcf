package dto

import (
	"time"

	"github.com/Ruby405/double-entry/internal/domain"
	"github.com/Ruby405/double-entry/internal/usecase"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// AccountResponse identifies an account in a response.
type AccountResponse struct {
	Identifier string `json:"identifier"`
	Scope      string `json:"scope,omitempty"`
	Currency   string `json:"currency"`
}

// LineResponse represents a single ledger line.
type LineResponse struct {
	ID             int64           `json:"id"`
	Account        AccountResponse `json:"account"`
	PartnerAccount AccountResponse `json:"partner_account"`
	Amount         string          `json:"amount"`
	Balance        string          `json:"balance"`
	Code           string          `json:"code,omitempty"`
	Detail         string          `json:"detail,omitempty"`
	PartnerID      int64           `json:"partner_id"`
	CreatedAt      time.Time       `json:"created_at"`
}

// TransferResponse holds the two lines created by a transfer.
type TransferResponse struct {
	Credit LineResponse `json:"credit"`
	Debit  LineResponse `json:"debit"`
}

// BalanceResponse represents an account's current balance.
type BalanceResponse struct {
	Account AccountResponse `json:"account"`
	Balance string          `json:"balance"`
}

// LineMetadataResponse represents one line annotation.
type LineMetadataResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// LineWithMetadataResponse represents a line and its annotations.
type LineWithMetadataResponse struct {
	Line     LineResponse           `json:"line"`
	Metadata []LineMetadataResponse `json:"metadata"`
}

// ConsistencyResponse represents a ledger-wide consistency check.
type ConsistencyResponse struct {
	TotalBalance    string `json:"total_balance"`
	TotalLineAmount string `json:"total_line_amount"`
	Consistent      bool   `json:"consistent"`
}

// AccountFromDomain converts a domain AccountRef.
func AccountFromDomain(ref domain.AccountRef) AccountResponse {
	return AccountResponse{
		Identifier: ref.Identifier,
		Scope:      ref.Scope,
		Currency:   ref.Currency,
	}
}

// LineFromDomain converts a domain Line.
func LineFromDomain(line *domain.Line) LineResponse {
	return LineResponse{
		ID:             line.ID,
		Account:        AccountFromDomain(line.Account),
		PartnerAccount: AccountFromDomain(line.PartnerAccount),
		Amount:         line.Amount.String(),
		Balance:        line.Balance.String(),
		Code:           line.Code,
		Detail:         line.Detail,
		PartnerID:      line.PartnerID,
		CreatedAt:      line.CreatedAt,
	}
}

// LinesFromDomain converts a slice of domain Lines.
func LinesFromDomain(lines []*domain.Line) []LineResponse {
	out := make([]LineResponse, 0, len(lines))
	for _, line := range lines {
		out = append(out, LineFromDomain(line))
	}

	return out
}

// TransferFromDomain converts a transfer result.
func TransferFromDomain(result *usecase.TransferResult) TransferResponse {
	return TransferResponse{
		Credit: LineFromDomain(result.Credit),
		Debit:  LineFromDomain(result.Debit),
	}
}

// MetadataFromDomain converts line annotations.
func MetadataFromDomain(metas []*domain.LineMetadata) []LineMetadataResponse {
	out := make([]LineMetadataResponse, 0, len(metas))
	for _, meta := range metas {
		out = append(out, LineMetadataResponse{Key: meta.Key, Value: meta.Value})
	}

	return out
}

// ConsistencyFromDomain converts a consistency report.
func ConsistencyFromDomain(report *usecase.ConsistencyReport) ConsistencyResponse {
	return ConsistencyResponse{
		TotalBalance:    report.TotalBalance.String(),
		TotalLineAmount: report.TotalLineAmount.String(),
		Consistent:      report.Consistent,
	}
}
