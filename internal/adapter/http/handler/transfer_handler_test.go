package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Ruby405/double-entry/internal/adapter/http/dto"
	"github.com/Ruby405/double-entry/internal/domain"
	"github.com/Ruby405/double-entry/internal/usecase"
	"github.com/Ruby405/double-entry/internal/usecase/mocks"
)

type handlerFixture struct {
	ledger    *usecase.Ledger
	balanceUC *usecase.BalanceUseCase
	lineUC    *usecase.LineUseCase
	accounts  *domain.AccountSet
	balances  *mocks.MockBalanceRepository
	lines     *mocks.MockLineRepository
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()

	accounts, err := domain.NewAccountSet(
		domain.AccountDefinition{Identifier: "checking", Scoped: true, Currency: "USD"},
		domain.AccountDefinition{Identifier: "savings", Scoped: true, PositiveOnly: true, Currency: "USD"},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	registry, err := domain.NewTransferRegistry(
		domain.TransferDefinition{From: "checking", To: "savings", Code: "deposit"},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	balances := mocks.NewMockBalanceRepository()
	lines := mocks.NewMockLineRepository()
	metadata := mocks.NewMockLineMetadataRepository()
	runner := usecase.NewRunner(mocks.NewMockTransactionManager(), &mocks.MockClassifier{}, nil, nil)

	return &handlerFixture{
		ledger:    usecase.NewLedger(runner, registry, balances, lines, metadata, mocks.NewMockIDGenerator(), nil, nil),
		balanceUC: usecase.NewBalanceUseCase(balances, nil, 0, nil),
		lineUC:    usecase.NewLineUseCase(lines, metadata),
		accounts:  accounts,
		balances:  balances,
		lines:     lines,
	}
}

func (f *handlerFixture) seed() {
	f.balances.Seed(&domain.AccountBalance{
		ID:      "bal-checking",
		Account: domain.AccountRef{Identifier: "checking", Scope: "u1", Currency: "USD"},
		Balance: decimal.NewFromInt(100),
	})
	f.balances.Seed(&domain.AccountBalance{
		ID:      "bal-savings",
		Account: domain.AccountRef{Identifier: "savings", Scope: "u1", Currency: "USD", PositiveOnly: true},
		Balance: decimal.Zero,
	})
}

func TestTransferHandler_Create_Success(t *testing.T) {
	f := newHandlerFixture(t)
	f.seed()
	handler := NewTransferHandler(f.ledger, f.accounts, nil)

	body := `{
		"from": {"identifier": "checking", "scope": "u1"},
		"to": {"identifier": "savings", "scope": "u1"},
		"amount": "25.00",
		"code": "deposit"
	}`

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transfers", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.TransferResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Credit.Amount != "-25" || resp.Debit.Amount != "25" {
		t.Fatalf("unexpected amounts: credit=%s debit=%s", resp.Credit.Amount, resp.Debit.Amount)
	}
	if resp.Credit.PartnerID != resp.Debit.ID || resp.Debit.PartnerID != resp.Credit.ID {
		t.Fatalf("expected partnered lines, got %+v", resp)
	}
}

func TestTransferHandler_Create_InvalidBody(t *testing.T) {
	f := newHandlerFixture(t)
	handler := NewTransferHandler(f.ledger, f.accounts, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transfers", bytes.NewReader([]byte("{")))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if len(f.lines.Lines) != 0 {
		t.Fatalf("expected no lines, got %d", len(f.lines.Lines))
	}
}

func TestTransferHandler_Create_Rejections(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "unknown account",
			body: `{"from": {"identifier": "vault"}, "to": {"identifier": "savings", "scope": "u1"}, "amount": "1", "code": "deposit"}`,
		},
		{
			name: "undefined transfer code",
			body: `{"from": {"identifier": "checking", "scope": "u1"}, "to": {"identifier": "savings", "scope": "u1"}, "amount": "1", "code": "bonus"}`,
		},
		{
			name: "negative amount",
			body: `{"from": {"identifier": "checking", "scope": "u1"}, "to": {"identifier": "savings", "scope": "u1"}, "amount": "-1", "code": "deposit"}`,
		},
		{
			name: "invalid amount",
			body: `{"from": {"identifier": "checking", "scope": "u1"}, "to": {"identifier": "savings", "scope": "u1"}, "amount": "ten", "code": "deposit"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newHandlerFixture(t)
			f.seed()
			handler := NewTransferHandler(f.ledger, f.accounts, nil)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/transfers", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			handler.Create(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
			if len(f.lines.Lines) != 0 {
				t.Fatalf("expected no lines, got %d", len(f.lines.Lines))
			}
		})
	}
}
