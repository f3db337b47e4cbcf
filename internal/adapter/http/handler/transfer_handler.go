package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Ruby405/double-entry/internal/adapter/http/dto"
	"github.com/Ruby405/double-entry/internal/domain"
	"github.com/Ruby405/double-entry/internal/infrastructure/metrics"
	"github.com/Ruby405/double-entry/internal/usecase"
)

// TransferHandler handles transfer-related HTTP requests.
type TransferHandler struct {
	ledger   *usecase.Ledger
	accounts *domain.AccountSet
	metrics  *metrics.Metrics
}

// NewTransferHandler creates a new TransferHandler. m may be nil.
func NewTransferHandler(ledger *usecase.Ledger, accounts *domain.AccountSet, m *metrics.Metrics) *TransferHandler {
	return &TransferHandler{ledger: ledger, accounts: accounts, metrics: m}
}

// Create creates a new transfer.
func (h *TransferHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToInput(h.accounts)
	if err != nil {
		// Resolution failures are always the caller's fault.
		status := mapDomainError(err)
		if status == http.StatusInternalServerError {
			status = http.StatusBadRequest
		}
		writeError(w, status, "invalid transfer request", err.Error())
		return
	}

	start := time.Now()
	result, err := h.ledger.Transfer(r.Context(), input)
	if h.metrics != nil {
		h.metrics.ObserveTransfer(time.Since(start), err)
	}
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create transfer", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransferFromDomain(result))
}
