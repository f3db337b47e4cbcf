package handler

import (
	"net/http"

	"github.com/Ruby405/double-entry/internal/adapter/http/dto"
	"github.com/Ruby405/double-entry/internal/usecase"
)

// LedgerHandler handles ledger-wide operations.
type LedgerHandler struct {
	ledger *usecase.Ledger
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledger *usecase.Ledger) *LedgerHandler {
	return &LedgerHandler{ledger: ledger}
}

// Consistency runs the ledger-wide consistency check. A consistent ledger
// answers 200; an inconsistent one answers 500 with the totals.
func (h *LedgerHandler) Consistency(w http.ResponseWriter, r *http.Request) {
	report, err := h.ledger.CheckConsistency(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "consistency check failed", err.Error())
		return
	}

	status := http.StatusOK
	if !report.Consistent {
		status = http.StatusInternalServerError
	}

	writeJSON(w, status, dto.ConsistencyFromDomain(report))
}
