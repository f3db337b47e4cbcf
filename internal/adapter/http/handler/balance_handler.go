package handler

import (
	"net/http"

	"github.com/Ruby405/double-entry/internal/adapter/http/dto"
	"github.com/Ruby405/double-entry/internal/domain"
	"github.com/Ruby405/double-entry/internal/usecase"
)

// BalanceHandler handles balance queries.
type BalanceHandler struct {
	balanceUC *usecase.BalanceUseCase
	accounts  *domain.AccountSet
}

// NewBalanceHandler creates a new BalanceHandler.
func NewBalanceHandler(balanceUC *usecase.BalanceUseCase, accounts *domain.AccountSet) *BalanceHandler {
	return &BalanceHandler{balanceUC: balanceUC, accounts: accounts}
}

// Get returns the current balance of an account, identified by the
// "account" and optional "scope" query parameters.
func (h *BalanceHandler) Get(w http.ResponseWriter, r *http.Request) {
	identifier := r.URL.Query().Get("account")
	if identifier == "" {
		writeError(w, http.StatusBadRequest, "missing account parameter", "")
		return
	}

	ref, err := h.accounts.Account(identifier, r.URL.Query().Get("scope"))
	if err != nil {
		writeError(w, mapDomainError(err), "invalid account", err.Error())
		return
	}

	balance, err := h.balanceUC.Balance(r.Context(), ref)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get balance", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceResponse{
		Account: dto.AccountFromDomain(ref),
		Balance: balance.String(),
	})
}
