package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Ruby405/double-entry/internal/adapter/http/dto"
	"github.com/Ruby405/double-entry/internal/domain"
	"github.com/Ruby405/double-entry/internal/usecase"
)

// LineHandler handles line queries.
type LineHandler struct {
	lineUC   *usecase.LineUseCase
	accounts *domain.AccountSet
}

// NewLineHandler creates a new LineHandler.
func NewLineHandler(lineUC *usecase.LineUseCase, accounts *domain.AccountSet) *LineHandler {
	return &LineHandler{lineUC: lineUC, accounts: accounts}
}

// ListByAccount lists an account's lines.
func (h *LineHandler) ListByAccount(w http.ResponseWriter, r *http.Request) {
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

	lines, err := h.lineUC.ListByAccount(r.Context(), usecase.ListByAccountInput{
		Account: ref,
		Limit:   parseIntQuery(r, "limit", 20),
		Offset:  parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list lines", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.LinesFromDomain(lines))
}

// Get retrieves a line and its metadata by id.
func (h *LineHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid line ID", err.Error())
		return
	}

	line, metadata, err := h.lineUC.GetWithMetadata(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get line", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.LineWithMetadataResponse{
		Line:     dto.LineFromDomain(line),
		Metadata: dto.MetadataFromDomain(metadata),
	})
}
