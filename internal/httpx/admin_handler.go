package httpx

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/craftline/artisan-market/internal/market"
)

type AdminHandler struct {
	Finance *market.FinanceRepo
	Audit   *market.AuditRepo
}

func (h *AdminHandler) Register(r *chi.Mux) {
	r.Get("/api/admin/transactions", h.transactions)
	r.Get("/api/admin/audit", h.auditLog)
}

func (h *AdminHandler) transactions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	entries, summary, err := h.Finance.ListTransactions(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch transactions")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"transactions": entries,
		"count":        len(entries),
		"summary":      summary,
	})
}

func (h *AdminHandler) auditLog(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := h.Audit.ListRecent(ctx, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch audit log")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries, "count": len(entries)})
}
