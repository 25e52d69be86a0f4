package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/craftline/artisan-market/internal/market"
	"github.com/craftline/artisan-market/internal/redisx"
)

type OrdersHandler struct {
	Repo  *market.OrderRepo
	Redis *redis.Client
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Get("/api/orders/{id}", h.getOrder)
	r.Get("/api/buyer/orders", h.buyerOrders)
	r.Get("/api/artisan/orders", h.artisanOrders)
	r.Put("/api/orders/{id}/status", h.updateStatus)
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	o, err := h.Repo.GetOrder(ctx, id)
	if errors.Is(err, market.ErrOrderNotFound) {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch order")
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) buyerOrders(w http.ResponseWriter, r *http.Request) {
	buyerID, ok := userID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing or invalid X-User-Id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	orders, err := h.Repo.ListByBuyer(ctx, buyerID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch orders")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": orders, "count": len(orders)})
}

func (h *OrdersHandler) artisanOrders(w http.ResponseWriter, r *http.Request) {
	artisanID, ok := userID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing or invalid X-User-Id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	orders, err := h.Repo.ListByArtisan(ctx, artisanID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch orders")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": orders, "count": len(orders)})
}

func (h *OrdersHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	var body struct {
		Status market.Status `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	err := h.Repo.UpdateStatus(ctx, id, body.Status)
	switch {
	case errors.Is(err, market.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, "order not found")
		return
	case errors.Is(err, market.ErrInvalidTransition):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "failed to update order status")
		return
	}

	key := fmt.Sprintf(redisx.KeyOrderStatus, id)
	_ = h.Redis.Set(ctx, key, fmt.Sprintf(`{"status":%q}`, body.Status), redisx.TTLStatusCache).Err()

	writeJSON(w, http.StatusOK, map[string]any{"order_id": id, "new_status": body.Status})
}
