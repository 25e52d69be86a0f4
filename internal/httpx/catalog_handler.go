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

type CatalogHandler struct {
	Repo  *market.CatalogRepo
	Redis *redis.Client
}

func (h *CatalogHandler) Register(r *chi.Mux) {
	r.Get("/api/products", h.listProducts)
	r.Get("/api/products/{id}", h.getProduct)
	r.Post("/api/products", h.createProduct)
	r.Post("/api/products/{id}/restock", h.restock)
	r.Get("/api/artisan/products", h.artisanProducts)
}

func (h *CatalogHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	availableOnly := r.URL.Query().Get("available_only") == "true"
	ps, err := h.Repo.ListProducts(ctx, availableOnly)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch products")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": ps, "count": len(ps)})
}

func (h *CatalogHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, err := h.Repo.GetProduct(ctx, id)
	if errors.Is(err, market.ErrProductNotFound) {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch product")
		return
	}

	// keep the display cache warm for the notifier's readers
	key := fmt.Sprintf(redisx.KeyStock, p.ID)
	_ = h.Redis.Set(ctx, key, p.Stock, redisx.TTLStockCache).Err()

	writeJSON(w, http.StatusOK, p)
}

func (h *CatalogHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	artisanID, ok := userID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing or invalid X-User-Id")
		return
	}

	var in market.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if in.Name == "" || in.Price.IsNegative() || in.Stock < 0 {
		writeError(w, http.StatusBadRequest, "invalid product fields")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, err := h.Repo.CreateProduct(ctx, artisanID, in)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create product")
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *CatalogHandler) restock(w http.ResponseWriter, r *http.Request) {
	artisanID, ok := userID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing or invalid X-User-Id")
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var body struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Quantity <= 0 {
		writeError(w, http.StatusBadRequest, "quantity must be a positive integer")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	newStock, err := h.Repo.Restock(ctx, id, artisanID, body.Quantity)
	if errors.Is(err, market.ErrProductNotFound) {
		writeError(w, http.StatusNotFound, "product not found or not owned by caller")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to restock")
		return
	}

	key := fmt.Sprintf(redisx.KeyStock, id)
	_ = h.Redis.Set(ctx, key, newStock, redisx.TTLStockCache).Err()

	writeJSON(w, http.StatusOK, map[string]any{"product_id": id, "stock_quantity": newStock})
}

func (h *CatalogHandler) artisanProducts(w http.ResponseWriter, r *http.Request) {
	artisanID, ok := userID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing or invalid X-User-Id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ps, err := h.Repo.ListProductsByArtisan(ctx, artisanID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch products")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": ps, "count": len(ps)})
}
