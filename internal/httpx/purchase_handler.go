package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"

	"github.com/craftline/artisan-market/internal/market"
	"github.com/craftline/artisan-market/internal/purchase"
)

type Attempter interface {
	AttemptPurchase(ctx context.Context, req purchase.Request) (purchase.Result, error)
}

type Reporter interface {
	Report(ctx context.Context, req purchase.Request, res purchase.Result)
}

type PurchaseHandler struct {
	Coordinator Attempter
	Reporter    Reporter
}

type purchaseReq struct {
	ProductID       int64  `json:"product_id"`
	Quantity        int    `json:"quantity"`
	ShippingAddress string `json:"shipping_address"`
}

type purchaseResp struct {
	Status         string           `json:"status"`
	Message        string           `json:"message,omitempty"`
	Retry          bool             `json:"retry,omitempty"`
	OrderID        int64            `json:"order_id,omitempty"`
	TransactionID  int64            `json:"transaction_id,omitempty"`
	ProductName    string           `json:"product_name,omitempty"`
	Quantity       int              `json:"quantity,omitempty"`
	TotalPrice     *decimal.Decimal `json:"total_price,omitempty"`
	CommissionFee  *decimal.Decimal `json:"commission_fee,omitempty"`
	ArtisanPayout  *decimal.Decimal `json:"artisan_payout,omitempty"`
	RemainingStock *int             `json:"remaining_stock,omitempty"`
}

func (h *PurchaseHandler) Register(r *chi.Mux) {
	r.Post("/api/purchase", h.purchase)
}

func (h *PurchaseHandler) purchase(w http.ResponseWriter, r *http.Request) {
	buyerID, ok := userID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing or invalid X-User-Id")
		return
	}

	var body purchaseReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if body.ProductID <= 0 || body.ShippingAddress == "" {
		writeError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	req := purchase.Request{
		ProductID:       body.ProductID,
		BuyerID:         buyerID,
		Quantity:        body.Quantity,
		ShippingAddress: body.ShippingAddress,
		ClientIP:        r.RemoteAddr,
		TraceID:         middleware.GetReqID(r.Context()),
	}

	res, err := h.Coordinator.AttemptPurchase(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, purchase.ErrInvalidQuantity):
			writeError(w, http.StatusBadRequest, "quantity must be a positive integer")
		case errors.Is(err, market.ErrProductNotFound):
			writeError(w, http.StatusNotFound, "product not found")
		default:
			writeError(w, http.StatusInternalServerError, "purchase failed, please try again")
		}
		return
	}

	h.Reporter.Report(ctx, req, res)

	switch res.Outcome {
	case purchase.OutcomeCommitted:
		remaining := res.RemainingStock
		writeJSON(w, http.StatusOK, purchaseResp{
			Status:         "success",
			Message:        "purchase successful",
			OrderID:        res.OrderID,
			TransactionID:  res.TransactionID,
			ProductName:    res.ProductName,
			Quantity:       req.Quantity,
			TotalPrice:     &res.TotalPrice,
			CommissionFee:  &res.CommissionFee,
			ArtisanPayout:  &res.ArtisanPayout,
			RemainingStock: &remaining,
		})
	case purchase.OutcomeSoldOut:
		writeJSON(w, http.StatusBadRequest, purchaseResp{
			Status:  "sold_out",
			Message: "this item is no longer available",
		})
	case purchase.OutcomeContended:
		writeJSON(w, http.StatusConflict, purchaseResp{
			Status:  "contended",
			Message: "product is currently being purchased by another customer, please try again",
			Retry:   true,
		})
	default:
		writeJSON(w, http.StatusInternalServerError, purchaseResp{
			Status:  "error",
			Message: "purchase failed, please try again later",
		})
	}
}
