package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/craftline/artisan-market/internal/market"
	"github.com/craftline/artisan-market/internal/purchase"
)

type fakeCoordinator struct {
	res     purchase.Result
	err     error
	lastReq purchase.Request
}

func (f *fakeCoordinator) AttemptPurchase(ctx context.Context, req purchase.Request) (purchase.Result, error) {
	f.lastReq = req
	if f.err != nil {
		return purchase.Result{}, f.err
	}
	return f.res, nil
}

type fakeReporter struct {
	calls int
}

func (f *fakeReporter) Report(ctx context.Context, req purchase.Request, res purchase.Result) {
	f.calls++
}

func doPurchase(t *testing.T, h *PurchaseHandler, userID, body string) *httptest.ResponseRecorder {
	t.Helper()
	router := NewRouter()
	h.Register(router)

	req := httptest.NewRequest(http.MethodPost, "/api/purchase", strings.NewReader(body))
	if userID != "" {
		req.Header.Set("X-User-Id", userID)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestPurchase_Success(t *testing.T) {
	remaining := 2
	coord := &fakeCoordinator{res: purchase.Result{
		Outcome:        purchase.OutcomeCommitted,
		OrderID:        11,
		TransactionID:  22,
		ProductName:    "Clay Vase",
		TotalPrice:     decimal.RequireFromString("75.00"),
		CommissionFee:  decimal.RequireFromString("3.75"),
		ArtisanPayout:  decimal.RequireFromString("71.25"),
		RemainingStock: remaining,
	}}
	rep := &fakeReporter{}
	h := &PurchaseHandler{Coordinator: coord, Reporter: rep}

	rec := doPurchase(t, h, "3", `{"product_id":7,"quantity":3,"shipping_address":"12 Pottery Lane"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", rec.Code, rec.Body)
	}

	var resp purchaseResp
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if resp.Status != "success" || resp.OrderID != 11 || resp.TransactionID != 22 {
		t.Errorf("unexpected response: %+v", resp)
	}
	if resp.RemainingStock == nil || *resp.RemainingStock != remaining {
		t.Errorf("remaining_stock = %v, want %d", resp.RemainingStock, remaining)
	}

	if coord.lastReq.BuyerID != 3 || coord.lastReq.ProductID != 7 || coord.lastReq.Quantity != 3 {
		t.Errorf("request not forwarded: %+v", coord.lastReq)
	}
	if rep.calls != 1 {
		t.Errorf("reporter calls = %d, want 1", rep.calls)
	}
}

func TestPurchase_OutcomeStatusCodes(t *testing.T) {
	cases := []struct {
		outcome    purchase.Outcome
		wantCode   int
		wantStatus string
	}{
		{purchase.OutcomeSoldOut, http.StatusBadRequest, "sold_out"},
		{purchase.OutcomeContended, http.StatusConflict, "contended"},
		{purchase.OutcomeStorageError, http.StatusInternalServerError, "error"},
	}
	for _, c := range cases {
		coord := &fakeCoordinator{res: purchase.Result{Outcome: c.outcome}}
		rep := &fakeReporter{}
		h := &PurchaseHandler{Coordinator: coord, Reporter: rep}

		rec := doPurchase(t, h, "3", `{"product_id":7,"quantity":1,"shipping_address":"a"}`)
		if rec.Code != c.wantCode {
			t.Errorf("%s: status = %d, want %d", c.outcome, rec.Code, c.wantCode)
		}
		var resp purchaseResp
		_ = json.Unmarshal(rec.Body.Bytes(), &resp)
		if resp.Status != c.wantStatus {
			t.Errorf("%s: body status = %q, want %q", c.outcome, resp.Status, c.wantStatus)
		}
		if rep.calls != 1 {
			t.Errorf("%s: reporter calls = %d, want 1", c.outcome, rep.calls)
		}
	}
}

func TestPurchase_ContendedIsRetryable(t *testing.T) {
	coord := &fakeCoordinator{res: purchase.Result{Outcome: purchase.OutcomeContended}}
	h := &PurchaseHandler{Coordinator: coord, Reporter: &fakeReporter{}}

	rec := doPurchase(t, h, "3", `{"product_id":7,"quantity":1,"shipping_address":"a"}`)
	var resp purchaseResp
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if !resp.Retry {
		t.Error("contended response should advise retry")
	}
}

func TestPurchase_CallerErrors(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"invalid quantity", purchase.ErrInvalidQuantity, http.StatusBadRequest},
		{"unknown product", market.ErrProductNotFound, http.StatusNotFound},
	}
	for _, c := range cases {
		coord := &fakeCoordinator{err: c.err}
		rep := &fakeReporter{}
		h := &PurchaseHandler{Coordinator: coord, Reporter: rep}

		rec := doPurchase(t, h, "3", `{"product_id":7,"quantity":0,"shipping_address":"a"}`)
		if rec.Code != c.wantCode {
			t.Errorf("%s: status = %d, want %d", c.name, rec.Code, c.wantCode)
		}
		if rep.calls != 0 {
			t.Errorf("%s: reporter calls = %d, want 0 (no reservation attempted)", c.name, rep.calls)
		}
	}
}

func TestPurchase_BadRequests(t *testing.T) {
	h := &PurchaseHandler{Coordinator: &fakeCoordinator{}, Reporter: &fakeReporter{}}

	if rec := doPurchase(t, h, "", `{"product_id":7,"quantity":1,"shipping_address":"a"}`); rec.Code != http.StatusUnauthorized {
		t.Errorf("missing user: status = %d, want 401", rec.Code)
	}
	if rec := doPurchase(t, h, "3", `not json`); rec.Code != http.StatusBadRequest {
		t.Errorf("bad json: status = %d, want 400", rec.Code)
	}
	if rec := doPurchase(t, h, "3", `{"quantity":1,"shipping_address":"a"}`); rec.Code != http.StatusBadRequest {
		t.Errorf("missing product: status = %d, want 400", rec.Code)
	}
	if rec := doPurchase(t, h, "3", `{"product_id":7,"quantity":1}`); rec.Code != http.StatusBadRequest {
		t.Errorf("missing address: status = %d, want 400", rec.Code)
	}
}
