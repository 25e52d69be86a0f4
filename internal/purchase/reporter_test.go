package purchase

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	"github.com/craftline/artisan-market/internal/market"
)

type fakeAudit struct {
	mu      sync.Mutex
	entries []market.AuditEntry
	err     error
}

func (f *fakeAudit) Append(ctx context.Context, e market.AuditEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, e)
	return nil
}

type fakeBus struct {
	mu       sync.Mutex
	messages [][]byte
}

func (f *fakeBus) Publish(key, value []byte, headers ...kafkago.Header) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, value)
}

type fakeCache struct {
	mu   sync.Mutex
	sets map[string]any
}

func (f *fakeCache) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sets == nil {
		f.sets = map[string]any{}
	}
	f.sets[key] = value
	return redis.NewStatusResult("OK", nil)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestReporter(audit *fakeAudit, ok, rj *fakeBus, cache *fakeCache) *Reporter {
	r := &Reporter{
		Audit:     audit,
		Completed: ok,
		Rejected:  rj,
		Service:   "test",
		Log:       discardLogger(),
	}
	if cache != nil {
		r.Cache = cache
	}
	return r
}

func TestReport_Committed(t *testing.T) {
	audit := &fakeAudit{}
	ok, rj := &fakeBus{}, &fakeBus{}
	cache := &fakeCache{}
	rep := newTestReporter(audit, ok, rj, cache)

	req := Request{ProductID: 7, BuyerID: 3, Quantity: 2, ShippingAddress: "12 Pottery Lane"}
	res := Result{
		Outcome:        OutcomeCommitted,
		OrderID:        41,
		TransactionID:  90,
		TotalPrice:     decimal.RequireFromString("50.00"),
		RemainingStock: 3,
	}
	rep.Report(context.Background(), req, res)

	if len(audit.entries) != 1 {
		t.Fatalf("audit entries = %d, want 1", len(audit.entries))
	}
	e := audit.entries[0]
	if e.ActionType != "purchase_attempt" || e.EntityType != "product" || e.EntityID != 7 {
		t.Errorf("unexpected audit entry: %+v", e)
	}
	if e.UserID == nil || *e.UserID != 3 {
		t.Errorf("audit actor = %v, want 3", e.UserID)
	}
	var detail map[string]any
	if err := json.Unmarshal(e.Details, &detail); err != nil {
		t.Fatalf("audit details not json: %v", err)
	}
	if detail["outcome"] != "committed" {
		t.Errorf("detail outcome = %v", detail["outcome"])
	}
	if detail["order_id"] != float64(41) {
		t.Errorf("detail order_id = %v", detail["order_id"])
	}

	if len(ok.messages) != 1 || len(rj.messages) != 0 {
		t.Fatalf("publishes = %d completed / %d rejected, want 1/0", len(ok.messages), len(rj.messages))
	}
	var env market.Envelope
	if err := json.Unmarshal(ok.messages[0], &env); err != nil {
		t.Fatalf("bad envelope: %v", err)
	}
	if env.EventType != market.EventPurchaseCompleted || env.EventID == "" {
		t.Errorf("unexpected envelope: %+v", env)
	}

	if len(cache.sets) != 2 {
		t.Errorf("cache sets = %v, want stock + status keys", cache.sets)
	}
}

func TestReport_RejectedOutcomes(t *testing.T) {
	for _, outcome := range []Outcome{OutcomeSoldOut, OutcomeContended, OutcomeStorageError} {
		audit := &fakeAudit{}
		ok, rj := &fakeBus{}, &fakeBus{}
		rep := newTestReporter(audit, ok, rj, nil)

		rep.Report(context.Background(), Request{ProductID: 1, BuyerID: 2, Quantity: 1}, Result{Outcome: outcome})

		if len(audit.entries) != 1 {
			t.Errorf("%s: audit entries = %d, want 1", outcome, len(audit.entries))
		}
		if len(ok.messages) != 0 || len(rj.messages) != 1 {
			t.Errorf("%s: publishes = %d completed / %d rejected, want 0/1", outcome, len(ok.messages), len(rj.messages))
		}
	}
}

func TestReport_AuditFailureIsSwallowed(t *testing.T) {
	audit := &fakeAudit{err: errors.New("audit store down")}
	ok, rj := &fakeBus{}, &fakeBus{}
	rep := newTestReporter(audit, ok, rj, nil)

	// must not panic or surface the audit error; the event still goes out
	rep.Report(context.Background(), Request{ProductID: 1, BuyerID: 2, Quantity: 1},
		Result{Outcome: OutcomeCommitted, OrderID: 5})

	if len(ok.messages) != 1 {
		t.Errorf("completed publishes = %d, want 1", len(ok.messages))
	}
}

func TestRejectReason(t *testing.T) {
	cases := map[Outcome]string{
		OutcomeSoldOut:      "SOLD_OUT",
		OutcomeContended:    "CONTENDED",
		OutcomeStorageError: "STORAGE_ERROR",
	}
	for o, want := range cases {
		if got := rejectReason(o); got != want {
			t.Errorf("rejectReason(%s) = %s, want %s", o, got, want)
		}
	}
}
