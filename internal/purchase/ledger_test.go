package purchase

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestNewLedgerWriter(t *testing.T) {
	w, err := NewLedgerWriter("0.05")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !w.CommissionRate.Equal(decimal.RequireFromString("0.05")) {
		t.Errorf("rate = %s, want 0.05", w.CommissionRate)
	}

	for _, bad := range []string{"", "abc", "-0.01", "1.5"} {
		if _, err := NewLedgerWriter(bad); err == nil {
			t.Errorf("NewLedgerWriter(%q) accepted invalid rate", bad)
		}
	}
}

func TestSplit(t *testing.T) {
	w, _ := NewLedgerWriter("0.05")

	cases := []struct {
		total      string
		commission string
		payout     string
	}{
		{"100.00", "5", "95"},
		{"19.99", "1", "18.99"},     // 0.9995 rounds to 1.00
		{"0.10", "0.01", "0.09"},    // 0.005 rounds half away from zero
		{"1234.56", "61.73", "1172.83"},
		{"0", "0", "0"},
	}
	for _, c := range cases {
		total := decimal.RequireFromString(c.total)
		commission, payout := w.Split(total)
		if !commission.Equal(decimal.RequireFromString(c.commission)) {
			t.Errorf("Split(%s) commission = %s, want %s", c.total, commission, c.commission)
		}
		if !payout.Equal(decimal.RequireFromString(c.payout)) {
			t.Errorf("Split(%s) payout = %s, want %s", c.total, payout, c.payout)
		}
		if !commission.Add(payout).Equal(total) {
			t.Errorf("Split(%s): commission + payout = %s, want %s", c.total, commission.Add(payout), total)
		}
	}
}

func TestSplitZeroRate(t *testing.T) {
	w, _ := NewLedgerWriter("0")
	commission, payout := w.Split(decimal.RequireFromString("42.42"))
	if !commission.IsZero() {
		t.Errorf("commission = %s, want 0", commission)
	}
	if !payout.Equal(decimal.RequireFromString("42.42")) {
		t.Errorf("payout = %s, want 42.42", payout)
	}
}
