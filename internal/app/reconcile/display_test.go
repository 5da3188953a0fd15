package reconcile

import (
	"testing"
	"time"

	"paytrack/internal/app/ds"

	"github.com/shopspring/decimal"
)

func TestToUSD(t *testing.T) {
	tests := []struct {
		amount, rate, want string
	}{
		{"7350.00", "7.35", "1000"},
		{"100.00", "0", "100"},
		{"100.00", "-2", "100"},
		{"10.00", "3", "3.33"},
	}
	for _, tt := range tests {
		got := ToUSD(d(tt.amount), d(tt.rate))
		if !got.Equal(d(tt.want)) {
			t.Errorf("ToUSD(%s, %s) = %s, want %s", tt.amount, tt.rate, got, tt.want)
		}
	}
}

func TestRateFor(t *testing.T) {
	rates := map[string]decimal.Decimal{"CNY": d("7.2"), "BAD": decimal.Zero}

	if got := RateFor(rates, "CNY"); !got.Equal(d("7.2")) {
		t.Errorf("CNY = %s", got)
	}
	if got := RateFor(rates, "BAD"); !got.Equal(d("1")) {
		t.Errorf("zero rate = %s, want 1", got)
	}
	if got := RateFor(rates, "EUR"); !got.Equal(d("1")) {
		t.Errorf("missing rate = %s, want 1", got)
	}
}

func TestEffectiveStatus(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	yesterday := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	today := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		status ds.PayableStatus
		due    time.Time
		want   ds.PayableStatus
	}{
		{ds.PayablePending, yesterday, ds.PayableOverdue},
		{ds.PayablePartial, yesterday, ds.PayableOverdue},
		{ds.PayableCompleted, yesterday, ds.PayableCompleted},
		{ds.PayablePending, today, ds.PayablePending},
	}
	for _, tt := range tests {
		if got := EffectiveStatus(tt.status, tt.due, now); got != tt.want {
			t.Errorf("EffectiveStatus(%s, %s) = %s, want %s", tt.status, tt.due.Format("2006-01-02"), got, tt.want)
		}
	}
}

func TestSuggestUrgency(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)
	day := func(n int) time.Time { return time.Date(2026, 3, 10+n, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		due  time.Time
		want ds.Urgency
	}{
		{day(-1), ds.UrgencyOverdue},
		{day(0), ds.UrgencyVeryUrgent},
		{day(3), ds.UrgencyVeryUrgent},
		{day(4), ds.UrgencyUrgent},
		{day(7), ds.UrgencyUrgent},
		{day(8), ds.UrgencyNormal},
	}
	for _, tt := range tests {
		if got := SuggestUrgency(tt.due, now); got != tt.want {
			t.Errorf("due %s: got %s, want %s", tt.due.Format("2006-01-02"), got, tt.want)
		}
	}
}
