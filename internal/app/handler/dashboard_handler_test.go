package handler

import (
	"testing"

	"paytrack/internal/app/repository"

	"github.com/shopspring/decimal"
)

func TestBuildSummary(t *testing.T) {
	d := decimal.RequireFromString
	stats := &repository.DashboardStats{
		StatusCounts: map[string]int64{"pending": 2, "partial": 1, "completed": 4},
		OverdueCount: 1,
		ByCurrency: []repository.CurrencyTotal{
			{Currency: "CNY", Amount: d("7350"), Remaining: d("3675")},
			{Currency: "USD", Amount: d("500"), Remaining: d("0")},
			{Currency: "EUR", Amount: d("100"), Remaining: d("100")}, // курса нет
		},
		SupplierCount: 3,
		ContractCount: 5,
	}
	rates := map[string]decimal.Decimal{"CNY": d("7.35"), "USD": d("1")}

	summary := buildSummary(stats, rates)

	if len(summary.ByCurrency) != 3 {
		t.Fatalf("by currency = %+v", summary.ByCurrency)
	}
	if !summary.ByCurrency[0].Paid.Equal(d("3675")) {
		t.Errorf("CNY paid = %s", summary.ByCurrency[0].Paid)
	}
	if !summary.ByCurrency[2].Rate.Equal(d("1")) {
		t.Errorf("missing rate = %s, want 1", summary.ByCurrency[2].Rate)
	}
	if !summary.TotalAmountUSD.Equal(d("1600")) {
		t.Errorf("total usd = %s, want 1600", summary.TotalAmountUSD)
	}
	if !summary.TotalRemainUSD.Equal(d("600")) {
		t.Errorf("remaining usd = %s, want 600", summary.TotalRemainUSD)
	}
	if !summary.TotalPaidUSD.Equal(d("1000")) {
		t.Errorf("paid usd = %s, want 1000", summary.TotalPaidUSD)
	}
	if summary.StatusCounts["completed"] != 4 || summary.OverdueCount != 1 {
		t.Errorf("counts = %+v", summary)
	}
}
