package handler

import (
	"net/http"

	"paytrack/internal/app/dto"
	"paytrack/internal/app/reconcile"
	"paytrack/internal/app/repository"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// GetDashboardSummary сводка по задолженностям
// @Summary Сводка
// @Description Количество задолженностей по статусам и суммы по валютам с пересчетом в USD
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.Envelope{data=dto.DashboardSummary}
// @Failure 500 {object} dto.Envelope
// @Router /api/dashboard/summary [get]
func (h *APIHandler) GetDashboardSummary(c *gin.Context) {
	stats, err := h.Repository.DashboardStats(h.today())
	if err != nil {
		handleError(c, err, "Ошибка получения сводки")
		return
	}

	rates, err := h.rates(c.Request.Context())
	if err != nil {
		handleError(c, err, "Ошибка получения курсов")
		return
	}

	successResponse(c, http.StatusOK, "", buildSummary(stats, rates))
}

func buildSummary(stats *repository.DashboardStats, rates map[string]decimal.Decimal) dto.DashboardSummary {
	summary := dto.DashboardSummary{
		StatusCounts:   stats.StatusCounts,
		OverdueCount:   stats.OverdueCount,
		ByCurrency:     make([]dto.CurrencyTotals, 0, len(stats.ByCurrency)),
		TotalAmountUSD: decimal.Zero,
		TotalPaidUSD:   decimal.Zero,
		TotalRemainUSD: decimal.Zero,
		SupplierCount:  stats.SupplierCount,
		ContractCount:  stats.ContractCount,
	}

	for _, total := range stats.ByCurrency {
		rate := reconcile.RateFor(rates, total.Currency)
		paid := total.Amount.Sub(total.Remaining)

		summary.ByCurrency = append(summary.ByCurrency, dto.CurrencyTotals{
			Currency:  total.Currency,
			Amount:    total.Amount,
			Paid:      paid,
			Remaining: total.Remaining,
			Rate:      rate,
		})
		summary.TotalAmountUSD = summary.TotalAmountUSD.Add(reconcile.ToUSD(total.Amount, rate))
		summary.TotalPaidUSD = summary.TotalPaidUSD.Add(reconcile.ToUSD(paid, rate))
		summary.TotalRemainUSD = summary.TotalRemainUSD.Add(reconcile.ToUSD(total.Remaining, rate))
	}
	return summary
}
