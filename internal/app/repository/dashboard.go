package repository

import (
	"time"

	"paytrack/internal/app/ds"

	"github.com/shopspring/decimal"
)

// CurrencyTotal - суммы задолженностей в одной валюте
type CurrencyTotal struct {
	Currency  string
	Amount    decimal.Decimal
	Remaining decimal.Decimal
}

type DashboardStats struct {
	StatusCounts  map[string]int64
	OverdueCount  int64
	ByCurrency    []CurrencyTotal
	SupplierCount int64
	ContractCount int64
}

// DashboardStats собирает агрегаты для главной страницы
func (r *Repository) DashboardStats(today time.Time) (*DashboardStats, error) {
	stats := &DashboardStats{StatusCounts: map[string]int64{
		string(ds.PayablePending):   0,
		string(ds.PayablePartial):   0,
		string(ds.PayableCompleted): 0,
	}}

	var counts []struct {
		Status string
		Count  int64
	}
	err := r.db.Model(&ds.PayableManagement{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	for _, c := range counts {
		stats.StatusCounts[c.Status] = c.Count
	}

	overdue := PayableFilter{Status: string(ds.PayableOverdue), Today: today}
	err = overdue.apply(r.db.Model(&ds.PayableManagement{})).Count(&stats.OverdueCount).Error
	if err != nil {
		return nil, err
	}

	err = r.db.Model(&ds.PayableManagement{}).
		Select("currency, SUM(amount) AS amount, SUM(remaining_amount) AS remaining").
		Group("currency").
		Order("currency").
		Scan(&stats.ByCurrency).Error
	if err != nil {
		return nil, err
	}

	if stats.SupplierCount, err = r.CountSuppliers(); err != nil {
		return nil, err
	}
	if stats.ContractCount, err = r.CountContracts(); err != nil {
		return nil, err
	}
	return stats, nil
}
