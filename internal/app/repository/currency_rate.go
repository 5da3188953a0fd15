package repository

import (
	"strings"
	"time"

	"paytrack/internal/app/ds"

	"github.com/shopspring/decimal"
	"gorm.io/gorm/clause"
)

func (r *Repository) ListRates() ([]ds.CurrencyRate, error) {
	var rates []ds.CurrencyRate
	err := r.db.Order("code").Find(&rates).Error
	return rates, err
}

// RatesMap - курсы по коду валюты
func (r *Repository) RatesMap() (map[string]decimal.Decimal, error) {
	rates, err := r.ListRates()
	if err != nil {
		return nil, err
	}
	result := make(map[string]decimal.Decimal, len(rates))
	for _, rate := range rates {
		result[rate.Code] = rate.RatePerUSD
	}
	return result, nil
}

// UpsertRate создаёт или обновляет курс валюты
func (r *Repository) UpsertRate(code string, ratePerUSD decimal.Decimal) (*ds.CurrencyRate, error) {
	rate := ds.CurrencyRate{
		Code:       strings.ToUpper(code),
		RatePerUSD: ratePerUSD,
		UpdatedAt:  time.Now(),
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"rate_per_usd", "updated_at"}),
	}).Create(&rate).Error
	if err != nil {
		return nil, err
	}
	return &rate, nil
}
