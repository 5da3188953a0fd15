package ds

import (
	"time"

	"github.com/shopspring/decimal"
)

// Курс валюты: сколько единиц валюты за 1 USD
type CurrencyRate struct {
	Code       string          `gorm:"primaryKey;type:varchar(3)" json:"code"`
	RatePerUSD decimal.Decimal `gorm:"type:decimal(18,6);not null" json:"rate_per_usd"`
	UpdatedAt  time.Time       `json:"updated_at"`
}
