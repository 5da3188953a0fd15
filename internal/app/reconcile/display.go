package reconcile

import (
	"time"

	"paytrack/internal/app/ds"

	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// ToUSD переводит сумму в доллары для дашборда.
// ratePerUSD - единиц валюты за 1 USD; нулевой или отсутствующий курс считается равным 1.
// На проверки сумм платежей не влияет.
func ToUSD(amount, ratePerUSD decimal.Decimal) decimal.Decimal {
	if !ratePerUSD.IsPositive() {
		ratePerUSD = one
	}
	return amount.DivRound(ratePerUSD, 2)
}

// RateFor достаёт курс из справочника, по умолчанию 1
func RateFor(rates map[string]decimal.Decimal, currency string) decimal.Decimal {
	if r, ok := rates[currency]; ok && r.IsPositive() {
		return r
	}
	return one
}

// EffectiveStatus - статус для отображения: незакрытая задолженность с прошедшим сроком считается просроченной.
// В БД сохраняется только статус из DeriveStatus.
func EffectiveStatus(status ds.PayableStatus, dueDate, now time.Time) ds.PayableStatus {
	if status == ds.PayableCompleted {
		return status
	}
	if startOfDay(dueDate).Before(startOfDay(now.In(dueDate.Location()))) {
		return ds.PayableOverdue
	}
	return status
}

// SuggestUrgency предлагает срочность по сроку оплаты
func SuggestUrgency(dueDate, now time.Time) ds.Urgency {
	days := int(startOfDay(dueDate).Sub(startOfDay(now.In(dueDate.Location()))).Hours() / 24)
	switch {
	case days < 0:
		return ds.UrgencyOverdue
	case days <= 3:
		return ds.UrgencyVeryUrgent
	case days <= 7:
		return ds.UrgencyUrgent
	default:
		return ds.UrgencyNormal
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
