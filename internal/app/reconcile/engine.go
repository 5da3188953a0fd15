// Package reconcile считает статус задолженности по сумме платежей.
//
// Функции пакета чистые: данные приходят уже выбранными из БД, а запись результата
// и блокировка строки задолженности остаются на стороне репозитория.
package reconcile

import (
	"errors"
	"fmt"
	"strings"

	"paytrack/internal/app/ds"

	"github.com/shopspring/decimal"
)

var (
	ErrNonPositiveAmount = errors.New("payment amount must be greater than zero")
	ErrCurrencyMismatch  = errors.New("payment currency does not match payable currency")
)

// MoneyScale - знаков после запятой у денежных колонок numeric(15,2)
const MoneyScale = 2

// RoundMoney приводит сумму к точности хранения
func RoundMoney(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(MoneyScale)
}

// AmountExceededError - платёж (или новая сумма задолженности) выводит оплаченное за пределы суммы задолженности
type AmountExceededError struct {
	PayableAmount decimal.Decimal
	Paid          decimal.Decimal // сумма остальных платежей
	Attempted     decimal.Decimal
	Remaining     decimal.Decimal // сколько ещё можно заплатить
}

func (e *AmountExceededError) Error() string {
	return fmt.Sprintf("payment of %s exceeds remaining amount %s (payable %s, already paid %s)",
		e.Attempted.StringFixed(2), e.Remaining.StringFixed(2),
		e.PayableAmount.StringFixed(2), e.Paid.StringFixed(2))
}

// Derivation - вычисленный статус и остаток
type Derivation struct {
	Status          ds.PayableStatus `json:"status"`
	PaidAmount      decimal.Decimal  `json:"paid_amount"`
	RemainingAmount decimal.Decimal  `json:"remaining_amount"`
}

// DeriveStatus вычисляет статус задолженности по сумме всех её платежей
func DeriveStatus(payableAmount, totalPaid decimal.Decimal) Derivation {
	d := Derivation{PaidAmount: totalPaid}

	switch {
	case totalPaid.GreaterThanOrEqual(payableAmount) && totalPaid.IsPositive():
		d.Status = ds.PayableCompleted
	case totalPaid.IsPositive():
		d.Status = ds.PayablePartial
	case payableAmount.IsZero():
		// задолженность на ноль считается закрытой
		d.Status = ds.PayableCompleted
	default:
		d.Status = ds.PayablePending
	}

	d.RemainingAmount = payableAmount.Sub(totalPaid)
	if d.RemainingAmount.IsNegative() {
		d.RemainingAmount = decimal.Zero
	}
	return d
}

// ValidateNewPayment проверяет, что новый платёж не выводит оплаченное выше суммы задолженности.
// existingSum - сумма всех остальных платежей по задолженности.
func ValidateNewPayment(payableAmount, existingSum, newAmount decimal.Decimal) error {
	if !newAmount.IsPositive() {
		return ErrNonPositiveAmount
	}
	if existingSum.Add(newAmount).GreaterThan(payableAmount) {
		remaining := payableAmount.Sub(existingSum)
		if remaining.IsNegative() {
			remaining = decimal.Zero
		}
		return &AmountExceededError{
			PayableAmount: payableAmount,
			Paid:          existingSum,
			Attempted:     newAmount,
			Remaining:     remaining,
		}
	}
	return nil
}

// ValidateEditedPayment проверяет изменение суммы платежа editedID на newAmount.
// Старая сумма платежа в проверке не участвует.
func ValidateEditedPayment(payableAmount decimal.Decimal, payments []ds.PaymentRecord, editedID uint, newAmount decimal.Decimal) error {
	return ValidateNewPayment(payableAmount, SumPayments(payments, editedID), newAmount)
}

// ValidateDeclaredAmount не даёт уменьшить сумму задолженности ниже уже оплаченного
func ValidateDeclaredAmount(newAmount, totalPaid decimal.Decimal) error {
	if newAmount.IsNegative() {
		return ErrNonPositiveAmount
	}
	if totalPaid.GreaterThan(newAmount) {
		return &AmountExceededError{
			PayableAmount: newAmount,
			Paid:          totalPaid,
			Attempted:     decimal.Zero,
			Remaining:     decimal.Zero,
		}
	}
	return nil
}

// SumPayments суммирует платежи, пропуская платёж с ID excludeID (0 - ничего не пропускать)
func SumPayments(payments []ds.PaymentRecord, excludeID uint) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		if excludeID != 0 && p.ID == excludeID {
			continue
		}
		total = total.Add(p.Amount)
	}
	return total
}

// CheckCurrency - суммы сравниваются только в валюте задолженности
func CheckCurrency(payableCurrency, paymentCurrency string) error {
	if !strings.EqualFold(payableCurrency, paymentCurrency) {
		return fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, paymentCurrency, payableCurrency)
	}
	return nil
}
