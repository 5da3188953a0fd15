package reconcile

import (
	"errors"
	"testing"

	"paytrack/internal/app/ds"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name          string
		amount, paid  string
		wantStatus    ds.PayableStatus
		wantRemaining string
	}{
		{name: "nothing paid", amount: "1000.00", paid: "0", wantStatus: ds.PayablePending, wantRemaining: "1000.00"},
		{name: "partially paid", amount: "1000.00", paid: "400.00", wantStatus: ds.PayablePartial, wantRemaining: "600.00"},
		{name: "one cent short", amount: "1000.00", paid: "999.99", wantStatus: ds.PayablePartial, wantRemaining: "0.01"},
		{name: "fully paid", amount: "1000.00", paid: "1000.00", wantStatus: ds.PayableCompleted, wantRemaining: "0"},
		{name: "overpaid legacy row", amount: "1000.00", paid: "1200.00", wantStatus: ds.PayableCompleted, wantRemaining: "0"},
		{name: "zero payable", amount: "0", paid: "0", wantStatus: ds.PayableCompleted, wantRemaining: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveStatus(d(tt.amount), d(tt.paid))
			if got.Status != tt.wantStatus {
				t.Errorf("status = %s, want %s", got.Status, tt.wantStatus)
			}
			if !got.RemainingAmount.Equal(d(tt.wantRemaining)) {
				t.Errorf("remaining = %s, want %s", got.RemainingAmount, tt.wantRemaining)
			}
		})
	}
}

func TestDeriveStatusIsMonotonic(t *testing.T) {
	amount := d("1000.00")
	steps := []string{"0.01", "100", "250.50", "300", "349.49"} // в сумме ровно 1000

	rank := map[ds.PayableStatus]int{ds.PayablePending: 0, ds.PayablePartial: 1, ds.PayableCompleted: 2}

	paid := decimal.Zero
	prev := DeriveStatus(amount, paid)
	if prev.Status != ds.PayablePending {
		t.Fatalf("initial status = %s", prev.Status)
	}

	for i, step := range steps {
		paid = paid.Add(d(step))
		cur := DeriveStatus(amount, paid)

		if rank[cur.Status] < rank[prev.Status] {
			t.Fatalf("step %d: status went back %s -> %s", i, prev.Status, cur.Status)
		}
		if rank[cur.Status]-rank[prev.Status] > 1 {
			t.Fatalf("step %d: status skipped %s -> %s", i, prev.Status, cur.Status)
		}
		if !cur.RemainingAmount.LessThan(prev.RemainingAmount) {
			t.Fatalf("step %d: remaining %s did not decrease from %s", i, cur.RemainingAmount, prev.RemainingAmount)
		}
		prev = cur
	}

	if prev.Status != ds.PayableCompleted || !prev.RemainingAmount.IsZero() {
		t.Fatalf("final = %+v, want completed with zero remaining", prev)
	}
}

func TestValidateNewPaymentBoundary(t *testing.T) {
	amount := d("1000.00")

	if err := ValidateNewPayment(amount, d("700.00"), d("300.00")); err != nil {
		t.Fatalf("exact completion rejected: %v", err)
	}

	err := ValidateNewPayment(amount, d("700.00"), d("300.01"))
	var exceeded *AmountExceededError
	if !errors.As(err, &exceeded) {
		t.Fatalf("err = %v, want AmountExceededError", err)
	}
	if !exceeded.Remaining.Equal(d("300.00")) {
		t.Errorf("remaining = %s, want 300.00", exceeded.Remaining)
	}
	if !exceeded.Attempted.Equal(d("300.01")) {
		t.Errorf("attempted = %s", exceeded.Attempted)
	}
}

func TestValidateNewPaymentRejectsNonPositive(t *testing.T) {
	for _, amount := range []string{"0", "-5"} {
		if err := ValidateNewPayment(d("100"), decimal.Zero, d(amount)); !errors.Is(err, ErrNonPositiveAmount) {
			t.Errorf("amount %s: err = %v", amount, err)
		}
	}
}

func TestValidateEditedPaymentIgnoresOldValue(t *testing.T) {
	amount := d("1000.00")
	payments := []ds.PaymentRecord{
		{ID: 1, Amount: d("300.00")},
		{ID: 2, Amount: d("500.00")}, // редактируемый платёж
		{ID: 3, Amount: d("100.00")},
	}

	// остальные платежи: 400, значит можно поставить до 600
	tests := []struct {
		newAmount string
		ok        bool
	}{
		{"600.00", true},
		{"50.00", true},
		{"600.01", false},
	}

	for _, tt := range tests {
		err := ValidateEditedPayment(amount, payments, 2, d(tt.newAmount))
		if tt.ok && err != nil {
			t.Errorf("%s: unexpected error %v", tt.newAmount, err)
		}
		if !tt.ok {
			var exceeded *AmountExceededError
			if !errors.As(err, &exceeded) {
				t.Errorf("%s: err = %v, want AmountExceededError", tt.newAmount, err)
			} else if !exceeded.Remaining.Equal(d("600.00")) {
				t.Errorf("%s: remaining = %s, want 600.00", tt.newAmount, exceeded.Remaining)
			}
		}
	}

	// тот же результат при другой старой сумме
	payments[1].Amount = d("10.00")
	if err := ValidateEditedPayment(amount, payments, 2, d("600.00")); err != nil {
		t.Errorf("old value influenced the check: %v", err)
	}
}

func TestPaymentScenario(t *testing.T) {
	amount := d("1000.00")
	var payments []ds.PaymentRecord

	apply := func(id uint, value string) (Derivation, error) {
		if err := ValidateNewPayment(amount, SumPayments(payments, 0), d(value)); err != nil {
			return Derivation{}, err
		}
		payments = append(payments, ds.PaymentRecord{ID: id, Amount: d(value), Currency: "USD"})
		return DeriveStatus(amount, SumPayments(payments, 0)), nil
	}

	got, err := apply(1, "400.00")
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != ds.PayablePartial || !got.RemainingAmount.Equal(d("600.00")) {
		t.Fatalf("after #1: %+v", got)
	}

	got, err = apply(2, "600.00")
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != ds.PayableCompleted || !got.RemainingAmount.IsZero() {
		t.Fatalf("after #2: %+v", got)
	}

	_, err = apply(3, "0.01")
	var exceeded *AmountExceededError
	if !errors.As(err, &exceeded) {
		t.Fatalf("#3: err = %v, want AmountExceededError", err)
	}
	if !exceeded.Remaining.IsZero() {
		t.Fatalf("#3: remaining = %s, want 0.00", exceeded.Remaining)
	}
	if len(payments) != 2 {
		t.Fatalf("rejected payment was recorded")
	}
}

func TestValidateDeclaredAmount(t *testing.T) {
	if err := ValidateDeclaredAmount(d("500"), d("500")); err != nil {
		t.Fatalf("equal amount rejected: %v", err)
	}
	var exceeded *AmountExceededError
	if err := ValidateDeclaredAmount(d("499.99"), d("500")); !errors.As(err, &exceeded) {
		t.Fatalf("err = %v, want AmountExceededError", err)
	}
}

func TestCheckCurrency(t *testing.T) {
	if err := CheckCurrency("USD", "usd"); err != nil {
		t.Errorf("case-insensitive match failed: %v", err)
	}
	if err := CheckCurrency("USD", "EUR"); !errors.Is(err, ErrCurrencyMismatch) {
		t.Errorf("err = %v, want ErrCurrencyMismatch", err)
	}
}

func TestRoundMoneyFeedsValidation(t *testing.T) {
	// сумма меньше копейки после округления становится нулевой и отклоняется
	if err := ValidateNewPayment(d("100"), decimal.Zero, RoundMoney(d("0.004"))); !errors.Is(err, ErrNonPositiveAmount) {
		t.Fatalf("err = %v, want ErrNonPositiveAmount", err)
	}
	if got := RoundMoney(d("123.456789")); !got.Equal(d("123.46")) {
		t.Fatalf("RoundMoney = %s, want 123.46", got)
	}
	got := DeriveStatus(RoundMoney(d("0.004")), decimal.Zero)
	if got.Status != ds.PayableCompleted || !got.RemainingAmount.IsZero() {
		t.Fatalf("derivation of rounded amount = %+v", got)
	}
}
