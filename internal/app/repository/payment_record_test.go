package repository

import (
	"errors"
	"testing"

	"paytrack/internal/app/ds"
	"paytrack/internal/app/reconcile"
)

func TestPaymentChangesPersistDerivedStatus(t *testing.T) {
	r := newTestRepository(t)
	f := seed(t, r)
	p := f.payable(t, r, "1000.00")
	assertStored(t, r, p.ID, ds.PayablePending, "1000")

	first := payment(p.ID, "400.00")
	derived, err := r.CreatePayment(first)
	if err != nil {
		t.Fatalf("payment #1: %v", err)
	}
	if derived.Status != ds.PayablePartial || !derived.RemainingAmount.Equal(d("600")) {
		t.Fatalf("payment #1 derivation = %+v", derived)
	}
	if first.Currency != "USD" {
		t.Errorf("currency = %q, want payable currency", first.Currency)
	}
	assertStored(t, r, p.ID, ds.PayablePartial, "600")

	second := payment(p.ID, "600.00")
	if _, err := r.CreatePayment(second); err != nil {
		t.Fatalf("payment #2: %v", err)
	}
	assertStored(t, r, p.ID, ds.PayableCompleted, "0")

	_, err = r.CreatePayment(payment(p.ID, "0.01"))
	var exceeded *reconcile.AmountExceededError
	if !errors.As(err, &exceeded) {
		t.Fatalf("payment #3: err = %v, want AmountExceededError", err)
	}
	if !exceeded.Remaining.IsZero() {
		t.Errorf("remaining in error = %s, want 0", exceeded.Remaining)
	}
	payments, err := r.ListPayments(p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(payments) != 2 {
		t.Fatalf("rejected payment was stored: %d rows", len(payments))
	}
	assertStored(t, r, p.ID, ds.PayableCompleted, "0")

	// правка: старая сумма первого платежа в проверке не участвует
	_, derived, err = r.UpdatePayment(first.ID, func(pr *ds.PaymentRecord) { pr.Amount = d("300.00") })
	if err != nil {
		t.Fatalf("update #1: %v", err)
	}
	if derived.Status != ds.PayablePartial {
		t.Errorf("update derivation = %+v", derived)
	}
	assertStored(t, r, p.ID, ds.PayablePartial, "100")

	_, _, err = r.UpdatePayment(first.ID, func(pr *ds.PaymentRecord) { pr.Amount = d("400.01") })
	if !errors.As(err, &exceeded) {
		t.Fatalf("update over limit: err = %v, want AmountExceededError", err)
	}
	if !exceeded.Remaining.Equal(d("400")) {
		t.Errorf("remaining in error = %s, want 400", exceeded.Remaining)
	}
	assertStored(t, r, p.ID, ds.PayablePartial, "100")

	if _, _, _, err := r.DeletePayment(second.ID); err != nil {
		t.Fatalf("delete #2: %v", err)
	}
	assertStored(t, r, p.ID, ds.PayablePartial, "700")

	if _, _, _, err := r.DeletePayment(first.ID); err != nil {
		t.Fatalf("delete #1: %v", err)
	}
	assertStored(t, r, p.ID, ds.PayablePending, "1000")
}

func TestUpdatePaymentCannotMoveToAnotherPayable(t *testing.T) {
	r := newTestRepository(t)
	f := seed(t, r)
	from := f.payable(t, r, "500")
	to := f.payable(t, r, "500")

	pr := payment(from.ID, "200")
	if _, err := r.CreatePayment(pr); err != nil {
		t.Fatal(err)
	}

	_, _, err := r.UpdatePayment(pr.ID, func(p *ds.PaymentRecord) { p.PayableID = to.ID })
	if !errors.Is(err, ErrPaymentMovesPayable) {
		t.Fatalf("err = %v, want ErrPaymentMovesPayable", err)
	}
	assertStored(t, r, from.ID, ds.PayablePartial, "300")
	assertStored(t, r, to.ID, ds.PayablePending, "500")
}

func TestPaymentNotFound(t *testing.T) {
	r := newTestRepository(t)
	f := seed(t, r)
	p := f.payable(t, r, "100")

	if _, err := r.CreatePayment(payment(p.ID+100, "10")); !errors.Is(err, ErrNotFound) {
		t.Errorf("create for missing payable: err = %v", err)
	}
	if _, _, err := r.UpdatePayment(999, func(*ds.PaymentRecord) {}); !errors.Is(err, ErrNotFound) {
		t.Errorf("update missing: err = %v", err)
	}
	if _, _, _, err := r.DeletePayment(999); !errors.Is(err, ErrNotFound) {
		t.Errorf("delete missing: err = %v", err)
	}

	pr := payment(p.ID, "10")
	bankAccount := uint(42)
	pr.BankAccountID = &bankAccount
	if _, err := r.CreatePayment(pr); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown bank account: err = %v", err)
	}
	assertStored(t, r, p.ID, ds.PayablePending, "100")
}

func TestPaymentCurrencyMustMatch(t *testing.T) {
	r := newTestRepository(t)
	f := seed(t, r)
	p := f.payable(t, r, "100")

	pr := payment(p.ID, "10")
	pr.Currency = "EUR"
	if _, err := r.CreatePayment(pr); !errors.Is(err, reconcile.ErrCurrencyMismatch) {
		t.Fatalf("err = %v, want ErrCurrencyMismatch", err)
	}
	assertStored(t, r, p.ID, ds.PayablePending, "100")
}

func TestSubCentAmountsAreRoundedBeforeChecks(t *testing.T) {
	r := newTestRepository(t)
	f := seed(t, r)
	p := f.payable(t, r, "100")

	if _, err := r.CreatePayment(payment(p.ID, "0.004")); !errors.Is(err, reconcile.ErrNonPositiveAmount) {
		t.Fatalf("err = %v, want ErrNonPositiveAmount", err)
	}
	payments, err := r.ListPayments(p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(payments) != 0 {
		t.Fatalf("zero payment stored")
	}

	tiny := f.payable(t, r, "0.004")
	if !tiny.Amount.IsZero() || tiny.Status != ds.PayableCompleted {
		t.Fatalf("in-memory payable = %s/%s, want rounded 0/completed", tiny.Amount, tiny.Status)
	}
	assertStored(t, r, tiny.ID, ds.PayableCompleted, "0")

	drifts, err := r.RecomputeAll(false)
	if err != nil {
		t.Fatal(err)
	}
	if len(drifts) != 0 {
		t.Fatalf("drift right after create: %+v", drifts)
	}
}

func TestRecomputeAllDetectsAndFixesDrift(t *testing.T) {
	r := newTestRepository(t)
	f := seed(t, r)
	ok := f.payable(t, r, "300")
	broken := f.payable(t, r, "1000")
	if _, err := r.CreatePayment(payment(broken.ID, "250")); err != nil {
		t.Fatal(err)
	}

	// статус, записанный мимо applyPaymentChange
	err := r.db.Model(&ds.PayableManagement{}).Where("id = ?", broken.ID).
		Updates(map[string]interface{}{"status": ds.PayableCompleted, "remaining_amount": d("0")}).Error
	if err != nil {
		t.Fatal(err)
	}

	drifts, err := r.RecomputeAll(false)
	if err != nil {
		t.Fatal(err)
	}
	if len(drifts) != 1 || drifts[0].PayableID != broken.ID {
		t.Fatalf("drifts = %+v, want only payable %d", drifts, broken.ID)
	}
	if drifts[0].Derived.Status != ds.PayablePartial || !drifts[0].Derived.RemainingAmount.Equal(d("750")) {
		t.Errorf("derived = %+v", drifts[0].Derived)
	}
	assertStored(t, r, broken.ID, ds.PayableCompleted, "0")

	if _, err := r.RecomputeAll(true); err != nil {
		t.Fatal(err)
	}
	assertStored(t, r, broken.ID, ds.PayablePartial, "750")
	assertStored(t, r, ok.ID, ds.PayablePending, "300")

	drifts, err = r.RecomputeAll(false)
	if err != nil {
		t.Fatal(err)
	}
	if len(drifts) != 0 {
		t.Fatalf("drift after fix: %+v", drifts)
	}
}

func TestUpdatePayableAmount(t *testing.T) {
	r := newTestRepository(t)
	f := seed(t, r)
	p := f.payable(t, r, "1000")
	if _, err := r.CreatePayment(payment(p.ID, "400")); err != nil {
		t.Fatal(err)
	}

	_, _, err := r.UpdatePayable(p.ID, func(pm *ds.PayableManagement) { pm.Amount = d("399.99") })
	var exceeded *reconcile.AmountExceededError
	if !errors.As(err, &exceeded) {
		t.Fatalf("err = %v, want AmountExceededError", err)
	}
	assertStored(t, r, p.ID, ds.PayablePartial, "600")

	updated, derived, err := r.UpdatePayable(p.ID, func(pm *ds.PayableManagement) { pm.Amount = d("400") })
	if err != nil {
		t.Fatal(err)
	}
	if derived.Status != ds.PayableCompleted || updated.Status != ds.PayableCompleted {
		t.Fatalf("derivation = %+v", derived)
	}
	assertStored(t, r, p.ID, ds.PayableCompleted, "0")
}

func TestDeletePayableRemovesPayments(t *testing.T) {
	r := newTestRepository(t)
	f := seed(t, r)
	p := f.payable(t, r, "1000")
	pr := payment(p.ID, "100")
	if _, err := r.CreatePayment(pr); err != nil {
		t.Fatal(err)
	}

	if _, err := r.DeletePayable(p.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := r.GetPayable(p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("payable still there: %v", err)
	}
	if _, err := r.GetPayment(pr.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("payment still there: %v", err)
	}
}
