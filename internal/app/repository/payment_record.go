package repository

import (
	"fmt"

	"paytrack/internal/app/ds"
	"paytrack/internal/app/reconcile"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// paymentChange изменяет платежи заблокированной задолженности
type paymentChange func(tx *gorm.DB, payable *ds.PayableManagement, payments []ds.PaymentRecord) error

func (r *Repository) ListPayments(payableID uint) ([]ds.PaymentRecord, error) {
	found, err := exists(r.db, &ds.PayableManagement{}, "id = ?", payableID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("payable %d: %w", payableID, ErrNotFound)
	}

	var payments []ds.PaymentRecord
	err = r.db.Where("payable_id = ?", payableID).Order("payment_date, id").Find(&payments).Error
	return payments, err
}

func (r *Repository) GetPayment(id uint) (*ds.PaymentRecord, error) {
	var payment ds.PaymentRecord
	err := r.db.First(&payment, id).Error
	if err != nil {
		return nil, notFound(err, "payment record", id)
	}
	return &payment, nil
}

// CreatePayment добавляет платёж, если он не превышает остаток
func (r *Repository) CreatePayment(payment *ds.PaymentRecord) (reconcile.Derivation, error) {
	return r.applyPaymentChange(payment.PayableID, func(tx *gorm.DB, payable *ds.PayableManagement, payments []ds.PaymentRecord) error {
		payment.Amount = reconcile.RoundMoney(payment.Amount)
		if payment.Currency == "" {
			payment.Currency = payable.Currency
		}
		if err := reconcile.CheckCurrency(payable.Currency, payment.Currency); err != nil {
			return err
		}
		if err := reconcile.ValidateNewPayment(payable.Amount, reconcile.SumPayments(payments, 0), payment.Amount); err != nil {
			return err
		}
		if err := checkBankAccount(tx, payment.BankAccountID); err != nil {
			return err
		}
		return tx.Omit("Payable").Create(payment).Error
	})
}

// UpdatePayment правит платёж; старая сумма платежа в проверке не участвует
func (r *Repository) UpdatePayment(id uint, apply func(p *ds.PaymentRecord)) (*ds.PaymentRecord, reconcile.Derivation, error) {
	current, err := r.GetPayment(id)
	if err != nil {
		return nil, reconcile.Derivation{}, err
	}

	var updated ds.PaymentRecord
	derived, err := r.applyPaymentChange(current.PayableID, func(tx *gorm.DB, payable *ds.PayableManagement, payments []ds.PaymentRecord) error {
		found := false
		for _, p := range payments {
			if p.ID == id {
				updated = p
				found = true
				break
			}
		}
		if !found {
			// платёж удалили между чтением и блокировкой
			return fmt.Errorf("payment record %d: %w", id, ErrNotFound)
		}

		apply(&updated)
		if updated.ID != id || updated.PayableID != payable.ID {
			return ErrPaymentMovesPayable
		}
		updated.Amount = reconcile.RoundMoney(updated.Amount)
		if updated.Currency == "" {
			updated.Currency = payable.Currency
		}
		if err := reconcile.CheckCurrency(payable.Currency, updated.Currency); err != nil {
			return err
		}
		if err := reconcile.ValidateEditedPayment(payable.Amount, payments, id, updated.Amount); err != nil {
			return err
		}
		if err := checkBankAccount(tx, updated.BankAccountID); err != nil {
			return err
		}
		return tx.Omit("Payable").Save(&updated).Error
	})
	if err != nil {
		return nil, reconcile.Derivation{}, err
	}
	return &updated, derived, nil
}

// DeletePayment удаляет платёж и пересчитывает задолженность.
// Возвращает удалённую запись и ключи объектов её вложений
func (r *Repository) DeletePayment(id uint) (*ds.PaymentRecord, []string, reconcile.Derivation, error) {
	current, err := r.GetPayment(id)
	if err != nil {
		return nil, nil, reconcile.Derivation{}, err
	}

	var keys []string
	derived, err := r.applyPaymentChange(current.PayableID, func(tx *gorm.DB, _ *ds.PayableManagement, _ []ds.PaymentRecord) error {
		res := tx.Delete(&ds.PaymentRecord{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("payment record %d: %w", id, ErrNotFound)
		}
		var detachErr error
		keys, detachErr = detachAttachments(tx, ds.OwnerPaymentRecord, id)
		return detachErr
	})
	if err != nil {
		return nil, nil, reconcile.Derivation{}, err
	}
	return current, keys, derived, nil
}

// RecomputePayable пересчитывает статус одной задолженности
func (r *Repository) RecomputePayable(payableID uint) (reconcile.Derivation, error) {
	return r.applyPaymentChange(payableID, nil)
}

// applyPaymentChange - единственный путь изменения платежей.
// В одной транзакции: блокировка задолженности, загрузка платежей, изменение,
// пересчёт и сохранение status и remaining_amount
func (r *Repository) applyPaymentChange(payableID uint, change paymentChange) (reconcile.Derivation, error) {
	var derived reconcile.Derivation

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var payable ds.PayableManagement
		if err := lockPayable(tx, payableID, &payable); err != nil {
			return err
		}

		if change != nil {
			var payments []ds.PaymentRecord
			err := tx.Where("payable_id = ?", payableID).Order("payment_date, id").Find(&payments).Error
			if err != nil {
				return err
			}
			if err := change(tx, &payable, payments); err != nil {
				return err
			}
		}

		var err error
		derived, err = persistDerivation(tx, &payable)
		return err
	})
	if err != nil {
		return reconcile.Derivation{}, err
	}
	return derived, nil
}

func persistDerivation(tx *gorm.DB, payable *ds.PayableManagement) (reconcile.Derivation, error) {
	paid, err := sumPaid(tx, payable.ID)
	if err != nil {
		return reconcile.Derivation{}, err
	}

	derived := reconcile.DeriveStatus(payable.Amount, paid)
	err = tx.Model(&ds.PayableManagement{}).
		Where("id = ?", payable.ID).
		Updates(map[string]interface{}{
			"status":           derived.Status,
			"remaining_amount": derived.RemainingAmount,
		}).Error
	if err != nil {
		return reconcile.Derivation{}, err
	}

	if derived.Status != payable.Status {
		log.WithFields(log.Fields{
			"payable_id": payable.ID,
			"from":       payable.Status,
			"to":         derived.Status,
		}).Info("payable status changed")
	}
	payable.Status = derived.Status
	payable.RemainingAmount = derived.RemainingAmount
	return derived, nil
}

// StatusDrift - расхождение сохранённого статуса с выведенным из платежей
type StatusDrift struct {
	PayableID       uint
	StoredStatus    ds.PayableStatus
	StoredRemaining decimal.Decimal
	Derived         reconcile.Derivation
}

// RecomputeAll сверяет сохранённые статусы всех задолженностей; с fix исправляет расхождения
func (r *Repository) RecomputeAll(fix bool) ([]StatusDrift, error) {
	var payables []ds.PayableManagement
	err := r.db.Select("id", "amount", "status", "remaining_amount").Order("id").Find(&payables).Error
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(payables))
	for _, p := range payables {
		ids = append(ids, p.ID)
	}
	paid, err := r.PaidAmounts(ids)
	if err != nil {
		return nil, err
	}

	var drifts []StatusDrift
	for _, p := range payables {
		derived := reconcile.DeriveStatus(p.Amount, paid[p.ID])
		if derived.Status == p.Status && derived.RemainingAmount.Equal(p.RemainingAmount) {
			continue
		}

		drifts = append(drifts, StatusDrift{
			PayableID:       p.ID,
			StoredStatus:    p.Status,
			StoredRemaining: p.RemainingAmount,
			Derived:         derived,
		})

		if fix {
			if _, err := r.RecomputePayable(p.ID); err != nil {
				return drifts, fmt.Errorf("recompute payable %d: %w", p.ID, err)
			}
		}
	}
	return drifts, nil
}

func checkBankAccount(tx *gorm.DB, id *uint) error {
	if id == nil {
		return nil
	}
	found, err := exists(tx, &ds.BankAccount{}, "id = ?", *id)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("bank account %d: %w", *id, ErrNotFound)
	}
	return nil
}
