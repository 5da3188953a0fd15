package repository

import (
	"fmt"
	"time"

	"paytrack/internal/app/ds"
	"paytrack/internal/app/reconcile"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PayableFilter - фильтры списка задолженностей, пустые поля не применяются
type PayableFilter struct {
	Status     string
	SupplierID *uint
	ContractID *uint
	Currency   string
	Importance string
	Urgency    string
	DueFrom    *time.Time
	DueTo      *time.Time
	Query      string
	// дата, относительно которой считается просрочка; по умолчанию сегодня
	Today time.Time
}

func (f PayableFilter) apply(db *gorm.DB) *gorm.DB {
	switch ds.PayableStatus(f.Status) {
	case "":
	case ds.PayableOverdue:
		today := f.Today
		if today.IsZero() {
			today = time.Now()
		}
		db = db.Where("status <> ? AND due_date < ?", ds.PayableCompleted, today.Format("2006-01-02"))
	default:
		db = db.Where("status = ?", f.Status)
	}

	if f.SupplierID != nil {
		db = db.Where("supplier_id = ?", *f.SupplierID)
	}
	if f.ContractID != nil {
		db = db.Where("contract_id = ?", *f.ContractID)
	}
	if f.Currency != "" {
		db = db.Where("currency = ?", f.Currency)
	}
	if f.Importance != "" {
		db = db.Where("importance = ?", f.Importance)
	}
	if f.Urgency != "" {
		db = db.Where("urgency = ?", f.Urgency)
	}
	if f.DueFrom != nil {
		db = db.Where("due_date >= ?", f.DueFrom.Format("2006-01-02"))
	}
	if f.DueTo != nil {
		db = db.Where("due_date <= ?", f.DueTo.Format("2006-01-02"))
	}
	if f.Query != "" {
		like := "%" + f.Query + "%"
		db = db.Where("title ILIKE ? OR description ILIKE ?", like, like)
	}
	return db
}

func (r *Repository) ListPayables(filter PayableFilter, page Page) ([]ds.PayableManagement, int64, error) {
	var payables []ds.PayableManagement
	var total int64

	db := filter.apply(r.db.Model(&ds.PayableManagement{})).Session(&gorm.Session{})
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("Contract").Preload("Supplier").
		Order("due_date, id").
		Scopes(page.Scope()).
		Find(&payables).Error
	if err != nil {
		return nil, 0, err
	}
	return payables, total, nil
}

// ExportPayables - тот же фильтр без пагинации
func (r *Repository) ExportPayables(filter PayableFilter) ([]ds.PayableManagement, error) {
	var payables []ds.PayableManagement
	err := filter.apply(r.db.Model(&ds.PayableManagement{})).
		Preload("Contract").Preload("Supplier").
		Order("due_date, id").
		Find(&payables).Error
	return payables, err
}

func (r *Repository) GetPayable(id uint) (*ds.PayableManagement, error) {
	var payable ds.PayableManagement
	err := r.db.Preload("Contract").Preload("Supplier").First(&payable, id).Error
	if err != nil {
		return nil, notFound(err, "payable", id)
	}
	return &payable, nil
}

// PaidAmounts - сумма платежей по каждой задолженности
func (r *Repository) PaidAmounts(payableIDs []uint) (map[uint]decimal.Decimal, error) {
	paid := make(map[uint]decimal.Decimal, len(payableIDs))
	if len(payableIDs) == 0 {
		return paid, nil
	}

	var rows []struct {
		PayableID uint
		Paid      decimal.Decimal
	}
	err := r.db.Model(&ds.PaymentRecord{}).
		Select("payable_id, SUM(amount) AS paid").
		Where("payable_id IN ?", payableIDs).
		Group("payable_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		paid[row.PayableID] = row.Paid
	}
	return paid, nil
}

// CreatePayable создаёт задолженность, статус и остаток выводятся из суммы
func (r *Repository) CreatePayable(payable *ds.PayableManagement) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		found, err := exists(tx, &ds.Contract{}, "id = ?", payable.ContractID)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("contract %d: %w", payable.ContractID, ErrNotFound)
		}
		found, err = exists(tx, &ds.Supplier{}, "id = ?", payable.SupplierID)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("supplier %d: %w", payable.SupplierID, ErrNotFound)
		}

		payable.Amount = reconcile.RoundMoney(payable.Amount)
		derived := reconcile.DeriveStatus(payable.Amount, decimal.Zero)
		payable.Status = derived.Status
		payable.RemainingAmount = derived.RemainingAmount

		return tx.Omit("Contract", "Supplier").Create(payable).Error
	})
}

// UpdatePayable применяет изменения под блокировкой строки.
// Новая сумма не может быть меньше уже оплаченной, статус пересчитывается
func (r *Repository) UpdatePayable(id uint, apply func(p *ds.PayableManagement)) (*ds.PayableManagement, reconcile.Derivation, error) {
	var payable ds.PayableManagement
	var derived reconcile.Derivation

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := lockPayable(tx, id, &payable); err != nil {
			return err
		}

		apply(&payable)
		payable.ID = id
		payable.Amount = reconcile.RoundMoney(payable.Amount)

		paid, err := sumPaid(tx, id)
		if err != nil {
			return err
		}
		if err := reconcile.ValidateDeclaredAmount(payable.Amount, paid); err != nil {
			return err
		}

		derived = reconcile.DeriveStatus(payable.Amount, paid)
		payable.Status = derived.Status
		payable.RemainingAmount = derived.RemainingAmount

		return tx.Omit("Contract", "Supplier").Save(&payable).Error
	})
	if err != nil {
		return nil, reconcile.Derivation{}, err
	}
	return &payable, derived, nil
}

// DeletePayable удаляет задолженность вместе с платежами.
// Возвращает ключи объектов MinIO, чьи записи о вложениях удалены
func (r *Repository) DeletePayable(id uint) ([]string, error) {
	var keys []string

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var payable ds.PayableManagement
		if err := lockPayable(tx, id, &payable); err != nil {
			return err
		}

		var paymentIDs []uint
		err := tx.Model(&ds.PaymentRecord{}).Where("payable_id = ?", id).Pluck("id", &paymentIDs).Error
		if err != nil {
			return err
		}

		paymentKeys, err := detachAttachments(tx, ds.OwnerPaymentRecord, paymentIDs...)
		if err != nil {
			return err
		}
		payableKeys, err := detachAttachments(tx, ds.OwnerPayable, id)
		if err != nil {
			return err
		}
		keys = append(paymentKeys, payableKeys...)

		if err := tx.Where("payable_id = ?", id).Delete(&ds.PaymentRecord{}).Error; err != nil {
			return err
		}
		return tx.Delete(&ds.PayableManagement{}, id).Error
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}

// lockPayable - SELECT ... FOR UPDATE, сериализует изменения платежей одной задолженности
func lockPayable(tx *gorm.DB, id uint, payable *ds.PayableManagement) error {
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(payable, id).Error
	if err != nil {
		return notFound(err, "payable", id)
	}
	return nil
}

func sumPaid(tx *gorm.DB, payableID uint) (decimal.Decimal, error) {
	var paid decimal.Decimal
	err := tx.Model(&ds.PaymentRecord{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("payable_id = ?", payableID).
		Row().Scan(&paid)
	return paid, err
}
