package repository

import (
	"fmt"

	"paytrack/internal/app/ds"

	"gorm.io/gorm"
)

// Методы для поставщиков

func (r *Repository) ListSuppliers(query string, page Page) ([]ds.Supplier, int64, error) {
	var suppliers []ds.Supplier
	var total int64

	db := r.db.Model(&ds.Supplier{})
	if query != "" {
		like := "%" + query + "%"
		db = db.Where("name ILIKE ? OR tax_number ILIKE ? OR contact_person ILIKE ?", like, like, like)
	}

	db = db.Session(&gorm.Session{})
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := db.Order("name, id").Scopes(page.Scope()).Find(&suppliers).Error
	if err != nil {
		return nil, 0, err
	}
	return suppliers, total, nil
}

func (r *Repository) GetSupplier(id uint) (*ds.Supplier, error) {
	var supplier ds.Supplier
	err := r.db.First(&supplier, id).Error
	if err != nil {
		return nil, notFound(err, "supplier", id)
	}
	return &supplier, nil
}

func (r *Repository) CreateSupplier(supplier *ds.Supplier) error {
	return r.db.Create(supplier).Error
}

func (r *Repository) UpdateSupplier(supplier *ds.Supplier) error {
	if _, err := r.GetSupplier(supplier.ID); err != nil {
		return err
	}
	return r.db.Save(supplier).Error
}

// DeleteSupplier удаляет поставщика вместе с его счетами.
// Пока на поставщика ссылаются договоры или задолженности, удаление запрещено
func (r *Repository) DeleteSupplier(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var supplier ds.Supplier
		if err := tx.First(&supplier, id).Error; err != nil {
			return notFound(err, "supplier", id)
		}

		for _, ref := range []struct {
			model interface{}
			name  string
		}{
			{&ds.Contract{}, "contracts"},
			{&ds.PayableManagement{}, "payables"},
		} {
			found, err := exists(tx, ref.model, "supplier_id = ?", id)
			if err != nil {
				return err
			}
			if found {
				return fmt.Errorf("supplier %d has %s: %w", id, ref.name, ErrHasReferences)
			}
		}

		if err := tx.Where("supplier_id = ?", id).Delete(&ds.BankAccount{}).Error; err != nil {
			return err
		}
		return tx.Delete(&supplier).Error
	})
}

func (r *Repository) CountSuppliers() (int64, error) {
	var count int64
	err := r.db.Model(&ds.Supplier{}).Count(&count).Error
	return count, err
}
