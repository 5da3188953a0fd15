package repository

import (
	"fmt"

	"paytrack/internal/app/ds"

	"gorm.io/gorm"
)

// ============ Банки ============

func (r *Repository) ListBanks() ([]ds.Bank, error) {
	var banks []ds.Bank
	err := r.db.Order("name, id").Find(&banks).Error
	return banks, err
}

func (r *Repository) GetBank(id uint) (*ds.Bank, error) {
	var bank ds.Bank
	err := r.db.First(&bank, id).Error
	if err != nil {
		return nil, notFound(err, "bank", id)
	}
	return &bank, nil
}

func (r *Repository) CreateBank(bank *ds.Bank) error {
	return r.db.Create(bank).Error
}

func (r *Repository) UpdateBank(bank *ds.Bank) error {
	current, err := r.GetBank(bank.ID)
	if err != nil {
		return err
	}
	bank.CreatedAt = current.CreatedAt
	return r.db.Save(bank).Error
}

func (r *Repository) DeleteBank(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var bank ds.Bank
		if err := tx.First(&bank, id).Error; err != nil {
			return notFound(err, "bank", id)
		}
		found, err := exists(tx, &ds.BankAccount{}, "bank_id = ?", id)
		if err != nil {
			return err
		}
		if found {
			return fmt.Errorf("bank %d has accounts: %w", id, ErrHasReferences)
		}
		return tx.Delete(&bank).Error
	})
}

// ============ Счета поставщиков ============

func (r *Repository) ListSupplierAccounts(supplierID uint) ([]ds.BankAccount, error) {
	if _, err := r.GetSupplier(supplierID); err != nil {
		return nil, err
	}

	var accounts []ds.BankAccount
	err := r.db.Preload("Bank").
		Where("supplier_id = ?", supplierID).
		Order("is_default DESC, id").
		Find(&accounts).Error
	return accounts, err
}

func (r *Repository) GetBankAccount(id uint) (*ds.BankAccount, error) {
	var account ds.BankAccount
	err := r.db.Preload("Bank").First(&account, id).Error
	if err != nil {
		return nil, notFound(err, "bank account", id)
	}
	return &account, nil
}

// CreateBankAccount добавляет счёт, у поставщика остаётся не больше одного счёта по умолчанию
func (r *Repository) CreateBankAccount(account *ds.BankAccount) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := checkAccountRefs(tx, account); err != nil {
			return err
		}
		if account.IsDefault {
			if err := resetDefaultAccount(tx, account.SupplierID); err != nil {
				return err
			}
		}
		return tx.Omit("Bank", "Supplier").Create(account).Error
	})
}

func (r *Repository) UpdateBankAccount(account *ds.BankAccount) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var current ds.BankAccount
		if err := tx.First(&current, account.ID).Error; err != nil {
			return notFound(err, "bank account", account.ID)
		}
		if err := checkAccountRefs(tx, account); err != nil {
			return err
		}
		if account.IsDefault {
			if err := resetDefaultAccount(tx, account.SupplierID); err != nil {
				return err
			}
		}
		account.CreatedAt = current.CreatedAt
		return tx.Omit("Bank", "Supplier").Save(account).Error
	})
}

// DeleteBankAccount отвязывает счёт от платежей и удаляет его
func (r *Repository) DeleteBankAccount(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var account ds.BankAccount
		if err := tx.First(&account, id).Error; err != nil {
			return notFound(err, "bank account", id)
		}
		err := tx.Model(&ds.PaymentRecord{}).
			Where("bank_account_id = ?", id).
			Update("bank_account_id", nil).Error
		if err != nil {
			return err
		}
		return tx.Delete(&account).Error
	})
}

func checkAccountRefs(tx *gorm.DB, account *ds.BankAccount) error {
	found, err := exists(tx, &ds.Bank{}, "id = ?", account.BankID)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("bank %d: %w", account.BankID, ErrNotFound)
	}
	found, err = exists(tx, &ds.Supplier{}, "id = ?", account.SupplierID)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("supplier %d: %w", account.SupplierID, ErrNotFound)
	}
	return nil
}

func resetDefaultAccount(tx *gorm.DB, supplierID uint) error {
	return tx.Model(&ds.BankAccount{}).
		Where("supplier_id = ? AND is_default", supplierID).
		Update("is_default", false).Error
}
