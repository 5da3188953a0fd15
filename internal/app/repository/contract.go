package repository

import (
	"fmt"

	"paytrack/internal/app/contracttree"
	"paytrack/internal/app/ds"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ContractFilter struct {
	SupplierID *uint
	Status     string
	Query      string
}

// ListContracts возвращает плоский список, дерево строится в contracttree
func (r *Repository) ListContracts(filter ContractFilter) ([]ds.Contract, error) {
	var contracts []ds.Contract

	db := r.db.Model(&ds.Contract{})
	if filter.SupplierID != nil {
		db = db.Where("supplier_id = ?", *filter.SupplierID)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		db = db.Where("number ILIKE ? OR title ILIKE ?", like, like)
	}

	err := db.Order("id").Find(&contracts).Error
	if err != nil {
		return nil, err
	}
	return contracts, nil
}

func (r *Repository) GetContract(id uint) (*ds.Contract, error) {
	var contract ds.Contract
	err := r.db.First(&contract, id).Error
	if err != nil {
		return nil, notFound(err, "contract", id)
	}
	return &contract, nil
}

func (r *Repository) CreateContract(contract *ds.Contract) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := checkContractRefs(tx, contract); err != nil {
			return err
		}
		if contract.ParentContractID != nil {
			found, err := exists(tx, &ds.Contract{}, "id = ?", *contract.ParentContractID)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("parent contract %d: %w", *contract.ParentContractID, contracttree.ErrParentNotFound)
			}
		}
		return tx.Create(contract).Error
	})
}

// UpdateContract сохраняет договор, смена родителя проверяется на циклы
func (r *Repository) UpdateContract(contract *ds.Contract) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var current ds.Contract
		if err := tx.First(&current, contract.ID).Error; err != nil {
			return notFound(err, "contract", contract.ID)
		}
		if err := checkContractRefs(tx, contract); err != nil {
			return err
		}

		if contract.ParentContractID != nil {
			hierarchy, err := contractHierarchy(tx)
			if err != nil {
				return err
			}
			if err := contracttree.CheckParent(hierarchy, contract.ID, contract.ParentContractID); err != nil {
				return err
			}
		}

		contract.CreatedAt = current.CreatedAt
		return tx.Save(contract).Error
	})
}

// DeleteContract запрещено удалять договор с дочерними договорами или задолженностями
func (r *Repository) DeleteContract(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var contract ds.Contract
		if err := tx.First(&contract, id).Error; err != nil {
			return notFound(err, "contract", id)
		}

		children, err := exists(tx, &ds.Contract{}, "parent_contract_id = ?", id)
		if err != nil {
			return err
		}
		if children {
			return fmt.Errorf("contract %d has child contracts: %w", id, ErrHasReferences)
		}

		payables, err := exists(tx, &ds.PayableManagement{}, "contract_id = ?", id)
		if err != nil {
			return err
		}
		if payables {
			return fmt.Errorf("contract %d has payables: %w", id, ErrHasReferences)
		}

		return tx.Delete(&contract).Error
	})
}

func (r *Repository) CountContracts() (int64, error) {
	var count int64
	err := r.db.Model(&ds.Contract{}).Count(&count).Error
	return count, err
}

// contractHierarchy - только id и родитель, для проверки иерархии.
// Строки блокируются до конца транзакции, встречные смены родителя идут по очереди
func contractHierarchy(tx *gorm.DB) ([]ds.Contract, error) {
	var contracts []ds.Contract
	err := hierarchyQuery(tx).Find(&contracts).Error
	return contracts, err
}

func hierarchyQuery(tx *gorm.DB) *gorm.DB {
	return tx.Model(&ds.Contract{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id", "parent_contract_id").
		Order("id")
}

func checkContractRefs(tx *gorm.DB, contract *ds.Contract) error {
	if contract.SupplierID == nil {
		return nil
	}
	found, err := exists(tx, &ds.Supplier{}, "id = ?", *contract.SupplierID)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("supplier %d: %w", *contract.SupplierID, ErrNotFound)
	}
	return nil
}
