package ds

import (
	"time"

	"github.com/shopspring/decimal"
)

type ContractStatus string

const (
	ContractDraft      ContractStatus = "draft"
	ContractActive     ContractStatus = "active"
	ContractCompleted  ContractStatus = "completed"
	ContractTerminated ContractStatus = "terminated"
)

// Договоры. Дополнительные соглашения ссылаются на основной договор через ParentContractID
type Contract struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	ParentContractID *uint           `gorm:"index" json:"parent_contract_id"` // null - корневой договор
	SupplierID       *uint           `gorm:"index" json:"supplier_id"`
	Number           string          `gorm:"type:varchar(100);not null" json:"number"`
	Title            string          `gorm:"type:varchar(255);not null" json:"title"`
	Amount           decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"amount"`
	Currency         string          `gorm:"type:varchar(3);not null;default:'USD'" json:"currency"`
	StartDate        *time.Time      `gorm:"type:date" json:"start_date"`
	EndDate          *time.Time      `gorm:"type:date" json:"end_date"`
	Status           ContractStatus  `gorm:"type:varchar(20);not null;default:'draft'" json:"status"`
	Description      string          `gorm:"type:text" json:"description"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`

	Parent   *Contract `gorm:"foreignKey:ParentContractID;constraint:OnDelete:RESTRICT" json:"-"`
	Supplier *Supplier `gorm:"foreignKey:SupplierID;constraint:OnDelete:RESTRICT" json:"-"`
}

func (s ContractStatus) Valid() bool {
	switch s {
	case ContractDraft, ContractActive, ContractCompleted, ContractTerminated:
		return true
	}
	return false
}
