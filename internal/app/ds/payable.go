package ds

import (
	"time"

	"github.com/shopspring/decimal"
)

type PayableStatus string

const (
	PayablePending   PayableStatus = "pending"
	PayablePartial   PayableStatus = "partial"
	PayableCompleted PayableStatus = "completed"
	PayableOverdue   PayableStatus = "overdue"
)

type Importance string

const (
	ImportanceNormal        Importance = "normal"
	ImportanceImportant     Importance = "important"
	ImportanceVeryImportant Importance = "very_important"
)

type Urgency string

const (
	UrgencyNormal     Urgency = "normal"
	UrgencyUrgent     Urgency = "urgent"
	UrgencyVeryUrgent Urgency = "very_urgent"
	UrgencyOverdue    Urgency = "overdue"
)

// Задолженности перед поставщиками.
// Status и RemainingAmount хранятся в таблице и пересчитываются после каждого изменения платежей
type PayableManagement struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	ContractID      uint            `gorm:"not null;index" json:"contract_id"`
	SupplierID      uint            `gorm:"not null;index" json:"supplier_id"`
	Title           string          `gorm:"type:varchar(255)" json:"title"`
	Amount          decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Currency        string          `gorm:"type:varchar(3);not null" json:"currency"`
	DueDate         time.Time       `gorm:"type:date;not null;index" json:"due_date"`
	Status          PayableStatus   `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	RemainingAmount decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"remaining_amount"`
	Importance      Importance      `gorm:"type:varchar(20);not null;default:'normal'" json:"importance"`
	Urgency         Urgency         `gorm:"type:varchar(20);not null;default:'normal'" json:"urgency"`
	Description     string          `gorm:"type:text" json:"description"`
	CreatedBy       uint            `json:"created_by"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	Contract Contract `gorm:"foreignKey:ContractID;constraint:OnDelete:RESTRICT" json:"-"`
	Supplier Supplier `gorm:"foreignKey:SupplierID;constraint:OnDelete:RESTRICT" json:"-"`
}

// TableName - имя таблицы в единственном числе
func (PayableManagement) TableName() string {
	return "payable_management"
}
