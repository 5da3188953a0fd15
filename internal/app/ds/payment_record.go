package ds

import (
	"time"

	"github.com/shopspring/decimal"
)

// Платежи по задолженности
type PaymentRecord struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	PayableID     uint            `gorm:"not null;index" json:"payable_id"`
	BankAccountID *uint           `gorm:"index" json:"bank_account_id"`
	Amount        decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Currency      string          `gorm:"type:varchar(3);not null" json:"currency"`
	PaymentDate   time.Time       `gorm:"type:date;not null" json:"payment_date"`
	Description   string          `gorm:"type:varchar(255)" json:"description"`
	Notes         string          `gorm:"type:text" json:"notes"`
	CreatedBy     uint            `json:"created_by"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	Payable PayableManagement `gorm:"foreignKey:PayableID;constraint:OnDelete:CASCADE" json:"-"`
}
