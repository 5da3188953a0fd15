package ds

import "time"

// Банки
type Bank struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(200);not null" json:"name"`
	SwiftCode string    `gorm:"type:varchar(11)" json:"swift_code"`
	Country   string    `gorm:"type:varchar(100)" json:"country"`
	CreatedAt time.Time `json:"created_at"`
}

// Расчётные счета поставщиков
type BankAccount struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	BankID        uint      `gorm:"not null;index" json:"bank_id"`
	SupplierID    uint      `gorm:"not null;index" json:"supplier_id"`
	AccountNumber string    `gorm:"type:varchar(64);not null" json:"account_number"`
	HolderName    string    `gorm:"type:varchar(200)" json:"holder_name"`
	Currency      string    `gorm:"type:varchar(3);not null" json:"currency"`
	IsDefault     bool      `gorm:"type:boolean;default:false;not null" json:"is_default"`
	CreatedAt     time.Time `json:"created_at"`

	Bank     Bank     `gorm:"foreignKey:BankID;constraint:OnDelete:RESTRICT" json:"bank"`
	Supplier Supplier `gorm:"foreignKey:SupplierID;constraint:OnDelete:RESTRICT" json:"-"`
}
