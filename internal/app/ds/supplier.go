package ds

import "time"

// Поставщики
type Supplier struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"type:varchar(200);not null;index" json:"name"`
	TaxNumber     string    `gorm:"type:varchar(50)" json:"tax_number"`
	ContactPerson string    `gorm:"type:varchar(100)" json:"contact_person"`
	Phone         string    `gorm:"type:varchar(50)" json:"phone"`
	Email         string    `gorm:"type:varchar(100)" json:"email"`
	Address       string    `gorm:"type:text" json:"address"`
	Notes         string    `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
