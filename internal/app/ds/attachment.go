package ds

import "time"

type AttachmentOwner string

const (
	OwnerContract      AttachmentOwner = "contract"
	OwnerPayable       AttachmentOwner = "payable"
	OwnerPaymentRecord AttachmentOwner = "payment_record"
	OwnerSupplier      AttachmentOwner = "supplier"
)

// Вложения (сканы договоров, платёжки). Сам файл лежит в MinIO под ObjectKey
type Attachment struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	OwnerType   AttachmentOwner `gorm:"type:varchar(20);not null;index:idx_attachment_owner" json:"owner_type"`
	OwnerID     uint            `gorm:"not null;index:idx_attachment_owner" json:"owner_id"`
	FileName    string          `gorm:"type:varchar(255);not null" json:"file_name"`
	ObjectKey   string          `gorm:"type:varchar(255);not null;unique" json:"object_key"`
	ContentType string          `gorm:"type:varchar(100)" json:"content_type"`
	Size        int64           `json:"size"`
	UploadedBy  uint            `json:"uploaded_by"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (o AttachmentOwner) Valid() bool {
	switch o {
	case OwnerContract, OwnerPayable, OwnerPaymentRecord, OwnerSupplier:
		return true
	}
	return false
}
