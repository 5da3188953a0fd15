package repository

import (
	"fmt"

	"paytrack/internal/app/ds"

	"gorm.io/gorm"
)

// Методы для вложений. Сами файлы хранятся в MinIO, здесь только метаданные

func (r *Repository) CreateAttachment(attachment *ds.Attachment) error {
	return r.db.Create(attachment).Error
}

func (r *Repository) ListAttachments(owner ds.AttachmentOwner, ownerID uint) ([]ds.Attachment, error) {
	var attachments []ds.Attachment
	err := r.db.Where("owner_type = ? AND owner_id = ?", owner, ownerID).
		Order("created_at, id").
		Find(&attachments).Error
	return attachments, err
}

func (r *Repository) GetAttachment(id uint) (*ds.Attachment, error) {
	var attachment ds.Attachment
	err := r.db.First(&attachment, id).Error
	if err != nil {
		return nil, notFound(err, "attachment", id)
	}
	return &attachment, nil
}

func (r *Repository) DeleteAttachment(id uint) (*ds.Attachment, error) {
	attachment, err := r.GetAttachment(id)
	if err != nil {
		return nil, err
	}
	if err := r.db.Delete(attachment).Error; err != nil {
		return nil, err
	}
	return attachment, nil
}

// OwnerExists проверяет, что сущность-владелец вложения существует
func (r *Repository) OwnerExists(owner ds.AttachmentOwner, ownerID uint) error {
	var model interface{}
	switch owner {
	case ds.OwnerContract:
		model = &ds.Contract{}
	case ds.OwnerPayable:
		model = &ds.PayableManagement{}
	case ds.OwnerPaymentRecord:
		model = &ds.PaymentRecord{}
	case ds.OwnerSupplier:
		model = &ds.Supplier{}
	default:
		return fmt.Errorf("unknown owner type %q", owner)
	}

	found, err := exists(r.db, model, "id = ?", ownerID)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%s %d: %w", owner, ownerID, ErrNotFound)
	}
	return nil
}

// detachAttachments удаляет записи о вложениях владельцев и возвращает ключи объектов
func detachAttachments(tx *gorm.DB, owner ds.AttachmentOwner, ownerIDs ...uint) ([]string, error) {
	if len(ownerIDs) == 0 {
		return nil, nil
	}

	var keys []string
	scope := tx.Model(&ds.Attachment{}).Where("owner_type = ? AND owner_id IN ?", owner, ownerIDs)
	if err := scope.Pluck("object_key", &keys).Error; err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, nil
	}

	err := tx.Where("owner_type = ? AND owner_id IN ?", owner, ownerIDs).Delete(&ds.Attachment{}).Error
	if err != nil {
		return nil, err
	}
	return keys, nil
}
