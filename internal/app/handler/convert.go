package handler

import (
	"time"

	"paytrack/internal/app/ds"
	"paytrack/internal/app/dto"
	"paytrack/internal/app/reconcile"
	"paytrack/internal/app/role"

	"github.com/shopspring/decimal"
)

// Преобразование моделей в DTO

func payableResponse(p ds.PayableManagement, paid decimal.Decimal, now time.Time) dto.PayableResponse {
	return dto.PayableResponse{
		ID:               p.ID,
		ContractID:       p.ContractID,
		ContractNumber:   p.Contract.Number,
		SupplierID:       p.SupplierID,
		SupplierName:     p.Supplier.Name,
		Title:            p.Title,
		Amount:           p.Amount,
		Currency:         p.Currency,
		DueDate:          p.DueDate.Format(dateLayout),
		Status:           string(p.Status),
		EffectiveStatus:  string(reconcile.EffectiveStatus(p.Status, p.DueDate, now)),
		PaidAmount:       paid,
		RemainingAmount:  p.RemainingAmount,
		Importance:       string(p.Importance),
		Urgency:          string(p.Urgency),
		SuggestedUrgency: string(reconcile.SuggestUrgency(p.DueDate, now)),
		Description:      p.Description,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func paymentResponse(p ds.PaymentRecord) dto.PaymentRecordResponse {
	return dto.PaymentRecordResponse{
		ID:            p.ID,
		PayableID:     p.PayableID,
		BankAccountID: p.BankAccountID,
		Amount:        p.Amount,
		Currency:      p.Currency,
		PaymentDate:   p.PaymentDate.Format(dateLayout),
		Description:   p.Description,
		Notes:         p.Notes,
		CreatedAt:     p.CreatedAt,
	}
}

func paymentChangeResponse(payableID uint, payment *ds.PaymentRecord, d reconcile.Derivation) dto.PaymentChangeResponse {
	resp := dto.PaymentChangeResponse{
		PayableID:       payableID,
		Status:          string(d.Status),
		PaidAmount:      d.PaidAmount,
		RemainingAmount: d.RemainingAmount,
	}
	if payment != nil {
		pr := paymentResponse(*payment)
		resp.Payment = &pr
	}
	return resp
}

func attachmentResponse(a ds.Attachment) dto.AttachmentResponse {
	return dto.AttachmentResponse{
		ID:          a.ID,
		OwnerType:   string(a.OwnerType),
		OwnerID:     a.OwnerID,
		FileName:    a.FileName,
		ContentType: a.ContentType,
		Size:        a.Size,
		CreatedAt:   a.CreatedAt,
	}
}

func userResponse(u *ds.User) dto.UserResponse {
	return dto.UserResponse{
		ID:       u.ID,
		UUID:     u.UUID.String(),
		Login:    u.Login,
		FullName: u.FullName,
		Email:    u.Email,
		Role:     role.Role(u.Role).String(),
	}
}
