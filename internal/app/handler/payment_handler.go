package handler

import (
	"net/http"
	"strings"

	"paytrack/internal/app/ds"
	"paytrack/internal/app/dto"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ============ ДОМЕН ПЛАТЕЖИ ============

// GetPayablePayments платежи по задолженности
// @Summary Платежи задолженности
// @Tags PaymentRecords
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID задолженности"
// @Success 200 {object} dto.Envelope{data=[]dto.PaymentRecordResponse}
// @Failure 404 {object} dto.Envelope
// @Router /api/payables/{id}/payments [get]
func (h *APIHandler) GetPayablePayments(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	payments, err := h.Repository.ListPayments(id)
	if err != nil {
		handleError(c, err, "Ошибка получения платежей")
		return
	}

	items := make([]dto.PaymentRecordResponse, 0, len(payments))
	for _, p := range payments {
		items = append(items, paymentResponse(p))
	}
	successResponse(c, http.StatusOK, "", items)
}

// CreatePaymentRecord добавляет платеж
// @Summary Новый платеж
// @Description Сумма всех платежей не может превысить сумму задолженности. Статус задолженности пересчитывается
// @Tags PaymentRecords
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID задолженности"
// @Param request body dto.CreatePaymentRecordRequest true "Данные платежа"
// @Success 201 {object} dto.Envelope{data=dto.PaymentChangeResponse}
// @Failure 400 {object} dto.Envelope
// @Failure 404 {object} dto.Envelope
// @Failure 422 {object} dto.Envelope
// @Router /api/payables/{id}/payments [post]
func (h *APIHandler) CreatePaymentRecord(c *gin.Context) {
	payableID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.CreatePaymentRecordRequest
	if !bindJSON(c, &req) {
		return
	}

	paymentDate, err := parseDate(req.PaymentDate)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "Неверная дата платежа")
		return
	}

	payment := ds.PaymentRecord{
		PayableID:     payableID,
		BankAccountID: req.BankAccountID,
		Amount:        req.Amount,
		Currency:      strings.ToUpper(req.Currency),
		PaymentDate:   paymentDate,
		Description:   req.Description,
		Notes:         req.Notes,
		CreatedBy:     currentUserID(c),
	}

	derived, err := h.Repository.CreatePayment(&payment)
	if err != nil {
		handleError(c, err, "Ошибка создания платежа")
		return
	}

	logrus.WithFields(logrus.Fields{
		"payable_id": payableID,
		"payment_id": payment.ID,
		"amount":     payment.Amount.String(),
		"status":     derived.Status,
	}).Info("payment recorded")

	successResponse(c, http.StatusCreated, "Платеж добавлен", paymentChangeResponse(payableID, &payment, derived))
}

// GetPaymentRecord платеж по ID
// @Summary Платеж по ID
// @Tags PaymentRecords
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID платежа"
// @Success 200 {object} dto.Envelope{data=dto.PaymentRecordResponse}
// @Failure 404 {object} dto.Envelope
// @Router /api/payment-records/{id} [get]
func (h *APIHandler) GetPaymentRecord(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	payment, err := h.Repository.GetPayment(id)
	if err != nil {
		handleError(c, err, "Ошибка получения платежа")
		return
	}
	successResponse(c, http.StatusOK, "", paymentResponse(*payment))
}

// UpdatePaymentRecord изменяет платеж
// @Summary Изменение платежа
// @Description Новая сумма проверяется против остальных платежей, старая сумма не учитывается
// @Tags PaymentRecords
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID платежа"
// @Param request body dto.UpdatePaymentRecordRequest true "Изменяемые поля"
// @Success 200 {object} dto.Envelope{data=dto.PaymentChangeResponse}
// @Failure 400 {object} dto.Envelope
// @Failure 404 {object} dto.Envelope
// @Failure 422 {object} dto.Envelope
// @Router /api/payment-records/{id} [put]
func (h *APIHandler) UpdatePaymentRecord(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdatePaymentRecordRequest
	if !bindJSON(c, &req) {
		return
	}

	paymentDate, err := parseOptionalDate(req.PaymentDate)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "Неверная дата платежа")
		return
	}

	payment, derived, err := h.Repository.UpdatePayment(id, func(p *ds.PaymentRecord) {
		if req.Amount != nil {
			p.Amount = *req.Amount
		}
		if paymentDate != nil {
			p.PaymentDate = *paymentDate
		}
		if req.BankAccountID != nil {
			p.BankAccountID = req.BankAccountID
		}
		if req.Description != nil {
			p.Description = *req.Description
		}
		if req.Notes != nil {
			p.Notes = *req.Notes
		}
	})
	if err != nil {
		handleError(c, err, "Ошибка обновления платежа")
		return
	}

	successResponse(c, http.StatusOK, "Платеж обновлен", paymentChangeResponse(payment.PayableID, payment, derived))
}

// DeletePaymentRecord удаляет платеж
// @Summary Удаление платежа
// @Tags PaymentRecords
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID платежа"
// @Success 200 {object} dto.Envelope{data=dto.PaymentChangeResponse}
// @Failure 404 {object} dto.Envelope
// @Router /api/payment-records/{id} [delete]
func (h *APIHandler) DeletePaymentRecord(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	payment, keys, derived, err := h.Repository.DeletePayment(id)
	if err != nil {
		handleError(c, err, "Ошибка удаления платежа")
		return
	}
	h.removeObjects(c, keys)

	successResponse(c, http.StatusOK, "Платеж удален", paymentChangeResponse(payment.PayableID, nil, derived))
}
