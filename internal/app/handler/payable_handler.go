package handler

import (
	"net/http"
	"strings"

	"paytrack/internal/app/ds"
	"paytrack/internal/app/dto"
	"paytrack/internal/app/repository"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// ============ ДОМЕН ЗАДОЛЖЕННОСТИ ============

// payableFilter собирает фильтр из query; при ошибке ответ уже отправлен
func (h *APIHandler) payableFilter(c *gin.Context) (repository.PayableFilter, bool) {
	filter := repository.PayableFilter{
		Status:     c.Query("status"),
		Currency:   strings.ToUpper(c.Query("currency")),
		Importance: c.Query("importance"),
		Urgency:    c.Query("urgency"),
		Query:      c.Query("query"),
		Today:      h.today(),
	}

	switch ds.PayableStatus(filter.Status) {
	case "", ds.PayablePending, ds.PayablePartial, ds.PayableCompleted, ds.PayableOverdue:
	default:
		errorResponse(c, http.StatusBadRequest, "Неверный статус задолженности")
		return filter, false
	}

	var ok bool
	if filter.SupplierID, ok = queryID(c, "supplier_id"); !ok {
		return filter, false
	}
	if filter.ContractID, ok = queryID(c, "contract_id"); !ok {
		return filter, false
	}
	if filter.DueFrom, ok = queryDate(c, "due_from"); !ok {
		return filter, false
	}
	if filter.DueTo, ok = queryDate(c, "due_to"); !ok {
		return filter, false
	}
	return filter, true
}

// GetPayables список задолженностей
// @Summary Список задолженностей
// @Description status=overdue выбирает неоплаченные задолженности с прошедшим сроком
// @Tags Payables
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending, partial, completed, overdue"
// @Param supplier_id query int false "ID поставщика"
// @Param contract_id query int false "ID договора"
// @Param currency query string false "Валюта"
// @Param importance query string false "Важность"
// @Param urgency query string false "Срочность"
// @Param due_from query string false "Срок с (YYYY-MM-DD)"
// @Param due_to query string false "Срок по (YYYY-MM-DD)"
// @Param page query int false "Номер страницы"
// @Param page_size query int false "Размер страницы"
// @Success 200 {object} dto.Envelope{data=dto.PaginatedResponse{items=[]dto.PayableResponse}}
// @Failure 400 {object} dto.Envelope
// @Router /api/payables [get]
func (h *APIHandler) GetPayables(c *gin.Context) {
	filter, ok := h.payableFilter(c)
	if !ok {
		return
	}
	page := pageFromQuery(c)

	payables, total, err := h.Repository.ListPayables(filter, page)
	if err != nil {
		handleError(c, err, "Ошибка получения задолженностей")
		return
	}

	items, err := h.payableResponses(payables)
	if err != nil {
		handleError(c, err, "Ошибка получения задолженностей")
		return
	}

	successResponse(c, http.StatusOK, "", paginatedResponse(items, total, page))
}

func (h *APIHandler) payableResponses(payables []ds.PayableManagement) ([]dto.PayableResponse, error) {
	ids := make([]uint, 0, len(payables))
	for _, p := range payables {
		ids = append(ids, p.ID)
	}
	paid, err := h.Repository.PaidAmounts(ids)
	if err != nil {
		return nil, err
	}

	now := h.today()
	items := make([]dto.PayableResponse, 0, len(payables))
	for _, p := range payables {
		items = append(items, payableResponse(p, paid[p.ID], now))
	}
	return items, nil
}

// GetPayable задолженность с платежами
// @Summary Задолженность по ID
// @Tags Payables
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID задолженности"
// @Success 200 {object} dto.Envelope{data=dto.PayableResponse}
// @Failure 404 {object} dto.Envelope
// @Router /api/payables/{id} [get]
func (h *APIHandler) GetPayable(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	payable, err := h.Repository.GetPayable(id)
	if err != nil {
		handleError(c, err, "Ошибка получения задолженности")
		return
	}
	payments, err := h.Repository.ListPayments(id)
	if err != nil {
		handleError(c, err, "Ошибка получения платежей")
		return
	}

	paid := decimal.Zero
	resp := payableResponse(*payable, paid, h.today())
	resp.Payments = make([]dto.PaymentRecordResponse, 0, len(payments))
	for _, p := range payments {
		paid = paid.Add(p.Amount)
		resp.Payments = append(resp.Payments, paymentResponse(p))
	}
	resp.PaidAmount = paid

	successResponse(c, http.StatusOK, "", resp)
}

// CreatePayable создает задолженность
// @Summary Создание задолженности
// @Tags Payables
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreatePayableRequest true "Данные задолженности"
// @Success 201 {object} dto.Envelope{data=dto.PayableResponse}
// @Failure 400 {object} dto.Envelope
// @Failure 404 {object} dto.Envelope
// @Router /api/payables [post]
func (h *APIHandler) CreatePayable(c *gin.Context) {
	var req dto.CreatePayableRequest
	if !bindJSON(c, &req) {
		return
	}

	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "Неверный срок оплаты")
		return
	}

	payable := ds.PayableManagement{
		ContractID:  req.ContractID,
		SupplierID:  req.SupplierID,
		Title:       req.Title,
		Amount:      req.Amount,
		Currency:    strings.ToUpper(req.Currency),
		DueDate:     dueDate,
		Importance:  ds.Importance(req.Importance),
		Urgency:     ds.Urgency(req.Urgency),
		Description: req.Description,
		CreatedBy:   currentUserID(c),
	}
	if payable.Importance == "" {
		payable.Importance = ds.ImportanceNormal
	}
	if payable.Urgency == "" {
		payable.Urgency = ds.UrgencyNormal
	}

	if err := h.Repository.CreatePayable(&payable); err != nil {
		handleError(c, err, "Ошибка создания задолженности")
		return
	}

	logrus.WithFields(logrus.Fields{
		"payable_id": payable.ID,
		"amount":     payable.Amount.String(),
		"currency":   payable.Currency,
	}).Info("payable created")

	// суммы в payable уже округлены репозиторием до точности колонки
	created := &payable
	if full, err := h.Repository.GetPayable(payable.ID); err != nil {
		logrus.Warnf("Failed to reload payable %d, answering with saved values: %v", payable.ID, err)
	} else {
		created = full
	}
	successResponse(c, http.StatusCreated, "Задолженность создана", payableResponse(*created, decimal.Zero, h.today()))
}

// UpdatePayable изменяет задолженность
// @Summary Изменение задолженности
// @Description Сумма не может стать меньше уже оплаченной, статус пересчитывается
// @Tags Payables
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID задолженности"
// @Param request body dto.UpdatePayableRequest true "Изменяемые поля"
// @Success 200 {object} dto.Envelope{data=dto.PayableResponse}
// @Failure 400 {object} dto.Envelope
// @Failure 404 {object} dto.Envelope
// @Failure 422 {object} dto.Envelope
// @Router /api/payables/{id} [put]
func (h *APIHandler) UpdatePayable(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdatePayableRequest
	if !bindJSON(c, &req) {
		return
	}

	dueDate, err := parseOptionalDate(req.DueDate)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "Неверный срок оплаты")
		return
	}

	payable, derived, err := h.Repository.UpdatePayable(id, func(p *ds.PayableManagement) {
		if req.Title != nil {
			p.Title = *req.Title
		}
		if req.Amount != nil {
			p.Amount = *req.Amount
		}
		if dueDate != nil {
			p.DueDate = *dueDate
		}
		if req.Importance != nil {
			p.Importance = ds.Importance(*req.Importance)
		}
		if req.Urgency != nil {
			p.Urgency = ds.Urgency(*req.Urgency)
		}
		if req.Description != nil {
			p.Description = *req.Description
		}
	})
	if err != nil {
		handleError(c, err, "Ошибка обновления задолженности")
		return
	}
	// перечитываем вместе с договором и поставщиком
	if full, err := h.Repository.GetPayable(id); err == nil {
		payable = full
	}

	successResponse(c, http.StatusOK, "Задолженность обновлена", payableResponse(*payable, derived.PaidAmount, h.today()))
}

// DeletePayable удаляет задолженность вместе с платежами
// @Summary Удаление задолженности
// @Tags Payables
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID задолженности"
// @Success 200 {object} dto.Envelope
// @Failure 404 {object} dto.Envelope
// @Router /api/payables/{id} [delete]
func (h *APIHandler) DeletePayable(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	keys, err := h.Repository.DeletePayable(id)
	if err != nil {
		handleError(c, err, "Ошибка удаления задолженности")
		return
	}
	h.removeObjects(c, keys)

	successResponse(c, http.StatusOK, "Задолженность удалена", nil)
}
