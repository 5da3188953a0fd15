package handler

import (
	"net/http"

	"paytrack/internal/app/ds"
	"paytrack/internal/app/dto"

	"github.com/gin-gonic/gin"
)

// ============ ДОМЕН ПОСТАВЩИКИ ============

// GetSuppliers получает список поставщиков
// @Summary Список поставщиков
// @Description Поиск по названию, ИНН и контактному лицу с пагинацией
// @Tags Suppliers
// @Produce json
// @Security BearerAuth
// @Param query query string false "Строка поиска"
// @Param page query int false "Номер страницы"
// @Param page_size query int false "Размер страницы"
// @Success 200 {object} dto.Envelope{data=dto.PaginatedResponse}
// @Failure 500 {object} dto.Envelope
// @Router /api/suppliers [get]
func (h *APIHandler) GetSuppliers(c *gin.Context) {
	page := pageFromQuery(c)

	suppliers, total, err := h.Repository.ListSuppliers(c.Query("query"), page)
	if err != nil {
		handleError(c, err, "Ошибка получения поставщиков")
		return
	}

	successResponse(c, http.StatusOK, "", paginatedResponse(suppliers, total, page))
}

// GetSupplier получает поставщика по ID
// @Summary Поставщик по ID
// @Tags Suppliers
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID поставщика"
// @Success 200 {object} dto.Envelope{data=ds.Supplier}
// @Failure 400 {object} dto.Envelope
// @Failure 404 {object} dto.Envelope
// @Router /api/suppliers/{id} [get]
func (h *APIHandler) GetSupplier(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	supplier, err := h.Repository.GetSupplier(id)
	if err != nil {
		handleError(c, err, "Ошибка получения поставщика")
		return
	}

	successResponse(c, http.StatusOK, "", supplier)
}

// CreateSupplier создает поставщика
// @Summary Создание поставщика
// @Tags Suppliers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SupplierRequest true "Данные поставщика"
// @Success 201 {object} dto.Envelope{data=ds.Supplier}
// @Failure 400 {object} dto.Envelope
// @Router /api/suppliers [post]
func (h *APIHandler) CreateSupplier(c *gin.Context) {
	var req dto.SupplierRequest
	if !bindJSON(c, &req) {
		return
	}

	supplier := supplierFromRequest(req)
	if err := h.Repository.CreateSupplier(&supplier); err != nil {
		handleError(c, err, "Ошибка создания поставщика")
		return
	}

	successResponse(c, http.StatusCreated, "Поставщик создан", supplier)
}

// UpdateSupplier изменяет поставщика
// @Summary Изменение поставщика
// @Tags Suppliers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID поставщика"
// @Param request body dto.SupplierRequest true "Данные поставщика"
// @Success 200 {object} dto.Envelope{data=ds.Supplier}
// @Failure 400 {object} dto.Envelope
// @Failure 404 {object} dto.Envelope
// @Router /api/suppliers/{id} [put]
func (h *APIHandler) UpdateSupplier(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.SupplierRequest
	if !bindJSON(c, &req) {
		return
	}

	current, err := h.Repository.GetSupplier(id)
	if err != nil {
		handleError(c, err, "Ошибка получения поставщика")
		return
	}

	supplier := supplierFromRequest(req)
	supplier.ID = id
	supplier.CreatedAt = current.CreatedAt
	if err := h.Repository.UpdateSupplier(&supplier); err != nil {
		handleError(c, err, "Ошибка обновления поставщика")
		return
	}

	successResponse(c, http.StatusOK, "Поставщик обновлен", supplier)
}

// DeleteSupplier удаляет поставщика
// @Summary Удаление поставщика
// @Description Запрещено, пока у поставщика есть договоры или задолженности
// @Tags Suppliers
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID поставщика"
// @Success 200 {object} dto.Envelope
// @Failure 404 {object} dto.Envelope
// @Failure 409 {object} dto.Envelope
// @Router /api/suppliers/{id} [delete]
func (h *APIHandler) DeleteSupplier(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.Repository.DeleteSupplier(id); err != nil {
		handleError(c, err, "Ошибка удаления поставщика")
		return
	}

	successResponse(c, http.StatusOK, "Поставщик удален", nil)
}

// GetSupplierAccounts возвращает счета поставщика
// @Summary Счета поставщика
// @Tags Suppliers
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID поставщика"
// @Success 200 {object} dto.Envelope{data=[]ds.BankAccount}
// @Failure 404 {object} dto.Envelope
// @Router /api/suppliers/{id}/accounts [get]
func (h *APIHandler) GetSupplierAccounts(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	accounts, err := h.Repository.ListSupplierAccounts(id)
	if err != nil {
		handleError(c, err, "Ошибка получения счетов")
		return
	}

	successResponse(c, http.StatusOK, "", accounts)
}

func supplierFromRequest(req dto.SupplierRequest) ds.Supplier {
	return ds.Supplier{
		Name:          req.Name,
		TaxNumber:     req.TaxNumber,
		ContactPerson: req.ContactPerson,
		Phone:         req.Phone,
		Email:         req.Email,
		Address:       req.Address,
		Notes:         req.Notes,
	}
}
