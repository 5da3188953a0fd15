package handler

import (
	"net/http"
	"strings"

	"paytrack/internal/app/ds"
	"paytrack/internal/app/dto"

	"github.com/gin-gonic/gin"
)

// ============ ДОМЕН БАНКИ ============

// GetBanks список банков
// @Summary Список банков
// @Tags Banks
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.Envelope{data=[]ds.Bank}
// @Router /api/banks [get]
func (h *APIHandler) GetBanks(c *gin.Context) {
	banks, err := h.Repository.ListBanks()
	if err != nil {
		handleError(c, err, "Ошибка получения банков")
		return
	}
	successResponse(c, http.StatusOK, "", banks)
}

// CreateBank создает банк
// @Summary Создание банка
// @Tags Banks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BankRequest true "Данные банка"
// @Success 201 {object} dto.Envelope{data=ds.Bank}
// @Failure 400 {object} dto.Envelope
// @Router /api/banks [post]
func (h *APIHandler) CreateBank(c *gin.Context) {
	var req dto.BankRequest
	if !bindJSON(c, &req) {
		return
	}

	bank := ds.Bank{Name: req.Name, SwiftCode: strings.ToUpper(req.SwiftCode), Country: req.Country}
	if err := h.Repository.CreateBank(&bank); err != nil {
		handleError(c, err, "Ошибка создания банка")
		return
	}
	successResponse(c, http.StatusCreated, "Банк создан", bank)
}

// UpdateBank изменяет банк
// @Summary Изменение банка
// @Tags Banks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID банка"
// @Param request body dto.BankRequest true "Данные банка"
// @Success 200 {object} dto.Envelope{data=ds.Bank}
// @Failure 400 {object} dto.Envelope
// @Failure 404 {object} dto.Envelope
// @Router /api/banks/{id} [put]
func (h *APIHandler) UpdateBank(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.BankRequest
	if !bindJSON(c, &req) {
		return
	}

	bank := ds.Bank{ID: id, Name: req.Name, SwiftCode: strings.ToUpper(req.SwiftCode), Country: req.Country}
	if err := h.Repository.UpdateBank(&bank); err != nil {
		handleError(c, err, "Ошибка обновления банка")
		return
	}
	successResponse(c, http.StatusOK, "Банк обновлен", bank)
}

// DeleteBank удаляет банк без счетов
// @Summary Удаление банка
// @Tags Banks
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID банка"
// @Success 200 {object} dto.Envelope
// @Failure 404 {object} dto.Envelope
// @Failure 409 {object} dto.Envelope
// @Router /api/banks/{id} [delete]
func (h *APIHandler) DeleteBank(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.Repository.DeleteBank(id); err != nil {
		handleError(c, err, "Ошибка удаления банка")
		return
	}
	successResponse(c, http.StatusOK, "Банк удален", nil)
}

// ============ Счета ============

// GetBankAccount счет с банком
// @Summary Счет поставщика
// @Tags BankAccounts
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID счета"
// @Success 200 {object} dto.Envelope{data=ds.BankAccount}
// @Failure 404 {object} dto.Envelope
// @Router /api/bank-accounts/{id} [get]
func (h *APIHandler) GetBankAccount(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	account, err := h.Repository.GetBankAccount(id)
	if err != nil {
		handleError(c, err, "Ошибка получения счета")
		return
	}
	successResponse(c, http.StatusOK, "", account)
}

// CreateBankAccount добавляет счет поставщику
// @Summary Создание счета
// @Tags BankAccounts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BankAccountRequest true "Данные счета"
// @Success 201 {object} dto.Envelope{data=ds.BankAccount}
// @Failure 400 {object} dto.Envelope
// @Failure 404 {object} dto.Envelope
// @Router /api/bank-accounts [post]
func (h *APIHandler) CreateBankAccount(c *gin.Context) {
	var req dto.BankAccountRequest
	if !bindJSON(c, &req) {
		return
	}

	account := accountFromRequest(req)
	if err := h.Repository.CreateBankAccount(&account); err != nil {
		handleError(c, err, "Ошибка создания счета")
		return
	}
	successResponse(c, http.StatusCreated, "Счет создан", account)
}

// UpdateBankAccount изменяет счет
// @Summary Изменение счета
// @Tags BankAccounts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID счета"
// @Param request body dto.BankAccountRequest true "Данные счета"
// @Success 200 {object} dto.Envelope{data=ds.BankAccount}
// @Failure 400 {object} dto.Envelope
// @Failure 404 {object} dto.Envelope
// @Router /api/bank-accounts/{id} [put]
func (h *APIHandler) UpdateBankAccount(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.BankAccountRequest
	if !bindJSON(c, &req) {
		return
	}

	account := accountFromRequest(req)
	account.ID = id
	if err := h.Repository.UpdateBankAccount(&account); err != nil {
		handleError(c, err, "Ошибка обновления счета")
		return
	}
	successResponse(c, http.StatusOK, "Счет обновлен", account)
}

// DeleteBankAccount удаляет счет, платежи отвязываются
// @Summary Удаление счета
// @Tags BankAccounts
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID счета"
// @Success 200 {object} dto.Envelope
// @Failure 404 {object} dto.Envelope
// @Router /api/bank-accounts/{id} [delete]
func (h *APIHandler) DeleteBankAccount(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.Repository.DeleteBankAccount(id); err != nil {
		handleError(c, err, "Ошибка удаления счета")
		return
	}
	successResponse(c, http.StatusOK, "Счет удален", nil)
}

func accountFromRequest(req dto.BankAccountRequest) ds.BankAccount {
	return ds.BankAccount{
		BankID:        req.BankID,
		SupplierID:    req.SupplierID,
		AccountNumber: req.AccountNumber,
		HolderName:    req.HolderName,
		Currency:      strings.ToUpper(req.Currency),
		IsDefault:     req.IsDefault,
	}
}
