package handler

import (
	"net/http"
	"strings"

	"paytrack/internal/app/contracttree"
	"paytrack/internal/app/ds"
	"paytrack/internal/app/dto"
	"paytrack/internal/app/repository"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ============ ДОМЕН ДОГОВОРЫ ============

// GetContracts плоский список договоров
// @Summary Список договоров
// @Tags Contracts
// @Produce json
// @Security BearerAuth
// @Param supplier_id query int false "ID поставщика"
// @Param status query string false "Статус договора"
// @Param query query string false "Поиск по номеру и названию"
// @Success 200 {object} dto.Envelope{data=[]ds.Contract}
// @Failure 400 {object} dto.Envelope
// @Router /api/contracts [get]
func (h *APIHandler) GetContracts(c *gin.Context) {
	supplierID, ok := queryID(c, "supplier_id")
	if !ok {
		return
	}

	contracts, err := h.Repository.ListContracts(repository.ContractFilter{
		SupplierID: supplierID,
		Status:     c.Query("status"),
		Query:      c.Query("query"),
	})
	if err != nil {
		handleError(c, err, "Ошибка получения договоров")
		return
	}

	successResponse(c, http.StatusOK, "", contracts)
}

// GetContractTree дерево договоров и дополнительных соглашений
// @Summary Дерево договоров
// @Description Без parent_id возвращает лес от корневых договоров, иначе поддерево
// @Tags Contracts
// @Produce json
// @Security BearerAuth
// @Param parent_id query string false "ID договора, от которого строится поддерево"
// @Success 200 {object} dto.Envelope{data=[]contracttree.Node}
// @Failure 400 {object} dto.Envelope
// @Failure 404 {object} dto.Envelope
// @Router /api/contracts/tree [get]
func (h *APIHandler) GetContractTree(c *gin.Context) {
	parentID, err := contracttree.NormalizeParentID(c.Query("parent_id"))
	if err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if parentID != nil {
		if _, err := h.Repository.GetContract(*parentID); err != nil {
			handleError(c, err, "Ошибка получения договора")
			return
		}
	}

	contracts, err := h.Repository.ListContracts(repository.ContractFilter{})
	if err != nil {
		handleError(c, err, "Ошибка получения договоров")
		return
	}

	forest, err := contracttree.BuildTree(contracts, parentID)
	if err != nil {
		handleError(c, err, "Ошибка построения дерева договоров")
		return
	}

	if parentID == nil {
		if lost := contracttree.Unreachable(contracts, forest); len(lost) > 0 {
			ids := make([]uint, 0, len(lost))
			for _, contract := range lost {
				ids = append(ids, contract.ID)
			}
			logrus.WithField("contract_ids", ids).Warn("contracts unreachable from roots")
		}
	}

	successResponse(c, http.StatusOK, "", forest)
}

// GetContract договор по ID
// @Summary Договор по ID
// @Tags Contracts
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID договора"
// @Success 200 {object} dto.Envelope{data=ds.Contract}
// @Failure 404 {object} dto.Envelope
// @Router /api/contracts/{id} [get]
func (h *APIHandler) GetContract(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	contract, err := h.Repository.GetContract(id)
	if err != nil {
		handleError(c, err, "Ошибка получения договора")
		return
	}
	successResponse(c, http.StatusOK, "", contract)
}

// CreateContract создает договор или дополнительное соглашение
// @Summary Создание договора
// @Description parent_contract_id принимает число, строку с числом или null
// @Tags Contracts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ContractRequest true "Данные договора"
// @Success 201 {object} dto.Envelope{data=ds.Contract}
// @Failure 400 {object} dto.Envelope
// @Router /api/contracts [post]
func (h *APIHandler) CreateContract(c *gin.Context) {
	var req dto.ContractRequest
	if !bindJSON(c, &req) {
		return
	}

	contract, err := contractFromRequest(req)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "Неверная дата договора")
		return
	}
	contract.ParentContractID = req.ParentContractID.ID

	if err := h.Repository.CreateContract(&contract); err != nil {
		handleError(c, err, "Ошибка создания договора")
		return
	}
	successResponse(c, http.StatusCreated, "Договор создан", contract)
}

// UpdateContract изменяет договор
// @Summary Изменение договора
// @Description Если parent_contract_id не передан, родитель не меняется
// @Tags Contracts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID договора"
// @Param request body dto.ContractRequest true "Данные договора"
// @Success 200 {object} dto.Envelope{data=ds.Contract}
// @Failure 400 {object} dto.Envelope
// @Failure 404 {object} dto.Envelope
// @Router /api/contracts/{id} [put]
func (h *APIHandler) UpdateContract(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.ContractRequest
	if !bindJSON(c, &req) {
		return
	}

	current, err := h.Repository.GetContract(id)
	if err != nil {
		handleError(c, err, "Ошибка получения договора")
		return
	}

	contract, err := contractFromRequest(req)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "Неверная дата договора")
		return
	}
	contract.ID = id
	contract.ParentContractID = current.ParentContractID
	if req.ParentContractID.Set {
		contract.ParentContractID = req.ParentContractID.ID
	}

	if err := h.Repository.UpdateContract(&contract); err != nil {
		handleError(c, err, "Ошибка обновления договора")
		return
	}
	successResponse(c, http.StatusOK, "Договор обновлен", contract)
}

// DeleteContract удаляет договор
// @Summary Удаление договора
// @Description Запрещено при наличии дочерних договоров или задолженностей
// @Tags Contracts
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID договора"
// @Success 200 {object} dto.Envelope
// @Failure 404 {object} dto.Envelope
// @Failure 409 {object} dto.Envelope
// @Router /api/contracts/{id} [delete]
func (h *APIHandler) DeleteContract(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.Repository.DeleteContract(id); err != nil {
		handleError(c, err, "Ошибка удаления договора")
		return
	}
	successResponse(c, http.StatusOK, "Договор удален", nil)
}

func contractFromRequest(req dto.ContractRequest) (ds.Contract, error) {
	startDate, err := parseOptionalDate(req.StartDate)
	if err != nil {
		return ds.Contract{}, err
	}
	endDate, err := parseOptionalDate(req.EndDate)
	if err != nil {
		return ds.Contract{}, err
	}

	status := ds.ContractStatus(req.Status)
	if status == "" {
		status = ds.ContractDraft
	}

	return ds.Contract{
		SupplierID:  req.SupplierID,
		Number:      req.Number,
		Title:       req.Title,
		Amount:      req.Amount,
		Currency:    strings.ToUpper(req.Currency),
		StartDate:   startDate,
		EndDate:     endDate,
		Status:      status,
		Description: req.Description,
	}, nil
}
