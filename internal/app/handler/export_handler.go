package handler

import (
	"fmt"
	"net/http"

	"paytrack/internal/app/dto"
	"paytrack/internal/app/reconcile"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

const payablesSheet = "Задолженности"

var payablesHeaders = []string{
	"ID", "Договор", "Поставщик", "Название", "Сумма", "Валюта", "Оплачено", "Остаток",
	"Остаток, USD", "Срок оплаты", "Статус", "Важность", "Срочность",
}

// ExportPayables выгрузка задолженностей в Excel
// @Summary Экспорт задолженностей
// @Description Те же фильтры, что и у списка, без пагинации
// @Tags Payables
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param status query string false "pending, partial, completed, overdue"
// @Param supplier_id query int false "ID поставщика"
// @Param contract_id query int false "ID договора"
// @Param currency query string false "Валюта"
// @Param due_from query string false "Срок с (YYYY-MM-DD)"
// @Param due_to query string false "Срок по (YYYY-MM-DD)"
// @Success 200 {file} file
// @Failure 400 {object} dto.Envelope
// @Router /api/payables/export [get]
func (h *APIHandler) ExportPayables(c *gin.Context) {
	filter, ok := h.payableFilter(c)
	if !ok {
		return
	}

	payables, err := h.Repository.ExportPayables(filter)
	if err != nil {
		handleError(c, err, "Ошибка выгрузки задолженностей")
		return
	}
	items, err := h.payableResponses(payables)
	if err != nil {
		handleError(c, err, "Ошибка выгрузки задолженностей")
		return
	}
	rates, err := h.rates(c.Request.Context())
	if err != nil {
		handleError(c, err, "Ошибка получения курсов")
		return
	}

	f, err := payablesWorkbook(items, rates)
	if err != nil {
		handleError(c, err, "Ошибка формирования файла")
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			logrus.Warn("close workbook: ", err)
		}
	}()

	buf, err := f.WriteToBuffer()
	if err != nil {
		handleError(c, err, "Ошибка формирования файла")
		return
	}

	fileName := fmt.Sprintf("payables_%s.xlsx", h.today().Format("20060102_150405"))
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// payablesWorkbook - одна строка на задолженность, статус с учетом просрочки
func payablesWorkbook(items []dto.PayableResponse, rates map[string]decimal.Decimal) (*excelize.File, error) {
	f := excelize.NewFile()
	index, err := f.NewSheet(payablesSheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	header := make([]interface{}, len(payablesHeaders))
	for i, title := range payablesHeaders {
		header[i] = title
	}
	if err := f.SetSheetRow(payablesSheet, "A1", &header); err != nil {
		return nil, err
	}

	for i, p := range items {
		remainingUSD := reconcile.ToUSD(p.RemainingAmount, reconcile.RateFor(rates, p.Currency))
		row := []interface{}{
			p.ID,
			p.ContractNumber,
			p.SupplierName,
			p.Title,
			p.Amount.InexactFloat64(),
			p.Currency,
			p.PaidAmount.InexactFloat64(),
			p.RemainingAmount.InexactFloat64(),
			remainingUSD.InexactFloat64(),
			p.DueDate,
			p.EffectiveStatus,
			p.Importance,
			p.Urgency,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(payablesSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	if err := f.SetColWidth(payablesSheet, "B", "D", 24); err != nil {
		return nil, err
	}
	return f, nil
}
