package handler

import (
	"context"
	"net/http"
	"strings"

	"paytrack/internal/app/dto"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var currencyValidator = validator.New()

// ============ Курсы валют ============

// rates - курсы из Redis, при промахе из БД с записью в кэш
func (h *APIHandler) rates(ctx context.Context) (map[string]decimal.Decimal, error) {
	if h.RedisClient != nil {
		cached, ok, err := h.RedisClient.GetRates(ctx)
		if err != nil {
			logrus.Warn("currency rates cache read failed: ", err)
		} else if ok {
			return cached, nil
		}
	}

	rates, err := h.Repository.RatesMap()
	if err != nil {
		return nil, err
	}

	if h.RedisClient != nil {
		if err := h.RedisClient.SetRates(ctx, rates); err != nil {
			logrus.Warn("currency rates cache write failed: ", err)
		}
	}
	return rates, nil
}

// GetCurrencyRates список курсов
// @Summary Курсы валют
// @Description Количество единиц валюты за 1 USD
// @Tags CurrencyRates
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.Envelope{data=[]ds.CurrencyRate}
// @Router /api/currency-rates [get]
func (h *APIHandler) GetCurrencyRates(c *gin.Context) {
	rates, err := h.Repository.ListRates()
	if err != nil {
		handleError(c, err, "Ошибка получения курсов")
		return
	}
	successResponse(c, http.StatusOK, "", rates)
}

// PutCurrencyRate задает курс валюты
// @Summary Установка курса
// @Tags CurrencyRates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param code path string true "Код валюты ISO 4217"
// @Param request body dto.CurrencyRateRequest true "Курс"
// @Success 200 {object} dto.Envelope{data=ds.CurrencyRate}
// @Failure 400 {object} dto.Envelope
// @Router /api/currency-rates/{code} [put]
func (h *APIHandler) PutCurrencyRate(c *gin.Context) {
	code := strings.ToUpper(c.Param("code"))
	if err := currencyValidator.Var(code, "iso4217"); err != nil {
		errorResponse(c, http.StatusBadRequest, "Неверный код валюты")
		return
	}

	var req dto.CurrencyRateRequest
	if !bindJSON(c, &req) {
		return
	}

	rate, err := h.Repository.UpsertRate(code, req.RatePerUSD)
	if err != nil {
		handleError(c, err, "Ошибка сохранения курса")
		return
	}

	if h.RedisClient != nil {
		if err := h.RedisClient.DropRates(c.Request.Context()); err != nil {
			logrus.Warn("currency rates cache invalidation failed: ", err)
		}
	}

	successResponse(c, http.StatusOK, "Курс сохранен", rate)
}
