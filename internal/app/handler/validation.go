package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"paytrack/internal/app/contracttree"
	"paytrack/internal/app/dto"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var registerOnce sync.Once

// RegisterValidators подключает к валидатору gin правила для decimal.Decimal
// и имена полей из json тегов
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				return d.String()
			}
			return nil
		}, decimal.Decimal{})

		_ = v.RegisterValidation("decimal_gt0", decimalGreaterThanZero)
		_ = v.RegisterValidation("decimal_gte0", decimalNotNegative)
		_ = v.RegisterValidation("decimal_scale", decimalScale)
	})
}

func decimalGreaterThanZero(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	return err == nil && d.IsPositive()
}

func decimalNotNegative(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	return err == nil && !d.IsNegative()
}

// decimalScale - не больше знаков после запятой, чем в параметре (decimal_scale=2).
// Колонки numeric(15,2) молча округлили бы лишние знаки
func decimalScale(fl validator.FieldLevel) bool {
	scale, err := strconv.ParseInt(fl.Param(), 10, 32)
	if err != nil {
		return false
	}
	d, err := decimal.NewFromString(fl.Field().String())
	return err == nil && d.Equal(d.Round(int32(scale)))
}

// bindJSON разбирает тело запроса; при ошибке отвечает 400 со списком полей
func bindJSON(c *gin.Context, req interface{}) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}

	c.JSON(http.StatusBadRequest, dto.Envelope{
		Success: false,
		Message: "Неверные данные запроса",
		Errors:  fieldErrors(err),
	})
	return false
}

func fieldErrors(err error) []dto.FieldError {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		out := make([]dto.FieldError, 0, len(validationErrs))
		for _, fe := range validationErrs {
			out = append(out, dto.FieldError{
				Field:   fe.Field(),
				Rule:    fe.Tag(),
				Message: ruleMessage(fe),
			})
		}
		return out
	}

	if errors.Is(err, contracttree.ErrInvalidParentID) {
		return []dto.FieldError{{
			Field:   "parent_contract_id",
			Rule:    "parent_id",
			Message: "должен быть положительным целым числом или null",
		}}
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return []dto.FieldError{{
			Field:   typeErr.Field,
			Rule:    "type",
			Message: fmt.Sprintf("ожидается %s", typeErr.Type),
		}}
	}

	return []dto.FieldError{{Field: "", Rule: "json", Message: err.Error()}}
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "обязательное поле"
	case "decimal_gt0":
		return "должно быть больше нуля"
	case "decimal_gte0":
		return "не может быть отрицательным"
	case "decimal_scale":
		return "не больше " + fe.Param() + " знаков после запятой"
	case "iso4217":
		return "код валюты ISO 4217"
	case "datetime":
		return "дата в формате " + fe.Param()
	case "oneof":
		return "одно из: " + fe.Param()
	case "email":
		return "некорректный email"
	case "max":
		return "не длиннее " + fe.Param()
	case "min":
		return "не короче " + fe.Param()
	}
	return "некорректное значение"
}
