package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"paytrack/internal/app/config"
	"paytrack/internal/app/contracttree"
	"paytrack/internal/app/dto"
	"paytrack/internal/app/middleware"
	"paytrack/internal/app/reconcile"
	"paytrack/internal/app/redis"
	"paytrack/internal/app/repository"
	"paytrack/internal/app/storage"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const dateLayout = "2006-01-02"

// APIHandler содержит обработчики для REST API
type APIHandler struct {
	Repository  *repository.Repository
	MinIOClient *storage.MinIOClient
	RedisClient *redis.Client
	Config      *config.Config
	AuthHandler *AuthHandler

	// now подменяется в тестах
	now func() time.Time
}

func NewAPIHandler(r *repository.Repository, minioClient *storage.MinIOClient, redisClient *redis.Client, cfg *config.Config, authHandler *AuthHandler) *APIHandler {
	return &APIHandler{
		Repository:  r,
		MinIOClient: minioClient,
		RedisClient: redisClient,
		Config:      cfg,
		AuthHandler: authHandler,
		now:         time.Now,
	}
}

func (h *APIHandler) today() time.Time {
	if h.now == nil {
		return time.Now()
	}
	return h.now()
}

// ============ Вспомогательные функции ============

func successResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, dto.Envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func errorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, dto.Envelope{
		Success: false,
		Message: message,
	})
}

// handleError переводит доменные ошибки в HTTP статусы
func handleError(c *gin.Context, err error, fallback string) {
	var exceeded *reconcile.AmountExceededError

	switch {
	case errors.As(err, &exceeded):
		c.JSON(http.StatusUnprocessableEntity, dto.Envelope{
			Success: false,
			Message: "Сумма платежей превышает сумму задолженности",
			Data: gin.H{
				"payable_amount":   exceeded.PayableAmount,
				"paid_amount":      exceeded.Paid,
				"attempted_amount": exceeded.Attempted,
				"remaining_amount": exceeded.Remaining,
			},
		})
	case errors.Is(err, repository.ErrNotFound):
		errorResponse(c, http.StatusNotFound, err.Error())
	case errors.Is(err, repository.ErrHasReferences):
		errorResponse(c, http.StatusConflict, err.Error())
	case errors.Is(err, contracttree.ErrInvalidHierarchy),
		errors.Is(err, contracttree.ErrParentNotFound),
		errors.Is(err, contracttree.ErrInvalidParentID),
		errors.Is(err, reconcile.ErrNonPositiveAmount),
		errors.Is(err, reconcile.ErrCurrencyMismatch),
		errors.Is(err, repository.ErrPaymentMovesPayable):
		errorResponse(c, http.StatusBadRequest, err.Error())
	default:
		logrus.WithError(err).Error(fallback)
		errorResponse(c, http.StatusInternalServerError, fallback)
	}
}

// parseID читает положительный id из параметра пути
func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		errorResponse(c, http.StatusBadRequest, fmt.Sprintf("Неверный параметр %s", param))
		return 0, false
	}
	return uint(id), true
}

// queryID читает необязательный id из query, пустое значение - nil
func queryID(c *gin.Context, name string) (*uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		errorResponse(c, http.StatusBadRequest, fmt.Sprintf("Неверный параметр %s", name))
		return nil, false
	}
	v := uint(id)
	return &v, true
}

func queryDate(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	t, err := parseDate(raw)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, fmt.Sprintf("Неверная дата %s, ожидается YYYY-MM-DD", name))
		return nil, false
	}
	return &t, true
}

func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, s, time.UTC)
}

func parseOptionalDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := parseDate(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// currentUserID - id пользователя из JWT, 0 если его нет
func currentUserID(c *gin.Context) uint {
	user, ok := middleware.GetUserFromContext(c)
	if !ok {
		return 0
	}
	return user.ID
}
