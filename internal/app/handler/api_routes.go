package handler

import (
	"paytrack/internal/app/middleware"
	"paytrack/internal/app/role"

	"github.com/gin-gonic/gin"
)

// RegisterAPIRoutes регистрирует все REST API маршруты с авторизацией
func (h *APIHandler) RegisterAPIRoutes(router *gin.Engine, authMiddleware *middleware.AuthMiddleware) {
	RegisterValidators()

	readers := authMiddleware.WithAuthCheck(role.All()...)
	writers := authMiddleware.WithAuthCheck(role.Writers()...)
	admins := authMiddleware.WithAuthCheck(role.Admin)

	// REST API маршруты
	api := router.Group("/api")

	// ============ Аутентификация ============
	auth := api.Group("/auth")
	{
		// Публичные эндпоинты
		auth.POST("/register", h.AuthHandler.RegisterUser)
		auth.POST("/login", h.AuthHandler.LoginUser)

		// Защищенные эндпоинты
		auth.POST("/logout", readers, h.AuthHandler.LogoutUser)
		auth.GET("/profile", readers, h.AuthHandler.GetUserProfile)
		auth.PUT("/profile", readers, h.AuthHandler.UpdateProfile)
		auth.PUT("/users/:id/role", admins, h.AuthHandler.UpdateUserRole)
	}

	// ============ Поставщики ============
	suppliers := api.Group("/suppliers")
	{
		suppliers.GET("", readers, h.GetSuppliers)
		suppliers.GET("/:id", readers, h.GetSupplier)
		suppliers.GET("/:id/accounts", readers, h.GetSupplierAccounts)
		suppliers.POST("", writers, h.CreateSupplier)
		suppliers.PUT("/:id", writers, h.UpdateSupplier)
		suppliers.DELETE("/:id", admins, h.DeleteSupplier)
	}

	// ============ Банки и счета ============
	banks := api.Group("/banks")
	{
		banks.GET("", readers, h.GetBanks)
		banks.POST("", writers, h.CreateBank)
		banks.PUT("/:id", writers, h.UpdateBank)
		banks.DELETE("/:id", writers, h.DeleteBank)
	}

	accounts := api.Group("/bank-accounts")
	{
		accounts.GET("/:id", readers, h.GetBankAccount)
		accounts.POST("", writers, h.CreateBankAccount)
		accounts.PUT("/:id", writers, h.UpdateBankAccount)
		accounts.DELETE("/:id", writers, h.DeleteBankAccount)
	}

	// ============ Договоры ============
	contracts := api.Group("/contracts")
	{
		contracts.GET("", readers, h.GetContracts)
		contracts.GET("/tree", readers, h.GetContractTree)
		contracts.GET("/:id", readers, h.GetContract)
		contracts.POST("", writers, h.CreateContract)
		contracts.PUT("/:id", writers, h.UpdateContract)
		contracts.DELETE("/:id", admins, h.DeleteContract)
	}

	// ============ Задолженности и платежи ============
	payables := api.Group("/payables")
	{
		payables.GET("", readers, h.GetPayables)
		payables.GET("/export", readers, h.ExportPayables)
		payables.GET("/:id", readers, h.GetPayable)
		payables.POST("", writers, h.CreatePayable)
		payables.PUT("/:id", writers, h.UpdatePayable)
		payables.DELETE("/:id", writers, h.DeletePayable)

		payables.GET("/:id/payments", readers, h.GetPayablePayments)
		payables.POST("/:id/payments", writers, h.CreatePaymentRecord)
	}

	payments := api.Group("/payment-records")
	{
		payments.GET("/:id", readers, h.GetPaymentRecord)
		payments.PUT("/:id", writers, h.UpdatePaymentRecord)
		payments.DELETE("/:id", writers, h.DeletePaymentRecord)
	}

	// ============ Вложения ============
	attachments := api.Group("/attachments")
	{
		attachments.GET("", readers, h.GetAttachments)
		attachments.GET("/:id/url", readers, h.GetAttachmentURL)
		attachments.GET("/:id/download", readers, h.DownloadAttachment)
		attachments.POST("", writers, h.UploadAttachment)
		attachments.DELETE("/:id", writers, h.DeleteAttachment)
	}

	// ============ Курсы валют и сводка ============
	rates := api.Group("/currency-rates")
	{
		rates.GET("", readers, h.GetCurrencyRates)
		rates.PUT("/:code", admins, h.PutCurrencyRate)
	}

	api.GET("/dashboard/summary", readers, h.GetDashboardSummary)

	// Ping эндпоинт для проверки
	router.GET("/ping", h.Ping)
}

// Ping проверяет работоспособность API
// @Summary Проверка работоспособности
// @Description Возвращает простой ответ для проверки работы сервера
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /ping [get]
func (h *APIHandler) Ping(ctx *gin.Context) {
	ctx.JSON(200, gin.H{"message": "pong"})
}
