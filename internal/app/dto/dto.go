package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ============ Общие структуры ============

// Envelope - единый формат ответа API
type Envelope struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Data    interface{}  `json:"data,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError - ошибка валидации конкретного поля
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

type PaginatedResponse struct {
	Items       interface{} `json:"items"`
	TotalRows   int64       `json:"total_rows"`
	TotalPages  int         `json:"total_pages"`
	CurrentPage int         `json:"current_page"`
	PageSize    int         `json:"page_size"`
}

// ============ Поставщики ============

type SupplierRequest struct {
	Name          string `json:"name" binding:"required,max=200"`
	TaxNumber     string `json:"tax_number" binding:"omitempty,max=50"`
	ContactPerson string `json:"contact_person" binding:"omitempty,max=100"`
	Phone         string `json:"phone" binding:"omitempty,max=50"`
	Email         string `json:"email" binding:"omitempty,email"`
	Address       string `json:"address"`
	Notes         string `json:"notes"`
}

// ============ Банки и счета ============

type BankRequest struct {
	Name      string `json:"name" binding:"required,max=200"`
	SwiftCode string `json:"swift_code" binding:"omitempty,min=8,max=11"`
	Country   string `json:"country" binding:"omitempty,max=100"`
}

type BankAccountRequest struct {
	BankID        uint   `json:"bank_id" binding:"required"`
	SupplierID    uint   `json:"supplier_id" binding:"required"`
	AccountNumber string `json:"account_number" binding:"required,max=64"`
	HolderName    string `json:"holder_name" binding:"omitempty,max=200"`
	Currency      string `json:"currency" binding:"required,iso4217"`
	IsDefault     bool   `json:"is_default"`
}

// ============ Договоры ============

type ContractRequest struct {
	ParentContractID NullableID      `json:"parent_contract_id"`
	SupplierID       *uint           `json:"supplier_id"`
	Number           string          `json:"number" binding:"required,max=100"`
	Title            string          `json:"title" binding:"required,max=255"`
	Amount           decimal.Decimal `json:"amount" binding:"decimal_gte0,decimal_scale=2"`
	Currency         string          `json:"currency" binding:"required,iso4217"`
	StartDate        *string         `json:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate          *string         `json:"end_date" binding:"omitempty,datetime=2006-01-02"`
	Status           string          `json:"status" binding:"omitempty,oneof=draft active completed terminated"`
	Description      string          `json:"description"`
}

// ============ Задолженности ============

type CreatePayableRequest struct {
	ContractID  uint            `json:"contract_id" binding:"required"`
	SupplierID  uint            `json:"supplier_id" binding:"required"`
	Title       string          `json:"title" binding:"omitempty,max=255"`
	Amount      decimal.Decimal `json:"amount" binding:"decimal_gt0,decimal_scale=2"`
	Currency    string          `json:"currency" binding:"required,iso4217"`
	DueDate     string          `json:"due_date" binding:"required,datetime=2006-01-02"`
	Importance  string          `json:"importance" binding:"omitempty,oneof=normal important very_important"`
	Urgency     string          `json:"urgency" binding:"omitempty,oneof=normal urgent very_urgent overdue"`
	Description string          `json:"description"`
}

type UpdatePayableRequest struct {
	Title       *string          `json:"title" binding:"omitempty,max=255"`
	Amount      *decimal.Decimal `json:"amount" binding:"omitempty,decimal_gt0,decimal_scale=2"`
	DueDate     *string          `json:"due_date" binding:"omitempty,datetime=2006-01-02"`
	Importance  *string          `json:"importance" binding:"omitempty,oneof=normal important very_important"`
	Urgency     *string          `json:"urgency" binding:"omitempty,oneof=normal urgent very_urgent overdue"`
	Description *string          `json:"description"`
}

type PayableResponse struct {
	ID               uint                    `json:"id"`
	ContractID       uint                    `json:"contract_id"`
	ContractNumber   string                  `json:"contract_number"`
	SupplierID       uint                    `json:"supplier_id"`
	SupplierName     string                  `json:"supplier_name"`
	Title            string                  `json:"title"`
	Amount           decimal.Decimal         `json:"amount"`
	Currency         string                  `json:"currency"`
	DueDate          string                  `json:"due_date"`
	Status           string                  `json:"status"`
	EffectiveStatus  string                  `json:"effective_status"` // с учётом просрочки
	PaidAmount       decimal.Decimal         `json:"paid_amount"`
	RemainingAmount  decimal.Decimal         `json:"remaining_amount"`
	Importance       string                  `json:"importance"`
	Urgency          string                  `json:"urgency"`
	SuggestedUrgency string                  `json:"suggested_urgency"`
	Description      string                  `json:"description"`
	CreatedAt        time.Time               `json:"created_at"`
	UpdatedAt        time.Time               `json:"updated_at"`
	Payments         []PaymentRecordResponse `json:"payments,omitempty"` // только для GET одной задолженности
}

// ============ Платежи ============

type CreatePaymentRecordRequest struct {
	Amount        decimal.Decimal `json:"amount" binding:"decimal_gt0,decimal_scale=2"`
	Currency      string          `json:"currency" binding:"omitempty,iso4217"` // по умолчанию валюта задолженности
	PaymentDate   string          `json:"payment_date" binding:"required,datetime=2006-01-02"`
	BankAccountID *uint           `json:"bank_account_id"`
	Description   string          `json:"description" binding:"omitempty,max=255"`
	Notes         string          `json:"notes"`
}

type UpdatePaymentRecordRequest struct {
	Amount        *decimal.Decimal `json:"amount" binding:"omitempty,decimal_gt0,decimal_scale=2"`
	PaymentDate   *string          `json:"payment_date" binding:"omitempty,datetime=2006-01-02"`
	BankAccountID *uint            `json:"bank_account_id"`
	Description   *string          `json:"description" binding:"omitempty,max=255"`
	Notes         *string          `json:"notes"`
}

type PaymentRecordResponse struct {
	ID            uint            `json:"id"`
	PayableID     uint            `json:"payable_id"`
	BankAccountID *uint           `json:"bank_account_id,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	PaymentDate   string          `json:"payment_date"`
	Description   string          `json:"description"`
	Notes         string          `json:"notes"`
	CreatedAt     time.Time       `json:"created_at"`
}

// PaymentChangeResponse - платёж и пересчитанное состояние задолженности
type PaymentChangeResponse struct {
	Payment         *PaymentRecordResponse `json:"payment,omitempty"`
	PayableID       uint                   `json:"payable_id"`
	Status          string                 `json:"status"`
	PaidAmount      decimal.Decimal        `json:"paid_amount"`
	RemainingAmount decimal.Decimal        `json:"remaining_amount"`
}

// ============ Курсы валют и дашборд ============

type CurrencyRateRequest struct {
	RatePerUSD decimal.Decimal `json:"rate_per_usd" binding:"decimal_gt0,decimal_scale=6"`
}

type CurrencyTotals struct {
	Currency  string          `json:"currency"`
	Amount    decimal.Decimal `json:"amount"`
	Paid      decimal.Decimal `json:"paid"`
	Remaining decimal.Decimal `json:"remaining"`
	Rate      decimal.Decimal `json:"rate_per_usd"`
}

type DashboardSummary struct {
	StatusCounts   map[string]int64 `json:"status_counts"`
	OverdueCount   int64            `json:"overdue_count"`
	ByCurrency     []CurrencyTotals `json:"by_currency"`
	TotalAmountUSD decimal.Decimal  `json:"total_amount_usd"`
	TotalPaidUSD   decimal.Decimal  `json:"total_paid_usd"`
	TotalRemainUSD decimal.Decimal  `json:"total_remaining_usd"`
	SupplierCount  int64            `json:"supplier_count"`
	ContractCount  int64            `json:"contract_count"`
}

// ============ Вложения ============

type AttachmentResponse struct {
	ID          uint      `json:"id"`
	OwnerType   string    `json:"owner_type"`
	OwnerID     uint      `json:"owner_id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

// ============ Пользователи ============

type UserResponse struct {
	ID       uint   `json:"id"`
	UUID     string `json:"uuid"`
	Login    string `json:"login"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type RegisterRequest struct {
	Login    string `json:"login" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"omitempty,email"`
}

type UpdateUserRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password" binding:"omitempty,min=6"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=viewer accountant admin"`
}

type LoginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	ExpiresIn int          `json:"expires_in"`
	User      UserResponse `json:"user"`
}
