package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"paytrack/internal/app/config"
	"paytrack/internal/app/contracttree"
	"paytrack/internal/app/ds"
	"paytrack/internal/app/dto"
	"paytrack/internal/app/reconcile"
	"paytrack/internal/app/repository"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type envelope struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Data    json.RawMessage  `json:"data"`
	Errors  []dto.FieldError `json:"errors"`
}

func newTestHandler() *APIHandler {
	gin.SetMode(gin.TestMode)
	RegisterValidators()
	cfg := &config.Config{MaxUploadMB: 1, JWT: config.JWTConfig{Token: "test-secret", ExpiresIn: time.Hour}}
	h := NewAPIHandler(nil, nil, nil, cfg, NewAuthHandler(nil, nil, cfg))
	h.now = func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) }
	return h
}

func serve(t *testing.T, router *gin.Engine, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("response is not an envelope: %v, body %s", err, w.Body.String())
		}
	}
	return w, env
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestBadIDIsRejected(t *testing.T) {
	h := newTestHandler()
	router := gin.New()
	router.GET("/suppliers/:id", h.GetSupplier)
	router.DELETE("/contracts/:id", h.DeleteContract)
	router.GET("/payment-records/:id", h.GetPaymentRecord)

	for _, path := range []string{"/suppliers/abc", "/suppliers/0", "/suppliers/-1"} {
		w, env := serve(t, router, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusBadRequest || env.Success {
			t.Errorf("%s: status %d, success %v", path, w.Code, env.Success)
		}
	}

	w, _ := serve(t, router, httptest.NewRequest(http.MethodDelete, "/contracts/x", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("delete contract: status %d", w.Code)
	}
	w, _ = serve(t, router, httptest.NewRequest(http.MethodGet, "/payment-records/1.5", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("payment record: status %d", w.Code)
	}
}

func TestCreatePayableValidation(t *testing.T) {
	h := newTestHandler()
	router := gin.New()
	router.POST("/payables", h.CreatePayable)

	tests := []struct {
		name      string
		body      string
		wantField string
		wantRule  string
	}{
		{
			name:      "zero amount",
			body:      `{"contract_id":1,"supplier_id":1,"amount":"0","currency":"USD","due_date":"2026-04-01"}`,
			wantField: "amount",
			wantRule:  "decimal_gt0",
		},
		{
			name:      "negative amount",
			body:      `{"contract_id":1,"supplier_id":1,"amount":-10,"currency":"USD","due_date":"2026-04-01"}`,
			wantField: "amount",
			wantRule:  "decimal_gt0",
		},
		{
			name:      "fraction of a cent",
			body:      `{"contract_id":1,"supplier_id":1,"amount":"0.004","currency":"USD","due_date":"2026-04-01"}`,
			wantField: "amount",
			wantRule:  "decimal_scale",
		},
		{
			name:      "too many decimals",
			body:      `{"contract_id":1,"supplier_id":1,"amount":"123.456789","currency":"USD","due_date":"2026-04-01"}`,
			wantField: "amount",
			wantRule:  "decimal_scale",
		},
		{
			name:      "missing due date",
			body:      `{"contract_id":1,"supplier_id":1,"amount":100,"currency":"USD"}`,
			wantField: "due_date",
			wantRule:  "required",
		},
		{
			name:      "bad due date",
			body:      `{"contract_id":1,"supplier_id":1,"amount":100,"currency":"USD","due_date":"01.04.2026"}`,
			wantField: "due_date",
			wantRule:  "datetime",
		},
		{
			name:      "unknown currency",
			body:      `{"contract_id":1,"supplier_id":1,"amount":100,"currency":"QQQ","due_date":"2026-04-01"}`,
			wantField: "currency",
			wantRule:  "iso4217",
		},
		{
			name:      "bad importance",
			body:      `{"contract_id":1,"supplier_id":1,"amount":100,"currency":"USD","due_date":"2026-04-01","importance":"huge"}`,
			wantField: "importance",
			wantRule:  "oneof",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := serve(t, router, jsonRequest(http.MethodPost, "/payables", tt.body))
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
			}
			found := false
			for _, fe := range env.Errors {
				if fe.Field == tt.wantField && fe.Rule == tt.wantRule {
					found = true
				}
			}
			if !found {
				t.Fatalf("errors = %+v, want %s/%s", env.Errors, tt.wantField, tt.wantRule)
			}
		})
	}
}

func TestContractParentIDValidation(t *testing.T) {
	h := newTestHandler()
	router := gin.New()
	router.POST("/contracts", h.CreateContract)

	for _, parent := range []string{`"abc"`, `0`, `-4`, `1.5`, `true`} {
		body := fmt.Sprintf(`{"parent_contract_id":%s,"number":"N-1","title":"Поставка","currency":"USD"}`, parent)
		w, env := serve(t, router, jsonRequest(http.MethodPost, "/contracts", body))
		if w.Code != http.StatusBadRequest {
			t.Fatalf("parent %s: status = %d", parent, w.Code)
		}
		if len(env.Errors) != 1 || env.Errors[0].Field != "parent_contract_id" {
			t.Fatalf("parent %s: errors = %+v", parent, env.Errors)
		}
	}
}

func TestContractNegativeAmountRejected(t *testing.T) {
	h := newTestHandler()
	router := gin.New()
	router.POST("/contracts", h.CreateContract)

	body := `{"parent_contract_id":"12","number":"N-1","title":"Поставка","currency":"USD","amount":"-1"}`
	w, env := serve(t, router, jsonRequest(http.MethodPost, "/contracts", body))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	if len(env.Errors) != 1 || env.Errors[0].Rule != "decimal_gte0" {
		t.Fatalf("errors = %+v", env.Errors)
	}
}

func TestPaymentAmountValidation(t *testing.T) {
	h := newTestHandler()
	router := gin.New()
	router.POST("/payables/:id/payments", h.CreatePaymentRecord)
	router.PUT("/payment-records/:id", h.UpdatePaymentRecord)

	w, env := serve(t, router, jsonRequest(http.MethodPost, "/payables/1/payments", `{"amount":0,"payment_date":"2026-03-01"}`))
	if w.Code != http.StatusBadRequest || len(env.Errors) == 0 || env.Errors[0].Field != "amount" {
		t.Fatalf("create: status %d, errors %+v", w.Code, env.Errors)
	}

	w, env = serve(t, router, jsonRequest(http.MethodPut, "/payment-records/3", `{"amount":"-0.01"}`))
	if w.Code != http.StatusBadRequest || len(env.Errors) == 0 || env.Errors[0].Rule != "decimal_gt0" {
		t.Fatalf("update: status %d, errors %+v", w.Code, env.Errors)
	}
}

func TestMoneyScaleValidation(t *testing.T) {
	h := newTestHandler()
	router := gin.New()
	router.POST("/payables/:id/payments", h.CreatePaymentRecord)
	router.PUT("/payment-records/:id", h.UpdatePaymentRecord)
	router.PUT("/payables/:id", h.UpdatePayable)
	router.POST("/contracts", h.CreateContract)
	router.PUT("/currency-rates/:code", h.PutCurrencyRate)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		field  string
	}{
		{"payment below a cent", http.MethodPost, "/payables/1/payments", `{"amount":"0.004","payment_date":"2026-03-01"}`, "amount"},
		{"payment with micro cents", http.MethodPost, "/payables/1/payments", `{"amount":"123.456789","payment_date":"2026-03-01"}`, "amount"},
		{"payment edit", http.MethodPut, "/payment-records/3", `{"amount":10.001}`, "amount"},
		{"payable edit", http.MethodPut, "/payables/1", `{"amount":"99.999"}`, "amount"},
		{"contract amount", http.MethodPost, "/contracts", `{"number":"C-1","title":"Поставка","amount":"5.555","currency":"USD"}`, "amount"},
		{"rate precision", http.MethodPut, "/currency-rates/CNY", `{"rate_per_usd":"7.1234567"}`, "rate_per_usd"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := serve(t, router, jsonRequest(tt.method, tt.path, tt.body))
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
			}
			found := false
			for _, fe := range env.Errors {
				if fe.Field == tt.field && fe.Rule == "decimal_scale" {
					found = true
				}
			}
			if !found {
				t.Fatalf("errors %+v, want %s/decimal_scale", env.Errors, tt.field)
			}
		})
	}
}

func TestPayableFilterValidation(t *testing.T) {
	h := newTestHandler()
	router := gin.New()
	router.GET("/payables", h.GetPayables)
	router.GET("/payables/export", h.ExportPayables)

	for _, query := range []string{
		"status=lost",
		"supplier_id=x",
		"contract_id=0",
		"due_from=2026/01/01",
		"due_to=tomorrow",
	} {
		for _, path := range []string{"/payables?", "/payables/export?"} {
			w, env := serve(t, router, httptest.NewRequest(http.MethodGet, path+query, nil))
			if w.Code != http.StatusBadRequest || env.Success {
				t.Errorf("%s%s: status %d", path, query, w.Code)
			}
		}
	}
}

func TestContractTreeBadParent(t *testing.T) {
	h := newTestHandler()
	router := gin.New()
	router.GET("/contracts/tree", h.GetContractTree)

	w, _ := serve(t, router, httptest.NewRequest(http.MethodGet, "/contracts/tree?parent_id=abc", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestPutCurrencyRateBadCode(t *testing.T) {
	h := newTestHandler()
	router := gin.New()
	router.PUT("/currency-rates/:code", h.PutCurrencyRate)

	w, _ := serve(t, router, jsonRequest(http.MethodPut, "/currency-rates/QQQ", `{"rate_per_usd":"7.2"}`))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func multipartUpload(t *testing.T, fields map[string]string, fileSize int) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if fileSize >= 0 {
		part, err := writer.CreateFormFile("file", "invoice.pdf")
		if err != nil {
			t.Fatal(err)
		}
		if _, err := part.Write(bytes.Repeat([]byte("a"), fileSize)); err != nil {
			t.Fatal(err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/attachments", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestUploadAttachmentRejections(t *testing.T) {
	h := newTestHandler()
	router := gin.New()
	router.POST("/attachments", h.UploadAttachment)

	tests := []struct {
		name       string
		fields     map[string]string
		fileSize   int
		wantStatus int
	}{
		{"unknown owner", map[string]string{"owner_type": "invoice", "owner_id": "1"}, 10, http.StatusBadRequest},
		{"bad owner id", map[string]string{"owner_type": "payable", "owner_id": "0"}, 10, http.StatusBadRequest},
		{"no file", map[string]string{"owner_type": "payable", "owner_id": "1"}, -1, http.StatusBadRequest},
		{"too large", map[string]string{"owner_type": "payable", "owner_id": "1"}, 2 << 20, http.StatusRequestEntityTooLarge},
		{"storage disabled", map[string]string{"owner_type": "payable", "owner_id": "1"}, 10, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := serve(t, router, multipartUpload(t, tt.fields, tt.fileSize))
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestAttachmentFileRoutesWithoutStorage(t *testing.T) {
	h := newTestHandler()
	router := gin.New()
	router.GET("/attachments/:id/url", h.GetAttachmentURL)
	router.GET("/attachments/:id/download", h.DownloadAttachment)

	tests := []struct {
		path       string
		wantStatus int
	}{
		{"/attachments/x/url", http.StatusBadRequest},
		{"/attachments/5/url", http.StatusServiceUnavailable},
		{"/attachments/0/download", http.StatusBadRequest},
		{"/attachments/5/download", http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		w, env := serve(t, router, httptest.NewRequest(http.MethodGet, tt.path, nil))
		if w.Code != tt.wantStatus || env.Success {
			t.Errorf("%s: status = %d, want %d", tt.path, w.Code, tt.wantStatus)
		}
	}
}

func TestLogoutWithInvalidToken(t *testing.T) {
	h := newTestHandler()
	router := gin.New()
	router.POST("/logout", h.AuthHandler.LogoutUser)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.Header.Set("Authorization", "Bearer broken")
	w, _ := serve(t, router, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestUpdateUserRoleValidation(t *testing.T) {
	h := newTestHandler()
	router := gin.New()
	router.PUT("/users/:id/role", h.AuthHandler.UpdateUserRole)

	w, env := serve(t, router, jsonRequest(http.MethodPut, "/users/2/role", `{"role":"root"}`))
	if w.Code != http.StatusBadRequest || len(env.Errors) == 0 || env.Errors[0].Field != "role" {
		t.Fatalf("status %d, errors %+v", w.Code, env.Errors)
	}
}

func TestHandleError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", fmt.Errorf("payable 5: %w", repository.ErrNotFound), http.StatusNotFound},
		{"has references", fmt.Errorf("supplier 1 has contracts: %w", repository.ErrHasReferences), http.StatusConflict},
		{"cycle", fmt.Errorf("%w: loop", contracttree.ErrInvalidHierarchy), http.StatusBadRequest},
		{"missing parent", contracttree.ErrParentNotFound, http.StatusBadRequest},
		{"currency", reconcile.ErrCurrencyMismatch, http.StatusBadRequest},
		{"non positive", reconcile.ErrNonPositiveAmount, http.StatusBadRequest},
		{"move payment", repository.ErrPaymentMovesPayable, http.StatusBadRequest},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			handleError(c, tt.err, "fallback")
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestHandleErrorAmountExceeded(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	err := reconcile.ValidateNewPayment(decimal.RequireFromString("1000"), decimal.RequireFromString("1000"), decimal.RequireFromString("0.01"))
	handleError(c, fmt.Errorf("create payment: %w", err), "fallback")

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", w.Code)
	}
	var env struct {
		Data map[string]decimal.Decimal `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	if !env.Data["remaining_amount"].IsZero() {
		t.Fatalf("remaining_amount = %s, want 0", env.Data["remaining_amount"])
	}
	if !env.Data["attempted_amount"].Equal(decimal.RequireFromString("0.01")) {
		t.Fatalf("attempted_amount = %s", env.Data["attempted_amount"])
	}
}

func TestPayableResponseEffectiveStatus(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	p := ds.PayableManagement{
		ID:              1,
		Amount:          decimal.RequireFromString("1000"),
		RemainingAmount: decimal.RequireFromString("600"),
		Currency:        "USD",
		DueDate:         time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Status:          ds.PayablePartial,
		Contract:        ds.Contract{Number: "C-7"},
		Supplier:        ds.Supplier{Name: "ACME"},
	}

	resp := payableResponse(p, decimal.RequireFromString("400"), now)
	if resp.Status != "partial" || resp.EffectiveStatus != "overdue" {
		t.Fatalf("status = %s, effective = %s", resp.Status, resp.EffectiveStatus)
	}
	if resp.SuggestedUrgency != string(ds.UrgencyOverdue) {
		t.Fatalf("suggested urgency = %s", resp.SuggestedUrgency)
	}
	if resp.DueDate != "2026-03-01" || resp.ContractNumber != "C-7" || resp.SupplierName != "ACME" {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestPageFromQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/?page=abc&page_size=1000", nil)

	page := pageFromQuery(c)
	if page.Number != 1 || page.Size != repository.MaxPageSize {
		t.Fatalf("page = %+v", page)
	}

	resp := paginatedResponse([]int{1, 2}, 250, page)
	if resp.TotalPages != 3 || resp.CurrentPage != 1 {
		t.Fatalf("resp = %+v", resp)
	}
}
