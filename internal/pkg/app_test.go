package pkg

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"paytrack/internal/app/config"
	"paytrack/internal/app/handler"
	"paytrack/internal/app/middleware"

	"github.com/gin-gonic/gin"
)

func newTestApp() *Application {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		CORSOrigins: []string{"http://localhost:3000"},
		JWT:         config.JWTConfig{Token: "test-secret"},
	}
	h := handler.NewAPIHandler(nil, nil, nil, cfg, handler.NewAuthHandler(nil, nil, cfg))
	app := NewApp(cfg, gin.New(), h, middleware.NewAuthMiddleware(nil, cfg))
	app.SetupRoutes()
	return app
}

func TestPing(t *testing.T) {
	app := newTestApp()

	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app := newTestApp()

	routes := []struct{ method, path string }{
		{http.MethodGet, "/api/suppliers"},
		{http.MethodGet, "/api/contracts/tree"},
		{http.MethodPost, "/api/payables"},
		{http.MethodPost, "/api/payables/1/payments"},
		{http.MethodDelete, "/api/payment-records/1"},
		{http.MethodPut, "/api/currency-rates/USD"},
		{http.MethodGet, "/api/dashboard/summary"},
		{http.MethodGet, "/api/payables/export"},
	}
	for _, r := range routes {
		w := httptest.NewRecorder()
		app.Router.ServeHTTP(w, httptest.NewRequest(r.method, r.path, nil))
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: status = %d, want 401", r.method, r.path, w.Code)
		}
	}
}

func TestCORSPreflight(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest(http.MethodOptions, "/api/suppliers", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("allow origin = %q", got)
	}
}
