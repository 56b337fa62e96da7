package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"kitchenops/internal/db/mock"
	"kitchenops/internal/exports"
	"kitchenops/internal/handlers"
	"kitchenops/models"
)

func TestNewAppliesSessionDefaults(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:server-defaults?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	if err := db.Create(&models.User{Email: "user@example.com", PasswordHash: string(hash), Theme: models.DefaultTheme}).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	cfg := Config{Addr: ":8080", Session: SessionConfig{CookieSecure: true}, Database: db}
	srv, err := New(cfg)
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}
	t.Cleanup(func() {
		handlers.Configure(nil, nil)
		handlers.ConfigureReports(nil, nil, "", 0)
	})

	if srv.httpServer.Addr != ":8080" {
		t.Fatalf("expected server addr :8080, got %q", srv.httpServer.Addr)
	}
	if srv.httpServer.Handler == nil {
		t.Fatal("expected handler to be configured")
	}

	data := url.Values{}
	data.Set("email", "user@example.com")
	data.Set("password", "password123")
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(data.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	srv.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect after login, got %d", rr.Code)
	}
	cookies := rr.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected session cookie to be set")
	}
	if cookies[0].Name != "kitchenops_session" {
		t.Fatalf("expected default session cookie name, got %q", cookies[0].Name)
	}
	if !cookies[0].Secure {
		t.Fatal("expected cookie secure flag to be true")
	}
}

func TestServerHandler(t *testing.T) {
	cfg := Config{Addr: ":9090"}
	srv, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() {
		handlers.Configure(nil, nil)
	})

	handler := srv.Handler()
	if handler == nil {
		t.Fatal("expected non-nil handler")
	}

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected /healthz to return 200, got %d", rr.Code)
	}
}

// login signs in the seeded mock user and returns the session cookie.
func login(t *testing.T, handler http.Handler) *http.Cookie {
	t.Helper()
	data := url.Values{"email": {mock.Email}, "password": {mock.Password}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(data.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("login = %d, want %d", rr.Code, http.StatusSeeOther)
	}
	cookies := rr.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected session cookie after login")
	}
	return cookies[0]
}

func TestServerServesProtectedAPI(t *testing.T) {
	db, err := mock.New(context.Background())
	if err != nil {
		t.Fatalf("mock database: %v", err)
	}
	store := exports.NewMemoryStore()
	srv, err := New(Config{
		Addr:     ":0",
		Database: db,
		Reports:  ReportsConfig{Exports: store, Currency: "Rs ", ExportTTL: time.Minute},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() {
		handlers.Configure(nil, nil)
		handlers.ConfigureReports(nil, nil, "", 0)
	})
	handler := srv.Handler()

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/app/api/kitchens", nil))
	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/login" {
		t.Fatalf("anonymous API request = %d to %q, want redirect to /login", rr.Code, rr.Header().Get("Location"))
	}

	cookie := login(t, handler)

	req := httptest.NewRequest(http.MethodGet, "/app/api/kitchens", nil)
	req.AddCookie(cookie)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("GET /app/api/kitchens = %d, want %d", rr.Code, http.StatusOK)
	}
	var kitchens []map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &kitchens); err != nil {
		t.Fatalf("decode kitchens: %v", err)
	}
	if len(kitchens) != 2 {
		t.Fatalf("len(kitchens) = %d, want 2", len(kitchens))
	}

	body := strings.NewReader(`{"date":"` + time.Now().Format("2006-01-02") + `","format":"csv","deliver":"link"}`)
	req = httptest.NewRequest(http.MethodPost, "/app/api/reports/ingredients", body)
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(cookie)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("link report = %d, want %d: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}
	var link struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &link); err != nil {
		t.Fatalf("decode link: %v", err)
	}

	req = httptest.NewRequest(http.MethodGet, link.URL, nil)
	req.AddCookie(cookie)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK || !strings.HasPrefix(rr.Body.String(), "Section,") {
		t.Fatalf("download = %d %q, want the csv report", rr.Code, rr.Body.String())
	}
}
