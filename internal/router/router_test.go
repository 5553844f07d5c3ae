package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/realtyblog/internal/config"
	"github.com/realtyblog/internal/db"
	"github.com/realtyblog/internal/handler"
	"github.com/realtyblog/internal/logging"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupRouterTest(t *testing.T) (*gin.Engine, *gorm.DB, config.AppConfig) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:router-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	cfg := config.AppConfig{
		SessionSecret:      "router-test-secret",
		SessionName:        "realty_session",
		SessionMaxAge:      3600,
		UploadDir:          t.TempDir(),
		UploadURLPath:      "/uploads/images",
		UploadMaxBytes:     5 << 20,
		CORSAllowedOrigins: []string{"http://localhost:3000"},
		LoginRateLimit:     0.2,
		LoginBurst:         5,
		Database:           config.DBConfig{Driver: "sqlite", Path: "router.db"},
	}
	logs := logging.Discard()
	return SetupRouter(handler.NewAPI(gdb, cfg, logs), cfg, logs), gdb, cfg
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v (%s)", err, rr.Body.String())
	}
	return body
}

func TestRoutesAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, rt := range routes(&handler.API{}) {
		key := rt.method + " " + rt.path
		if seen[key] {
			t.Fatalf("duplicate route %s", key)
		}
		seen[key] = true
		if rt.admin != strings.HasPrefix(rt.path, "/admin/") {
			t.Fatalf("route %s has admin=%v", key, rt.admin)
		}
	}
}

func TestAdminRoutesRequireSession(t *testing.T) {
	r, gdb, _ := setupRouterTest(t)

	blog := db.Blog{Title: "Keep me", Slug: "keep-me", Content: "body"}
	if err := gdb.Create(&blog).Error; err != nil {
		t.Fatalf("failed to seed blog: %v", err)
	}

	for _, rt := range routes(&handler.API{}) {
		if !rt.admin {
			continue
		}
		path := apiPrefix + rt.path
		path = strings.ReplaceAll(path, ":id", fmt.Sprint(blog.ID))
		path = strings.ReplaceAll(path, "*filename", "photo.jpg")

		req := httptest.NewRequest(rt.method, path, strings.NewReader(`{"title":"changed","status":"read"}`))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401, got %d", rt.method, path, rr.Code)
		}
		body := decodeEnvelope(t, rr)
		if body["success"] != false || body["authenticated"] != false || body["message"] != "Authentication required" {
			t.Fatalf("%s %s: unexpected body %v", rt.method, path, body)
		}
	}

	var stored db.Blog
	if err := gdb.First(&stored, blog.ID).Error; err != nil {
		t.Fatalf("blog should still exist: %v", err)
	}
	if stored.Title != "Keep me" {
		t.Fatalf("blog was modified without a session: %q", stored.Title)
	}
}

func TestUnknownPathAndMethodEnvelopes(t *testing.T) {
	r, _, _ := setupRouterTest(t)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	if body := decodeEnvelope(t, rr); body["message"] != "API endpoint not found" || body["success"] != false {
		t.Fatalf("unexpected 404 body %v", body)
	}

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/api/blogs", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}
	if body := decodeEnvelope(t, rr); body["message"] != "Method not allowed" {
		t.Fatalf("unexpected 405 body %v", body)
	}
}

func TestTrailingSlashDispatchesWithoutRedirect(t *testing.T) {
	r, gdb, _ := setupRouterTest(t)

	now := time.Now()
	if err := gdb.Create(&db.Blog{Title: "Open house", Slug: "open-house", Content: "body", IsPublished: true, PublishedAt: &now}).Error; err != nil {
		t.Fatalf("failed to seed blog: %v", err)
	}

	tests := []struct {
		name    string
		method  string
		path    string
		payload string
		status  int
		message string
	}{
		{name: "blog list", method: http.MethodGet, path: "/api/blogs/", status: http.StatusOK, message: "Blogs retrieved successfully"},
		{name: "blog detail", method: http.MethodGet, path: "/api/blogs/open-house/", status: http.StatusOK, message: "Blog retrieved successfully"},
		{
			name: "contact submit", method: http.MethodPost, path: "/api/contact/",
			payload: `{"name":"Dana","email":"dana@example.com","message":"Is the flat still available?"}`,
			status:  http.StatusCreated, message: "Message sent successfully",
		},
		{name: "admin guard", method: http.MethodGet, path: "/api/admin/blogs/", status: http.StatusUnauthorized, message: "Authentication required"},
		{name: "wrong method", method: http.MethodPut, path: "/api/contact/", status: http.StatusMethodNotAllowed, message: "Method not allowed"},
		{name: "unknown", method: http.MethodGet, path: "/api/nope/", status: http.StatusNotFound, message: "API endpoint not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.payload))
			if tt.payload != "" {
				req.Header.Set("Content-Type", "application/json")
			}
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			if rr.Code != tt.status {
				t.Fatalf("expected %d, got %d (Location=%q)", tt.status, rr.Code, rr.Header().Get("Location"))
			}
			if body := decodeEnvelope(t, rr); body["message"] != tt.message {
				t.Fatalf("unexpected body %v", body)
			}
		})
	}
}

func TestPublicBlogListEnvelope(t *testing.T) {
	r, gdb, _ := setupRouterTest(t)

	now := time.Now()
	if err := gdb.Create(&db.Blog{Title: "Open house", Slug: "open-house", Content: "body", IsPublished: true, PublishedAt: &now}).Error; err != nil {
		t.Fatalf("failed to seed blog: %v", err)
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/blogs?per_page=500", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	body := decodeEnvelope(t, rr)
	items, ok := body["data"].([]any)
	if !ok || len(items) != 1 {
		t.Fatalf("unexpected data %v", body["data"])
	}
	pagination, ok := body["pagination"].(map[string]any)
	if !ok {
		t.Fatalf("missing pagination in %v", body)
	}
	if pagination["per_page"] != float64(100) || pagination["total"] != float64(1) {
		t.Fatalf("unexpected pagination %v", pagination)
	}
}

func TestAdminAuthRunsBeforeIDParsing(t *testing.T) {
	r, _, _ := setupRouterTest(t)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/admin/blogs/abc", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected auth check before id parsing, got %d", rr.Code)
	}
}

func TestSetupRouterServesUploads(t *testing.T) {
	r, _, cfg := setupRouterTest(t)

	fileName := "example.txt"
	fileContent := []byte("hello uploads")
	if err := os.WriteFile(filepath.Join(cfg.UploadDir, fileName), fileContent, 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/uploads/images/"+fileName, nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if rr.Body.String() != string(fileContent) {
		t.Fatalf("unexpected body, got %q", rr.Body.String())
	}
}

func TestHealthCheckReportsDatabase(t *testing.T) {
	r, _, _ := setupRouterTest(t)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	body := decodeEnvelope(t, rr)
	data := body["data"].(map[string]any)
	services := data["services"].(map[string]any)
	database := services["database"].(map[string]any)
	if database["status"] != "connected" || database["driver"] != "sqlite" {
		t.Fatalf("unexpected database health %v", database)
	}
	uploads := services["uploads"].(map[string]any)
	if uploads["status"] != "ready" || uploads["writable"] != true {
		t.Fatalf("unexpected uploads health %v", uploads)
	}
	api := services["api"].(map[string]any)
	if api["status"] != "operational" || api["version"] != "1.0" {
		t.Fatalf("unexpected api health %v", api)
	}
}
