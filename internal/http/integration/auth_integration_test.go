package integration_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/geocoder89/userhub/internal/config"
	apphttp "github.com/geocoder89/userhub/internal/http"
	"github.com/geocoder89/userhub/internal/repo/memory"
	"github.com/geocoder89/userhub/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() config.Config {
	return config.Config{
		Env:             "test",
		Port:            0,
		MaxBodyBytes:    1 << 20,
		LoginRateLimit:  100,
		LoginRateWindow: time.Minute,
	}
}

// setupRouter builds the full router over a fresh seeded store, so every
// test gets isolated state.
func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))

	return apphttp.NewRouter(logger, memory.NewSeededStore(), testConfig())
}

// runs a request and returns the recorder

func doRequest(router http.Handler, method, path string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))

	if method == http.MethodPost || method == http.MethodPut || method == http.MethodPatch {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func mustReadJSON[T any](t *testing.T, w *httptest.ResponseRecorder, out *T) {
	t.Helper()
	err := json.Unmarshal(w.Body.Bytes(), out)
	if err != nil {
		t.Fatalf("failed to unmarshal json: %v, body=%s", err, w.Body.String())
	}
}

func TestLoginIntegration_SeedAdmin(t *testing.T) {
	router := setupRouter(t)

	// seed id "1" is john@gmail.com with role admin
	w := doRequest(router, http.MethodPost, "/auth/login", `{"email":"john@gmail.com","password":"testpassword"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("login failed: status=%d body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
	}

	mustReadJSON(t, w, &resp)

	if resp.Token == "" {
		t.Fatal("empty token")
	}

	claims, err := service.NewAuthService().Decode(resp.Token)

	if err != nil {
		t.Fatalf("token does not decode: %v", err)
	}

	if claims.ID != "1" || claims.Email != "john@gmail.com" || claims.Role != "admin" {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	if claims.Subject != "1" {
		t.Fatalf("sub = %q, want %q", claims.Subject, "1")
	}
}

func TestLoginIntegration_WrongPassword(t *testing.T) {
	router := setupRouter(t)

	w := doRequest(router, http.MethodPost, "/auth/login", `{"email":"john@gmail.com","password":"wrong"}`)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401, body=%s", w.Code, w.Body.String())
	}

	if strings.TrimSpace(w.Body.String()) != `{"error":"Invalid password"}` {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestLoginIntegration_UnknownEmail(t *testing.T) {
	router := setupRouter(t)

	w := doRequest(router, http.MethodPost, "/auth/login", `{"email":"nobody@example.com","password":"whatever"}`)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404, body=%s", w.Code, w.Body.String())
	}

	if strings.TrimSpace(w.Body.String()) != `{"error":"User not found"}` {
		t.Fatalf("body = %s", w.Body.String())
	}
}

// duplicate email: first-match wins, so login resolves seed id 3, never 5

func TestLoginIntegration_DuplicateEmailFirstMatch(t *testing.T) {
	router := setupRouter(t)

	w := doRequest(router, http.MethodPost, "/auth/login", `{"email":"james@gmail.com","password":"testpassword"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("login failed: status=%d body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
	}

	mustReadJSON(t, w, &resp)

	claims, err := service.NewAuthService().Decode(resp.Token)

	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if claims.ID != "3" {
		t.Fatalf("claims.ID = %q, want first match %q", claims.ID, "3")
	}
}

func TestLoginIntegration_RateLimited(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := testConfig()
	cfg.LoginRateLimit = 2

	router := apphttp.NewRouter(logger, memory.NewSeededStore(), cfg)

	body := `{"email":"john@gmail.com","password":"testpassword"}`

	for i := 0; i < 2; i++ {
		w := doRequest(router, http.MethodPost, "/auth/login", body)

		if w.Code != http.StatusOK {
			t.Fatalf("request %d: status=%d body=%s", i, w.Code, w.Body.String())
		}
	}

	w := doRequest(router, http.MethodPost, "/auth/login", body)

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429, body=%s", w.Code, w.Body.String())
	}

	if w.Header().Get("Retry-After") == "" {
		t.Fatal("Retry-After header missing")
	}
}

func TestLoginIntegration_RequiresJSONContentType(t *testing.T) {
	router := setupRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(`{"email":"a","password":"b"}`))
	// no Content-Type

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("status = %d, want 415", w.Code)
	}
}
