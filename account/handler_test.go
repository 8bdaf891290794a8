package account

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/librosapp/authkit/server/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(t *testing.T, f *fixture, limit middleware.RateLimitConfig) *gin.Engine {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	r := gin.New()
	NewHandler(f.svc, f.tokens, nil).Mount(ctx, r, limit)
	return r
}

func do(r http.Handler, method, path, body, token string) (*httptest.ResponseRecorder, map[string]interface{}) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func TestHandler_RegisterLoginMe(t *testing.T) {
	f := newFixture(t, cheapArgon)
	r := newRouter(t, f, middleware.RateLimitConfig{RequestsPerMinute: 100})

	w, body := do(r, http.MethodPost, "/api/auth/register",
		`{"email":"a@b.com","name":"Ann","password":"Secret1!"}`, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if body["success"] != true {
		t.Fatalf("register: expected success, got %v", body)
	}
	if strings.Contains(w.Body.String(), "argon2id") || strings.Contains(w.Body.String(), "Secret1!") {
		t.Fatal("register response leaked credential material")
	}

	w, body = do(r, http.MethodPost, "/api/auth/login", `{"email":"a@b.com","password":"Secret1!"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatalf("login: missing token in %v", body)
	}

	w, body = do(r, http.MethodGet, "/api/auth/me", "", token)
	if w.Code != http.StatusOK {
		t.Fatalf("me: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	user, _ := body["user"].(map[string]interface{})
	if user["email"] != "a@b.com" || user["name"] != "Ann" {
		t.Fatalf("me: unexpected user %v", body["user"])
	}
	if _, ok := user["passwordHash"]; ok {
		t.Fatal("me: hash serialized")
	}
}

func TestHandler_MeRequiresToken(t *testing.T) {
	f := newFixture(t, cheapArgon)
	r := newRouter(t, f, middleware.RateLimitConfig{})

	w, body := do(r, http.MethodGet, "/api/auth/me", "", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if body["message"] != middleware.MsgTokenRequired || body["success"] != false {
		t.Fatalf("unexpected body %v", body)
	}

	w, body = do(r, http.MethodGet, "/api/auth/me", "", "not-a-jwt-token")
	if w.Code != http.StatusUnauthorized || body["message"] != middleware.MsgTokenInvalid {
		t.Fatalf("expected invalid-token 401, got %d %v", w.Code, body)
	}
}

func TestHandler_Errors(t *testing.T) {
	f := newFixture(t, cheapArgon)
	r := newRouter(t, f, middleware.RateLimitConfig{RequestsPerMinute: 100})

	do(r, http.MethodPost, "/api/auth/register", `{"email":"a@b.com","name":"Ann","password":"Secret1!"}`, "")

	tests := []struct {
		name   string
		path   string
		body   string
		status int
		msg    string
	}{
		{"duplicate", "/api/auth/register", `{"email":"a@b.com","name":"Ann","password":"Secret1!"}`, http.StatusConflict, MsgEmailTaken},
		{"malformed json", "/api/auth/register", `{"email":`, http.StatusBadRequest, "Datos inválidos"},
		{"wrong password", "/api/auth/login", `{"email":"a@b.com","password":"nope"}`, http.StatusUnauthorized, MsgInvalidCredentials},
		{"unknown email", "/api/auth/login", `{"email":"x@b.com","password":"Secret1!"}`, http.StatusUnauthorized, MsgInvalidCredentials},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w, body := do(r, http.MethodPost, tc.path, tc.body, "")
			if w.Code != tc.status {
				t.Fatalf("expected %d, got %d: %s", tc.status, w.Code, w.Body.String())
			}
			if body["success"] != false || body["message"] != tc.msg || body["error"] != tc.msg {
				t.Fatalf("unexpected body %v", body)
			}
		})
	}
}

func TestHandler_RateLimitsLogin(t *testing.T) {
	f := newFixture(t, cheapArgon)
	r := newRouter(t, f, middleware.RateLimitConfig{RequestsPerMinute: 2})

	for i := 0; i < 2; i++ {
		w, _ := do(r, http.MethodPost, "/api/auth/login", `{"email":"a@b.com","password":"x"}`, "")
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: expected 401, got %d", i, w.Code)
		}
	}
	w, _ := do(r, http.MethodPost, "/api/auth/login", `{"email":"a@b.com","password":"x"}`, "")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
}

func TestHandler_RateLimitsProfilePerUser(t *testing.T) {
	f := newFixture(t, cheapArgon)
	r := newRouter(t, f, middleware.RateLimitConfig{RequestsPerMinute: 2})
	ctx := context.Background()

	ann, err := f.svc.Register(ctx, RegisterInput{Name: "Ann", Email: "a@b.com", Password: "Secret1!"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	bob, err := f.svc.Register(ctx, RegisterInput{Name: "Bob", Email: "b@b.com", Password: "Secret1!"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	for i := 0; i < 2; i++ {
		if w, _ := do(r, http.MethodGet, "/api/auth/me", "", ann.Token); w.Code != http.StatusOK {
			t.Fatalf("attempt %d: expected 200, got %d", i, w.Code)
		}
	}
	if w, _ := do(r, http.MethodGet, "/api/auth/me", "", ann.Token); w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 for the third request, got %d", w.Code)
	}
	// Same client IP, different user: its own budget.
	if w, _ := do(r, http.MethodGet, "/api/auth/me", "", bob.Token); w.Code != http.StatusOK {
		t.Fatalf("expected 200 for another user, got %d", w.Code)
	}
}
