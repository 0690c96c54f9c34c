package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"busbenin/pkg/logger"

	"github.com/gin-gonic/gin"
)

func newAuthEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	svc := NewService(newFakeRepo(), nil, testConfig(), logger.NewNop())
	NewRouter(NewController(svc), testConfig()).SetupRoutes(engine.Group("/api/v1"))
	return engine
}

func postJSON(engine *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestAuthEndpoints(t *testing.T) {
	engine := newAuthEngine()

	cases := []struct {
		name string
		path string
		body map[string]string
		want int
	}{
		{"register", "/api/v1/auth/register", map[string]string{"email": "ama@mail.bj", "password": "secret1"}, http.StatusCreated},
		{"duplicate", "/api/v1/auth/register", map[string]string{"email": "ama@mail.bj", "password": "secret1"}, http.StatusConflict},
		{"bad email", "/api/v1/auth/register", map[string]string{"email": "nope", "password": "secret1"}, http.StatusBadRequest},
		{"wrong password", "/api/v1/auth/login", map[string]string{"email": "ama@mail.bj", "password": "secret9"}, http.StatusUnauthorized},
		{"login", "/api/v1/auth/login", map[string]string{"email": "ama@mail.bj", "password": "secret1"}, http.StatusOK},
		{"garbage refresh", "/api/v1/auth/refresh", map[string]string{"refresh_token": "abc"}, http.StatusUnauthorized},
		{"logout without body", "/api/v1/auth/logout", map[string]string{}, http.StatusOK},
	}
	for _, c := range cases {
		rec := postJSON(engine, c.path, c.body)
		if rec.Code != c.want {
			t.Fatalf("%s: status %d, want %d (%s)", c.name, rec.Code, c.want, rec.Body.String())
		}
	}
}

func TestMeRequiresToken(t *testing.T) {
	engine := newAuthEngine()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", rec.Code)
	}

	login := postJSON(engine, "/api/v1/auth/register", map[string]string{"email": "yao@mail.bj", "password": "secret1"})
	var env struct {
		Data AuthResponse `json:"data"`
	}
	if err := json.Unmarshal(login.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+env.Data.AccessToken)
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200 (%s)", rec.Code, rec.Body.String())
	}
}
