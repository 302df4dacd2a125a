package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}
	return signed
}

func runAuth(t *testing.T, authHeader string) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/orders", nil)
	if authHeader != "" {
		c.Request.Header.Set("Authorization", authHeader)
	}
	AuthRequired()(c)
	return w, c
}

func TestAuthRequired(t *testing.T) {
	t.Setenv("JWT_SECRET", "test_secret")

	validClaims := jwt.MapClaims{
		"user_id":  "0c5e3f5a-9f5e-11ee-8c90-0242ac120002",
		"username": "alice",
		"role":     "user",
		"exp":      time.Now().Add(time.Hour).Unix(),
	}

	t.Run("missing header", func(t *testing.T) {
		w, c := runAuth(t, "")
		if w.Code != http.StatusUnauthorized {
			t.Errorf("code = %d, want 401", w.Code)
		}
		if !c.IsAborted() {
			t.Error("context not aborted")
		}
	})

	t.Run("bad format", func(t *testing.T) {
		w, _ := runAuth(t, "Token abc")
		if w.Code != http.StatusUnauthorized {
			t.Errorf("code = %d, want 401", w.Code)
		}
	})

	t.Run("bad signature", func(t *testing.T) {
		token := signToken(t, "wrong_secret", validClaims)
		w, _ := runAuth(t, "Bearer "+token)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("code = %d, want 401", w.Code)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		claims := jwt.MapClaims{
			"user_id": "0c5e3f5a-9f5e-11ee-8c90-0242ac120002",
			"exp":     time.Now().Add(-time.Hour).Unix(),
		}
		token := signToken(t, "test_secret", claims)
		w, _ := runAuth(t, "Bearer "+token)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("code = %d, want 401", w.Code)
		}
	})

	t.Run("missing user_id claim", func(t *testing.T) {
		claims := jwt.MapClaims{
			"username": "alice",
			"exp":      time.Now().Add(time.Hour).Unix(),
		}
		token := signToken(t, "test_secret", claims)
		w, _ := runAuth(t, "Bearer "+token)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("code = %d, want 401", w.Code)
		}
	})

	t.Run("valid token populates context", func(t *testing.T) {
		token := signToken(t, "test_secret", validClaims)
		w, c := runAuth(t, "Bearer "+token)
		if w.Code != http.StatusOK {
			t.Errorf("code = %d, want 200", w.Code)
		}
		if c.IsAborted() {
			t.Error("context aborted on valid token")
		}
		if got := c.GetString("user_id"); got != "0c5e3f5a-9f5e-11ee-8c90-0242ac120002" {
			t.Errorf("user_id = %q", got)
		}
		if got := c.GetString("role"); got != "user" {
			t.Errorf("role = %q", got)
		}
	})
}

func TestAuthorizeRoles(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		role     string
		allowed  []string
		wantCode int
	}{
		{name: "admin allowed", role: "admin", allowed: []string{"admin"}, wantCode: http.StatusOK},
		{name: "user refused", role: "user", allowed: []string{"admin"}, wantCode: http.StatusForbidden},
		{name: "one of several roles", role: "user", allowed: []string{"admin", "user"}, wantCode: http.StatusOK},
		{name: "no role in context", role: "", allowed: []string{"admin"}, wantCode: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/users", nil)
			if tt.role != "" {
				c.Set("role", tt.role)
			}

			AuthorizeRoles(tt.allowed...)(c)

			if w.Code != tt.wantCode {
				t.Errorf("code = %d, want %d", w.Code, tt.wantCode)
			}
		})
	}
}
