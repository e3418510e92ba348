package jwtmw

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// TestMain switches gin to test mode before the suite runs.
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

const middlewareSecret = "test-secret-key-for-middleware"

func runMiddleware(t *testing.T, authHeader string) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPut, "/api/users/favorites", nil)
	if authHeader != "" {
		c.Request.Header.Set("Authorization", authHeader)
	}

	AuthRequired(NewManager(middlewareSecret, time.Hour))(c)
	return w, c
}

// TestAuthRequired_MissingBearerToken returns 401 when no bearer prefix is present.
func TestAuthRequired_MissingBearerToken(t *testing.T) {
	tests := []struct {
		name       string
		authHeader string
	}{
		{"no header", ""},
		{"basic auth", "Basic dXNlcjpwYXNz"},
		{"bearer lowercase", "bearer token123"},
		{"no space after Bearer", "Bearertoken123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, c := runMiddleware(t, tt.authHeader)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
			}
			if !c.IsAborted() {
				t.Error("expected request to be aborted")
			}
		})
	}
}

// TestAuthRequired_InvalidToken returns 401 for tampered or expired tokens.
func TestAuthRequired_InvalidToken(t *testing.T) {
	unsigned, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"id":  float64(1),
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := []struct {
		name  string
		token string
	}{
		{"malformed token", "not.a.valid.token"},
		{"random string", "randomstring"},
		{"wrong secret", createTokenWithSecret("wrong-secret", 1, time.Hour)},
		{"expired token", createTokenWithSecret(middlewareSecret, 1, -time.Hour)},
		{"none algorithm", unsigned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, c := runMiddleware(t, "Bearer "+tt.token)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
			}
			if _, ok := UserID(c); ok {
				t.Error("user id must not be set for a rejected token")
			}
		})
	}
}

// TestAuthRequired_ValidToken passes the request through and stores the user id.
func TestAuthRequired_ValidToken(t *testing.T) {
	for _, userID := range []uint{1, 42, 999} {
		token := createTokenWithSecret(middlewareSecret, userID, time.Hour)

		w, c := runMiddleware(t, "Bearer "+token)

		if c.IsAborted() {
			t.Fatalf("expected request not to be aborted, response: %s", w.Body.String())
		}
		got, ok := UserID(c)
		if !ok {
			t.Fatal("expected userID to be set in context")
		}
		if got != userID {
			t.Errorf("expected userID %d, got %d", userID, got)
		}
	}
}

func TestUserID_Missing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if _, ok := UserID(c); ok {
		t.Error("expected no user id on a fresh context")
	}
}

// createTokenWithSecret signs a token for userID the way Manager does.
func createTokenWithSecret(secret string, userID uint, expiration time.Duration) string {
	claims := jwt.MapClaims{
		"id":  float64(userID),
		"exp": time.Now().Add(expiration).Unix(),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, _ := token.SignedString([]byte(secret))
	return signed
}
