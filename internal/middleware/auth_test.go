package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/lexgen/lexgen-backend/internal/logger"
	"github.com/lexgen/lexgen-backend/internal/requestdata"
)

const testSecret = "test-secret"

func signToken(t *testing.T, method jwt.SigningMethod, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func newAuthRouter(t *testing.T) (*gin.Engine, *requestdata.RequestData) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	captured := &requestdata.RequestData{}

	r := gin.New()
	r.GET("/protected", NewAuthMiddleware(log, testSecret).RequireAuth(), func(c *gin.Context) {
		if rd := requestdata.GetRequestData(c.Request.Context()); rd != nil {
			*captured = *rd
		}
		c.Status(http.StatusOK)
	})
	return r, captured
}

func TestRequireAuthValidToken(t *testing.T) {
	r, captured := newAuthRouter(t)
	userID := uuid.New()
	token := signToken(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{
		"sub":   userID.String(),
		"email": "user@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200", w.Code)
	}
	if captured.UserID != userID || captured.Email != "user@example.com" {
		t.Fatalf("request data not propagated: %+v", captured)
	}
}

func TestRequireAuthQueryToken(t *testing.T) {
	r, captured := newAuthRouter(t)
	userID := uuid.New()
	token := signToken(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{
		"sub": userID.String(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/protected?token="+token, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200", w.Code)
	}
	if captured.UserID != userID {
		t.Fatal("query token identity not propagated")
	}
}

func TestRequireAuthRejections(t *testing.T) {
	r, _ := newAuthRouter(t)
	userID := uuid.New()

	cases := []struct {
		name  string
		token string
	}{
		{name: "missing_token", token: ""},
		{
			name: "wrong_secret",
			token: signToken(t, jwt.SigningMethodHS256, "other-secret", jwt.MapClaims{
				"sub": userID.String(),
				"exp": time.Now().Add(time.Hour).Unix(),
			}),
		},
		{
			name: "expired",
			token: signToken(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{
				"sub": userID.String(),
				"exp": time.Now().Add(-time.Hour).Unix(),
			}),
		},
		{
			name: "subject_not_uuid",
			token: signToken(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{
				"sub": "not-a-uuid",
				"exp": time.Now().Add(time.Hour).Unix(),
			}),
		},
		{
			name: "missing_subject",
			token: signToken(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{
				"exp": time.Now().Add(time.Hour).Unix(),
			}),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != http.StatusUnauthorized {
				t.Fatalf("status=%d, want 401", w.Code)
			}
		})
	}
}
