package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jalsetu.io/jalsetu/internal/domain"
	apperrors "jalsetu.io/jalsetu/internal/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testJWTConfig = JWTConfig{
	SigningKey: []byte("0123456789abcdef0123456789abcdef"),
	Issuer:     "jalsetu-test",
	ExpiresIn:  time.Hour,
}

func authedRouter(t *testing.T, extra ...gin.HandlerFunc) *gin.Engine {
	t.Helper()

	r := gin.New()
	handlers := append([]gin.HandlerFunc{JWTAuth(testJWTConfig.SigningKey)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": GetUserID(c.Request.Context()),
			"role":    GetRole(c.Request.Context()),
		})
	})
	r.GET("/probe", handlers...)
	return r
}

func TestJWTAuthRoundTrip(t *testing.T) {
	token, expiresAt, err := GenerateToken(testJWTConfig, "user-1", "Ramesh", domain.RoleFarmer)
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	r := authedRouter(t)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-1")
	assert.Contains(t, w.Body.String(), domain.RoleFarmer)
}

func TestJWTAuthRejections(t *testing.T) {
	r := authedRouter(t)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not.a.jwt"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/probe", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			r.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), apperrors.CodeAuthFailed)
		})
	}
}

func TestJWTAuthExpiredToken(t *testing.T) {
	cfg := testJWTConfig
	cfg.ExpiresIn = -time.Minute
	token, _, err := GenerateToken(cfg, "user-1", "Ramesh", domain.RoleFarmer)
	require.NoError(t, err)

	r := authedRouter(t)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), apperrors.CodeTokenExpired)
}

func TestRequireRoles(t *testing.T) {
	probe := func(role string, gate gin.HandlerFunc) int {
		token, _, err := GenerateToken(testJWTConfig, "user-1", "x", role)
		require.NoError(t, err)

		r := authedRouter(t, gate)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(w, req)
		return w.Code
	}

	gate := RequireRoles(domain.RoleTalati)
	assert.Equal(t, http.StatusOK, probe(domain.RoleTalati, gate))
	assert.Equal(t, http.StatusForbidden, probe(domain.RoleFarmer, gate))

	// Admin passes every gate.
	assert.Equal(t, http.StatusOK, probe(domain.RoleAdmin, gate))
}

func TestRequestIDGeneratedAndPropagated(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/probe", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c.Request.Context()))
	})

	t.Run("generated when absent", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/probe", nil))
		assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
		assert.Equal(t, w.Header().Get(RequestIDHeader), w.Body.String())
	})

	t.Run("caller value preserved", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		req.Header.Set(RequestIDHeader, "trace-123")
		r.ServeHTTP(w, req)
		assert.Equal(t, "trace-123", w.Header().Get(RequestIDHeader))
	})
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), ErrorHandler())
	r.GET("/app-error", func(c *gin.Context) {
		_ = c.Error(apperrors.NotFound(apperrors.CodeForm12NotFound, "rate assessment not found"))
	})
	r.GET("/field-errors", func(c *gin.Context) {
		_ = c.Error(apperrors.ErrMissingFields("purpose"))
	})
	r.GET("/raw-error", func(c *gin.Context) {
		_ = c.Error(assert.AnError)
	})

	t.Run("app error shape", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/app-error", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t,
			`{"code":"FORM12_NOT_FOUND","message":"rate assessment not found"}`,
			w.Body.String())
	})

	t.Run("field errors included", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/field-errors", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "field_errors")
		assert.Contains(t, w.Body.String(), "purpose")
	})

	t.Run("unknown errors become opaque 500", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/raw-error", nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), assert.AnError.Error())
	})
}
