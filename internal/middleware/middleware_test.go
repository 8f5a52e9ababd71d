package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tenantEcho() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tid, _ := TenantIDFromContext(r.Context())
		_, _ = w.Write([]byte(tid))
	})
}

func TestAuthRequired(t *testing.T) {
	a := NewAuth("test-secret", true)
	h := a.WithAuth(a.RequireAuth(tenantEcho()))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":{"code":"unauthorized","message":"unauthorized"}}`, rec.Body.String())

	tok, err := a.SignToken("u1", "t1", "ops@example.com", time.Hour)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "t1", rec.Body.String())
}

func TestAuthRejectsForeignAndExpiredTokens(t *testing.T) {
	a := NewAuth("test-secret", true)
	other := NewAuth("other-secret", true)
	h := a.WithAuth(a.RequireAuth(tenantEcho()))

	foreign, err := other.SignToken("u1", "t1", "x@y.z", time.Hour)
	require.NoError(t, err)
	expired, err := a.SignToken("u1", "t1", "x@y.z", -time.Minute)
	require.NoError(t, err)

	for _, tok := range []string{foreign, expired, "garbage"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}
}

func TestAuthOptionalUsesSharedTenant(t *testing.T) {
	a := NewAuth("", false)
	h := a.WithAuth(a.RequireAuth(tenantEcho()))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "shared", rec.Body.String())
}

func TestCORS(t *testing.T) {
	h := CORS([]string{"https://wizard.test"})(tenantEcho())
	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://wizard.test")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://wizard.test", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.test")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestLocaleMiddleware(t *testing.T) {
	h := LocaleMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(LocaleFromContext(r.Context())))
	}))
	req := httptest.NewRequest(http.MethodGet, "/?lang=zh-CN", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "zh", rec.Body.String())
	assert.Equal(t, "zh", rec.Header().Get("Content-Language"))
}

func TestCacheHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	PublicCache(time.Hour)(tenantEcho()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "public, max-age=3600", rec.Header().Get("Cache-Control"))

	rec = httptest.NewRecorder()
	NoStore(SecureHeaders(tenantEcho())).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Contains(t, rec.Header().Get("Cache-Control"), "no-store")
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}
