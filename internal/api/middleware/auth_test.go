package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runAuth(t *testing.T, headers map[string]string) (*httptest.ResponseRecorder, context.Context) {
	t.Helper()

	var captured context.Context
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Context()
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	Auth(next).ServeHTTP(rec, req)
	return rec, captured
}

func TestAuth_MissingUserID(t *testing.T) {
	rec, _ := runAuth(t, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_InvalidUserID(t *testing.T) {
	rec, _ := runAuth(t, map[string]string{"X-User-ID": "abc"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = runAuth(t, map[string]string{"X-User-ID": "-1"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_CustomerByDefault(t *testing.T) {
	rec, ctx := runAuth(t, map[string]string{"X-User-ID": "100"})
	require.Equal(t, http.StatusOK, rec.Code)

	userID, ok := GetUserID(ctx)
	require.True(t, ok)
	assert.Equal(t, int64(100), userID)

	role, ok := GetRole(ctx)
	require.True(t, ok)
	assert.Equal(t, RoleCustomer, role)

	_, ok = GetTenantID(ctx)
	assert.False(t, ok)
}

func TestAuth_Manager(t *testing.T) {
	rec, ctx := runAuth(t, map[string]string{
		"X-User-ID":   "5",
		"X-User-Role": "manager",
		"X-Tenant-ID": "42",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	role, ok := GetRole(ctx)
	require.True(t, ok)
	assert.Equal(t, RoleManager, role)

	tenantID, ok := GetTenantID(ctx)
	require.True(t, ok)
	assert.Equal(t, int64(42), tenantID)
}

func TestAuth_TenantIgnoredForCustomer(t *testing.T) {
	// Клиент не получает tenant ID, даже если заголовок прислали
	_, ctx := runAuth(t, map[string]string{
		"X-User-ID":   "100",
		"X-Tenant-ID": "42",
	})

	_, ok := GetTenantID(ctx)
	assert.False(t, ok)
}

func TestIsManagerOf(t *testing.T) {
	_, managerCtx := runAuth(t, map[string]string{
		"X-User-ID":   "5",
		"X-User-Role": "manager",
		"X-Tenant-ID": "42",
	})
	assert.True(t, IsManagerOf(managerCtx, 42))
	assert.False(t, IsManagerOf(managerCtx, 77))

	_, customerCtx := runAuth(t, map[string]string{"X-User-ID": "100"})
	assert.False(t, IsManagerOf(customerCtx, 42))

	assert.False(t, IsManagerOf(context.Background(), 42))
}
