// Package middleware HTTP middleware для аутентификации и метрик
//
// Аутентификацию выполняет API gateway, сюда запросы приходят с уже
// проверенными заголовками X-User-ID, X-User-Role и X-Tenant-ID
package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-WashBookingService/internal/api/handlers"
)

const (
	headerUserID   = "X-User-ID"
	headerUserRole = "X-User-Role"
	headerTenantID = "X-Tenant-ID"

	// RoleCustomer роль клиента мойки
	RoleCustomer = "customer"
	// RoleManager роль менеджера мойки
	RoleManager = "manager"

	msgMissingUserID = "отсутствует заголовок X-User-ID"
	msgInvalidUserID = "некорректный заголовок X-User-ID"
)

type contextKey string

const (
	userIDKey   contextKey = "userID"
	userRoleKey contextKey = "userRole"
	tenantIDKey contextKey = "tenantID"
)

// Auth извлекает идентификацию пользователя из заголовков в context
// Запросы без X-User-ID отклоняются
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawUserID := r.Header.Get(headerUserID)
		if rawUserID == "" {
			handlers.RespondUnauthorized(w, msgMissingUserID)
			return
		}

		userID, err := strconv.ParseInt(rawUserID, 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondUnauthorized(w, msgInvalidUserID)
			return
		}

		role := r.Header.Get(headerUserRole)
		if role != RoleManager {
			role = RoleCustomer
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		ctx = context.WithValue(ctx, userRoleKey, role)

		if role == RoleManager {
			if tenantID, err := strconv.ParseInt(r.Header.Get(headerTenantID), 10, 64); err == nil && tenantID > 0 {
				ctx = context.WithValue(ctx, tenantIDKey, tenantID)
			}
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID возвращает ID пользователя из context
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey).(int64)
	return userID, ok
}

// GetRole возвращает роль пользователя из context
func GetRole(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(userRoleKey).(string)
	return role, ok
}

// GetTenantID возвращает ID мойки менеджера из context
func GetTenantID(ctx context.Context) (int64, bool) {
	tenantID, ok := ctx.Value(tenantIDKey).(int64)
	return tenantID, ok
}

// IsManagerOf проверяет, что запрос выполняет менеджер указанной мойки
func IsManagerOf(ctx context.Context, tenantID int64) bool {
	role, ok := GetRole(ctx)
	if !ok || role != RoleManager {
		return false
	}
	managerTenant, ok := GetTenantID(ctx)
	return ok && managerTenant == tenantID
}
