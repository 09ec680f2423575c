package middleware

import (
	"net/http"
	"slices"

	"cottage-booking/internal/domain/entity"
	"cottage-booking/pkg/response"
)

// RequireRole creates a middleware that checks if the user has any of the required roles
// Role is read from context (set by AuthMiddleware from JWT claims)
func RequireRole(allowed ...entity.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := GetRoleFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Role information not found")
				return
			}

			if !slices.Contains(allowed, role) {
				response.Forbidden(w, "You don't have permission to access this resource")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin is a convenience middleware for admin-only endpoints
func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(entity.RoleAdmin)(next)
}

// RequireApprover admits admins and approvers.
func RequireApprover(next http.Handler) http.Handler {
	return RequireRole(entity.ApproverRoles...)(next)
}

// RequireCleaner admits cleaners and admins.
func RequireCleaner(next http.Handler) http.Handler {
	return RequireRole(entity.RoleAdmin, entity.RoleCleaner)(next)
}

// RequirePaymentViewer admits staff who may see payment status.
func RequirePaymentViewer(next http.Handler) http.Handler {
	return RequireRole(entity.PaymentViewerRoles...)(next)
}

// RequirePaymentManager admits admins and payment managers.
func RequirePaymentManager(next http.Handler) http.Handler {
	return RequireRole(entity.PaymentManagerRoles...)(next)
}
