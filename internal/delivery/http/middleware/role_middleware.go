package middleware

import (
	"net/http"

	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/pkg/response"
)

// RequireRole admits requests whose authenticated role is one of roles.
// It must run after Authenticate.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := GetRoleFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Authentication required")
				return
			}
			if _, ok := allowed[role]; !ok {
				response.Forbidden(w, "This action is not available to the "+role+" role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

var (
	requireDoctor  = RequireRole(entity.RoleDoctor)
	requirePatient = RequireRole(entity.RolePatient)
)

// RequireDoctor restricts a route to doctors.
func RequireDoctor(next http.Handler) http.Handler {
	return requireDoctor(next)
}

// RequirePatient restricts a route to patients.
func RequirePatient(next http.Handler) http.Handler {
	return requirePatient(next)
}
