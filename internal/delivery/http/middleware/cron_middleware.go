package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"cottage-booking/pkg/response"
)

// RequireCronSecret guards scheduled-job triggers. The secret is accepted as a
// bearer token or in the X-Cron-Secret header. An empty secret disables the route.
func RequireCronSecret(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				response.Forbidden(w, "Cron trigger is disabled")
				return
			}

			provided := r.Header.Get("X-Cron-Secret")
			if provided == "" {
				provided = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			}
			if subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
				response.Unauthorized(w, "Invalid cron secret")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
