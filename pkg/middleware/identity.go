package middleware

import (
	"context"
	"encoding/json"
	"net/http"
)

type contextKeyType string

const userIDKey contextKeyType = "user_id"

// Identity extracts the caller identity from the X-User-ID header set by the
// edge gateway and stores it in the request context. Requests without an
// identity are rejected with 401; routes that serve anonymous traffic should
// be mounted outside this middleware.
func Identity() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := r.Header.Get("X-User-ID")
			if userID == "" {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"code":    "UNAUTHORIZED",
					"message": "missing X-User-ID header",
				})
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext extracts the user ID stored by Identity.
func UserIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey).(string); ok {
		return id
	}
	return ""
}
