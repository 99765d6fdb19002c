package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/copperline/shop/pkg/httputil"
)

type contextKey string

const (
	userIDKey   contextKey = "user_id"
	userRoleKey contextKey = "user_role"
)

// RoleAdmin is the role value the gateway sets for administrators.
const RoleAdmin = "admin"

// Identity extracts the gateway-injected identity headers and stores them in
// the request context. The gateway has already validated the JWT; these
// headers are trusted.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if userID := r.Header.Get("X-User-ID"); userID != "" {
			ctx = context.WithValue(ctx, userIDKey, userID)
		}
		if role := r.Header.Get("X-User-Role"); role != "" {
			ctx = context.WithValue(ctx, userRoleKey, role)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserID returns the authenticated user's ID from the context, or "".
func UserID(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey).(string); ok {
		return id
	}
	return ""
}

// IsAdmin reports whether the request carries the admin role.
func IsAdmin(ctx context.Context) bool {
	role, _ := ctx.Value(userRoleKey).(string)
	return role == RoleAdmin
}

// RequireAuth rejects requests without an authenticated user.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserID(r.Context()) == "" {
			httputil.WriteJSON(w, http.StatusUnauthorized, httputil.Response{
				Success: false,
				Message: "authentication required",
				Error:   &httputil.ErrorResponse{Code: "UNAUTHORIZED", Message: "authentication required"},
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects requests that are not authenticated as an admin.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserID(r.Context()) == "" {
			httputil.WriteJSON(w, http.StatusUnauthorized, httputil.Response{
				Success: false,
				Message: "authentication required",
				Error:   &httputil.ErrorResponse{Code: "UNAUTHORIZED", Message: "authentication required"},
			})
			return
		}
		if !IsAdmin(r.Context()) {
			httputil.WriteJSON(w, http.StatusForbidden, httputil.Response{
				Success: false,
				Message: "admin access required",
				Error:   &httputil.ErrorResponse{Code: "FORBIDDEN", Message: "admin access required"},
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ContentTypeJSON rejects write requests whose Content-Type is not JSON.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > 0 || r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if ct != "" && !strings.HasPrefix(ct, "application/json") {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnsupportedMediaType)
				_, _ = w.Write([]byte(`{"success":false,"error":{"code":"UNSUPPORTED_MEDIA_TYPE","message":"Content-Type must be application/json"}}`))
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
