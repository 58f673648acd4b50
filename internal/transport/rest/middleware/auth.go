package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"casetrack/internal/domain"
	"casetrack/internal/logger"
)

type contextKey string

const userContextKey contextKey = "user"

// GetUser returns the account the auth guard resolved for this request.
func GetUser(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userContextKey).(*domain.User)
	return user, ok
}

func jsonError(w http.ResponseWriter, status int, kind, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"kind":    kind,
		"message": message,
	})
}

// Authenticate resolves the bearer token to a live account. The account is
// re-checked against the store on every request, so tokens for deleted or
// deactivated accounts die immediately without a revocation list.
func Authenticate(tokens domain.TokenService, users domain.UserRepository, log logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				jsonError(w, http.StatusUnauthorized, "unauthenticated", "Authentication failed: No token provided.")
				return
			}

			raw := strings.TrimPrefix(header, "Bearer ")

			claims, err := tokens.Verify(raw)
			if err != nil {
				if errors.Is(err, domain.ErrTokenExpired) {
					jsonError(w, http.StatusUnauthorized, "token_expired", "Authentication failed: Token expired, please log in again.")
					return
				}
				jsonError(w, http.StatusUnauthorized, "invalid_token", "Authentication failed: Invalid token.")
				return
			}

			user, err := users.GetByIDUnscoped(r.Context(), claims.UserID)
			if err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					jsonError(w, http.StatusUnauthorized, "unauthenticated", "Authentication failed: Account no longer exists.")
					return
				}

				log.Error("auth: failed to resolve account", "user_id", claims.UserID, "error", err)
				jsonError(w, http.StatusInternalServerError, "internal", "Something went wrong.")
				return
			}

			if user.DeletedAt != nil {
				jsonError(w, http.StatusForbidden, "forbidden", "Account has been deactivated.")
				return
			}

			// Sliding renewal is advisory: a renewal failure never fails the
			// request itself.
			if renewed, ok, err := tokens.Refresh(claims); err == nil && ok {
				w.Header().Set("X-New-Token", renewed)
			} else if err != nil {
				log.Error("auth: token renewal failed", "user_id", user.ID, "error", err)
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin gates administrative routes. It assumes Authenticate already
// ran on the chain.
func RequireAdmin() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetUser(r.Context())
			if !ok {
				jsonError(w, http.StatusUnauthorized, "unauthenticated", "Authentication failed: No token provided.")
				return
			}

			if user.Role != domain.RoleAdmin {
				jsonError(w, http.StatusForbidden, "forbidden", "Access Forbidden: Only Administrators can perform this action.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
