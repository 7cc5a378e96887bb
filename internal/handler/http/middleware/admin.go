package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/productivity-backend-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

// roleOf prefers the user loaded by CurrentUser and falls back to the token claim.
func roleOf(r *http.Request) (user.Role, bool) {
	if u, ok := UserFromContext(r.Context()); ok {
		return u.Role, true
	}
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return "", false
	}
	role, ok := claims["role"].(string)
	return user.Role(role), ok
}

func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, ok := roleOf(r)
		if !ok {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}
		if role != user.RoleAdmin {
			response.HandleError(w, user.ErrAdminAccessRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
