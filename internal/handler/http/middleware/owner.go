package middleware

import (
	"net/http"

	"github.com/balancehq/practice-backend-go/internal/domain/auth"
	"github.com/balancehq/practice-backend-go/internal/domain/user"
	"github.com/balancehq/practice-backend-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

// OwnerOnly restricts a route to firm owners.
func OwnerOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		role, ok := claims["role"].(string)
		if !ok || role != string(user.RoleOwner) {
			response.Forbidden(w, user.ErrOwnerPrivilegeRequired.Error())
			return
		}

		next.ServeHTTP(w, r)
	})
}
