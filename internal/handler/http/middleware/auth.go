package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/cmlabs-hris/sheet-attendance/internal/domain/user"
	"github.com/cmlabs-hris/sheet-attendance/internal/handler/http/response"
	"github.com/cmlabs-hris/sheet-attendance/internal/pkg/jwt"
)

// AuthRequired accepts verified access tokens that carry a sales person name.
func AuthRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.Unauthorized(w, err.Error())
			return
		}

		if token == nil {
			response.HandleError(w, user.ErrInvalidToken)
			return
		}

		tokenType, ok := claims["type"].(string)
		if !ok || tokenType != jwt.TokenTypeAccess {
			response.HandleError(w, user.ErrInvalidToken)
			return
		}

		if _, err := user.FromContext(r.Context()); err != nil {
			response.HandleError(w, err)
			return
		}

		next.ServeHTTP(w, r)
	})
}
