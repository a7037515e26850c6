package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/sheet-attendance/internal/domain/user"
	"github.com/cmlabs-hris/sheet-attendance/internal/handler/http/response"
)

func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		who, err := user.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, err)
			return
		}

		if !who.IsAdmin() {
			response.HandleError(w, user.ErrAdminPrivilegeRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
