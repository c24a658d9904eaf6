package middleware

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/Farouk-MY/PFE-sub001/internal/auth"
	"github.com/Farouk-MY/PFE-sub001/models"
)

func ValidateAuth(h http.Handler, sugar *zap.SugaredLogger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Authorization header is missing", http.StatusUnauthorized)
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			http.Error(w, "Invalid token format", http.StatusUnauthorized)
			return
		}

		UUID, role, err := auth.ValidateJWT(tokenString)
		if err != nil {
			sugar.Errorw("Invalid token", "error", err)
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		r.Header.Set("UUID", UUID)
		r.Header.Set("Role", role)

		h.ServeHTTP(w, r)
	})
}

// ValidateAdmin restricts a route to tokens carrying the admin role.
// It runs after ValidateAuth in the conveyor.
func ValidateAdmin(h http.Handler, sugar *zap.SugaredLogger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Role") != models.RoleAdmin {
			sugar.Infow("admin route rejected", "role", r.Header.Get("Role"))
			http.Error(w, "admin access required", http.StatusForbidden)
			return
		}

		h.ServeHTTP(w, r)
	})
}
