package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
)

const AdminTokenHeader = "X-Admin-Token"

// AdminToken protege rotas administrativas. Token vazio desliga as rotas.
func AdminToken(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(AdminTokenHeader)
			if token == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{
					"error":   "UNAUTHORIZED",
					"message": "missing or invalid admin token",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
