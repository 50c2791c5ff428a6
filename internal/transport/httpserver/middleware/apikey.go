package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"gift-tracker-go/pkg/logger"
)

const APIKeyHeader = "X-API-Key"

// APIKeyAuth admits requests carrying the shared secret in X-API-Key.
type APIKeyAuth struct {
	key []byte
	log logger.Logger
}

func NewAPIKeyAuth(key string, log logger.Logger) *APIKeyAuth {
	return &APIKeyAuth{key: []byte(key), log: log}
}

func (a *APIKeyAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		provided := r.Header.Get(APIKeyHeader)
		if provided == "" || subtle.ConstantTimeCompare([]byte(provided), a.key) != 1 {
			a.log.Warn("auth: rejected request", "method", r.Method, "path", r.URL.Path, "remote_addr", r.RemoteAddr)
			unauthorized(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func unauthorized(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, "unauthorized", "invalid or missing api key")
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
