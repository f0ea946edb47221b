package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/JonMunkholm/masterdata/internal/config"
	"github.com/JonMunkholm/masterdata/internal/core"
)

// Request headers read by the auth middleware.
const (
	HeaderAPIKey = "X-API-Key"
	HeaderUserID = "X-User-ID"
)

// APIKeyAuth rejects requests whose X-API-Key is not one of cfg.APIKeys.
// It passes everything through when cfg.RequireAPIKey is false.
func APIKeyAuth(cfg config.SecurityConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.RequireAPIKey {
				next.ServeHTTP(w, r)
				return
			}

			key := r.Header.Get(HeaderAPIKey)
			if key == "" {
				slog.Warn("auth: missing api key", "path", r.URL.Path, "method", r.Method, "remote_addr", r.RemoteAddr)
				writeAuthError(w, http.StatusUnauthorized, "missing api key")
				return
			}
			if !isValidAPIKey(key, cfg.APIKeys) {
				slog.Warn("auth: invalid api key", "path", r.URL.Path, "method", r.Method, "remote_addr", r.RemoteAddr)
				writeAuthError(w, http.StatusForbidden, "invalid api key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireActor reads the acting user from X-User-ID, set by the upstream
// gateway, and stores it in the request context. Requests without a valid
// uuid are rejected with 401.
func RequireActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(r.Header.Get(HeaderUserID))
		actor, err := uuid.Parse(raw)
		if err != nil || actor == uuid.Nil {
			slog.Warn("auth: missing or invalid acting user", "path", r.URL.Path, "method", r.Method)
			writeAuthError(w, http.StatusUnauthorized, "missing or invalid acting user")
			return
		}
		next.ServeHTTP(w, r.WithContext(core.ContextWithActor(r.Context(), actor)))
	})
}

// isValidAPIKey compares key against every configured key in constant time.
func isValidAPIKey(key string, validKeys []string) bool {
	valid := 0
	for _, validKey := range validKeys {
		valid |= subtle.ConstantTimeCompare([]byte(key), []byte(validKey))
	}
	return valid == 1
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	msg := core.MapError(errors.New(message))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   message,
		"message": msg.Message,
		"action":  msg.Action,
		"code":    msg.Code,
	})
}
