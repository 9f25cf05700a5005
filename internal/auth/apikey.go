package auth

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/rs/zerolog/log"

	"github.com/XavierBriggs/fortuna/services/odds-scanner/pkg/models"
)

// HeaderAPIKey carries the shared API key
const HeaderAPIKey = "X-Scanner-Key"

// APIKeyAuth guards routes with a single shared key
type APIKeyAuth struct {
	key    []byte
	bypass map[string]bool
}

// NewAPIKeyAuth creates the API key middleware. Requests to bypassPaths are always allowed.
// An empty key disables the check; this is logged once, at error level in production.
func NewAPIKeyAuth(key string, production bool, bypassPaths ...string) *APIKeyAuth {
	bypass := make(map[string]bool, len(bypassPaths))
	for _, path := range bypassPaths {
		bypass[path] = true
	}

	if key == "" {
		if production {
			log.Error().Msg("SCANNER_API_KEY is not configured; API is effectively public")
		} else {
			log.Warn().Msg("SCANNER_API_KEY is not set; auth is disabled in non-production")
		}
	}

	return &APIKeyAuth{key: []byte(key), bypass: bypass}
}

// Middleware rejects requests without a valid key
func (a *APIKeyAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.allowed(r) {
			next.ServeHTTP(w, r)
			return
		}

		log.Debug().
			Str("path", r.URL.Path).
			Str("remote", r.RemoteAddr).
			Msg("rejected request without valid api key")
		writeAuthError(w, http.StatusUnauthorized, "unauthorized")
	})
}

func (a *APIKeyAuth) allowed(r *http.Request) bool {
	if a.bypass[r.URL.Path] || len(a.key) == 0 {
		return true
	}

	// Same-origin browser requests come from the bundled frontend
	if origin := r.Header.Get("Origin"); origin != "" && r.Host != "" {
		if u, err := url.Parse(origin); err == nil && u.Host == r.Host {
			return true
		}
	}

	provided := r.Header.Get(HeaderAPIKey)
	if provided == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(provided), a.key) == 1
}

// writeAuthError writes the error body shared by both middlewares
func writeAuthError(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(models.ErrorResponse{
		Error: code,
		Code:  status,
	})
}
