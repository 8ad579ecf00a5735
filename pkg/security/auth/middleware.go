package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"mercator-hq/verdict/pkg/api/types"
)

// Header names carrying the API key.
const (
	AuthorizationHeader = "Authorization"
	APIKeyHeader        = "X-API-Key"
)

// Failure reasons passed to the onFailure callback.
const (
	ReasonMissingKey  = "missing_key"
	ReasonInvalidKey  = "invalid_key"
	ReasonDisabledKey = "disabled_key"
)

// MsgUnauthorized is the error body of a rejected request.
const MsgUnauthorized = "Missing or invalid API key"

// Middleware requires a valid API key on every request whose path starts with
// prefix. onFailure, if set, is called with the reason of each rejection.
func Middleware(v *APIKeyValidator, prefix string, logger *slog.Logger, onFailure func(reason string)) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "auth")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions || !strings.HasPrefix(r.URL.Path, prefix) {
				next.ServeHTTP(w, r)
				return
			}

			key, err := v.Validate(extractAPIKey(r))
			if err != nil {
				reason := failureReason(err)
				if onFailure != nil {
					onFailure(reason)
				}
				logger.WarnContext(r.Context(), "request rejected",
					"reason", reason,
					"remote_addr", r.RemoteAddr,
					"path", r.URL.Path,
				)
				w.Header().Set("WWW-Authenticate", `Bearer realm="verdict"`)
				writeError(w, http.StatusUnauthorized, MsgUnauthorized)
				return
			}

			logger.DebugContext(r.Context(), "API key authenticated", "api_key", key.Name, "path", r.URL.Path)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), apiKeyContextKey, key)))
		})
	}
}

// extractAPIKey reads the key from a bearer token, falling back to X-API-Key.
func extractAPIKey(r *http.Request) string {
	if value := r.Header.Get(AuthorizationHeader); value != "" {
		scheme, token, ok := strings.Cut(value, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}
	return strings.TrimSpace(r.Header.Get(APIKeyHeader))
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrMissingKey):
		return ReasonMissingKey
	case errors.Is(err, ErrDisabledKey):
		return ReasonDisabledKey
	default:
		return ReasonInvalidKey
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: message})
}

type contextKey string

// #nosec G101 - This is a context key constant, not a credential
const apiKeyContextKey contextKey = "api_key"

// KeyFromContext returns the key that authenticated the request.
func KeyFromContext(ctx context.Context) (*APIKey, bool) {
	key, ok := ctx.Value(apiKeyContextKey).(*APIKey)
	return key, ok
}
