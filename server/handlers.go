package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"NovaStream/core/app"
	"NovaStream/core/auth"
	"NovaStream/core/hub"
	"NovaStream/logger"
)

// APIHandler 处理所有API请求
type APIHandler struct {
	app    *app.App
	tokens *auth.TokenIssuer
	hub    *hub.Hub
}

// NewAPIHandler 创建新的API处理器
func NewAPIHandler(a *app.App, tokens *auth.TokenIssuer, h *hub.Hub) *APIHandler {
	return &APIHandler{app: a, tokens: tokens, hub: h}
}

type contextKey string

const usernameKey contextKey = "username"

// AuthMiddleware requires a bearer token issued for the current session user.
// A token for a user that has since logged out (or been replaced) is rejected.
func (h *APIHandler) AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Authorization header is required", http.StatusUnauthorized)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			http.Error(w, "Invalid authorization header format", http.StatusUnauthorized)
			return
		}

		claims, err := h.tokens.ParseToken(parts[1])
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}
		if claims.Username != h.app.CurrentUsername() {
			http.Error(w, "Session expired", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), usernameKey, claims.Username)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// GetUsernameFromContext extracts the username set by AuthMiddleware.
func GetUsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(usernameKey).(string)
	return username, ok
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("[API] failed to encode response", logger.ErrorField(err))
	}
}

// internalError logs err and answers 500.
func internalError(w http.ResponseWriter, op string, err error) {
	logger.Error("[API] "+op+" failed", logger.ErrorField(err))
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}
