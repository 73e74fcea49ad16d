package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"NovaStream/core/auth"
	"NovaStream/logger"
	"NovaStream/model"
)

// LoginRequest represents the login request body
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the session token and user.
type LoginResponse struct {
	Token string          `json:"token"`
	User  *model.UserView `json:"user"`
}

// LoginHandler handles user login requests
func (h *APIHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("[Login] invalid request body", logger.ErrorField(err))
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.app.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrEmptyCredentials) {
			http.Error(w, "Username and password are required", http.StatusBadRequest)
			return
		}
		internalError(w, "login", err)
		return
	}

	token, err := h.tokens.GenerateToken(user.Username)
	if err != nil {
		internalError(w, "token", err)
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{Token: token, User: user})
}

// LogoutHandler ends the session.
func (h *APIHandler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.app.Logout(r.Context()); err != nil {
		internalError(w, "logout", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SessionHandler returns the signed-in user.
func (h *APIHandler) SessionHandler(w http.ResponseWriter, r *http.Request) {
	user := h.app.Session()
	if user == nil {
		http.Error(w, "Not signed in", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
