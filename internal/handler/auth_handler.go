package handler

import (
	"encoding/json"
	"net/http"

	"shop-platform/internal/middleware"
	"shop-platform/internal/model"
	"shop-platform/internal/service"
	"shop-platform/pkg/apierror"
)

type AuthHandler struct {
	service *service.AuthService
	policy  service.SessionPolicy
}

func NewAuthHandler(authService *service.AuthService, policy service.SessionPolicy) *AuthHandler {
	return &AuthHandler{service: authService, policy: policy}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("VALIDATION_ERROR", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	result, err := h.service.Signup(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	http.SetCookie(w, h.policy.SessionCookie(result.AccessToken, h.service.TTL(service.LifetimeSignup)))
	writeJSON(w, http.StatusCreated, result)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("VALIDATION_ERROR", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	result, err := h.service.Login(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	class := service.LifetimeSession
	if payload.RememberMe {
		class = service.LifetimeRemembered
	}

	http.SetCookie(w, h.policy.SessionCookie(result.AccessToken, h.service.TTL(class)))
	writeJSON(w, http.StatusOK, result)
}

// Logout clears the cookie and tells the client to discard its own copy of
// the token. There is no server-side session to tear down.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.policy.ClearingCookie())
	writeJSON(w, http.StatusOK, model.LogoutResponse{
		Message:    "Logged out successfully",
		ClearToken: true,
	})
}

func (h *AuthHandler) Validate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, apierror.New("UNAUTHORIZED", "authentication required", "", http.StatusUnauthorized))
		return
	}

	writeJSON(w, http.StatusOK, model.ValidateResponse{User: user})
}
