package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/MrNoFunsadface/FCommunityBE/internal/core/services"
	"github.com/MrNoFunsadface/FCommunityBE/pkg/apperr"
)

type AuthHandler struct {
	userSvc  services.IUserService
	tokenSvc *services.TokenService
}

func NewAuthHandler(u services.IUserService, t *services.TokenService) *AuthHandler {
	return &AuthHandler{userSvc: u, tokenSvc: t}
}

// Signup creates the profile and hands back a session token.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	log := requestLogger(r)
	var req struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Image string `json:"image"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.InvalidArg("invalid request body"))
		return
	}
	user, err := h.userSvc.Signup(r.Context(), req.Name, req.Email, req.Image)
	if err != nil {
		log.ErrorContext(r.Context(), "auth handler - signup failed", "email", req.Email, "err", err)
		writeError(w, err)
		return
	}
	token, err := h.tokenSvc.Issue(user)
	if err != nil {
		log.ErrorContext(r.Context(), "auth handler - issue token failed", "user_id", user.ID, "err", err)
		writeError(w, apperr.Internal("failed to issue token"))
		return
	}
	log.InfoContext(r.Context(), "auth handler - signup success", "user_id", user.ID)
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

// Me returns the caller's profile.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(r)
	if !ok {
		writeError(w, apperr.Unauthenticated("missing identity"))
		return
	}
	user, err := h.userSvc.GetByID(r.Context(), id.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
