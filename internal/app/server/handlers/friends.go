package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/MrNoFunsadface/FCommunityBE/internal/core/services"
	"github.com/MrNoFunsadface/FCommunityBE/pkg/apperr"
)

type FriendHandler struct {
	friendSvc services.IFriendService
}

func NewFriendHandler(f services.IFriendService) *FriendHandler {
	return &FriendHandler{friendSvc: f}
}

func (h *FriendHandler) SendRequest(w http.ResponseWriter, r *http.Request) {
	log := requestLogger(r)
	id, ok := caller(r)
	if !ok {
		writeError(w, apperr.Unauthenticated("missing identity"))
		return
	}
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeError(w, apperr.InvalidArg("receiver email is required"))
		return
	}
	if err := h.friendSvc.SendRequest(r.Context(), id.ID, req.Email); err != nil {
		log.ErrorContext(r.Context(), "friend handler - send request failed", "sender_id", id.ID, "err", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "requested"})
}

func (h *FriendHandler) AcceptRequest(w http.ResponseWriter, r *http.Request) {
	log := requestLogger(r)
	id, ok := caller(r)
	if !ok {
		writeError(w, apperr.Unauthenticated("missing identity"))
		return
	}
	senderID := r.PathValue("senderID")
	if err := h.friendSvc.AcceptRequest(r.Context(), id.ID, senderID); err != nil {
		log.ErrorContext(r.Context(), "friend handler - accept request failed", "accepter_id", id.ID, "sender_id", senderID, "err", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "accepted"})
}

func (h *FriendHandler) DenyRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(r)
	if !ok {
		writeError(w, apperr.Unauthenticated("missing identity"))
		return
	}
	senderID := r.PathValue("senderID")
	if err := h.friendSvc.DenyRequest(r.Context(), id.ID, senderID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "denied"})
}

func (h *FriendHandler) ListFriends(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(r)
	if !ok {
		writeError(w, apperr.Unauthenticated("missing identity"))
		return
	}
	friends, err := h.friendSvc.ListFriends(r.Context(), id.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, friends)
}

func (h *FriendHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(r)
	if !ok {
		writeError(w, apperr.Unauthenticated("missing identity"))
		return
	}
	requests, err := h.friendSvc.ListIncomingRequests(r.Context(), id.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requests)
}
