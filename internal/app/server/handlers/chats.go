package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/MrNoFunsadface/FCommunityBE/internal/core/services"
	"github.com/MrNoFunsadface/FCommunityBE/pkg/apperr"
)

type ChatHandler struct {
	chatSvc services.IChatService
}

func NewChatHandler(c services.IChatService) *ChatHandler {
	return &ChatHandler{chatSvc: c}
}

func (h *ChatHandler) CreateDM(w http.ResponseWriter, r *http.Request) {
	log := requestLogger(r)
	id, ok := caller(r)
	if !ok {
		writeError(w, apperr.Unauthenticated("missing identity"))
		return
	}
	var req struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
		writeError(w, apperr.InvalidArg("userId is required"))
		return
	}
	chat, err := h.chatSvc.GetOrCreateDM(r.Context(), id.ID, req.UserID)
	if err != nil {
		log.ErrorContext(r.Context(), "chat handler - create dm failed", "caller_id", id.ID, "other_id", req.UserID, "err", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chat)
}

func (h *ChatHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	log := requestLogger(r)
	id, ok := caller(r)
	if !ok {
		writeError(w, apperr.Unauthenticated("missing identity"))
		return
	}
	var req struct {
		Name    string   `json:"name"`
		Members []string `json:"members"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.InvalidArg("invalid request body"))
		return
	}
	chat, err := h.chatSvc.CreateGroup(r.Context(), id.ID, req.Name, req.Members)
	if err != nil {
		log.ErrorContext(r.Context(), "chat handler - create group failed", "creator_id", id.ID, "err", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, chat)
}

func (h *ChatHandler) GetMeta(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(r)
	if !ok {
		writeError(w, apperr.Unauthenticated("missing identity"))
		return
	}
	meta, err := h.chatSvc.GetMeta(r.Context(), id.ID, r.PathValue("chatID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, meta)
}

func (h *ChatHandler) UpdateMeta(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(r)
	if !ok {
		writeError(w, apperr.Unauthenticated("missing identity"))
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.InvalidArg("invalid request body"))
		return
	}
	if err := h.chatSvc.UpdateGroupMeta(r.Context(), id.ID, r.PathValue("chatID"), req.Name); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *ChatHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	log := requestLogger(r)
	id, ok := caller(r)
	if !ok {
		writeError(w, apperr.Unauthenticated("missing identity"))
		return
	}
	var req struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
		writeError(w, apperr.InvalidArg("userId is required"))
		return
	}
	chatID := r.PathValue("chatID")
	if err := h.chatSvc.AddMember(r.Context(), id.ID, chatID, req.UserID); err != nil {
		log.ErrorContext(r.Context(), "chat handler - add member failed", "chat_id", chatID, "user_id", req.UserID, "err", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "added"})
}

func (h *ChatHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	log := requestLogger(r)
	id, ok := caller(r)
	if !ok {
		writeError(w, apperr.Unauthenticated("missing identity"))
		return
	}
	chatID := r.PathValue("chatID")
	userID := r.PathValue("userID")
	if err := h.chatSvc.RemoveMember(r.Context(), id.ID, chatID, userID); err != nil {
		log.ErrorContext(r.Context(), "chat handler - remove member failed", "chat_id", chatID, "user_id", userID, "err", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

func (h *ChatHandler) Leave(w http.ResponseWriter, r *http.Request) {
	log := requestLogger(r)
	id, ok := caller(r)
	if !ok {
		writeError(w, apperr.Unauthenticated("missing identity"))
		return
	}
	chatID := r.PathValue("chatID")
	if err := h.chatSvc.Leave(r.Context(), id.ID, chatID); err != nil {
		log.ErrorContext(r.Context(), "chat handler - leave failed", "chat_id", chatID, "caller_id", id.ID, "err", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "left"})
}

func (h *ChatHandler) ListGroups(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(r)
	if !ok {
		writeError(w, apperr.Unauthenticated("missing identity"))
		return
	}
	groups, err := h.chatSvc.ListGroupsForUser(r.Context(), id.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

func (h *ChatHandler) ListDMs(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(r)
	if !ok {
		writeError(w, apperr.Unauthenticated("missing identity"))
		return
	}
	dms, err := h.chatSvc.ListDMsForUser(r.Context(), id.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dms)
}

func (h *ChatHandler) Heartbeat(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(r)
	if !ok {
		writeError(w, apperr.Unauthenticated("missing identity"))
		return
	}
	if err := h.chatSvc.HeartbeatPresence(r.Context(), id.ID, r.PathValue("chatID")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *ChatHandler) Online(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(r)
	if !ok {
		writeError(w, apperr.Unauthenticated("missing identity"))
		return
	}
	online, err := h.chatSvc.OnlineMembers(r.Context(), id.ID, r.PathValue("chatID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, online)
}
