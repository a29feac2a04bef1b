package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/MrNoFunsadface/FCommunityBE/internal/core/services"
	"github.com/MrNoFunsadface/FCommunityBE/pkg/apperr"
)

type MessageHandler struct {
	msgSvc services.IMessageService
}

func NewMessageHandler(m services.IMessageService) *MessageHandler {
	return &MessageHandler{msgSvc: m}
}

func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	log := requestLogger(r)
	id, ok := caller(r)
	if !ok {
		writeError(w, apperr.Unauthenticated("missing identity"))
		return
	}
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.InvalidArg("invalid request body"))
		return
	}
	chatID := r.PathValue("chatID")
	msg, err := h.msgSvc.Send(r.Context(), id.ID, chatID, req.Text)
	if err != nil {
		log.ErrorContext(r.Context(), "message handler - send failed", "chat_id", chatID, "sender_id", id.ID, "err", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

func (h *MessageHandler) History(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(r)
	if !ok {
		writeError(w, apperr.Unauthenticated("missing identity"))
		return
	}
	start := queryRank(r, "start", 0)
	stop := queryRank(r, "end", -1)
	msgs, err := h.msgSvc.History(r.Context(), id.ID, r.PathValue("chatID"), start, stop)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}

func queryRank(r *http.Request, name string, fallback int64) int64 {
	if val := r.URL.Query().Get(name); val != "" {
		if n, err := strconv.ParseInt(val, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}
