package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/MrNoFunsadface/FCommunityBE/internal/core/contracts"
	"github.com/MrNoFunsadface/FCommunityBE/internal/core/domain"

	"github.com/google/uuid"
)

type IMessageService interface {
	// Send appends to the chat's sorted log and overwrites the lastMessage
	// cache. The two writes are independent; only the log write can fail
	// the operation.
	Send(ctx context.Context, senderID, chatID, text string) (domain.Message, error)
	// History reads the log newest-first over the rank range [start, stop];
	// negative ranks count from the end. Unreadable entries are dropped.
	History(ctx context.Context, requesterID, chatID string, start, stop int64) ([]domain.Message, error)
}

// MessageService owns the append-only message log. Membership is checked
// before the chat record, so a non-member is denied whether or not the chat
// exists.
type MessageService struct {
	store  contracts.Store
	notify *Notifier
	log    *slog.Logger
}

func NewMessageService(log *slog.Logger, store contracts.Store, notify *Notifier) *MessageService {
	return &MessageService{
		log:    log,
		store:  store,
		notify: notify,
	}
}

func (s *MessageService) Send(ctx context.Context, senderID, chatID, text string) (domain.Message, error) {
	if strings.TrimSpace(text) == "" {
		return domain.Message{}, domain.ErrEmptyMessage
	}
	member, err := s.store.SIsMember(ctx, membersKey(chatID), senderID)
	if err != nil {
		return domain.Message{}, fmt.Errorf("messages - send - membership check: %w", err)
	}
	if !member {
		return domain.Message{}, domain.ErrNotMember
	}
	msg := domain.Message{
		ID:        uuid.NewString(),
		SenderID:  senderID,
		Text:      text,
		Timestamp: domain.NowMillis(),
	}
	raw, err := json.Marshal(msg)
	if err != nil {
		return domain.Message{}, fmt.Errorf("messages - send - marshal: %w", err)
	}
	if err := s.store.ZAdd(ctx, messagesKey(chatID), float64(msg.Timestamp), string(raw)); err != nil {
		s.log.ErrorContext(ctx, "messages - send - log append failed", "chat_id", chatID, "sender_id", senderID, "err", err)
		return domain.Message{}, fmt.Errorf("messages - send - log append: %w", err)
	}
	// The log entry is the durable state; everything below is best-effort.
	cache := map[string]string{
		"lastMessage": string(raw),
		"updatedAt":   strconv.FormatInt(msg.Timestamp, 10),
	}
	if err := s.store.HSet(ctx, chatKey(chatID), cache); err != nil {
		s.log.WarnContext(ctx, "messages - send - cache write failed", "chat_id", chatID, "message_id", msg.ID, "err", err)
	}
	s.log.InfoContext(ctx, "messages - send - success", "chat_id", chatID, "sender_id", senderID, "message_id", msg.ID)
	s.notify.Publish(ctx, domain.ChatChannel(chatID), domain.EventMessageCreated, msg)
	return msg, nil
}

func (s *MessageService) History(ctx context.Context, requesterID, chatID string, start, stop int64) ([]domain.Message, error) {
	member, err := s.store.SIsMember(ctx, membersKey(chatID), requesterID)
	if err != nil {
		return nil, fmt.Errorf("messages - history - membership check: %w", err)
	}
	if !member {
		return nil, domain.ErrNotMember
	}
	entries, err := s.store.ZRevRange(ctx, messagesKey(chatID), start, stop)
	if err != nil {
		return nil, fmt.Errorf("messages - history - range read: %w", err)
	}
	msgs := make([]domain.Message, 0, len(entries))
	for _, raw := range entries {
		msg, err := domain.DecodeMessage(raw)
		if err != nil {
			s.log.WarnContext(ctx, "messages - history - dropping unreadable entry", "chat_id", chatID)
			continue
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}
