package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/MrNoFunsadface/FCommunityBE/internal/core/contracts"
	"github.com/MrNoFunsadface/FCommunityBE/internal/core/domain"

	"github.com/google/uuid"
)

// presenceTTL is the heartbeat interval clients are expected to keep.
const presenceTTL = 45 * time.Second

type IChatService interface {
	// GetOrCreateDM returns the one DM chat for the caller/other pair,
	// creating it on first use. Requires an existing friendship.
	GetOrCreateDM(ctx context.Context, callerID, otherID string) (domain.Chat, error)
	// CreateGroup creates a group chat of at least 3 distinct members,
	// creator included.
	CreateGroup(ctx context.Context, creatorID, name string, memberIDs []string) (domain.Chat, error)
	AddMember(ctx context.Context, actorID, chatID, userID string) error
	RemoveMember(ctx context.Context, actorID, chatID, userID string) error
	// Leave removes the caller; an emptied group is deleted entirely.
	Leave(ctx context.Context, callerID, chatID string) error
	GetMeta(ctx context.Context, requesterID, chatID string) (domain.ChatMeta, error)
	UpdateGroupMeta(ctx context.Context, actorID, chatID, name string) error
	ListGroupsForUser(ctx context.Context, userID string) ([]domain.GroupListing, error)
	ListDMsForUser(ctx context.Context, userID string) ([]domain.DMListing, error)
	// HeartbeatPresence / OnlineMembers expose per-chat presence to members.
	HeartbeatPresence(ctx context.Context, callerID, chatID string) error
	OnlineMembers(ctx context.Context, callerID, chatID string) ([]string, error)
}

// ChatService owns session identity and membership. The DM index makes pair
// chat creation idempotent on the happy path; two concurrent first calls can
// still each create a chat, which is tolerated — the index entry written
// last wins and the orphan record is never referenced again.
type ChatService struct {
	store    contracts.Store
	users    IUserService
	presence contracts.PresenceStore
	notify   *Notifier
	log      *slog.Logger
}

func NewChatService(
	log *slog.Logger,
	store contracts.Store,
	users IUserService,
	presence contracts.PresenceStore,
	notify *Notifier,
) *ChatService {
	return &ChatService{
		log:      log,
		store:    store,
		users:    users,
		presence: presence,
		notify:   notify,
	}
}

func (s *ChatService) loadChat(ctx context.Context, chatID string) (domain.Chat, error) {
	fields, err := s.store.HGetAll(ctx, chatKey(chatID))
	if err != nil {
		return domain.Chat{}, fmt.Errorf("chats - load chat: %w", err)
	}
	if len(fields) == 0 {
		return domain.Chat{}, domain.ErrChatNotFound
	}
	return domain.ChatFromMap(fields), nil
}

func (s *ChatService) isMember(ctx context.Context, chatID, userID string) (bool, error) {
	ok, err := s.store.SIsMember(ctx, membersKey(chatID), userID)
	if err != nil {
		return false, fmt.Errorf("chats - membership check: %w", err)
	}
	return ok, nil
}

func (s *ChatService) GetOrCreateDM(ctx context.Context, callerID, otherID string) (domain.Chat, error) {
	friends, err := s.store.SIsMember(ctx, friendsKey(callerID), otherID)
	if err != nil {
		return domain.Chat{}, fmt.Errorf("chats - get or create dm - friendship check: %w", err)
	}
	if !friends {
		return domain.Chat{}, domain.ErrNotFriends
	}
	if chatID, ok, err := s.store.HGet(ctx, dmIndexKey(callerID), otherID); err != nil {
		return domain.Chat{}, fmt.Errorf("chats - get or create dm - index read: %w", err)
	} else if ok {
		chat, err := s.loadChat(ctx, chatID)
		if err != nil {
			// Index entry without metadata: hand back the identity so the
			// pair keeps converging on one chat id.
			return domain.Chat{ID: chatID, Type: domain.ChatTypeDM}, nil
		}
		return chat, nil
	}
	now := domain.NowMillis()
	chat := domain.Chat{
		ID:        uuid.NewString(),
		Type:      domain.ChatTypeDM,
		CreatedAt: now,
		UpdatedAt: now,
	}
	// Independent writes; a concurrent duplicate is possible and accepted.
	if err := s.store.HSet(ctx, dmIndexKey(callerID), map[string]string{otherID: chat.ID}); err != nil {
		s.log.ErrorContext(ctx, "chats - get or create dm - write caller index failed", "caller_id", callerID, "other_id", otherID, "err", err)
		return domain.Chat{}, fmt.Errorf("chats - get or create dm - write caller index: %w", err)
	}
	if err := s.store.HSet(ctx, dmIndexKey(otherID), map[string]string{callerID: chat.ID}); err != nil {
		s.log.ErrorContext(ctx, "chats - get or create dm - write other index failed", "caller_id", callerID, "other_id", otherID, "err", err)
		return domain.Chat{}, fmt.Errorf("chats - get or create dm - write other index: %w", err)
	}
	if err := s.store.SAdd(ctx, membersKey(chat.ID), callerID, otherID); err != nil {
		s.log.ErrorContext(ctx, "chats - get or create dm - write members failed", "chat_id", chat.ID, "err", err)
		return domain.Chat{}, fmt.Errorf("chats - get or create dm - write members: %w", err)
	}
	if err := s.store.HSet(ctx, chatKey(chat.ID), domain.ChatToMap(chat)); err != nil {
		s.log.ErrorContext(ctx, "chats - get or create dm - write meta failed", "chat_id", chat.ID, "err", err)
		return domain.Chat{}, fmt.Errorf("chats - get or create dm - write meta: %w", err)
	}
	s.log.InfoContext(ctx, "chats - get or create dm - created", "chat_id", chat.ID, "caller_id", callerID, "other_id", otherID)
	s.notify.Publish(ctx, domain.UserChannel(otherID), domain.EventDMCreated, map[string]string{
		"chatId": chat.ID,
		"userId": callerID,
	})
	return chat, nil
}

func (s *ChatService) CreateGroup(ctx context.Context, creatorID, name string, memberIDs []string) (domain.Chat, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Chat{}, domain.ErrEmptyGroupName
	}
	members := map[string]struct{}{creatorID: {}}
	for _, id := range memberIDs {
		if id != "" {
			members[id] = struct{}{}
		}
	}
	if len(members) <= 2 {
		return domain.Chat{}, domain.ErrGroupTooSmall
	}
	now := domain.NowMillis()
	chat := domain.Chat{
		ID:        uuid.NewString(),
		Type:      domain.ChatTypeGroup,
		Name:      name,
		CreatedBy: creatorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	ids := make([]string, 0, len(members))
	for id := range members {
		ids = append(ids, id)
	}
	if err := s.store.SAdd(ctx, membersKey(chat.ID), ids...); err != nil {
		s.log.ErrorContext(ctx, "chats - create group - write members failed", "chat_id", chat.ID, "err", err)
		return domain.Chat{}, fmt.Errorf("chats - create group - write members: %w", err)
	}
	if err := s.store.HSet(ctx, chatKey(chat.ID), domain.ChatToMap(chat)); err != nil {
		s.log.ErrorContext(ctx, "chats - create group - write meta failed", "chat_id", chat.ID, "err", err)
		return domain.Chat{}, fmt.Errorf("chats - create group - write meta: %w", err)
	}
	for _, id := range ids {
		if err := s.store.SAdd(ctx, groupIndexKey(id), chat.ID); err != nil {
			s.log.ErrorContext(ctx, "chats - create group - write group index failed", "chat_id", chat.ID, "user_id", id, "err", err)
			return domain.Chat{}, fmt.Errorf("chats - create group - write group index: %w", err)
		}
	}
	s.log.InfoContext(ctx, "chats - create group - success", "chat_id", chat.ID, "creator_id", creatorID, "members", len(ids))
	for _, id := range ids {
		if id == creatorID {
			continue
		}
		s.notify.Publish(ctx, domain.UserChannel(id), domain.EventGroupCreated, chat)
	}
	return chat, nil
}

func (s *ChatService) AddMember(ctx context.Context, actorID, chatID, userID string) error {
	chat, err := s.loadChat(ctx, chatID)
	if err != nil {
		return err
	}
	if chat.Type != domain.ChatTypeGroup {
		return domain.ErrNotGroup
	}
	if ok, err := s.isMember(ctx, chatID, actorID); err != nil {
		return err
	} else if !ok {
		return domain.ErrNotMember
	}
	if ok, err := s.isMember(ctx, chatID, userID); err != nil {
		return err
	} else if ok {
		return domain.ErrAlreadyMember
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return err
	}
	if err := s.store.SAdd(ctx, membersKey(chatID), userID); err != nil {
		s.log.ErrorContext(ctx, "chats - add member - write members failed", "chat_id", chatID, "user_id", userID, "err", err)
		return fmt.Errorf("chats - add member - write members: %w", err)
	}
	if err := s.store.SAdd(ctx, groupIndexKey(userID), chatID); err != nil {
		s.log.ErrorContext(ctx, "chats - add member - write group index failed", "chat_id", chatID, "user_id", userID, "err", err)
		return fmt.Errorf("chats - add member - write group index: %w", err)
	}
	s.touch(ctx, chatID)
	s.log.InfoContext(ctx, "chats - add member - success", "chat_id", chatID, "actor_id", actorID, "user_id", userID)
	s.notify.Publish(ctx, domain.UserChannel(userID), domain.EventMemberAdded, map[string]string{"chatId": chatID})
	s.notify.Publish(ctx, domain.ChatChannel(chatID), domain.EventGroupUpdated, map[string]string{"addedUserId": userID})
	return nil
}

func (s *ChatService) RemoveMember(ctx context.Context, actorID, chatID, userID string) error {
	chat, err := s.loadChat(ctx, chatID)
	if err != nil {
		return err
	}
	if chat.Type != domain.ChatTypeGroup {
		return domain.ErrNotGroup
	}
	if chat.CreatedBy != actorID {
		return domain.ErrNotCreator
	}
	if err := s.store.SRem(ctx, membersKey(chatID), userID); err != nil {
		s.log.ErrorContext(ctx, "chats - remove member - remove from members failed", "chat_id", chatID, "user_id", userID, "err", err)
		return fmt.Errorf("chats - remove member - remove from members: %w", err)
	}
	if err := s.store.SRem(ctx, groupIndexKey(userID), chatID); err != nil {
		s.log.ErrorContext(ctx, "chats - remove member - remove group index failed", "chat_id", chatID, "user_id", userID, "err", err)
		return fmt.Errorf("chats - remove member - remove group index: %w", err)
	}
	s.touch(ctx, chatID)
	s.log.InfoContext(ctx, "chats - remove member - success", "chat_id", chatID, "actor_id", actorID, "user_id", userID)
	s.notify.Publish(ctx, domain.UserChannel(userID), domain.EventMemberRemoved, map[string]string{"chatId": chatID})
	s.notify.Publish(ctx, domain.ChatChannel(chatID), domain.EventGroupUpdated, map[string]string{"removedUserId": userID})
	return nil
}

func (s *ChatService) Leave(ctx context.Context, callerID, chatID string) error {
	chat, err := s.loadChat(ctx, chatID)
	if err != nil {
		return err
	}
	if chat.Type != domain.ChatTypeGroup {
		return domain.ErrNotGroup
	}
	if ok, err := s.isMember(ctx, chatID, callerID); err != nil {
		return err
	} else if !ok {
		return domain.ErrNotMember
	}
	if err := s.store.SRem(ctx, membersKey(chatID), callerID); err != nil {
		s.log.ErrorContext(ctx, "chats - leave - remove from members failed", "chat_id", chatID, "caller_id", callerID, "err", err)
		return fmt.Errorf("chats - leave - remove from members: %w", err)
	}
	if err := s.store.SRem(ctx, groupIndexKey(callerID), chatID); err != nil {
		s.log.ErrorContext(ctx, "chats - leave - remove group index failed", "chat_id", chatID, "caller_id", callerID, "err", err)
		return fmt.Errorf("chats - leave - remove group index: %w", err)
	}
	s.log.InfoContext(ctx, "chats - leave - success", "chat_id", chatID, "caller_id", callerID)
	s.notify.Publish(ctx, domain.ChatChannel(chatID), domain.EventMemberLeft, map[string]string{"userId": callerID})
	remaining, err := s.store.SMembers(ctx, membersKey(chatID))
	if err != nil {
		s.log.ErrorContext(ctx, "chats - leave - read remaining members failed", "chat_id", chatID, "err", err)
		return nil
	}
	if len(remaining) == 0 {
		// Abandoned groups are ephemeral: drop metadata, membership and
		// the message log together.
		if err := s.store.Del(ctx, chatKey(chatID), membersKey(chatID), messagesKey(chatID)); err != nil {
			s.log.ErrorContext(ctx, "chats - leave - cleanup failed", "chat_id", chatID, "err", err)
			return nil
		}
		if err := s.presence.Clear(ctx, chatID); err != nil {
			s.log.WarnContext(ctx, "chats - leave - presence cleanup failed", "chat_id", chatID, "err", err)
		}
		s.log.InfoContext(ctx, "chats - leave - empty group deleted", "chat_id", chatID)
	}
	return nil
}

func (s *ChatService) GetMeta(ctx context.Context, requesterID, chatID string) (domain.ChatMeta, error) {
	chat, err := s.loadChat(ctx, chatID)
	if err != nil {
		return domain.ChatMeta{}, err
	}
	if ok, err := s.isMember(ctx, chatID, requesterID); err != nil {
		return domain.ChatMeta{}, err
	} else if !ok {
		return domain.ChatMeta{}, domain.ErrNotMember
	}
	members, err := s.store.SMembers(ctx, membersKey(chatID))
	if err != nil {
		return domain.ChatMeta{}, fmt.Errorf("chats - get meta - read members: %w", err)
	}
	meta := domain.ChatMeta{Chat: chat, Members: members}
	meta.LastMessage = s.resolveLastMessage(ctx, chat)
	return meta, nil
}

// resolveLastMessage treats the denormalized cache strictly as a hint:
// direct decode, then the log tail, then nil. Never fails the read.
func (s *ChatService) resolveLastMessage(ctx context.Context, chat domain.Chat) *domain.LastMessage {
	var msg domain.Message
	var err error
	stale := chat.LastMessageRaw == ""
	if !stale {
		if msg, err = domain.DecodeMessage(chat.LastMessageRaw); err != nil {
			s.log.WarnContext(ctx, "chats - get meta - last message cache unreadable", "chat_id", chat.ID)
			stale = true
		}
	}
	if stale {
		tail, zerr := s.store.ZRevRange(ctx, messagesKey(chat.ID), 0, 0)
		if zerr != nil || len(tail) == 0 {
			return nil
		}
		if msg, err = domain.DecodeMessage(tail[0]); err != nil {
			return nil
		}
	}
	last := &domain.LastMessage{Message: msg}
	if sender, err := s.users.GetByID(ctx, msg.SenderID); err == nil {
		last.Sender = &sender
	}
	return last
}

func (s *ChatService) UpdateGroupMeta(ctx context.Context, actorID, chatID, name string) error {
	chat, err := s.loadChat(ctx, chatID)
	if err != nil {
		return err
	}
	if chat.Type != domain.ChatTypeGroup {
		return domain.ErrNotGroup
	}
	if chat.CreatedBy != actorID {
		return domain.ErrNotCreator
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.ErrEmptyGroupName
	}
	fields := map[string]string{
		"name":      name,
		"updatedAt": fmt.Sprintf("%d", domain.NowMillis()),
	}
	if err := s.store.HSet(ctx, chatKey(chatID), fields); err != nil {
		s.log.ErrorContext(ctx, "chats - update group meta - write failed", "chat_id", chatID, "err", err)
		return fmt.Errorf("chats - update group meta - write: %w", err)
	}
	s.log.InfoContext(ctx, "chats - update group meta - success", "chat_id", chatID, "actor_id", actorID)
	s.notify.Publish(ctx, domain.ChatChannel(chatID), domain.EventGroupUpdated, map[string]string{"name": name})
	return nil
}

func (s *ChatService) ListGroupsForUser(ctx context.Context, userID string) ([]domain.GroupListing, error) {
	ids, err := s.store.SMembers(ctx, groupIndexKey(userID))
	if err != nil {
		return nil, fmt.Errorf("chats - list groups: %w", err)
	}
	listings := make([]domain.GroupListing, 0, len(ids))
	for _, id := range ids {
		fields, err := s.store.HGetAll(ctx, chatKey(id))
		if err != nil || len(fields) == 0 {
			// Unresolved metadata sorts last.
			listings = append(listings, domain.GroupListing{Chat: domain.Chat{ID: id, Type: domain.ChatTypeGroup}})
			continue
		}
		chat := domain.ChatFromMap(fields)
		listings = append(listings, domain.GroupListing{Chat: chat, UpdatedAt: chat.UpdatedAt})
	}
	sort.SliceStable(listings, func(i, j int) bool {
		return listings[i].UpdatedAt > listings[j].UpdatedAt
	})
	return listings, nil
}

func (s *ChatService) ListDMsForUser(ctx context.Context, userID string) ([]domain.DMListing, error) {
	index, err := s.store.HGetAll(ctx, dmIndexKey(userID))
	if err != nil {
		return nil, fmt.Errorf("chats - list dms: %w", err)
	}
	listings := make([]domain.DMListing, 0, len(index))
	for friendID, chatID := range index {
		friend, err := s.users.GetByID(ctx, friendID)
		if err != nil {
			s.log.WarnContext(ctx, "chats - list dms - dropping stale entry", "user_id", userID, "friend_id", friendID)
			continue
		}
		listings = append(listings, domain.DMListing{ChatID: chatID, Friend: friend})
	}
	sort.SliceStable(listings, func(i, j int) bool {
		return listings[i].Friend.Name < listings[j].Friend.Name
	})
	return listings, nil
}

func (s *ChatService) HeartbeatPresence(ctx context.Context, callerID, chatID string) error {
	if ok, err := s.isMember(ctx, chatID, callerID); err != nil {
		return err
	} else if !ok {
		return domain.ErrNotMember
	}
	return s.presence.Heartbeat(ctx, chatID, callerID, presenceTTL)
}

func (s *ChatService) OnlineMembers(ctx context.Context, callerID, chatID string) ([]string, error) {
	if ok, err := s.isMember(ctx, chatID, callerID); err != nil {
		return nil, err
	} else if !ok {
		return nil, domain.ErrNotMember
	}
	return s.presence.Online(ctx, chatID)
}

// touch bumps updatedAt; failures only log since the primary write already
// succeeded.
func (s *ChatService) touch(ctx context.Context, chatID string) {
	fields := map[string]string{"updatedAt": fmt.Sprintf("%d", domain.NowMillis())}
	if err := s.store.HSet(ctx, chatKey(chatID), fields); err != nil {
		s.log.WarnContext(ctx, "chats - touch - bump updatedAt failed", "chat_id", chatID, "err", err)
	}
}
