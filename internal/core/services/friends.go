package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MrNoFunsadface/FCommunityBE/internal/core/contracts"
	"github.com/MrNoFunsadface/FCommunityBE/internal/core/domain"
)

type IFriendService interface {
	// SendRequest resolves the receiver by email and records a directed
	// pending request. The receiver is notified with the sender's profile.
	SendRequest(ctx context.Context, senderID, receiverEmail string) error
	// AcceptRequest turns a pending request into a symmetric friend edge
	// and consumes the request. Profile fetches and events are best-effort.
	AcceptRequest(ctx context.Context, accepterID, senderID string) error
	// DenyRequest drops the pending entry. Idempotent.
	DenyRequest(ctx context.Context, accepterID, senderID string) error
	ListFriends(ctx context.Context, userID string) ([]domain.User, error)
	ListIncomingRequests(ctx context.Context, userID string) ([]domain.User, error)
}

// FriendService owns the friend-request state machine. Per ordered pair the
// states are none, pending, friends; send only moves none→pending, accept
// moves pending→friends, deny moves pending→none. All checks run before the
// first write; the paired writes themselves are independent store calls with
// no cross-key atomicity.
type FriendService struct {
	store  contracts.Store
	users  IUserService
	notify *Notifier
	log    *slog.Logger
}

func NewFriendService(log *slog.Logger, store contracts.Store, users IUserService, notify *Notifier) *FriendService {
	return &FriendService{
		log:    log,
		store:  store,
		users:  users,
		notify: notify,
	}
}

func (s *FriendService) SendRequest(ctx context.Context, senderID, receiverEmail string) error {
	receiver, err := s.users.GetByEmail(ctx, receiverEmail)
	if err != nil {
		return err
	}
	if receiver.ID == senderID {
		return domain.ErrSelfRequest
	}
	pending, err := s.store.SIsMember(ctx, incomingKey(receiver.ID), senderID)
	if err != nil {
		return fmt.Errorf("friends - send request - pending check: %w", err)
	}
	if pending {
		return domain.ErrRequestExists
	}
	already, err := s.store.SIsMember(ctx, friendsKey(senderID), receiver.ID)
	if err != nil {
		return fmt.Errorf("friends - send request - friendship check: %w", err)
	}
	if already {
		return domain.ErrAlreadyFriends
	}
	if err := s.store.SAdd(ctx, incomingKey(receiver.ID), senderID); err != nil {
		s.log.ErrorContext(ctx, "friends - send request - write pending failed", "sender_id", senderID, "receiver_id", receiver.ID, "err", err)
		return fmt.Errorf("friends - send request - write pending: %w", err)
	}
	s.log.InfoContext(ctx, "friends - send request - success", "sender_id", senderID, "receiver_id", receiver.ID)
	if sender, err := s.users.GetByID(ctx, senderID); err == nil {
		s.notify.Publish(ctx, domain.UserChannel(receiver.ID), domain.EventFriendRequested, sender)
	}
	return nil
}

func (s *FriendService) AcceptRequest(ctx context.Context, accepterID, senderID string) error {
	already, err := s.store.SIsMember(ctx, friendsKey(accepterID), senderID)
	if err != nil {
		return fmt.Errorf("friends - accept request - friendship check: %w", err)
	}
	if already {
		return domain.ErrAlreadyFriends
	}
	pending, err := s.store.SIsMember(ctx, incomingKey(accepterID), senderID)
	if err != nil {
		return fmt.Errorf("friends - accept request - pending check: %w", err)
	}
	if !pending {
		return domain.ErrRequestNotFound
	}
	// Durable portion: the symmetric edge, then the request removal.
	if err := s.store.SAdd(ctx, friendsKey(accepterID), senderID); err != nil {
		s.log.ErrorContext(ctx, "friends - accept request - write edge failed", "accepter_id", accepterID, "sender_id", senderID, "err", err)
		return fmt.Errorf("friends - accept request - write edge: %w", err)
	}
	if err := s.store.SAdd(ctx, friendsKey(senderID), accepterID); err != nil {
		s.log.ErrorContext(ctx, "friends - accept request - write mirror edge failed", "accepter_id", accepterID, "sender_id", senderID, "err", err)
		return fmt.Errorf("friends - accept request - write mirror edge: %w", err)
	}
	if err := s.store.SRem(ctx, incomingKey(accepterID), senderID); err != nil {
		s.log.ErrorContext(ctx, "friends - accept request - consume pending failed", "accepter_id", accepterID, "sender_id", senderID, "err", err)
		return fmt.Errorf("friends - accept request - consume pending: %w", err)
	}
	s.log.InfoContext(ctx, "friends - accept request - success", "accepter_id", accepterID, "sender_id", senderID)
	// Best-effort tail: each side is told about the other party.
	accepter, errA := s.users.GetByID(ctx, accepterID)
	sender, errB := s.users.GetByID(ctx, senderID)
	if errB == nil {
		s.notify.Publish(ctx, domain.UserChannel(accepterID), domain.EventFriendAdded, sender)
	}
	if errA == nil {
		s.notify.Publish(ctx, domain.UserChannel(senderID), domain.EventFriendAdded, accepter)
	}
	return nil
}

func (s *FriendService) DenyRequest(ctx context.Context, accepterID, senderID string) error {
	if err := s.store.SRem(ctx, incomingKey(accepterID), senderID); err != nil {
		s.log.ErrorContext(ctx, "friends - deny request - remove pending failed", "accepter_id", accepterID, "sender_id", senderID, "err", err)
		return fmt.Errorf("friends - deny request - remove pending: %w", err)
	}
	s.log.InfoContext(ctx, "friends - deny request - success", "accepter_id", accepterID, "sender_id", senderID)
	return nil
}

func (s *FriendService) ListFriends(ctx context.Context, userID string) ([]domain.User, error) {
	ids, err := s.store.SMembers(ctx, friendsKey(userID))
	if err != nil {
		return nil, fmt.Errorf("friends - list friends: %w", err)
	}
	return s.users.Resolve(ctx, ids), nil
}

func (s *FriendService) ListIncomingRequests(ctx context.Context, userID string) ([]domain.User, error) {
	ids, err := s.store.SMembers(ctx, incomingKey(userID))
	if err != nil {
		return nil, fmt.Errorf("friends - list incoming requests: %w", err)
	}
	return s.users.Resolve(ctx, ids), nil
}
