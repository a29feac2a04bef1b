package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/MrNoFunsadface/FCommunityBE/internal/core/contracts"
	"github.com/MrNoFunsadface/FCommunityBE/internal/core/domain"
	"github.com/MrNoFunsadface/FCommunityBE/pkg/apperr"

	"github.com/google/uuid"
)

type IUserService interface {
	// Signup creates the profile record and the email lookup index.
	Signup(ctx context.Context, name, email, image string) (domain.User, error)
	GetByID(ctx context.Context, userID string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	// Resolve maps ids to profiles, silently dropping ids that no longer
	// resolve. Used by list reads that tolerate stale references.
	Resolve(ctx context.Context, userIDs []string) []domain.User
}

type UserService struct {
	store contracts.Store
	log   *slog.Logger
}

func NewUserService(log *slog.Logger, store contracts.Store) *UserService {
	return &UserService{
		log:   log,
		store: store,
	}
}

func (s *UserService) Signup(ctx context.Context, name, email, image string) (domain.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" {
		return domain.User{}, apperr.InvalidArg("name and email are required")
	}
	if _, taken, err := s.store.Get(ctx, userEmailKey(email)); err != nil {
		return domain.User{}, fmt.Errorf("users - signup - email lookup: %w", err)
	} else if taken {
		return domain.User{}, domain.ErrEmailTaken
	}
	user := domain.User{
		ID:    uuid.NewString(),
		Name:  name,
		Email: email,
		Image: image,
	}
	if err := s.store.HSet(ctx, userKey(user.ID), domain.UserToMap(user)); err != nil {
		s.log.ErrorContext(ctx, "users - signup - write profile failed", "email", email, "err", err)
		return domain.User{}, fmt.Errorf("users - signup - write profile: %w", err)
	}
	if err := s.store.Set(ctx, userEmailKey(email), user.ID); err != nil {
		s.log.ErrorContext(ctx, "users - signup - write email index failed", "email", email, "err", err)
		return domain.User{}, fmt.Errorf("users - signup - write email index: %w", err)
	}
	s.log.InfoContext(ctx, "users - signup - success", "user_id", user.ID)
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, userID string) (domain.User, error) {
	fields, err := s.store.HGetAll(ctx, userKey(userID))
	if err != nil {
		return domain.User{}, fmt.Errorf("users - get by id: %w", err)
	}
	if len(fields) == 0 {
		return domain.User{}, domain.ErrUserNotFound
	}
	return domain.UserFromMap(fields), nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	userID, ok, err := s.store.Get(ctx, userEmailKey(email))
	if err != nil {
		return domain.User{}, fmt.Errorf("users - get by email: %w", err)
	}
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return s.GetByID(ctx, userID)
}

func (s *UserService) Resolve(ctx context.Context, userIDs []string) []domain.User {
	users := make([]domain.User, 0, len(userIDs))
	for _, id := range userIDs {
		user, err := s.GetByID(ctx, id)
		if err != nil {
			s.log.WarnContext(ctx, "users - resolve - dropping stale reference", "user_id", id)
			continue
		}
		users = append(users, user)
	}
	return users
}
