package services

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/MrNoFunsadface/FCommunityBE/internal/core/domain"
	"github.com/MrNoFunsadface/FCommunityBE/internal/plugins/memory"

	"github.com/stretchr/testify/require"
)

type fixture struct {
	store    *memory.MemoryStore
	pub      *memory.MemoryPublisher
	users    *UserService
	friends  *FriendService
	chats    *ChatService
	messages *MessageService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewMemoryStore()
	pub := memory.NewMemoryPublisher()
	notifier := NewNotifier(log, pub)
	users := NewUserService(log, store)
	return &fixture{
		store:    store,
		pub:      pub,
		users:    users,
		friends:  NewFriendService(log, store, users, notifier),
		chats:    NewChatService(log, store, users, memory.NewMemoryPresenceStore(), notifier),
		messages: NewMessageService(log, store, notifier),
	}
}

func (f *fixture) signup(t *testing.T, name, email string) domain.User {
	t.Helper()
	user, err := f.users.Signup(context.Background(), name, email, "")
	require.NoError(t, err)
	return user
}

// befriend runs the full request/accept handshake between a and b.
func (f *fixture) befriend(t *testing.T, a, b domain.User) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.friends.SendRequest(ctx, a.ID, b.Email))
	require.NoError(t, f.friends.AcceptRequest(ctx, b.ID, a.ID))
}

// eventsOn decodes the envelopes published on one channel.
func (f *fixture) eventsOn(t *testing.T, channel string) []eventEnvelope {
	t.Helper()
	var out []eventEnvelope
	for _, ev := range f.pub.Events() {
		if ev.Channel != channel {
			continue
		}
		var env eventEnvelope
		require.NoError(t, json.Unmarshal(ev.Payload, &env))
		out = append(out, env)
	}
	return out
}
