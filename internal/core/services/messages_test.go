package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/MrNoFunsadface/FCommunityBE/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func groupFixture(t *testing.T) (*fixture, domain.User, domain.User, domain.Chat) {
	t.Helper()
	ctx := context.Background()
	f := newFixture(t)
	alice := f.signup(t, "Alice", "alice@example.com")
	bob := f.signup(t, "Bob", "bob@example.com")
	carol := f.signup(t, "Carol", "carol@example.com")
	chat, err := f.chats.CreateGroup(ctx, alice.ID, "trio", []string{bob.ID, carol.ID})
	require.NoError(t, err)
	return f, alice, bob, chat
}

func TestMessageService_Send(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path - appended, cached and broadcast", func(t *testing.T) {
		f, alice, _, chat := groupFixture(t)

		msg, err := f.messages.Send(ctx, alice.ID, chat.ID, "hello")
		require.NoError(t, err)
		assert.NotEmpty(t, msg.ID)
		assert.Equal(t, alice.ID, msg.SenderID)
		assert.NotZero(t, msg.Timestamp)

		cached, ok, err := f.store.HGet(ctx, chatKey(chat.ID), "lastMessage")
		require.NoError(t, err)
		require.True(t, ok)
		var fromCache domain.Message
		require.NoError(t, json.Unmarshal([]byte(cached), &fromCache))
		assert.Equal(t, msg.ID, fromCache.ID)

		events := f.eventsOn(t, domain.ChatChannel(chat.ID))
		require.Len(t, events, 1)
		assert.Equal(t, domain.EventMessageCreated, events[0].Event)
	})

	t.Run("empty text rejected", func(t *testing.T) {
		f, alice, _, chat := groupFixture(t)
		_, err := f.messages.Send(ctx, alice.ID, chat.ID, "   ")
		assert.True(t, errors.Is(err, domain.ErrEmptyMessage))
	})

	t.Run("non-member denied even for unknown chat", func(t *testing.T) {
		f, _, _, chat := groupFixture(t)
		eve := f.signup(t, "Eve", "eve@example.com")

		_, err := f.messages.Send(ctx, eve.ID, chat.ID, "hi")
		assert.True(t, errors.Is(err, domain.ErrNotMember))

		_, err = f.messages.Send(ctx, eve.ID, "no-such-chat", "hi")
		assert.True(t, errors.Is(err, domain.ErrNotMember))
	})

	t.Run("broker outage does not fail the send", func(t *testing.T) {
		f, alice, _, chat := groupFixture(t)
		f.pub.Err = errors.New("broker down")

		msg, err := f.messages.Send(ctx, alice.ID, chat.ID, "still delivered")
		require.NoError(t, err)

		history, err := f.messages.History(ctx, alice.ID, chat.ID, 0, -1)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, msg.ID, history[0].ID)
	})
}

func TestMessageService_History(t *testing.T) {
	ctx := context.Background()

	t.Run("newest first ordering", func(t *testing.T) {
		f, alice, bob, chat := groupFixture(t)

		m1, err := f.messages.Send(ctx, alice.ID, chat.ID, "first")
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
		m2, err := f.messages.Send(ctx, bob.ID, chat.ID, "second")
		require.NoError(t, err)

		history, err := f.messages.History(ctx, alice.ID, chat.ID, 0, -1)
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, m2.ID, history[0].ID)
		assert.Equal(t, m1.ID, history[1].ID)
	})

	t.Run("round-trip preserves every field", func(t *testing.T) {
		f, alice, _, chat := groupFixture(t)

		text := "bytes \"exactly\" as sent — ünïcode ok"
		sent, err := f.messages.Send(ctx, alice.ID, chat.ID, text)
		require.NoError(t, err)

		history, err := f.messages.History(ctx, alice.ID, chat.ID, 0, 0)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, sent, history[0])
	})

	t.Run("rank range with negative indices", func(t *testing.T) {
		f, alice, _, chat := groupFixture(t)

		for i, text := range []string{"a", "b", "c", "d"} {
			_, err := f.messages.Send(ctx, alice.ID, chat.ID, text)
			require.NoError(t, err)
			if i < 3 {
				time.Sleep(2 * time.Millisecond)
			}
		}

		// Last two entries of the descending view: the two oldest.
		history, err := f.messages.History(ctx, alice.ID, chat.ID, -2, -1)
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, "b", history[0].Text)
		assert.Equal(t, "a", history[1].Text)
	})

	t.Run("non-member denied", func(t *testing.T) {
		f, _, _, chat := groupFixture(t)
		eve := f.signup(t, "Eve", "eve@example.com")

		_, err := f.messages.History(ctx, eve.ID, chat.ID, 0, -1)
		assert.True(t, errors.Is(err, domain.ErrNotMember))
	})

	t.Run("double-encoded entries are repaired", func(t *testing.T) {
		f, alice, _, chat := groupFixture(t)

		msg := domain.Message{ID: "legacy-1", SenderID: alice.ID, Text: "old data", Timestamp: 1000}
		raw, err := json.Marshal(msg)
		require.NoError(t, err)
		double, err := json.Marshal(string(raw))
		require.NoError(t, err)
		require.NoError(t, f.store.ZAdd(ctx, messagesKey(chat.ID), float64(msg.Timestamp), string(double)))

		history, err := f.messages.History(ctx, alice.ID, chat.ID, 0, -1)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, msg, history[0])
	})

	t.Run("unreadable entries are dropped, not fatal", func(t *testing.T) {
		f, alice, _, chat := groupFixture(t)

		require.NoError(t, f.store.ZAdd(ctx, messagesKey(chat.ID), 500, "{broken"))
		sent, err := f.messages.Send(ctx, alice.ID, chat.ID, "good one")
		require.NoError(t, err)

		history, err := f.messages.History(ctx, alice.ID, chat.ID, 0, -1)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, sent.ID, history[0].ID)
	})
}
