package services

import (
	"context"
	"errors"
	"testing"

	"github.com/MrNoFunsadface/FCommunityBE/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFriendService_SendRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path - request recorded and receiver notified", func(t *testing.T) {
		f := newFixture(t)
		alice := f.signup(t, "Alice", "alice@example.com")
		bob := f.signup(t, "Bob", "bob@example.com")

		require.NoError(t, f.friends.SendRequest(ctx, alice.ID, bob.Email))

		pending, err := f.friends.ListIncomingRequests(ctx, bob.ID)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, alice.ID, pending[0].ID)

		events := f.eventsOn(t, domain.UserChannel(bob.ID))
		require.Len(t, events, 1)
		assert.Equal(t, domain.EventFriendRequested, events[0].Event)
	})

	t.Run("sad path - receiver email unknown", func(t *testing.T) {
		f := newFixture(t)
		alice := f.signup(t, "Alice", "alice@example.com")

		err := f.friends.SendRequest(ctx, alice.ID, "nobody@example.com")
		assert.True(t, errors.Is(err, domain.ErrUserNotFound))
	})

	t.Run("sad path - self request", func(t *testing.T) {
		f := newFixture(t)
		alice := f.signup(t, "Alice", "alice@example.com")

		err := f.friends.SendRequest(ctx, alice.ID, alice.Email)
		assert.True(t, errors.Is(err, domain.ErrSelfRequest))
	})

	t.Run("sad path - duplicate request in same direction", func(t *testing.T) {
		f := newFixture(t)
		alice := f.signup(t, "Alice", "alice@example.com")
		bob := f.signup(t, "Bob", "bob@example.com")

		require.NoError(t, f.friends.SendRequest(ctx, alice.ID, bob.Email))
		err := f.friends.SendRequest(ctx, alice.ID, bob.Email)
		assert.True(t, errors.Is(err, domain.ErrRequestExists))
	})

	t.Run("sad path - already friends", func(t *testing.T) {
		f := newFixture(t)
		alice := f.signup(t, "Alice", "alice@example.com")
		bob := f.signup(t, "Bob", "bob@example.com")
		f.befriend(t, alice, bob)

		err := f.friends.SendRequest(ctx, alice.ID, bob.Email)
		assert.True(t, errors.Is(err, domain.ErrAlreadyFriends))
	})

	t.Run("bidirectional pending requests are tolerated", func(t *testing.T) {
		f := newFixture(t)
		alice := f.signup(t, "Alice", "alice@example.com")
		bob := f.signup(t, "Bob", "bob@example.com")

		require.NoError(t, f.friends.SendRequest(ctx, alice.ID, bob.Email))
		require.NoError(t, f.friends.SendRequest(ctx, bob.ID, alice.Email))

		alicePending, err := f.friends.ListIncomingRequests(ctx, alice.ID)
		require.NoError(t, err)
		bobPending, err := f.friends.ListIncomingRequests(ctx, bob.ID)
		require.NoError(t, err)
		assert.Len(t, alicePending, 1)
		assert.Len(t, bobPending, 1)
	})
}

func TestFriendService_AcceptRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path - symmetric edge, request consumed, both notified", func(t *testing.T) {
		f := newFixture(t)
		alice := f.signup(t, "Alice", "alice@example.com")
		bob := f.signup(t, "Bob", "bob@example.com")
		require.NoError(t, f.friends.SendRequest(ctx, alice.ID, bob.Email))

		require.NoError(t, f.friends.AcceptRequest(ctx, bob.ID, alice.ID))

		aliceFriends, err := f.friends.ListFriends(ctx, alice.ID)
		require.NoError(t, err)
		bobFriends, err := f.friends.ListFriends(ctx, bob.ID)
		require.NoError(t, err)
		require.Len(t, aliceFriends, 1)
		require.Len(t, bobFriends, 1)
		assert.Equal(t, bob.ID, aliceFriends[0].ID)
		assert.Equal(t, alice.ID, bobFriends[0].ID)

		pending, err := f.friends.ListIncomingRequests(ctx, bob.ID)
		require.NoError(t, err)
		assert.Empty(t, pending)

		// Each side hears about the other party.
		bobEvents := f.eventsOn(t, domain.UserChannel(bob.ID))
		aliceEvents := f.eventsOn(t, domain.UserChannel(alice.ID))
		require.NotEmpty(t, bobEvents)
		assert.Equal(t, domain.EventFriendAdded, bobEvents[len(bobEvents)-1].Event)
		require.Len(t, aliceEvents, 1)
		assert.Equal(t, domain.EventFriendAdded, aliceEvents[0].Event)
	})

	t.Run("sad path - no pending request", func(t *testing.T) {
		f := newFixture(t)
		alice := f.signup(t, "Alice", "alice@example.com")
		bob := f.signup(t, "Bob", "bob@example.com")

		err := f.friends.AcceptRequest(ctx, bob.ID, alice.ID)
		assert.True(t, errors.Is(err, domain.ErrRequestNotFound))
	})

	t.Run("sad path - already friends", func(t *testing.T) {
		f := newFixture(t)
		alice := f.signup(t, "Alice", "alice@example.com")
		bob := f.signup(t, "Bob", "bob@example.com")
		f.befriend(t, alice, bob)

		err := f.friends.AcceptRequest(ctx, bob.ID, alice.ID)
		assert.True(t, errors.Is(err, domain.ErrAlreadyFriends))
	})

	t.Run("broker outage does not fail the accept", func(t *testing.T) {
		f := newFixture(t)
		alice := f.signup(t, "Alice", "alice@example.com")
		bob := f.signup(t, "Bob", "bob@example.com")
		require.NoError(t, f.friends.SendRequest(ctx, alice.ID, bob.Email))

		f.pub.Err = errors.New("broker down")
		require.NoError(t, f.friends.AcceptRequest(ctx, bob.ID, alice.ID))

		friends, err := f.friends.ListFriends(ctx, bob.ID)
		require.NoError(t, err)
		assert.Len(t, friends, 1)
	})
}

func TestFriendService_DenyRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("removes the pending entry", func(t *testing.T) {
		f := newFixture(t)
		alice := f.signup(t, "Alice", "alice@example.com")
		bob := f.signup(t, "Bob", "bob@example.com")
		require.NoError(t, f.friends.SendRequest(ctx, alice.ID, bob.Email))

		require.NoError(t, f.friends.DenyRequest(ctx, bob.ID, alice.ID))

		pending, err := f.friends.ListIncomingRequests(ctx, bob.ID)
		require.NoError(t, err)
		assert.Empty(t, pending)

		// Denied means back to none: a fresh request goes through.
		require.NoError(t, f.friends.SendRequest(ctx, alice.ID, bob.Email))
	})

	t.Run("idempotent - absent entry is not an error", func(t *testing.T) {
		f := newFixture(t)
		alice := f.signup(t, "Alice", "alice@example.com")
		bob := f.signup(t, "Bob", "bob@example.com")

		assert.NoError(t, f.friends.DenyRequest(ctx, bob.ID, alice.ID))
	})
}

func TestFriendService_ListFriends_DropsStaleReferences(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.signup(t, "Alice", "alice@example.com")
	bob := f.signup(t, "Bob", "bob@example.com")
	f.befriend(t, alice, bob)

	// Simulate a dangling edge to a profile that no longer resolves.
	require.NoError(t, f.store.SAdd(ctx, friendsKey(alice.ID), "ghost-user"))

	friends, err := f.friends.ListFriends(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, friends, 1)
	assert.Equal(t, bob.ID, friends[0].ID)
}
