package services

import (
	"context"
	"errors"
	"testing"

	"github.com/MrNoFunsadface/FCommunityBE/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_Signup(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		f := newFixture(t)
		user, err := f.users.Signup(ctx, "Alice", "Alice@Example.com", "http://img")
		require.NoError(t, err)
		assert.NotEmpty(t, user.ID)
		assert.Equal(t, "alice@example.com", user.Email)

		got, err := f.users.GetByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, user, got)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		f := newFixture(t)
		f.signup(t, "Alice", "alice@example.com")

		_, err := f.users.Signup(ctx, "Imposter", "alice@example.com", "")
		assert.True(t, errors.Is(err, domain.ErrEmailTaken))
	})

	t.Run("missing fields rejected", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.users.Signup(ctx, "", "alice@example.com", "")
		require.Error(t, err)
		_, err = f.users.Signup(ctx, "Alice", "  ", "")
		require.Error(t, err)
	})
}

func TestUserService_Resolve(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.signup(t, "Alice", "alice@example.com")
	bob := f.signup(t, "Bob", "bob@example.com")

	users := f.users.Resolve(ctx, []string{alice.ID, "missing", bob.ID})
	require.Len(t, users, 2)
	assert.Equal(t, alice.ID, users[0].ID)
	assert.Equal(t, bob.ID, users[1].ID)
}

func TestUserService_GetByID_NotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.users.GetByID(context.Background(), "nope")
	assert.True(t, errors.Is(err, domain.ErrUserNotFound))
}
