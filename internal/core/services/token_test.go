package services

import (
	"context"
	"testing"

	"github.com/MrNoFunsadface/FCommunityBE/internal/core/domain"
	"github.com/MrNoFunsadface/FCommunityBE/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_RoundTrip(t *testing.T) {
	svc := NewTokenService("test-secret")
	user := domain.User{ID: "u-1", Name: "Alice", Email: "alice@example.com"}

	token, err := svc.Issue(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	identity, err := svc.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, identity.ID)
	assert.Equal(t, user.Email, identity.Email)
	assert.Equal(t, user.Name, identity.Name)
}

func TestTokenService_Verify_Invalid(t *testing.T) {
	svc := NewTokenService("test-secret")

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.Verify(context.Background(), "not-a-token")
		require.Error(t, err)
		assert.Equal(t, apperr.CodeUnauthenticated, apperr.CodeOf(err))
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewTokenService("other-secret")
		token, err := other.Issue(domain.User{ID: "u-1"})
		require.NoError(t, err)

		_, err = svc.Verify(context.Background(), token)
		require.Error(t, err)
		assert.Equal(t, apperr.CodeUnauthenticated, apperr.CodeOf(err))
	})
}
