package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_ZRevRange(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.ZAdd(ctx, "z", 1, "one"))
	require.NoError(t, s.ZAdd(ctx, "z", 3, "three"))
	require.NoError(t, s.ZAdd(ctx, "z", 2, "two"))

	t.Run("full descending range", func(t *testing.T) {
		got, err := s.ZRevRange(ctx, "z", 0, -1)
		require.NoError(t, err)
		assert.Equal(t, []string{"three", "two", "one"}, got)
	})

	t.Run("head of range", func(t *testing.T) {
		got, err := s.ZRevRange(ctx, "z", 0, 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"three"}, got)
	})

	t.Run("negative start counts from the end", func(t *testing.T) {
		got, err := s.ZRevRange(ctx, "z", -2, -1)
		require.NoError(t, err)
		assert.Equal(t, []string{"two", "one"}, got)
	})

	t.Run("out of bounds is empty", func(t *testing.T) {
		got, err := s.ZRevRange(ctx, "z", 5, 9)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("equal scores keep insertion order", func(t *testing.T) {
		require.NoError(t, s.ZAdd(ctx, "ties", 1, "first"))
		require.NoError(t, s.ZAdd(ctx, "ties", 1, "second"))
		got, err := s.ZRevRange(ctx, "ties", 0, -1)
		require.NoError(t, err)
		assert.Equal(t, []string{"first", "second"}, got)
	})
}

func TestMemoryStore_SetOps(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.SAdd(ctx, "set", "a", "b"))

	ok, err := s.SIsMember(ctx, "set", "a")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.SRem(ctx, "set", "a"))
	ok, err = s.SIsMember(ctx, "set", "a")
	require.NoError(t, err)
	assert.False(t, ok)

	members, err := s.SMembers(ctx, "set")
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, members)
}

func TestMemoryStore_DelRemovesAllShapes(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Set(ctx, "k", "v"))
	require.NoError(t, s.HSet(ctx, "h", map[string]string{"f": "v"}))
	require.NoError(t, s.ZAdd(ctx, "z", 1, "m"))

	require.NoError(t, s.Del(ctx, "k", "h", "z"))

	_, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
	fields, err := s.HGetAll(ctx, "h")
	require.NoError(t, err)
	assert.Empty(t, fields)
	entries, err := s.ZRevRange(ctx, "z", 0, -1)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
