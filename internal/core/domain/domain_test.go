package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeMessage(t *testing.T) {
	msg := Message{ID: "m-1", SenderID: "u-1", Text: "hi", Timestamp: 1234}
	raw, err := json.Marshal(msg)
	require.NoError(t, err)

	t.Run("direct encoding", func(t *testing.T) {
		got, err := DecodeMessage(string(raw))
		require.NoError(t, err)
		assert.Equal(t, msg, got)
	})

	t.Run("double encoding repaired", func(t *testing.T) {
		double, err := json.Marshal(string(raw))
		require.NoError(t, err)
		got, err := DecodeMessage(string(double))
		require.NoError(t, err)
		assert.Equal(t, msg, got)
	})

	t.Run("garbage fails", func(t *testing.T) {
		_, err := DecodeMessage("{nope")
		assert.Error(t, err)
	})

	t.Run("triple encoding gives up", func(t *testing.T) {
		double, err := json.Marshal(string(raw))
		require.NoError(t, err)
		triple, err := json.Marshal(string(double))
		require.NoError(t, err)
		_, err = DecodeMessage(string(triple))
		assert.Error(t, err)
	})
}

func TestChatMapRoundTrip(t *testing.T) {
	chat := Chat{
		ID:             "c-1",
		Type:           ChatTypeGroup,
		Name:           "trio",
		CreatedBy:      "u-1",
		CreatedAt:      100,
		UpdatedAt:      200,
		LastMessageRaw: `{"id":"m-1"}`,
	}
	assert.Equal(t, chat, ChatFromMap(ChatToMap(chat)))
}

func TestChatFromMap_BadNumbersDegrade(t *testing.T) {
	chat := ChatFromMap(map[string]string{
		"id":        "c-1",
		"type":      ChatTypeDM,
		"createdAt": "not-a-number",
	})
	assert.Equal(t, "c-1", chat.ID)
	assert.Zero(t, chat.CreatedAt)
	assert.Zero(t, chat.UpdatedAt)
}

func TestUserMapRoundTrip(t *testing.T) {
	user := User{ID: "u-1", Name: "Alice", Email: "alice@example.com", Image: "http://img"}
	assert.Equal(t, user, UserFromMap(UserToMap(user)))
}
