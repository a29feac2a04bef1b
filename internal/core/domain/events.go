package domain

// Event names pushed through the fan-out broker. Clients subscribe to a
// per-user channel for social events and a per-chat channel for activity
// inside a chat they have open.
const (
	EventFriendRequested = "friend_requested"
	EventFriendAdded     = "friend_added"
	EventDMCreated       = "dm_created"
	EventGroupCreated    = "group_created"
	EventGroupUpdated    = "group_updated"
	EventMemberAdded     = "member_added"
	EventMemberRemoved   = "member_removed"
	EventMemberLeft      = "member_left"
	EventMessageCreated  = "message_created"
)

func UserChannel(userID string) string { return "user:" + userID }
func ChatChannel(chatID string) string { return "chat:" + chatID }
