package domain

import (
	"encoding/json"
	"strconv"
	"time"
)

const (
	ChatTypeDM    = "dm"
	ChatTypeGroup = "group"
)

// User is the public profile shape exchanged between services and clients.
// Credentials never pass through this core.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Image string `json:"image,omitempty"`
}

// Message is immutable once appended to a chat log.
// Timestamp is epoch milliseconds and doubles as the sort score.
type Message struct {
	ID        string `json:"id"`
	SenderID  string `json:"senderId"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

// LastMessage is the resolved projection of the denormalized cache:
// the raw message plus the sender's profile when it still resolves.
type LastMessage struct {
	Message
	Sender *User `json:"sender,omitempty"`
}

// Chat is the metadata record stored per chat. LastMessageRaw holds the
// JSON-encoded cache of the newest message; it is a hint, not a source of
// truth, and may lag the log tail under concurrent writers.
type Chat struct {
	ID             string `json:"id"`
	Type           string `json:"type"`
	Name           string `json:"name,omitempty"`
	CreatedBy      string `json:"createdBy,omitempty"`
	CreatedAt      int64  `json:"createdAt"`
	UpdatedAt      int64  `json:"updatedAt"`
	LastMessageRaw string `json:"-"`
}

// ChatMeta is the read model returned to members.
type ChatMeta struct {
	Chat
	Members     []string     `json:"members"`
	LastMessage *LastMessage `json:"lastMessage,omitempty"`
}

// GroupListing annotates a group with its activity timestamp for
// most-recently-active-first ordering.
type GroupListing struct {
	Chat      Chat  `json:"chat"`
	UpdatedAt int64 `json:"updatedAt"`
}

// DMListing pairs a DM chat id with the resolved friend on the other side.
type DMListing struct {
	ChatID string `json:"chatId"`
	Friend User   `json:"friend"`
}

func NowMillis() int64 {
	return time.Now().UnixMilli()
}

// DecodeMessage parses a stored log entry. Historical data may be JSON
// encoded twice (a JSON string containing JSON), so a failed direct decode
// gets one repair pass before giving up.
func DecodeMessage(raw string) (Message, error) {
	var m Message
	if err := json.Unmarshal([]byte(raw), &m); err == nil && m.ID != "" {
		return m, nil
	}
	var inner string
	if err := json.Unmarshal([]byte(raw), &inner); err != nil {
		return Message{}, err
	}
	if err := json.Unmarshal([]byte(inner), &m); err != nil {
		return Message{}, err
	}
	return m, nil
}

// ChatToMap flattens chat metadata into the string fields of the chat's
// hash record.
func ChatToMap(c Chat) map[string]string {
	m := map[string]string{
		"id":        c.ID,
		"type":      c.Type,
		"createdAt": strconv.FormatInt(c.CreatedAt, 10),
		"updatedAt": strconv.FormatInt(c.UpdatedAt, 10),
	}
	if c.Name != "" {
		m["name"] = c.Name
	}
	if c.CreatedBy != "" {
		m["createdBy"] = c.CreatedBy
	}
	if c.LastMessageRaw != "" {
		m["lastMessage"] = c.LastMessageRaw
	}
	return m
}

// ChatFromMap rebuilds chat metadata from a hash record. Numeric fields
// that fail to parse degrade to zero instead of failing the read.
func ChatFromMap(m map[string]string) Chat {
	c := Chat{
		ID:             m["id"],
		Type:           m["type"],
		Name:           m["name"],
		CreatedBy:      m["createdBy"],
		LastMessageRaw: m["lastMessage"],
	}
	c.CreatedAt, _ = strconv.ParseInt(m["createdAt"], 10, 64)
	c.UpdatedAt, _ = strconv.ParseInt(m["updatedAt"], 10, 64)
	return c
}

func UserToMap(u User) map[string]string {
	m := map[string]string{
		"id":    u.ID,
		"name":  u.Name,
		"email": u.Email,
	}
	if u.Image != "" {
		m["image"] = u.Image
	}
	return m
}

func UserFromMap(m map[string]string) User {
	return User{
		ID:    m["id"],
		Name:  m["name"],
		Email: m["email"],
		Image: m["image"],
	}
}
