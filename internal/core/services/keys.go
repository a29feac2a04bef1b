package services

// Store key schema: <entity-type>:<id>[:<qualifier>]. Every durable record
// the services touch lives under one of these keys.

func userKey(userID string) string       { return "user:" + userID }
func userEmailKey(email string) string   { return "user:email:" + email }
func incomingKey(userID string) string   { return "user:" + userID + ":incoming_requests" }
func friendsKey(userID string) string    { return "user:" + userID + ":friends" }
func dmIndexKey(userID string) string    { return "user:" + userID + ":dms" }
func groupIndexKey(userID string) string { return "user:" + userID + ":groups" }

func chatKey(chatID string) string     { return "chat:" + chatID }
func membersKey(chatID string) string  { return "chat:" + chatID + ":members" }
func messagesKey(chatID string) string { return "chat:" + chatID + ":messages" }
