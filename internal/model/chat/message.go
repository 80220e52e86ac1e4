package chat

import "time"

// Sender tags recorded on messages. The store does not enforce the set;
// "admin" is reserved for direct admin replies.
const (
	SenderUser  = "user"
	SenderBot   = "bot"
	SenderAdmin = "admin"
)

// Message is one utterance in a conversation. Messages are immutable once
// written; a session is nothing more than the messages sharing a SessionID.
type Message struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	Sender    string    `json:"sender"`
	Content   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// SessionStats summarizes one session for the admin directory.
type SessionStats struct {
	SessionID    string     `json:"sessionId"`
	MessageCount int        `json:"messageCount"`
	FirstMessage *time.Time `json:"firstMessage"`
	LastMessage  *time.Time `json:"lastMessage"`
}
