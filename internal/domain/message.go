package domain

import "time"

// Message is a chat message as broadcast to clients. Messages are never
// persisted; they exist only as broadcast payloads.
type Message struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Text      string    `json:"text"`
	Image     string    `json:"image,omitempty"`
	Video     string    `json:"video,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	IsSystem  bool      `json:"isSystem"`
}
