package models

import (
	"time"

	"github.com/gocql/gocql"
)

// Message is one row of messages_by_conversation. Immutable once written.
type Message struct {
	ID             gocql.UUID `json:"id"`
	ConversationID gocql.UUID `json:"conversation_id"`
	SenderID       int        `json:"sender_id"`
	RecipientID    int        `json:"recipient_id"`
	Content        string     `json:"content"`
	CreatedAt      time.Time  `json:"created_at"`
}
