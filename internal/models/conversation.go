package models

import (
	"time"

	"github.com/gocql/gocql"
)

// Conversation is one row of user_conversations. ParticipantIDs always
// holds exactly two distinct user ids, lower id first. LastMessageAt is
// the zero time until the first message lands.
type Conversation struct {
	ID                 gocql.UUID `json:"id"`
	ParticipantIDs     []int      `json:"participant_ids"`
	CreatedAt          time.Time  `json:"created_at"`
	LastMessageAt      time.Time  `json:"last_message_at"`
	LastMessagePreview string     `json:"last_message_preview,omitempty"`
}

func (c *Conversation) HasParticipant(userID int) bool {
	for _, id := range c.ParticipantIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// NormalizePair returns the canonical ordering of a participant pair.
func NormalizePair(a, b int) (int, int) {
	if b < a {
		return b, a
	}
	return a, b
}
