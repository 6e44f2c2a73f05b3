package repository

import (
	"context"
	"time"

	"github.com/gocql/gocql"

	"github.com/yourorg/chat-app/services/messenger-service/internal/models"
	"github.com/yourorg/chat-app/services/messenger-service/internal/pagination"
)

const (
	insertMessage        = `INSERT INTO messages_by_conversation (conversation_id, message_timestamp, message_id, sender_id, recipient_id, content) VALUES (?, ?, ?, ?, ?, ?)`
	selectMessages       = `SELECT conversation_id, message_timestamp, message_id, sender_id, recipient_id, content FROM messages_by_conversation WHERE conversation_id = ?`
	selectMessagesBefore = `SELECT conversation_id, message_timestamp, message_id, sender_id, recipient_id, content FROM messages_by_conversation WHERE conversation_id = ? AND message_timestamp < ?`
)

// SummaryRecorder is the slice of the conversation directory the message
// store drives after each append.
type SummaryRecorder interface {
	RecordLastMessage(ctx context.Context, id gocql.UUID, content string, at time.Time) error
}

// MessageStore is the append-only log of messages, partitioned by
// conversation and clustered newest-first.
type MessageStore struct {
	db      Executor
	summary SummaryRecorder
}

func NewMessageStore(db Executor, summary SummaryRecorder) *MessageStore {
	return &MessageStore{db: db, summary: summary}
}

// Append writes the message row, then pushes the summary to the
// conversation directory. Timestamp and id come from the writer's clock
// at call time; the id breaks ties between equal timestamps.
//
// When the summary update fails after the row committed, the message is
// durable but the conversation summary is stale. That is surfaced as a
// PartialWriteError carrying the stored message, never as success.
func (s *MessageStore) Append(ctx context.Context, conversationID gocql.UUID, senderID, recipientID int, content string) (*models.Message, error) {
	msg := models.Message{
		ID:             gocql.TimeUUID(),
		ConversationID: conversationID,
		SenderID:       senderID,
		RecipientID:    recipientID,
		Content:        content,
		// store timestamps have millisecond precision
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	_, err := s.db.Execute(ctx, insertMessage,
		msg.ConversationID, msg.CreatedAt, msg.ID, msg.SenderID, msg.RecipientID, msg.Content)
	if err != nil {
		return nil, err
	}
	if err := s.summary.RecordLastMessage(ctx, conversationID, msg.Content, msg.CreatedAt); err != nil {
		return nil, &PartialWriteError{Message: msg, Err: err}
	}
	return &msg, nil
}

// ListForConversation reads the whole partition, newest first per the
// clustering order, and pages it in memory.
func (s *MessageStore) ListForConversation(ctx context.Context, conversationID gocql.UUID, page, limit int) (pagination.Page[models.Message], error) {
	rows, err := s.db.Execute(ctx, selectMessages, conversationID)
	if err != nil {
		return pagination.Page[models.Message]{}, err
	}
	return pagination.Paginate(scanMessages(rows), page, limit)
}

// ListBefore narrows the partition read server-side to rows older than
// the cursor, so backward scrolling never re-reads seen rows.
func (s *MessageStore) ListBefore(ctx context.Context, conversationID gocql.UUID, before time.Time, page, limit int) (pagination.Page[models.Message], error) {
	rows, err := s.db.Execute(ctx, selectMessagesBefore, conversationID, before)
	if err != nil {
		return pagination.Page[models.Message]{}, err
	}
	return pagination.Paginate(scanMessages(rows), page, limit)
}

func scanMessages(rows []map[string]any) []models.Message {
	messages := make([]models.Message, 0, len(rows))
	for _, row := range rows {
		var msg models.Message
		if v, ok := row["message_id"].(gocql.UUID); ok {
			msg.ID = v
		}
		if v, ok := row["conversation_id"].(gocql.UUID); ok {
			msg.ConversationID = v
		}
		if v, ok := row["sender_id"].(int); ok {
			msg.SenderID = v
		}
		if v, ok := row["recipient_id"].(int); ok {
			msg.RecipientID = v
		}
		if v, ok := row["content"].(string); ok {
			msg.Content = v
		}
		if v, ok := row["message_timestamp"].(time.Time); ok {
			msg.CreatedAt = v.UTC()
		}
		messages = append(messages, msg)
	}
	return messages
}
