// Package service composes the storage components into the messenger
// operations the transport layer calls.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/gocql/gocql"
	"go.uber.org/zap"

	"github.com/yourorg/chat-app/services/messenger-service/internal/metrics"
	"github.com/yourorg/chat-app/services/messenger-service/internal/models"
	"github.com/yourorg/chat-app/services/messenger-service/internal/pagination"
	"github.com/yourorg/chat-app/services/messenger-service/internal/repository"
)

type ConversationDirectory interface {
	ResolveOrCreate(ctx context.Context, userA, userB int) (*models.Conversation, error)
	GetByID(ctx context.Context, id gocql.UUID) (*models.Conversation, error)
	ListForUser(ctx context.Context, userID, page, limit int) (pagination.Page[models.Conversation], error)
}

type MessageStore interface {
	Append(ctx context.Context, conversationID gocql.UUID, senderID, recipientID int, content string) (*models.Message, error)
	ListForConversation(ctx context.Context, conversationID gocql.UUID, page, limit int) (pagination.Page[models.Message], error)
	ListBefore(ctx context.Context, conversationID gocql.UUID, before time.Time, page, limit int) (pagination.Page[models.Message], error)
}

type ConversationCache interface {
	Get(ctx context.Context, id gocql.UUID) (*models.Conversation, bool)
	Set(ctx context.Context, conv *models.Conversation) error
	Invalidate(ctx context.Context, id gocql.UUID) error
}

type EventPublisher interface {
	MessageSent(ctx context.Context, m *models.Message) error
}

type Messenger struct {
	directory ConversationDirectory
	messages  MessageStore
	cache     ConversationCache
	events    EventPublisher
	log       *zap.SugaredLogger
}

// NewMessenger wires the storage components. cache and events may be nil
// when the process runs without redis or kafka.
func NewMessenger(directory ConversationDirectory, messages MessageStore, cache ConversationCache, events EventPublisher, log *zap.SugaredLogger) *Messenger {
	return &Messenger{directory: directory, messages: messages, cache: cache, events: events, log: log}
}

// SendMessage resolves the pair's conversation, appends the message and
// fans out the side effects. The append itself drives the summary
// update; a failure there leaves the message stored but the summary
// stale and fails the send with the distinct partial-write error.
func (m *Messenger) SendMessage(ctx context.Context, senderID, recipientID int, content string) (*models.Message, error) {
	conv, err := m.directory.ResolveOrCreate(ctx, senderID, recipientID)
	if err != nil {
		return nil, err
	}

	msg, err := m.messages.Append(ctx, conv.ID, senderID, recipientID, content)
	if err != nil {
		var partial *repository.PartialWriteError
		if errors.As(err, &partial) {
			metrics.PartialWrites.Inc()
			m.log.Errorw("partial write: message stored, summary stale",
				"conversation_id", conv.ID, "message_id", partial.Message.ID, "error", err)
		}
		m.invalidate(ctx, conv.ID)
		return nil, err
	}

	m.invalidate(ctx, conv.ID)
	if m.events != nil {
		if err := m.events.MessageSent(ctx, msg); err != nil {
			m.log.Warnw("message.sent publish failed", "message_id", msg.ID, "error", err)
		}
	}
	metrics.MessagesSent.Inc()
	return msg, nil
}

func (m *Messenger) GetConversation(ctx context.Context, id gocql.UUID) (*models.Conversation, error) {
	if m.cache != nil {
		if conv, ok := m.cache.Get(ctx, id); ok {
			return conv, nil
		}
	}
	conv, err := m.directory.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.cache != nil {
		if err := m.cache.Set(ctx, conv); err != nil {
			m.log.Debugw("conversation cache set failed", "conversation_id", id, "error", err)
		}
	}
	return conv, nil
}

func (m *Messenger) ListUserConversations(ctx context.Context, userID, page, limit int) (pagination.Page[models.Conversation], error) {
	return m.directory.ListForUser(ctx, userID, page, limit)
}

func (m *Messenger) ListConversationMessages(ctx context.Context, conversationID gocql.UUID, page, limit int) (pagination.Page[models.Message], error) {
	return m.messages.ListForConversation(ctx, conversationID, page, limit)
}

func (m *Messenger) ListMessagesBefore(ctx context.Context, conversationID gocql.UUID, before time.Time, page, limit int) (pagination.Page[models.Message], error) {
	return m.messages.ListBefore(ctx, conversationID, before, page, limit)
}

func (m *Messenger) invalidate(ctx context.Context, id gocql.UUID) {
	if m.cache == nil {
		return
	}
	if err := m.cache.Invalidate(ctx, id); err != nil {
		m.log.Debugw("conversation cache invalidate failed", "conversation_id", id, "error", err)
	}
}
