package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/yourorg/chat-app/services/messenger-service/internal/models"
)

type messageSentEvent struct {
	EventID        string    `json:"event_id"`
	MessageID      string    `json:"message_id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       int       `json:"sender_id"`
	RecipientID    int       `json:"recipient_id"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

// Publisher emits message.sent events after a successful append.
// Delivery is best effort; the send operation never fails on it.
type Publisher struct {
	writer *kafka.Writer
}

func NewPublisher(brokers []string, topic string) *Publisher {
	w := kafka.NewWriter(kafka.WriterConfig{Brokers: brokers, Topic: topic, Balancer: &kafka.LeastBytes{}})
	return &Publisher{writer: w}
}

func (p *Publisher) MessageSent(ctx context.Context, m *models.Message) error {
	evt := messageSentEvent{
		EventID:        uuid.NewString(),
		MessageID:      m.ID.String(),
		ConversationID: m.ConversationID.String(),
		SenderID:       m.SenderID,
		RecipientID:    m.RecipientID,
		Content:        m.Content,
		CreatedAt:      m.CreatedAt,
	}
	value, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	msg := kafka.Message{Key: []byte(evt.ConversationID), Value: value, Time: time.Now()}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *Publisher) Close() error { return p.writer.Close() }
