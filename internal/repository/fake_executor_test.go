package repository

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/gocql/gocql"

	"github.com/yourorg/chat-app/services/messenger-service/internal/models"
)

type execCall struct {
	stmt   string
	values []any
}

// scriptedExecutor replays canned responses in call order.
type scriptedExecutor struct {
	calls     []execCall
	responses [][]map[string]any
	errs      []error
}

func (f *scriptedExecutor) Execute(_ context.Context, stmt string, values ...any) ([]map[string]any, error) {
	i := len(f.calls)
	f.calls = append(f.calls, execCall{stmt: stmt, values: values})
	var rows []map[string]any
	if i < len(f.responses) {
		rows = f.responses[i]
	}
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	return rows, err
}

// memExecutor emulates the two tables well enough to run both
// repositories against shared state, including the clustering order of
// the message partition.
type memExecutor struct {
	convs map[gocql.UUID]*models.Conversation
	msgs  []models.Message
}

func newMemExecutor() *memExecutor {
	return &memExecutor{convs: make(map[gocql.UUID]*models.Conversation)}
}

func (m *memExecutor) Execute(_ context.Context, stmt string, values ...any) ([]map[string]any, error) {
	switch stmt {
	case selectConversationsByParticipant:
		user := values[0].(int)
		var rows []map[string]any
		for _, c := range m.convs {
			if c.HasParticipant(user) {
				rows = append(rows, conversationRow(c))
			}
		}
		return rows, nil
	case selectConversationByID:
		if c, ok := m.convs[values[0].(gocql.UUID)]; ok {
			return []map[string]any{conversationRow(c)}, nil
		}
		return nil, nil
	case insertConversation:
		id := values[0].(gocql.UUID)
		m.convs[id] = &models.Conversation{
			ID:             id,
			ParticipantIDs: values[1].([]int),
			CreatedAt:      values[2].(time.Time),
		}
		return nil, nil
	case updateConversationSummary:
		id := values[2].(gocql.UUID)
		c, ok := m.convs[id]
		if !ok {
			return nil, fmt.Errorf("no conversation row %s", id)
		}
		c.LastMessagePreview = values[0].(string)
		c.LastMessageAt = values[1].(time.Time)
		return nil, nil
	case insertMessage:
		m.msgs = append(m.msgs, models.Message{
			ConversationID: values[0].(gocql.UUID),
			CreatedAt:      values[1].(time.Time),
			ID:             values[2].(gocql.UUID),
			SenderID:       values[3].(int),
			RecipientID:    values[4].(int),
			Content:        values[5].(string),
		})
		return nil, nil
	case selectMessages, selectMessagesBefore:
		convID := values[0].(gocql.UUID)
		var before time.Time
		if stmt == selectMessagesBefore {
			before = values[1].(time.Time)
		}
		var matched []models.Message
		for _, msg := range m.msgs {
			if msg.ConversationID != convID {
				continue
			}
			if stmt == selectMessagesBefore && !msg.CreatedAt.Before(before) {
				continue
			}
			matched = append(matched, msg)
		}
		sort.SliceStable(matched, func(i, j int) bool {
			if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
				return matched[i].CreatedAt.After(matched[j].CreatedAt)
			}
			return matched[i].ID.Timestamp() < matched[j].ID.Timestamp()
		})
		rows := make([]map[string]any, 0, len(matched))
		for i := range matched {
			rows = append(rows, messageRow(&matched[i]))
		}
		return rows, nil
	}
	return nil, fmt.Errorf("unexpected statement: %s", stmt)
}

func conversationRow(c *models.Conversation) map[string]any {
	return map[string]any{
		"conversation_id":      c.ID,
		"list_of_users":        c.ParticipantIDs,
		"created_at":           c.CreatedAt,
		"last_message_at":      c.LastMessageAt,
		"last_message_content": c.LastMessagePreview,
	}
}

func messageRow(m *models.Message) map[string]any {
	return map[string]any{
		"conversation_id":   m.ConversationID,
		"message_timestamp": m.CreatedAt,
		"message_id":        m.ID,
		"sender_id":         m.SenderID,
		"recipient_id":      m.RecipientID,
		"content":           m.Content,
	}
}
