package repository

import (
	"context"
	"sort"
	"time"

	"github.com/gocql/gocql"

	"github.com/yourorg/chat-app/services/messenger-service/internal/metrics"
	"github.com/yourorg/chat-app/services/messenger-service/internal/models"
	"github.com/yourorg/chat-app/services/messenger-service/internal/pagination"
)

// Executor is the slice of the connection manager the repositories use.
type Executor interface {
	Execute(ctx context.Context, stmt string, values ...any) ([]map[string]any, error)
}

const (
	selectConversationsByParticipant = `SELECT conversation_id, list_of_users, created_at, last_message_at, last_message_content FROM user_conversations WHERE list_of_users CONTAINS ? ALLOW FILTERING`
	selectConversationByID           = `SELECT conversation_id, list_of_users, created_at, last_message_at, last_message_content FROM user_conversations WHERE conversation_id = ?`
	insertConversation               = `INSERT INTO user_conversations (conversation_id, list_of_users, created_at) VALUES (?, ?, ?)`
	updateConversationSummary        = `UPDATE user_conversations SET last_message_content = ?, last_message_at = ? WHERE conversation_id = ?`
)

// ConversationDirectory maps participant pairs to conversation rows and
// keeps the denormalized last-message summary current.
type ConversationDirectory struct {
	db Executor
}

func NewConversationDirectory(db Executor) *ConversationDirectory {
	return &ConversationDirectory{db: db}
}

// ResolveOrCreate finds the conversation between the two users, creating
// it when first contact happens. The lookup is a filtered scan of userA's
// conversation rows; the store has no index for "contains participant".
//
// Two concurrent first-contact calls for the same pair can both miss the
// scan and both insert, leaving duplicate conversations. That race is
// accepted; hardening it would take a conditional write against a
// canonical-pair uniqueness table.
func (d *ConversationDirectory) ResolveOrCreate(ctx context.Context, userA, userB int) (*models.Conversation, error) {
	rows, err := d.db.Execute(ctx, selectConversationsByParticipant, userA)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		conv := scanConversation(row)
		if conv.HasParticipant(userB) {
			return &conv, nil
		}
	}

	id, err := gocql.RandomUUID()
	if err != nil {
		return nil, err
	}
	lo, hi := models.NormalizePair(userA, userB)
	conv := models.Conversation{
		ID:             id,
		ParticipantIDs: []int{lo, hi},
		CreatedAt:      time.Now().UTC().Truncate(time.Millisecond),
	}
	if _, err := d.db.Execute(ctx, insertConversation, conv.ID, conv.ParticipantIDs, conv.CreatedAt); err != nil {
		return nil, err
	}
	metrics.ConversationsCreated.Inc()
	return &conv, nil
}

// GetByID returns ErrNotFound for an absent row; absence is a normal
// outcome, not a fault.
func (d *ConversationDirectory) GetByID(ctx context.Context, id gocql.UUID) (*models.Conversation, error) {
	rows, err := d.db.Execute(ctx, selectConversationByID, id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	conv := scanConversation(rows[0])
	return &conv, nil
}

// ListForUser scans every conversation row containing the user, sorts
// newest activity first and pages the result. Conversations with no
// messages yet sort last.
func (d *ConversationDirectory) ListForUser(ctx context.Context, userID, page, limit int) (pagination.Page[models.Conversation], error) {
	rows, err := d.db.Execute(ctx, selectConversationsByParticipant, userID)
	if err != nil {
		return pagination.Page[models.Conversation]{}, err
	}
	conversations := make([]models.Conversation, 0, len(rows))
	for _, row := range rows {
		conversations = append(conversations, scanConversation(row))
	}
	sort.SliceStable(conversations, func(i, j int) bool {
		return conversations[i].LastMessageAt.After(conversations[j].LastMessageAt)
	})
	return pagination.Paginate(conversations, page, limit)
}

// RecordLastMessage overwrites the summary columns. Must succeed before
// the owning send operation may report success.
func (d *ConversationDirectory) RecordLastMessage(ctx context.Context, id gocql.UUID, content string, at time.Time) error {
	_, err := d.db.Execute(ctx, updateConversationSummary, content, at, id)
	return err
}

func scanConversation(row map[string]any) models.Conversation {
	var conv models.Conversation
	if v, ok := row["conversation_id"].(gocql.UUID); ok {
		conv.ID = v
	}
	if v, ok := row["list_of_users"].([]int); ok {
		conv.ParticipantIDs = v
	}
	if v, ok := row["created_at"].(time.Time); ok {
		conv.CreatedAt = v.UTC()
	}
	if v, ok := row["last_message_at"].(time.Time); ok && !v.IsZero() {
		conv.LastMessageAt = v.UTC()
	}
	if v, ok := row["last_message_content"].(string); ok {
		conv.LastMessagePreview = v
	}
	return conv
}
