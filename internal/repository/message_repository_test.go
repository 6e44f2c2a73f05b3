package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/chat-app/services/messenger-service/internal/models"
	"github.com/yourorg/chat-app/services/messenger-service/internal/pagination"
)

type fakeRecorder struct {
	calls []struct {
		id      gocql.UUID
		content string
		at      time.Time
	}
	err error
}

func (f *fakeRecorder) RecordLastMessage(_ context.Context, id gocql.UUID, content string, at time.Time) error {
	f.calls = append(f.calls, struct {
		id      gocql.UUID
		content string
		at      time.Time
	}{id, content, at})
	return f.err
}

func TestAppendWritesRowThenSummary(t *testing.T) {
	db := &scriptedExecutor{}
	rec := &fakeRecorder{}
	s := NewMessageStore(db, rec)
	convID := mustUUID(t)

	msg, err := s.Append(context.Background(), convID, 1, 2, "hi")
	require.NoError(t, err)
	assert.Equal(t, convID, msg.ConversationID)
	assert.Equal(t, 1, msg.SenderID)
	assert.Equal(t, 2, msg.RecipientID)
	assert.Equal(t, "hi", msg.Content)
	// writer-assigned clock, millisecond precision
	assert.True(t, msg.CreatedAt.Equal(msg.CreatedAt.Truncate(time.Millisecond)))
	assert.WithinDuration(t, time.Now().UTC(), msg.CreatedAt, time.Second)

	require.Len(t, db.calls, 1)
	assert.Equal(t, insertMessage, db.calls[0].stmt)
	assert.Equal(t, []any{convID, msg.CreatedAt, msg.ID, 1, 2, "hi"}, db.calls[0].values)

	require.Len(t, rec.calls, 1)
	assert.Equal(t, convID, rec.calls[0].id)
	assert.Equal(t, "hi", rec.calls[0].content)
	assert.True(t, rec.calls[0].at.Equal(msg.CreatedAt))
}

func TestAppendInsertFailureSkipsSummary(t *testing.T) {
	insertErr := errors.New("write rejected")
	db := &scriptedExecutor{errs: []error{insertErr}}
	rec := &fakeRecorder{}
	s := NewMessageStore(db, rec)

	_, err := s.Append(context.Background(), mustUUID(t), 1, 2, "hi")
	assert.ErrorIs(t, err, insertErr)
	assert.Empty(t, rec.calls)
}

func TestAppendSummaryFailureIsPartialWrite(t *testing.T) {
	summaryErr := errors.New("summary update rejected")
	db := &scriptedExecutor{}
	rec := &fakeRecorder{err: summaryErr}
	s := NewMessageStore(db, rec)

	_, err := s.Append(context.Background(), mustUUID(t), 1, 2, "hi")
	require.Error(t, err)

	var partial *PartialWriteError
	require.ErrorAs(t, err, &partial)
	// the stored message rides along so callers can report exactly what persisted
	assert.Equal(t, "hi", partial.Message.Content)
	assert.NotZero(t, partial.Message.ID)
	assert.ErrorIs(t, err, summaryErr)
	// the message row was written before the summary was attempted
	require.Len(t, db.calls, 1)
	assert.Equal(t, insertMessage, db.calls[0].stmt)
}

func TestListForConversationPages(t *testing.T) {
	convID := mustUUID(t)
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	rows := make([]map[string]any, 0, 3)
	for i := 0; i < 3; i++ {
		rows = append(rows, messageRow(&models.Message{
			ID:             gocql.TimeUUID(),
			ConversationID: convID,
			SenderID:       1,
			RecipientID:    2,
			Content:        "msg",
			CreatedAt:      base.Add(-time.Duration(i) * time.Minute),
		}))
	}
	db := &scriptedExecutor{responses: [][]map[string]any{rows}}
	s := NewMessageStore(db, &fakeRecorder{})

	page, err := s.ListForConversation(context.Background(), convID, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	require.Len(t, page.Data, 2)
	// store order is preserved as-is
	assert.Equal(t, base, page.Data[0].CreatedAt)
	assert.Equal(t, base.Add(-time.Minute), page.Data[1].CreatedAt)
}

func TestListForConversationRejectsInvalidPage(t *testing.T) {
	s := NewMessageStore(&scriptedExecutor{}, &fakeRecorder{})

	_, err := s.ListForConversation(context.Background(), mustUUID(t), 0, 10)
	assert.ErrorIs(t, err, pagination.ErrInvalidPageRequest)
}

func TestListBeforeNarrowsServerSide(t *testing.T) {
	convID := mustUUID(t)
	before := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	db := &scriptedExecutor{}
	s := NewMessageStore(db, &fakeRecorder{})

	_, err := s.ListBefore(context.Background(), convID, before, 1, 20)
	require.NoError(t, err)
	require.Len(t, db.calls, 1)
	assert.Equal(t, selectMessagesBefore, db.calls[0].stmt)
	assert.Equal(t, []any{convID, before}, db.calls[0].values)
}

func TestListBeforeExcludesCursorTimestamp(t *testing.T) {
	db := newMemExecutor()
	directory := NewConversationDirectory(db)
	s := NewMessageStore(db, directory)
	ctx := context.Background()

	conv, err := directory.ResolveOrCreate(ctx, 1, 2)
	require.NoError(t, err)

	var cursor time.Time
	for i := 0; i < 3; i++ {
		msg, err := s.Append(ctx, conv.ID, 1, 2, "msg")
		require.NoError(t, err)
		if i == 1 {
			cursor = msg.CreatedAt
		}
		time.Sleep(2 * time.Millisecond)
	}

	page, err := s.ListBefore(ctx, conv.ID, cursor, 1, 20)
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	for _, m := range page.Data {
		assert.True(t, m.CreatedAt.Before(cursor))
	}
}

func TestSendAndReplyScenario(t *testing.T) {
	db := newMemExecutor()
	directory := NewConversationDirectory(db)
	s := NewMessageStore(db, directory)
	ctx := context.Background()

	// user 1 opens the conversation
	conv, err := directory.ResolveOrCreate(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, conv.ParticipantIDs)
	first, err := s.Append(ctx, conv.ID, 1, 2, "hi")
	require.NoError(t, err)

	time.Sleep(2 * time.Millisecond)

	// user 2 replies into the same conversation
	again, err := directory.ResolveOrCreate(ctx, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, conv.ID, again.ID)
	second, err := s.Append(ctx, again.ID, 2, 1, "hello back")
	require.NoError(t, err)

	// summary reflects the latest append
	got, err := directory.GetByID(ctx, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello back", got.LastMessagePreview)
	assert.True(t, got.LastMessageAt.Equal(second.CreatedAt))

	// newest first, content intact
	page, err := s.ListForConversation(ctx, conv.ID, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	require.Len(t, page.Data, 2)
	assert.Equal(t, "hello back", page.Data[0].Content)
	assert.Equal(t, "hi", page.Data[1].Content)
	assert.Equal(t, first.ID, page.Data[1].ID)

	// and the listing for either user leads with this conversation
	for _, user := range []int{1, 2} {
		listing, err := directory.ListForUser(ctx, user, 1, 10)
		require.NoError(t, err)
		require.Equal(t, 1, listing.Total)
		assert.Equal(t, conv.ID, listing.Data[0].ID)
	}
}
