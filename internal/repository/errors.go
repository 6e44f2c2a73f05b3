package repository

import (
	"errors"
	"fmt"

	"github.com/yourorg/chat-app/services/messenger-service/internal/models"
)

var ErrNotFound = errors.New("not found")

// PartialWriteError reports that a message row was durably stored but
// the follow-up conversation summary update failed. The send operation
// as a whole failed, yet Message exists in the store; callers must log
// this distinctly or the summary drifts silently.
type PartialWriteError struct {
	Message models.Message
	Err     error
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("message %s stored but summary update failed: %v", e.Message.ID, e.Err)
}

func (e *PartialWriteError) Unwrap() error { return e.Err }
