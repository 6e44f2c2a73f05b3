package api

import (
	"context"
	"time"

	"github.com/gocql/gocql"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"

	"github.com/yourorg/chat-app/services/messenger-service/internal/models"
	"github.com/yourorg/chat-app/services/messenger-service/internal/pagination"
)

// MessengerService is what the transport needs from the service layer.
type MessengerService interface {
	SendMessage(ctx context.Context, senderID, recipientID int, content string) (*models.Message, error)
	GetConversation(ctx context.Context, id gocql.UUID) (*models.Conversation, error)
	ListUserConversations(ctx context.Context, userID, page, limit int) (pagination.Page[models.Conversation], error)
	ListConversationMessages(ctx context.Context, conversationID gocql.UUID, page, limit int) (pagination.Page[models.Message], error)
	ListMessagesBefore(ctx context.Context, conversationID gocql.UUID, before time.Time, page, limit int) (pagination.Page[models.Message], error)
}

type Server struct {
	svc MessengerService
	log *zap.SugaredLogger
}

func NewServer(svc MessengerService, log *zap.SugaredLogger) *fiber.App {
	app := fiber.New()
	app.Use(logger.New())

	s := &Server{svc: svc, log: log}

	api := app.Group("/api")
	api.Post("/messages", s.sendMessage)
	api.Get("/messages/conversation/:conversation_id", s.getConversationMessages)
	api.Get("/messages/conversation/:conversation_id/before", s.getMessagesBefore)
	api.Get("/conversations/user/:user_id", s.getUserConversations)
	api.Get("/conversations/:conversation_id", s.getConversation)

	return app
}
