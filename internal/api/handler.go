package api

import (
	"errors"
	"time"

	"github.com/gocql/gocql"
	"github.com/gofiber/fiber/v2"

	"github.com/yourorg/chat-app/services/messenger-service/internal/cassandra"
	"github.com/yourorg/chat-app/services/messenger-service/internal/pagination"
	"github.com/yourorg/chat-app/services/messenger-service/internal/repository"
)

type sendMessageReq struct {
	SenderID   int    `json:"sender_id"`
	ReceiverID int    `json:"receiver_id"`
	Content    string `json:"content"`
}

func (s *Server) sendMessage(c *fiber.Ctx) error {
	var req sendMessageReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	msg, err := s.svc.SendMessage(c.Context(), req.SenderID, req.ReceiverID, req.Content)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}

func (s *Server) getConversationMessages(c *fiber.Ctx) error {
	conversationID, err := gocql.ParseUUID(c.Params("conversation_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid conversation id"})
	}
	page, limit := pageParams(c)
	result, err := s.svc.ListConversationMessages(c.Context(), conversationID, page, limit)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(result)
}

func (s *Server) getMessagesBefore(c *fiber.Ctx) error {
	conversationID, err := gocql.ParseUUID(c.Params("conversation_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid conversation id"})
	}
	before, err := time.Parse(time.RFC3339, c.Query("before_timestamp"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid before_timestamp"})
	}
	page, limit := pageParams(c)
	result, err := s.svc.ListMessagesBefore(c.Context(), conversationID, before, page, limit)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(result)
}

func (s *Server) getUserConversations(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("user_id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid user id"})
	}
	page, limit := pageParams(c)
	result, err := s.svc.ListUserConversations(c.Context(), userID, page, limit)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(result)
}

func (s *Server) getConversation(c *fiber.Ctx) error {
	conversationID, err := gocql.ParseUUID(c.Params("conversation_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid conversation id"})
	}
	conv, err := s.svc.GetConversation(c.Context(), conversationID)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(conv)
}

func pageParams(c *fiber.Ctx) (int, int) {
	return c.QueryInt("page", 1), c.QueryInt("limit", 20)
}

// respondError translates the storage taxonomy into transport codes.
// Partial writes get their own code so drift is visible to callers.
func (s *Server) respondError(c *fiber.Ctx, err error) error {
	var partial *repository.PartialWriteError
	switch {
	case errors.Is(err, pagination.ErrInvalidPageRequest):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	case errors.As(err, &partial):
		s.log.Errorw("partial write surfaced", "message_id", partial.Message.ID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "message stored but conversation summary update failed",
			"code":  "partial_write",
		})
	case errors.Is(err, cassandra.ErrConnection):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "store unavailable"})
	default:
		s.log.Errorw("request failed", "path", c.Path(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}
}
