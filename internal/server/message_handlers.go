package server

import (
	"context"

	"concierge/internal/models"

	"github.com/gofiber/fiber/v2"
)

// SendMessageInput is the request body for posting a message on a thread.
type SendMessageInput struct {
	Content     string `json:"content"`
	MessageType string `json:"message_type"`
}

// MarkMessagesReadInput is the request body for flagging messages as read.
type MarkMessagesReadInput struct {
	MessageIDs []uint `json:"message_ids"`
}

// SendMessage handles POST /api/requests/:id/messages
func (s *Server) SendMessage(c *fiber.Ctx) error {
	ctx := c.Context()

	requestID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var input SendMessageInput
	if err := c.BodyParser(&input); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	sender, err := s.currentUser(c)
	if err != nil {
		return respondServiceError(c, err)
	}

	msg, req, err := s.messageService.Send(ctx, sender, requestID, input.Content, input.MessageType)
	if err != nil {
		return respondServiceError(c, err)
	}

	// Fan-out after the message row is committed. Recipient selection depends
	// on which side of the thread the sender is on.
	rows := s.notificationService.MessageSent(ctx, req, sender, msg)
	s.publishNotificationEvents(rows, map[string]interface{}{
		"message_id": msg.ID,
		"title":      req.Title,
		"sender":     userSummary(*sender),
	})

	// Thread participants who did not get a notification row (the sender, and
	// the owner or admins depending on who sent) still see the message live.
	notified := make(map[uint]struct{}, len(rows))
	for _, n := range rows {
		notified[n.RecipientUserID] = struct{}{}
	}
	payload := map[string]interface{}{
		"request_id": req.ID,
		"message_id": msg.ID,
		"title":      req.Title,
		"sender":     userSummary(*sender),
	}
	for _, uid := range s.messageEventAudience(ctx, req, sender) {
		if _, ok := notified[uid]; ok {
			continue
		}
		s.publishUserEvent(uid, EventNewMessage, payload)
	}

	return c.Status(fiber.StatusCreated).JSON(msg)
}

// messageEventAudience is the deduplicated set of live-event recipients for a
// message on the thread: the owner, the sender, and every active admin.
func (s *Server) messageEventAudience(ctx context.Context, req *models.Request, sender *models.User) []uint {
	seen := map[uint]struct{}{
		req.OwnerUserID: {},
		sender.ID:       {},
	}
	audience := []uint{req.OwnerUserID}
	if sender.ID != req.OwnerUserID {
		audience = append(audience, sender.ID)
	}

	admins, err := s.userRepo.ListAdmins(ctx)
	if err != nil {
		return audience
	}
	for _, admin := range admins {
		if _, ok := seen[admin.ID]; ok {
			continue
		}
		audience = append(audience, admin.ID)
	}
	return audience
}

// GetMessages handles GET /api/requests/:id/messages
func (s *Server) GetMessages(c *fiber.Ctx) error {
	ctx := c.Context()

	requestID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.currentUser(c)
	if err != nil {
		return respondServiceError(c, err)
	}

	p := parsePagination(c, 50)
	messages, err := s.messageService.List(ctx, user, requestID, p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(messages)
}

// MarkMessagesRead handles PATCH /api/requests/:id/messages/read
func (s *Server) MarkMessagesRead(c *fiber.Ctx) error {
	ctx := c.Context()

	requestID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var input MarkMessagesReadInput
	if err := c.BodyParser(&input); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	reader, err := s.currentUser(c)
	if err != nil {
		return respondServiceError(c, err)
	}

	req, updated, err := s.messageService.MarkRead(ctx, reader, requestID, input.MessageIDs)
	if err != nil {
		return respondServiceError(c, err)
	}

	if updated > 0 {
		s.publishReadReceipt(ctx, req, reader)
	}

	return c.JSON(fiber.Map{"updated": updated})
}

// publishReadReceipt pushes a message_read event to the other side of the
// thread: the owner when an admin read, every active admin otherwise.
func (s *Server) publishReadReceipt(ctx context.Context, req *models.Request, reader *models.User) {
	payload := map[string]interface{}{
		"request_id": req.ID,
		"reader":     userSummary(*reader),
	}

	if reader.Role.IsAdminTier() {
		if req.OwnerUserID != reader.ID {
			s.publishUserEvent(req.OwnerUserID, EventMessageRead, payload)
		}
		return
	}

	admins, err := s.userRepo.ListAdmins(ctx)
	if err != nil {
		return
	}
	for _, admin := range admins {
		s.publishUserEvent(admin.ID, EventMessageRead, payload)
	}
}
