package service

import (
	"context"
	"strings"

	"concierge/internal/models"
	"concierge/internal/repository"
)

const maxMessageLength = 5000

// MessageService provides request-thread messaging business logic.
type MessageService struct {
	messageRepo repository.MessageRepository
	requestRepo repository.RequestRepository
}

// NewMessageService returns a new MessageService.
func NewMessageService(messageRepo repository.MessageRepository, requestRepo repository.RequestRepository) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		requestRepo: requestRepo,
	}
}

// Send posts a message on a request thread. The sender must be the request
// owner or an admin-tier user.
func (s *MessageService) Send(ctx context.Context, sender *models.User, requestID uint, content, messageType string) (*models.Message, *models.Request, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, nil, models.NewValidationError("Message content is required")
	}
	if len(content) > maxMessageLength {
		return nil, nil, models.NewValidationError("Message is too long")
	}
	if messageType == "" {
		messageType = "text"
	}

	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, nil, err
	}
	if !CanSendMessage(sender, req) {
		return nil, nil, models.NewForbiddenError("You do not have access to this request")
	}

	msg := &models.Message{
		RequestID:   requestID,
		SenderID:    sender.ID,
		Content:     content,
		MessageType: messageType,
	}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, nil, err
	}
	return msg, req, nil
}

// List returns the messages on a request thread, oldest first.
func (s *MessageService) List(ctx context.Context, user *models.User, requestID uint, limit, offset int) ([]models.Message, error) {
	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !CanAccessRequest(user, req) {
		return nil, models.NewForbiddenError("You do not have access to this request")
	}
	return s.messageRepo.ListByRequest(ctx, requestID, limit, offset)
}

// MarkRead flags the given messages on the thread as read. Ids from other
// threads are ignored. Returns the request and how many rows changed so the
// caller can push a read receipt to the other side.
func (s *MessageService) MarkRead(ctx context.Context, user *models.User, requestID uint, ids []uint) (*models.Request, int64, error) {
	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, 0, err
	}
	if !CanAccessRequest(user, req) {
		return nil, 0, models.NewForbiddenError("You do not have access to this request")
	}

	updated, err := s.messageRepo.MarkRead(ctx, requestID, ids)
	if err != nil {
		return nil, 0, err
	}
	return req, updated, nil
}
