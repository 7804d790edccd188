package service

import (
	"context"
	"fmt"
	"sync"

	"concierge/internal/middleware"
	"concierge/internal/models"
	"concierge/internal/observability"
	"concierge/internal/repository"
)

// NotificationService creates notification rows and fans them out to the
// right recipients when requests and messages change. Persistence always
// happens before any real-time push; a failed row for one recipient never
// blocks the rows for the others.
type NotificationService struct {
	notificationRepo repository.NotificationRepository
	userRepo         repository.UserRepository
}

// NewNotificationService returns a new NotificationService.
func NewNotificationService(notificationRepo repository.NotificationRepository, userRepo repository.UserRepository) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
	}
}

// ListForUser returns the user's notifications, newest first.
func (s *NotificationService) ListForUser(ctx context.Context, userID uint, limit, offset int) ([]models.Notification, error) {
	return s.notificationRepo.ListByRecipient(ctx, userID, limit, offset)
}

// MarkRead flags one of the user's notifications as read. Marking a
// notification that belongs to someone else, or that does not exist, is a
// silent no-op.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uint) error {
	_, err := s.notificationRepo.MarkRead(ctx, userID, notificationID)
	return err
}

// UnreadCount returns the number of unread notifications for the user.
func (s *NotificationService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	return s.notificationRepo.CountUnread(ctx, userID)
}

// RequestCreated notifies every active admin-tier user about a new request.
// Returns the rows that were persisted so the caller can push them over
// websockets.
func (s *NotificationService) RequestCreated(ctx context.Context, req *models.Request) []models.Notification {
	admins, err := s.userRepo.ListAdmins(ctx)
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "fanout: listing admins failed", "error", err, "request_id", req.ID)
		observability.RecordFanout(string(models.NotificationTypeNewRequest), "error")
		return nil
	}

	content := fmt.Sprintf("New request: %s", req.Title)
	if req.Owner != nil {
		content = fmt.Sprintf("New request from %s: %s", req.Owner.Username, req.Title)
	}
	return s.createForRecipients(ctx, adminIDs(admins), req.ID, models.NotificationTypeNewRequest, content)
}

// MessageSent notifies the other side of a request thread about a new
// message. A customer message goes to every active admin; an admin message
// goes to the request owner, unless the owner is the sender.
func (s *NotificationService) MessageSent(ctx context.Context, req *models.Request, sender *models.User, msg *models.Message) []models.Notification {
	if sender.Role.IsAdminTier() {
		if req.OwnerUserID == sender.ID {
			return nil
		}
		content := fmt.Sprintf("Reply on your request: %s", req.Title)
		return s.createForRecipients(ctx, []uint{req.OwnerUserID}, req.ID, models.NotificationTypeAdminReply, content)
	}

	admins, err := s.userRepo.ListAdmins(ctx)
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "fanout: listing admins failed", "error", err, "request_id", req.ID)
		observability.RecordFanout(string(models.NotificationTypeNewMessage), "error")
		return nil
	}
	content := fmt.Sprintf("New message on request: %s", req.Title)
	return s.createForRecipients(ctx, adminIDs(admins), req.ID, models.NotificationTypeNewMessage, content)
}

// StatusUpdated notifies the request owner that the request status changed.
// Exactly one notification per status change, regardless of how many admins
// exist.
func (s *NotificationService) StatusUpdated(ctx context.Context, req *models.Request, status models.RequestStatus) []models.Notification {
	content := fmt.Sprintf("Your request %q is now %s", req.Title, status)
	return s.createForRecipients(ctx, []uint{req.OwnerUserID}, req.ID, models.NotificationTypeStatusUpdate, content)
}

// createForRecipients persists one notification per recipient concurrently.
// Individual failures are logged and skipped so one bad write does not
// starve the remaining recipients.
func (s *NotificationService) createForRecipients(ctx context.Context, recipients []uint, requestID uint, nType models.NotificationType, content string) []models.Notification {
	if len(recipients) == 0 {
		return nil
	}

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		created = make([]models.Notification, 0, len(recipients))
	)
	for _, recipientID := range recipients {
		wg.Add(1)
		go func(recipientID uint) {
			defer wg.Done()
			n := &models.Notification{
				RecipientUserID: recipientID,
				RequestID:       &requestID,
				Type:            nType,
				Content:         content,
			}
			if err := s.notificationRepo.Create(ctx, n); err != nil {
				middleware.Logger.ErrorContext(ctx, "fanout: creating notification failed",
					"error", err, "recipient_id", recipientID, "type", nType)
				observability.RecordFanout(string(nType), "error")
				return
			}
			observability.RecordFanout(string(nType), "ok")
			mu.Lock()
			created = append(created, *n)
			mu.Unlock()
		}(recipientID)
	}
	wg.Wait()

	return created
}

func adminIDs(admins []models.User) []uint {
	ids := make([]uint, 0, len(admins))
	for _, admin := range admins {
		ids = append(ids, admin.ID)
	}
	return ids
}
