package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"concierge/internal/models"
)

type notificationRepoStub struct {
	mu              sync.Mutex
	created         []models.Notification
	createFn        func(context.Context, *models.Notification) error
	listByRecipient func(context.Context, uint, int, int) ([]models.Notification, error)
	markReadFn      func(context.Context, uint, uint) (int64, error)
	countUnreadFn   func(context.Context, uint) (int64, error)
}

func (s *notificationRepoStub) Create(ctx context.Context, n *models.Notification) error {
	if s.createFn != nil {
		if err := s.createFn(ctx, n); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	n.ID = uint(len(s.created) + 1)
	s.created = append(s.created, *n)
	return nil
}

func (s *notificationRepoStub) ListByRecipient(ctx context.Context, recipientID uint, limit, offset int) ([]models.Notification, error) {
	if s.listByRecipient != nil {
		return s.listByRecipient(ctx, recipientID, limit, offset)
	}
	return nil, nil
}

func (s *notificationRepoStub) MarkRead(ctx context.Context, recipientID, id uint) (int64, error) {
	if s.markReadFn != nil {
		return s.markReadFn(ctx, recipientID, id)
	}
	return 0, nil
}

func (s *notificationRepoStub) CountUnread(ctx context.Context, recipientID uint) (int64, error) {
	if s.countUnreadFn != nil {
		return s.countUnreadFn(ctx, recipientID)
	}
	return 0, nil
}

type userRepoStub struct {
	getByIDFn    func(context.Context, uint) (*models.User, error)
	getByEmailFn func(context.Context, string) (*models.User, error)
	listAdminsFn func(context.Context) ([]models.User, error)
	createFn     func(context.Context, *models.User) error
	listFn       func(context.Context, int, int) ([]models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id)
	}
	return &models.User{ID: id}, nil
}

func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.getByEmailFn != nil {
		return s.getByEmailFn(ctx, email)
	}
	return nil, nil
}

func (s *userRepoStub) ListAdmins(ctx context.Context) ([]models.User, error) {
	if s.listAdminsFn != nil {
		return s.listAdminsFn(ctx)
	}
	return nil, nil
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	if s.createFn != nil {
		return s.createFn(ctx, user)
	}
	return nil
}

func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	if s.listFn != nil {
		return s.listFn(ctx, limit, offset)
	}
	return nil, nil
}

func adminUsers(ids ...uint) []models.User {
	users := make([]models.User, 0, len(ids))
	for _, id := range ids {
		users = append(users, models.User{ID: id, Role: models.RoleAdmin, Status: models.UserStatusActive})
	}
	return users
}

func TestRequestCreatedNotifiesEachAdmin(t *testing.T) {
	notifRepo := &notificationRepoStub{}
	userRepo := &userRepoStub{
		listAdminsFn: func(context.Context) ([]models.User, error) {
			return adminUsers(2, 3, 4), nil
		},
	}

	svc := NewNotificationService(notifRepo, userRepo)
	req := &models.Request{ID: 7, OwnerUserID: 1, Title: "Broken zipper"}

	rows := svc.RequestCreated(context.Background(), req)
	if len(rows) != 3 {
		t.Fatalf("expected 3 notifications, got %d", len(rows))
	}

	recipients := make(map[uint]bool)
	for _, n := range rows {
		if n.Type != models.NotificationTypeNewRequest {
			t.Fatalf("expected new_request type, got %s", n.Type)
		}
		if n.RequestID == nil || *n.RequestID != req.ID {
			t.Fatalf("expected request ID %d on notification", req.ID)
		}
		recipients[n.RecipientUserID] = true
	}
	for _, id := range []uint{2, 3, 4} {
		if !recipients[id] {
			t.Fatalf("admin %d did not receive a notification", id)
		}
	}
}

func TestRequestCreatedPartialFailureKeepsOtherRecipients(t *testing.T) {
	notifRepo := &notificationRepoStub{
		createFn: func(_ context.Context, n *models.Notification) error {
			if n.RecipientUserID == 3 {
				return models.NewInternalError(errors.New("insert failed"))
			}
			return nil
		},
	}
	userRepo := &userRepoStub{
		listAdminsFn: func(context.Context) ([]models.User, error) {
			return adminUsers(2, 3, 4), nil
		},
	}

	svc := NewNotificationService(notifRepo, userRepo)
	rows := svc.RequestCreated(context.Background(), &models.Request{ID: 1, Title: "x"})

	if len(rows) != 2 {
		t.Fatalf("expected 2 surviving notifications, got %d", len(rows))
	}
	for _, n := range rows {
		if n.RecipientUserID == 3 {
			t.Fatal("failed recipient should not appear in results")
		}
	}
}

func TestMessageSentFromCustomerNotifiesAdmins(t *testing.T) {
	notifRepo := &notificationRepoStub{}
	userRepo := &userRepoStub{
		listAdminsFn: func(context.Context) ([]models.User, error) {
			return adminUsers(10, 11), nil
		},
	}

	svc := NewNotificationService(notifRepo, userRepo)
	req := &models.Request{ID: 5, OwnerUserID: 1, Title: "Late delivery"}
	sender := &models.User{ID: 1, Role: models.RoleUser}

	rows := svc.MessageSent(context.Background(), req, sender, &models.Message{ID: 9})
	if len(rows) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(rows))
	}
	for _, n := range rows {
		if n.Type != models.NotificationTypeNewMessage {
			t.Fatalf("expected new_message type, got %s", n.Type)
		}
	}
}

func TestMessageSentFromAdminNotifiesOwner(t *testing.T) {
	notifRepo := &notificationRepoStub{}
	userRepo := &userRepoStub{
		listAdminsFn: func(context.Context) ([]models.User, error) {
			t.Fatal("admin reply should not list admins")
			return nil, nil
		},
	}

	svc := NewNotificationService(notifRepo, userRepo)
	req := &models.Request{ID: 5, OwnerUserID: 1, Title: "Late delivery"}
	sender := &models.User{ID: 10, Role: models.RoleAdmin}

	rows := svc.MessageSent(context.Background(), req, sender, &models.Message{ID: 9})
	if len(rows) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(rows))
	}
	if rows[0].RecipientUserID != req.OwnerUserID {
		t.Fatalf("expected owner recipient, got %d", rows[0].RecipientUserID)
	}
	if rows[0].Type != models.NotificationTypeAdminReply {
		t.Fatalf("expected admin_reply type, got %s", rows[0].Type)
	}
}

func TestMessageSentAdminOnOwnRequestIsSilent(t *testing.T) {
	svc := NewNotificationService(&notificationRepoStub{}, &userRepoStub{})
	req := &models.Request{ID: 5, OwnerUserID: 10}
	sender := &models.User{ID: 10, Role: models.RoleAdmin}

	rows := svc.MessageSent(context.Background(), req, sender, &models.Message{})
	if len(rows) != 0 {
		t.Fatalf("expected no notifications, got %d", len(rows))
	}
}

func TestStatusUpdatedNotifiesOwnerExactlyOnce(t *testing.T) {
	notifRepo := &notificationRepoStub{}
	userRepo := &userRepoStub{
		listAdminsFn: func(context.Context) ([]models.User, error) {
			return adminUsers(10, 11, 12), nil
		},
	}

	svc := NewNotificationService(notifRepo, userRepo)
	req := &models.Request{ID: 2, OwnerUserID: 1, Title: "Refund"}

	rows := svc.StatusUpdated(context.Background(), req, models.RequestStatusApproved)
	if len(rows) != 1 {
		t.Fatalf("expected exactly 1 notification, got %d", len(rows))
	}
	if rows[0].RecipientUserID != 1 {
		t.Fatalf("expected owner recipient, got %d", rows[0].RecipientUserID)
	}
	if rows[0].Type != models.NotificationTypeStatusUpdate {
		t.Fatalf("expected status_update type, got %s", rows[0].Type)
	}
}

func TestRequestCreatedAdminListFailure(t *testing.T) {
	userRepo := &userRepoStub{
		listAdminsFn: func(context.Context) ([]models.User, error) {
			return nil, models.NewInternalError(errors.New("db down"))
		},
	}

	svc := NewNotificationService(&notificationRepoStub{}, userRepo)
	rows := svc.RequestCreated(context.Background(), &models.Request{ID: 1})
	if rows != nil {
		t.Fatalf("expected nil rows on admin list failure, got %d", len(rows))
	}
}
