package service

import (
	"context"
	"strings"

	"concierge/internal/models"
	"concierge/internal/repository"
)

const (
	maxTitleLength       = 200
	maxDescriptionLength = 5000
)

// RequestService provides support-request business logic.
type RequestService struct {
	requestRepo repository.RequestRepository
	userRepo    repository.UserRepository
}

// NewRequestService returns a new RequestService.
func NewRequestService(requestRepo repository.RequestRepository, userRepo repository.UserRepository) *RequestService {
	return &RequestService{
		requestRepo: requestRepo,
		userRepo:    userRepo,
	}
}

// Create opens a new request owned by the given user.
func (s *RequestService) Create(ctx context.Context, ownerID uint, title, description string) (*models.Request, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)

	if title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(title) > maxTitleLength {
		return nil, models.NewValidationError("Title is too long")
	}
	if description == "" {
		return nil, models.NewValidationError("Description is required")
	}
	if len(description) > maxDescriptionLength {
		return nil, models.NewValidationError("Description is too long")
	}

	req := &models.Request{
		OwnerUserID: ownerID,
		Title:       title,
		Description: description,
		Status:      models.RequestStatusPending,
	}
	if err := s.requestRepo.Create(ctx, req); err != nil {
		return nil, err
	}
	return s.requestRepo.GetByID(ctx, req.ID)
}

// List returns the requests visible to the user: all of them for admin-tier
// users, only their own otherwise.
func (s *RequestService) List(ctx context.Context, user *models.User, limit, offset int) ([]models.Request, error) {
	if user.Role.IsAdminTier() {
		return s.requestRepo.ListAll(ctx, limit, offset)
	}
	return s.requestRepo.ListByOwner(ctx, user.ID, limit, offset)
}

// Get returns a single request if the user is allowed to see it.
func (s *RequestService) Get(ctx context.Context, user *models.User, id uint) (*models.Request, error) {
	req, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanAccessRequest(user, req) {
		return nil, models.NewForbiddenError("You do not have access to this request")
	}
	return req, nil
}

// UpdateStatus changes a request's status. Admin-tier only; any non-empty
// status value is accepted.
func (s *RequestService) UpdateStatus(ctx context.Context, user *models.User, id uint, status models.RequestStatus) (*models.Request, error) {
	if !CanMutateStatus(user) {
		return nil, models.NewForbiddenError("Only admins can change request status")
	}
	if strings.TrimSpace(string(status)) == "" {
		return nil, models.NewValidationError("Status is required")
	}

	if _, err := s.requestRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if err := s.requestRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	return s.requestRepo.GetByID(ctx, id)
}

// Delete removes a request and everything hanging off it. Admin-tier only.
func (s *RequestService) Delete(ctx context.Context, user *models.User, id uint) (*models.Request, error) {
	if !CanMutateStatus(user) {
		return nil, models.NewForbiddenError("Only admins can delete requests")
	}

	req, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requestRepo.DeleteCascade(ctx, id); err != nil {
		return nil, err
	}
	return req, nil
}
