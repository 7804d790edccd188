// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"concierge/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateRequestInput is the request body for creating a support request.
type CreateRequestInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// UpdateStatusInput is the request body for changing a request's status.
type UpdateStatusInput struct {
	Status string `json:"status"`
}

// CreateRequest handles POST /api/requests
func (s *Server) CreateRequest(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	var input CreateRequestInput
	if err := c.BodyParser(&input); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	req, err := s.requestService.Create(ctx, userID, input.Title, input.Description)
	if err != nil {
		return respondServiceError(c, err)
	}

	// Fan-out to admins happens after the request row is committed.
	rows := s.notificationService.RequestCreated(ctx, req)
	s.publishNotificationEvents(rows, map[string]interface{}{
		"title": req.Title,
		"owner": userSummaryPtr(req.Owner),
	})

	return c.Status(fiber.StatusCreated).JSON(req)
}

// GetRequests handles GET /api/requests
func (s *Server) GetRequests(c *fiber.Ctx) error {
	ctx := c.Context()

	user, err := s.currentUser(c)
	if err != nil {
		return respondServiceError(c, err)
	}

	p := parsePagination(c, 20)
	requests, err := s.requestService.List(ctx, user, p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(requests)
}

// GetRequest handles GET /api/requests/:id
func (s *Server) GetRequest(c *fiber.Ctx) error {
	ctx := c.Context()

	requestID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.currentUser(c)
	if err != nil {
		return respondServiceError(c, err)
	}

	req, err := s.requestService.Get(ctx, user, requestID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(req)
}

// UpdateRequestStatus handles PATCH /api/requests/:id/status
func (s *Server) UpdateRequestStatus(c *fiber.Ctx) error {
	ctx := c.Context()

	requestID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var input UpdateStatusInput
	if err := c.BodyParser(&input); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.currentUser(c)
	if err != nil {
		return respondServiceError(c, err)
	}

	req, err := s.requestService.UpdateStatus(ctx, user, requestID, models.RequestStatus(input.Status))
	if err != nil {
		return respondServiceError(c, err)
	}

	// Exactly one notification goes to the owner per status change.
	rows := s.notificationService.StatusUpdated(ctx, req, req.Status)
	s.publishNotificationEvents(rows, map[string]interface{}{
		"title":  req.Title,
		"status": req.Status,
	})

	return c.JSON(req)
}

// DeleteRequest handles DELETE /api/requests/:id
func (s *Server) DeleteRequest(c *fiber.Ctx) error {
	ctx := c.Context()

	requestID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.currentUser(c)
	if err != nil {
		return respondServiceError(c, err)
	}

	req, err := s.requestService.Delete(ctx, user, requestID)
	if err != nil {
		return respondServiceError(c, err)
	}

	// Tell the owner their thread is gone so open views can close.
	s.publishUserEvent(req.OwnerUserID, EventRequestDeleted, map[string]interface{}{
		"request_id": req.ID,
		"title":      req.Title,
	})

	return c.JSON(fiber.Map{"message": "Request deleted"})
}
