package server

import (
	"net"
	"strings"

	"concierge/internal/middleware"
	"concierge/internal/models"

	"github.com/gofiber/fiber/v2"
)

// BanIPInput is the request body for banning a source address.
type BanIPInput struct {
	IP string `json:"ip"`
}

// GetIPBans handles GET /api/admin/bans
func (s *Server) GetIPBans(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"banned": s.ipBans.List()})
}

// BanIP handles POST /api/admin/bans
func (s *Server) BanIP(c *fiber.Ctx) error {
	var input BanIPInput
	if err := c.BodyParser(&input); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	ip := strings.TrimSpace(input.IP)
	if net.ParseIP(ip) == nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid IP address"))
	}

	s.ipBans.Ban(ip)
	middleware.Logger.InfoContext(c.UserContext(), "ip banned",
		"ip", ip, "admin_id", c.Locals("userID"))

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"banned": ip})
}

// UnbanIP handles DELETE /api/admin/bans/:ip
func (s *Server) UnbanIP(c *fiber.Ctx) error {
	ip := strings.TrimSpace(c.Params("ip"))
	if net.ParseIP(ip) == nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid IP address"))
	}

	if !s.ipBans.Unban(ip) {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Ban", ip))
	}
	middleware.Logger.InfoContext(c.UserContext(), "ip unbanned",
		"ip", ip, "admin_id", c.Locals("userID"))

	return c.JSON(fiber.Map{"unbanned": ip})
}

// GetOnlineUsers handles GET /api/admin/online
func (s *Server) GetOnlineUsers(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"online_user_ids": s.hub.OnlineUserIDs(c.Context())})
}
