package middleware

import (
	"sort"
	"sync"

	"github.com/gofiber/fiber/v2"
)

// IPBanRegistry is process-wide mutable state holding banned client IPs.
// It starts empty on every process start and is not persisted; in a
// multi-instance deployment bans must move to shared storage (e.g. Redis)
// to apply across instances.
type IPBanRegistry struct {
	mu     sync.RWMutex
	banned map[string]struct{}
}

// NewIPBanRegistry returns an empty registry.
func NewIPBanRegistry() *IPBanRegistry {
	return &IPBanRegistry{banned: make(map[string]struct{})}
}

// Ban adds an IP to the registry.
func (r *IPBanRegistry) Ban(ip string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.banned[ip] = struct{}{}
}

// Unban removes an IP from the registry. Returns false if the IP was not banned.
func (r *IPBanRegistry) Unban(ip string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.banned[ip]; !ok {
		return false
	}
	delete(r.banned, ip)
	return true
}

// IsBanned reports whether the IP is currently banned.
func (r *IPBanRegistry) IsBanned(ip string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.banned[ip]
	return ok
}

// List returns the banned IPs in sorted order.
func (r *IPBanRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ips := make([]string, 0, len(r.banned))
	for ip := range r.banned {
		ips = append(ips, ip)
	}
	sort.Strings(ips)
	return ips
}

// Clear removes all bans. Used on shutdown and between tests.
func (r *IPBanRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.banned = make(map[string]struct{})
}

// IPBan returns a Fiber middleware rejecting requests from banned IPs with 403.
func IPBan(registry *IPBanRegistry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if registry.IsBanned(c.IP()) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "access denied",
			})
		}
		return c.Next()
	}
}
