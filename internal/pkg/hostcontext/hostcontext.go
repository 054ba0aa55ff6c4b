package hostcontext

import "github.com/gofiber/fiber/v2"

// HostContext is the authenticated host identity for a request. It is set
// explicitly by the auth middleware and passed to services as a value, never
// read from ambient globals.
type HostContext struct {
	HostID          uint   `json:"host_id"`
	AuthSubject     string `json:"auth_subject"`
	Email           string `json:"email"`
	IsAuthenticated bool   `json:"is_authenticated"`
}

// FromFiber retrieves the host context from the fiber request context.
// Returns an anonymous context if none is set.
func FromFiber(c *fiber.Ctx) HostContext {
	if ctx := c.Locals(ContextKey); ctx != nil {
		if hc, ok := ctx.(HostContext); ok {
			return hc
		}
	}
	return HostContext{IsAuthenticated: false}
}

// Set stores the host context on the fiber request context.
func Set(c *fiber.Ctx, hc HostContext) {
	c.Locals(ContextKey, hc)
	c.Locals(KeyHostID, hc.HostID)
}

// IsAuthenticated reports whether the current request carries a verified host.
func IsAuthenticated(c *fiber.Ctx) bool {
	return FromFiber(c).IsAuthenticated
}

// GetHostID returns the current host's ID, or 0 if unauthenticated.
func GetHostID(c *fiber.Ctx) uint {
	return FromFiber(c).HostID
}
