// Package rayid assigns every request a RayID for log correlation.
package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Header is the response (and accepted request) header carrying the RayID.
const Header = "X-Ray-ID"

// New returns a middleware storing the RayID in c.Locals("ray_id").
// An incoming X-Ray-ID header is reused so upstream proxies can propagate theirs.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(Header)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Locals("ray_id", rid)
		c.Set(Header, rid)
		return c.Next()
	}
}
