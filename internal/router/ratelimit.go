package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// Per-minute budgets. Auth endpoints are keyed by IP because the caller is
// not authenticated yet; balance-mutating endpoints are keyed by user so one
// household NAT cannot starve another wallet.
const (
	authLimitPerMinute  = 10
	writeLimitPerMinute = 60
)

func newLimiter(max int, key func(*fiber.Ctx) string) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:          max,
		Expiration:   time.Minute,
		KeyGenerator: key,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too_many_requests"})
		},
	})
}

// RateLimitAuth throttles register/login attempts per IP.
func RateLimitAuth() fiber.Handler {
	return newLimiter(authLimitPerMinute, func(c *fiber.Ctx) string {
		return c.IP()
	})
}

// RateLimitWrite throttles balance-mutating endpoints per authenticated
// user, falling back to IP when the limiter runs before auth.
func RateLimitWrite() fiber.Handler {
	return newLimiter(writeLimitPerMinute, func(c *fiber.Ctx) string {
		if uid, ok := c.Locals("user_id").(string); ok && uid != "" {
			return uid
		}
		return c.IP()
	})
}
