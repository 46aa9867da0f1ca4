package middleware

import "github.com/gofiber/fiber/v2"

// DevCORS applies the permissive cross-origin and cache-busting headers the
// editor's dev workflow depends on. Every response gets them, success and
// error alike, and caching is disabled so the browser always re-fetches
// edited assets and exports.
//
// Preflight requests are answered here with 200 and no body; they never
// reach the path handlers.
func DevCORS() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("Access-Control-Allow-Origin", "*")
		c.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Set("Access-Control-Allow-Headers", "Content-Type")
		c.Set("Cache-Control", "no-cache, no-store, must-revalidate")
		c.Set("Pragma", "no-cache")
		c.Set("Expires", "0")

		if c.Method() == fiber.MethodOptions {
			// SendStatus would fill the empty body with the status text.
			c.Status(fiber.StatusOK)
			return nil
		}

		return c.Next()
	}
}
