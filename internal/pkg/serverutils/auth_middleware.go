package serverutils

import (
	"strings"

	"rag-qa-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware guards protected routes. Missing, malformed, expired and
// superseded tokens are all rejected with the same 401 body so callers
// cannot distinguish them.
func AuthMiddleware(authService service.IAuthService) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		authHeader := ctx.Get("Authorization")
		if len(authHeader) < 7 || !strings.EqualFold(authHeader[:7], "Bearer ") {
			return unauthorized(ctx)
		}
		tokenStr := authHeader[7:]

		username, err := authService.Authenticate(ctx.Context(), tokenStr)
		if err != nil {
			return unauthorized(ctx)
		}

		ctx.Locals("username", username)
		return ctx.Next()
	}
}

func unauthorized(ctx *fiber.Ctx) error {
	return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"code":    401,
		"message": "invalid or expired token",
	})
}
