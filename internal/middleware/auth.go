package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/sumeetprajapati1996/food-order-backend/internal/config"
	"github.com/sumeetprajapati1996/food-order-backend/internal/utils"
)

const customerContextKey = "currentCustomer"

// Authenticate validates bearer signatures and loads the customer payload into context.
func Authenticate(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing authorization header")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid authorization header")
		}

		payload, err := utils.ParseSignature(cfg.JWTSecret, parts[1])
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		c.Locals(customerContextKey, payload)
		return c.Next()
	}
}

// GetCurrentCustomer extracts the authenticated customer payload from context.
func GetCurrentCustomer(c *fiber.Ctx) (utils.TokenPayload, bool) {
	value := c.Locals(customerContextKey)
	if value == nil {
		return utils.TokenPayload{}, false
	}

	if payload, ok := value.(utils.TokenPayload); ok {
		return payload, true
	}

	return utils.TokenPayload{}, false
}
