package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/sumeetprajapati1996/food-order-backend/internal/logger"
)

// ErrorHandler renders every handler error as a JSON message body.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
	}

	if code == fiber.StatusInternalServerError {
		logger.Error("unhandled error", zap.Error(err))
	}

	return c.Status(code).JSON(fiber.Map{
		"message": err.Error(),
	})
}
