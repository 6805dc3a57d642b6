package handlers

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/sumeetprajapati1996/food-order-backend/internal/config"
	"github.com/sumeetprajapati1996/food-order-backend/internal/logger"
	"github.com/sumeetprajapati1996/food-order-backend/internal/models"
	"github.com/sumeetprajapati1996/food-order-backend/internal/repository"
	"github.com/sumeetprajapati1996/food-order-backend/internal/utils"
)

// ResetStore is the persistence surface for password-reset records.
type ResetStore interface {
	Create(ctx context.Context, reset *models.PasswordReset) error
	FindByToken(ctx context.Context, token string) (models.PasswordReset, error)
	Save(ctx context.Context, reset *models.PasswordReset) error
	ExpireActiveByPhone(ctx context.Context, phone string) error
}

// PasswordResetHandler manages the forgot-password endpoints.
type PasswordResetHandler struct {
	customers CustomerStore
	resets    ResetStore
	sms       OTPSender
	cfg       *config.Config
}

// NewPasswordResetHandler constructs a PasswordResetHandler.
func NewPasswordResetHandler(customers CustomerStore, resets ResetStore, sms OTPSender, cfg *config.Config) *PasswordResetHandler {
	return &PasswordResetHandler{customers: customers, resets: resets, sms: sms, cfg: cfg}
}

type forgotPasswordRequest struct {
	Phone string `json:"phone" validate:"required,min=7,max=15"`
}

// ForgotPassword initiates the reset flow: validates the customer, stores a
// fresh code under an opaque token, and sends the code by SMS.
func (h *PasswordResetHandler) ForgotPassword(c *fiber.Ctx) error {
	var req forgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if fieldErrs := utils.ValidateStruct(req); fieldErrs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fieldErrs)
	}

	customer, err := h.customers.FindByPhone(c.UserContext(), req.Phone)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fiber.NewError(fiber.StatusBadRequest, "customer not found")
		}
		return err
	}

	code, expiry, err := utils.GenerateOtp(h.cfg.OtpExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "failed to generate verification code")
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "failed to generate reset token")
	}
	resetToken := hex.EncodeToString(tokenBytes)

	// Earlier unused tokens for this phone stop working once a new one is
	// issued.
	if err := h.resets.ExpireActiveByPhone(c.UserContext(), customer.Phone); err != nil {
		logger.Warn("failed to expire previous reset tokens",
			zap.String("phone", customer.Phone),
			zap.Error(err))
	}

	record := models.PasswordReset{
		Phone:     customer.Phone,
		Token:     resetToken,
		Code:      code,
		ExpiresAt: expiry,
		Verified:  false,
	}
	if err := h.resets.Create(c.UserContext(), &record); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "failed to create reset token")
	}

	if err := h.sms.SendOtp(c.UserContext(), customer.Phone, code); err != nil {
		logger.Error("failed to send reset code",
			zap.String("phone", customer.Phone),
			zap.Error(err))
	}

	return c.JSON(fiber.Map{
		"token":   resetToken,
		"message": "Reset code sent to your registered phone number!",
	})
}

type verifyResetCodeRequest struct {
	Token string `json:"token" validate:"required"`
	Code  int    `json:"code" validate:"required"`
}

// VerifyResetCode checks the code submitted for a reset token.
func (h *PasswordResetHandler) VerifyResetCode(c *fiber.Ctx) error {
	var req verifyResetCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if fieldErrs := utils.ValidateStruct(req); fieldErrs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fieldErrs)
	}

	record, err := h.resets.FindByToken(c.UserContext(), req.Token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fiber.NewError(fiber.StatusBadRequest, "invalid reset token")
		}
		return err
	}

	if record.UsedAt != nil {
		return fiber.NewError(fiber.StatusBadRequest, "token already used")
	}

	if record.ExpiresAt.Before(time.Now()) {
		return fiber.NewError(fiber.StatusBadRequest, "token expired")
	}

	if record.Code != req.Code {
		return fiber.NewError(fiber.StatusBadRequest, "invalid verification code")
	}

	record.Verified = true
	if err := h.resets.Save(c.UserContext(), &record); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "failed to update reset token")
	}

	return c.JSON(fiber.Map{
		"verified": true,
		"token":    record.Token,
	})
}

type resetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6,max=64"`
}

// ResetPassword updates the customer's password after code verification.
func (h *PasswordResetHandler) ResetPassword(c *fiber.Ctx) error {
	var req resetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if fieldErrs := utils.ValidateStruct(req); fieldErrs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fieldErrs)
	}

	record, err := h.resets.FindByToken(c.UserContext(), req.Token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fiber.NewError(fiber.StatusBadRequest, "invalid reset token")
		}
		return err
	}

	if record.UsedAt != nil {
		return fiber.NewError(fiber.StatusBadRequest, "token already used")
	}

	if record.ExpiresAt.Before(time.Now()) {
		return fiber.NewError(fiber.StatusBadRequest, "token expired")
	}

	if !record.Verified {
		return fiber.NewError(fiber.StatusBadRequest, "code not verified yet")
	}

	customer, err := h.customers.FindByPhone(c.UserContext(), record.Phone)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "customer not found")
	}

	salt, err := utils.GenerateSalt()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "failed to update password")
	}

	passwordHash, err := utils.GeneratePassword(req.NewPassword, salt)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "failed to update password")
	}

	customer.PasswordHash = passwordHash
	customer.Salt = salt
	if err := h.customers.Save(c.UserContext(), &customer); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "failed to update password")
	}

	now := time.Now()
	record.UsedAt = &now
	if err := h.resets.Save(c.UserContext(), &record); err != nil {
		logger.Warn("failed to mark reset token used",
			zap.String("phone", record.Phone),
			zap.Error(err))
	}

	return c.JSON(fiber.Map{
		"message": "password updated successfully",
	})
}
