package handlers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sumeetprajapati1996/food-order-backend/internal/config"
	"github.com/sumeetprajapati1996/food-order-backend/internal/logger"
	"github.com/sumeetprajapati1996/food-order-backend/internal/metrics"
	"github.com/sumeetprajapati1996/food-order-backend/internal/middleware"
	"github.com/sumeetprajapati1996/food-order-backend/internal/models"
	"github.com/sumeetprajapati1996/food-order-backend/internal/repository"
	"github.com/sumeetprajapati1996/food-order-backend/internal/utils"
)

// CustomerStore is the persistence surface the customer handlers depend on.
type CustomerStore interface {
	Create(ctx context.Context, customer *models.Customer) error
	FindByID(ctx context.Context, id uuid.UUID) (models.Customer, error)
	FindByEmail(ctx context.Context, email string) (models.Customer, error)
	FindByPhone(ctx context.Context, phone string) (models.Customer, error)
	Save(ctx context.Context, customer *models.Customer) error
}

// OTPSender delivers verification codes to a phone number.
type OTPSender interface {
	SendOtp(ctx context.Context, phone string, code int) error
}

// CustomerHandler bundles dependencies for the customer account endpoints.
type CustomerHandler struct {
	store CustomerStore
	sms   OTPSender
	cfg   *config.Config
}

// NewCustomerHandler constructs a CustomerHandler.
func NewCustomerHandler(store CustomerStore, sms OTPSender, cfg *config.Config) *CustomerHandler {
	return &CustomerHandler{store: store, sms: sms, cfg: cfg}
}

type signupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,min=7,max=15"`
	Password string `json:"password" validate:"required,min=6,max=64"`
}

// SignUp creates a new customer account and kicks off phone verification.
func (h *CustomerHandler) SignUp(c *fiber.Ctx) error {
	var req signupRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if fieldErrs := utils.ValidateStruct(req); fieldErrs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fieldErrs)
	}

	email := strings.ToLower(req.Email)
	if _, err := h.store.FindByEmail(c.UserContext(), email); err == nil {
		return fiber.NewError(fiber.StatusBadRequest, "an account with this email already exists")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	salt, err := utils.GenerateSalt()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "failed to create account")
	}

	passwordHash, err := utils.GeneratePassword(req.Password, salt)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "failed to create account")
	}

	otp, expiry, err := utils.GenerateOtp(h.cfg.OtpExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "failed to generate verification code")
	}

	customer := models.Customer{
		Email:        email,
		PasswordHash: passwordHash,
		Salt:         salt,
		Phone:        req.Phone,
		Otp:          otp,
		OtpExpiry:    expiry,
		Verified:     false,
	}

	if err := h.store.Create(c.UserContext(), &customer); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "failed to create account")
	}

	// Code delivery is a side effect; a gateway failure does not fail the
	// signup.
	if err := h.sms.SendOtp(c.UserContext(), customer.Phone, otp); err != nil {
		logger.Error("failed to send verification code",
			zap.String("phone", customer.Phone),
			zap.Error(err))
	} else {
		metrics.OtpSendsTotal.Inc()
	}

	signature, err := utils.GenerateSignature(h.cfg.JWTSecret, utils.TokenPayload{
		ID:       customer.ID,
		Email:    customer.Email,
		Verified: customer.Verified,
	}, h.cfg.TokenExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "failed to generate signature")
	}

	metrics.SignupsTotal.Inc()

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"signature": signature,
		"verified":  customer.Verified,
		"email":     customer.Email,
	})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login authenticates an existing customer.
func (h *CustomerHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if fieldErrs := utils.ValidateStruct(req); fieldErrs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fieldErrs)
	}

	// The email is matched exactly as submitted; signup stores it lowercased.
	customer, err := h.store.FindByEmail(c.UserContext(), req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			return fiber.NewError(fiber.StatusBadRequest, "Invalid credentials!")
		}
		return err
	}

	if !utils.ValidatePassword(req.Password, customer.PasswordHash, customer.Salt) {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return fiber.NewError(fiber.StatusBadRequest, "Invalid credentials!")
	}

	signature, err := utils.GenerateSignature(h.cfg.JWTSecret, utils.TokenPayload{
		ID:       customer.ID,
		Email:    customer.Email,
		Verified: customer.Verified,
	}, h.cfg.TokenExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "failed to generate signature")
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()

	return c.JSON(fiber.Map{
		"signature": signature,
		"verified":  customer.Verified,
		"email":     customer.Email,
	})
}

type verifyOtpRequest struct {
	Otp int `json:"otp"`
}

// VerifyOtp marks the authenticated customer verified when the submitted
// code matches the stored one and has not expired.
func (h *CustomerHandler) VerifyOtp(c *fiber.Ctx) error {
	payload, ok := middleware.GetCurrentCustomer(c)
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "customer not found")
	}

	var req verifyOtpRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	customer, err := h.store.FindByID(c.UserContext(), payload.ID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "customer not found")
	}

	if customer.Otp != req.Otp || customer.OtpExpiry.Before(time.Now()) {
		metrics.OtpVerificationsTotal.WithLabelValues("failure").Inc()
		return fiber.NewError(fiber.StatusBadRequest, "OPT verification failed!")
	}

	customer.Verified = true
	if err := h.store.Save(c.UserContext(), &customer); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "failed to update profile")
	}

	signature, err := utils.GenerateSignature(h.cfg.JWTSecret, utils.TokenPayload{
		ID:       customer.ID,
		Email:    customer.Email,
		Verified: customer.Verified,
	}, h.cfg.TokenExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "failed to generate signature")
	}

	metrics.OtpVerificationsTotal.WithLabelValues("success").Inc()

	return c.JSON(fiber.Map{
		"signature": signature,
		"verified":  customer.Verified,
		"email":     customer.Email,
	})
}

// RequestOtp issues a fresh verification code for the authenticated customer
// and delivers it to the stored phone number.
func (h *CustomerHandler) RequestOtp(c *fiber.Ctx) error {
	payload, ok := middleware.GetCurrentCustomer(c)
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "customer not found")
	}

	customer, err := h.store.FindByID(c.UserContext(), payload.ID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "customer not found")
	}

	otp, expiry, err := utils.GenerateOtp(h.cfg.OtpExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "failed to generate verification code")
	}

	customer.Otp = otp
	customer.OtpExpiry = expiry
	if err := h.store.Save(c.UserContext(), &customer); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "failed to update profile")
	}

	if err := h.sms.SendOtp(c.UserContext(), customer.Phone, otp); err != nil {
		logger.Error("failed to send verification code",
			zap.String("phone", customer.Phone),
			zap.Error(err))
	} else {
		metrics.OtpSendsTotal.Inc()
	}

	return c.JSON(fiber.Map{
		"message": "OTP sent to your registered phone number!",
	})
}

// GetProfile returns the authenticated customer record.
func (h *CustomerHandler) GetProfile(c *fiber.Ctx) error {
	payload, ok := middleware.GetCurrentCustomer(c)
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "customer not found")
	}

	customer, err := h.store.FindByID(c.UserContext(), payload.ID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "customer not found")
	}

	return c.JSON(customer)
}

type updateProfileRequest struct {
	FirstName string `json:"first_name" validate:"omitempty,max=64"`
	LastName  string `json:"last_name" validate:"omitempty,max=64"`
	Address   string `json:"address" validate:"omitempty,max=128"`
}

// UpdateProfile overwrites the editable profile fields with the submitted
// values, empty strings included.
func (h *CustomerHandler) UpdateProfile(c *fiber.Ctx) error {
	payload, ok := middleware.GetCurrentCustomer(c)
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "customer not found")
	}

	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if fieldErrs := utils.ValidateStruct(req); fieldErrs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fieldErrs)
	}

	customer, err := h.store.FindByID(c.UserContext(), payload.ID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "customer not found")
	}

	customer.FirstName = req.FirstName
	customer.LastName = req.LastName
	customer.Address = req.Address
	if err := h.store.Save(c.UserContext(), &customer); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "failed to update profile")
	}

	return c.JSON(customer)
}
