package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/sumeetprajapati1996/food-order-backend/internal/config"
	"github.com/sumeetprajapati1996/food-order-backend/internal/handlers"
	"github.com/sumeetprajapati1996/food-order-backend/internal/middleware"
	"github.com/sumeetprajapati1996/food-order-backend/internal/repository"
	"github.com/sumeetprajapati1996/food-order-backend/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	smsService := services.NewSMSService(cfg.SMSBaseURL, cfg.SMSEmail, cfg.SMSPassword, cfg.SMSSender, cfg.SMSEnabled)

	customers := repository.NewCustomers(db)
	resets := repository.NewPasswordResets(db)

	customerHandler := handlers.NewCustomerHandler(customers, smsService, cfg)
	passwordResetHandler := handlers.NewPasswordResetHandler(customers, resets, smsService, cfg)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"service": "food-order-backend",
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	customer := api.Group("/customer")
	customer.Post("/signup", customerHandler.SignUp)
	customer.Post("/login", customerHandler.Login)

	// Password reset flow
	password := customer.Group("/password")
	password.Post("/forgot", passwordResetHandler.ForgotPassword)
	password.Post("/verify", passwordResetHandler.VerifyResetCode)
	password.Post("/reset", passwordResetHandler.ResetPassword)

	// Protected routes
	protected := customer.Group("", middleware.Authenticate(cfg))
	protected.Patch("/verify", customerHandler.VerifyOtp)
	protected.Get("/otp", customerHandler.RequestOtp)
	protected.Get("/profile", customerHandler.GetProfile)
	protected.Patch("/profile", customerHandler.UpdateProfile)
}
