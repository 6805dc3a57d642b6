package main

import (
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/sumeetprajapati1996/food-order-backend/internal/config"
	"github.com/sumeetprajapati1996/food-order-backend/internal/database"
	"github.com/sumeetprajapati1996/food-order-backend/internal/handlers"
	"github.com/sumeetprajapati1996/food-order-backend/internal/logger"
	"github.com/sumeetprajapati1996/food-order-backend/internal/metrics"
	"github.com/sumeetprajapati1996/food-order-backend/internal/routes"
)

func main() {
	cfg := config.Load()

	logger.Init(cfg.Environment)
	defer logger.Sync()

	metrics.Init()

	db := database.Connect(cfg.DatabaseURL)

	app := fiber.New(fiber.Config{
		AppName:      "Food Order Backend",
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())

	routes.Register(app, db, cfg)

	logger.Info("starting server", zap.String("port", cfg.AppPort))
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		logger.Fatal("fiber.Listen error", zap.Error(err))
	}
}
