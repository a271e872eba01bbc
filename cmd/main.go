package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/driveshare/auth-service/config"
	"github.com/driveshare/auth-service/db"
	"github.com/driveshare/auth-service/internal/auth/handler"
	repo "github.com/driveshare/auth-service/internal/auth/repository/postgres"
	"github.com/driveshare/auth-service/internal/auth/service"
	"github.com/driveshare/auth-service/internal/notification"
)

func main() {
	cfg := config.Load()

	dbPool, err := db.NewPostgresPool(context.Background(), cfg.DBURL)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer dbPool.Close()

	mailer := notification.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)
	dispatcher := notification.NewQueueDispatcher(mailer, notification.NewLogSMSSender(),
		cfg.NotifyQueueSize, cfg.NotifyMaxRetries)
	defer dispatcher.Close()

	authRepo := repo.NewPostgresRepository(dbPool)
	tokenService := service.NewTokenService(cfg.AccessTokenSecret, cfg.RefreshTokenSecret,
		cfg.AccessExpiryMin, cfg.RefreshExpiryMin)
	otpService := service.NewOTPService(authRepo, cfg.OTPLength, cfg.OTPExpiryMinutes,
		cfg.OTPMaxAttempts, cfg.OTPCooldownSeconds)
	userService := service.NewUserService(authRepo, tokenService, otpService, dispatcher, cfg)
	authHandler := handler.NewAuthHandler(userService)

	app := fiber.New(fiber.Config{
		AppName: "DriveShare Auth Service",
	})
	app.Use(recover.New())
	app.Use(logger.New())

	handler.RegisterRoutes(app, authHandler)

	log.Printf("Starting server on :%s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("fiber.Listen error: %v", err)
	}
}
