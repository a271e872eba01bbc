package handler

import (
	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(app *fiber.App, h *AuthHandler) {
	auth := app.Group("/auth")

	auth.Post("/register", h.Register)
	auth.Post("/login", h.Login)
	auth.Post("/verify-otp", h.VerifyOTP)
	auth.Post("/resend-otp", h.ResendOTP)
	auth.Post("/password-reset", h.RequestPasswordReset)
	auth.Post("/password-reset/confirm", h.ConfirmPasswordReset)
	auth.Post("/token/refresh", h.Refresh)

	// Bearer-protected endpoints
	protected := auth.Group("", h.RequireAuth())
	protected.Post("/logout", h.Logout)
	protected.Get("/profile", h.Profile)
	protected.Post("/change-password", h.ChangePassword)
	protected.Get("/sessions", h.ListSessions)
	protected.Post("/sessions/:id/terminate", h.TerminateSession)
}
