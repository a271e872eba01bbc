package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/driveshare/auth-service/internal/auth/dto"
	"github.com/driveshare/auth-service/internal/auth/service"
)

type AuthHandler struct {
	userService *service.UserService
}

func NewAuthHandler(userService *service.UserService) *AuthHandler {
	return &AuthHandler{userService: userService}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input dto.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid input")
	}
	if err := validateStruct(input); err != nil {
		return respondError(c, err)
	}

	account, err := h.userService.Register(c.Context(), input)
	if err != nil {
		return respondError(c, err)
	}

	return success(c, fiber.StatusCreated, "Registration successful. Please verify your account.", fiber.Map{
		"account":  dto.NewAccountOutput(account),
		"otp_sent": true,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input dto.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid input")
	}
	if err := validateStruct(input); err != nil {
		return respondError(c, err)
	}

	input.IPAddress = c.IP()
	input.UserAgent = string(c.Request().Header.UserAgent())

	if err := h.userService.Login(c.Context(), input); err != nil {
		return respondError(c, err)
	}

	return success(c, fiber.StatusOK, "OTP sent. Verify to complete login.", fiber.Map{
		"otp_sent": true,
	})
}

func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var input dto.VerifyOTPInput
	if err := c.BodyParser(&input); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid input")
	}
	if err := validateStruct(input); err != nil {
		return respondError(c, err)
	}

	input.IPAddress = c.IP()
	input.UserAgent = string(c.Request().Header.UserAgent())

	account, tokens, err := h.userService.VerifyOTP(c.Context(), input)
	if err != nil {
		return respondError(c, err)
	}

	return success(c, fiber.StatusOK, "OTP verified successfully.", fiber.Map{
		"account": dto.NewAccountOutput(account),
		"tokens":  tokens,
	})
}

func (h *AuthHandler) ResendOTP(c *fiber.Ctx) error {
	var input dto.ResendOTPInput
	if err := c.BodyParser(&input); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid input")
	}
	if err := validateStruct(input); err != nil {
		return respondError(c, err)
	}

	if err := h.userService.ResendOTP(c.Context(), input); err != nil {
		return respondError(c, err)
	}

	return success(c, fiber.StatusOK, "If the account exists, a new code has been sent.", nil)
}

func (h *AuthHandler) RequestPasswordReset(c *fiber.Ctx) error {
	var input dto.PasswordResetInput
	if err := c.BodyParser(&input); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid input")
	}
	if err := validateStruct(input); err != nil {
		return respondError(c, err)
	}

	if err := h.userService.RequestPasswordReset(c.Context(), input); err != nil {
		return respondError(c, err)
	}

	return success(c, fiber.StatusOK, "If the account exists, a reset code has been sent.", nil)
}

func (h *AuthHandler) ConfirmPasswordReset(c *fiber.Ctx) error {
	var input dto.PasswordResetConfirmInput
	if err := c.BodyParser(&input); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid input")
	}
	if err := validateStruct(input); err != nil {
		return respondError(c, err)
	}

	if err := h.userService.ConfirmPasswordReset(c.Context(), input); err != nil {
		return respondError(c, err)
	}

	return success(c, fiber.StatusOK, "Password has been reset. Please log in again.", nil)
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var input dto.RefreshInput
	if err := c.BodyParser(&input); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid input")
	}
	if err := validateStruct(input); err != nil {
		return respondError(c, err)
	}

	tokens, err := h.userService.Refresh(c.Context(), input.Refresh)
	if err != nil {
		return respondError(c, err)
	}

	return success(c, fiber.StatusOK, "Token refreshed.", fiber.Map{
		"tokens": tokens,
	})
}

// Logout revokes the session the presented access token belongs to; no body
// is needed.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	claims := claimsFromCtx(c)
	if err := h.userService.Logout(c.Context(), claims.SessionID); err != nil {
		return respondError(c, err)
	}

	return success(c, fiber.StatusOK, "Logged out.", nil)
}
