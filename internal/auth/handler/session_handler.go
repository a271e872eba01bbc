package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/driveshare/auth-service/internal/auth/dto"
)

func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	claims := claimsFromCtx(c)

	account, err := h.userService.Profile(c.Context(), claims.AccountID)
	if err != nil {
		return respondError(c, err)
	}

	return success(c, fiber.StatusOK, "Profile retrieved.", fiber.Map{
		"account": dto.NewAccountOutput(account),
	})
}

func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var input dto.ChangePasswordInput
	if err := c.BodyParser(&input); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid input")
	}
	if err := validateStruct(input); err != nil {
		return respondError(c, err)
	}

	claims := claimsFromCtx(c)
	if err := h.userService.ChangePassword(c.Context(), claims.AccountID, input); err != nil {
		return respondError(c, err)
	}

	return success(c, fiber.StatusOK, "Password changed.", nil)
}

func (h *AuthHandler) ListSessions(c *fiber.Ctx) error {
	claims := claimsFromCtx(c)

	sessions, err := h.userService.ListSessions(c.Context(), claims.AccountID)
	if err != nil {
		return respondError(c, err)
	}

	out := make([]dto.SessionOutput, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, dto.NewSessionOutput(s))
	}

	return success(c, fiber.StatusOK, "Sessions retrieved.", fiber.Map{
		"sessions": out,
	})
}

func (h *AuthHandler) TerminateSession(c *fiber.Ctx) error {
	claims := claimsFromCtx(c)
	sessionID := c.Params("id")

	if err := h.userService.TerminateSession(c.Context(), sessionID, claims.AccountID); err != nil {
		return respondError(c, err)
	}

	return success(c, fiber.StatusOK, "Session terminated.", nil)
}
