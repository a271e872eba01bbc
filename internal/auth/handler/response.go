package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	autherror "github.com/driveshare/auth-service/internal/errors"
)

// All responses share the {success, message, ...} envelope.
func success(c *fiber.Ctx, status int, message string, payload fiber.Map) error {
	body := fiber.Map{"success": true, "message": message}
	for k, v := range payload {
		body[k] = v
	}
	return c.Status(status).JSON(body)
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"success": false, "message": message})
}

// respondError maps service errors onto the wire taxonomy. NotFound and
// InvalidCredentials deliberately share one message so identifiers cannot be
// enumerated through the login flow.
func respondError(c *fiber.Ctx, err error) error {
	var validationErr *autherror.ValidationError
	if errors.As(err, &validationErr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "validation failed",
			"errors":  validationErr.Fields,
		})
	}

	switch {
	case errors.Is(err, autherror.ErrInvalidCredentials):
		return fail(c, fiber.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, autherror.ErrAccountInactive):
		return fail(c, fiber.StatusUnauthorized, "account is not active")
	case errors.Is(err, autherror.ErrIdentifierTaken):
		return fail(c, fiber.StatusBadRequest, "identifier already in use")
	case errors.Is(err, autherror.ErrTooManyLoginAttempts):
		return fail(c, fiber.StatusTooManyRequests, "too many failed login attempts")
	case errors.Is(err, autherror.ErrAccountNotFound):
		return fail(c, fiber.StatusNotFound, "account not found")
	case errors.Is(err, autherror.ErrOTPRateLimited):
		return fail(c, fiber.StatusTooManyRequests, "please wait before requesting another code")
	case errors.Is(err, autherror.ErrOTPNotFound):
		return fail(c, fiber.StatusBadRequest, "no active otp found")
	case errors.Is(err, autherror.ErrOTPExpired):
		return fail(c, fiber.StatusBadRequest, "otp code expired")
	case errors.Is(err, autherror.ErrOTPInvalid):
		return fail(c, fiber.StatusBadRequest, "invalid otp code")
	case errors.Is(err, autherror.ErrOTPAttemptsExhausted):
		return fail(c, fiber.StatusBadRequest, "maximum otp attempts exceeded, request a new code")
	case errors.Is(err, autherror.ErrOTPAlreadyConsumed):
		return fail(c, fiber.StatusBadRequest, "otp code already used")
	case errors.Is(err, autherror.ErrTokenExpired):
		return fail(c, fiber.StatusUnauthorized, "token expired")
	case errors.Is(err, autherror.ErrTokenRevoked):
		return fail(c, fiber.StatusUnauthorized, "token revoked")
	case errors.Is(err, autherror.ErrTokenReused):
		return fail(c, fiber.StatusUnauthorized, "refresh token reuse detected")
	case errors.Is(err, autherror.ErrTokenInvalid):
		return fail(c, fiber.StatusUnauthorized, "invalid token")
	case errors.Is(err, autherror.ErrSessionNotFound):
		return fail(c, fiber.StatusNotFound, "session not found")
	case errors.Is(err, autherror.ErrForbidden):
		return fail(c, fiber.StatusForbidden, "forbidden")
	default:
		return fail(c, fiber.StatusInternalServerError, "internal server error")
	}
}
