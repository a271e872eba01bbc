package service

import (
	"regexp"
	"strings"

	"github.com/driveshare/auth-service/internal/auth/dto"
	autherror "github.com/driveshare/auth-service/internal/errors"
	"github.com/driveshare/auth-service/internal/notification"
)

var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phonePattern = regexp.MustCompile(`^\+?1?\d{9,15}$`)
)

// classifyIdentifier decides whether a free-form identifier is an email or a
// phone number and normalizes it. Emails are lowercased; phones keep their
// leading plus.
func classifyIdentifier(raw string) (string, notification.Channel, error) {
	identifier := strings.TrimSpace(raw)
	switch {
	case emailPattern.MatchString(identifier):
		return strings.ToLower(identifier), notification.ChannelEmail, nil
	case phonePattern.MatchString(identifier):
		return identifier, notification.ChannelSMS, nil
	default:
		return "", "", autherror.ErrAccountNotFound
	}
}

// resolveRegistrationChannel picks the contact channel from a registration
// payload. Exactly one of email or phone must be present and well-formed.
func resolveRegistrationChannel(input dto.RegisterInput) (string, notification.Channel, error) {
	switch {
	case input.Email != "" && input.Phone != "":
		return "", "", autherror.NewValidationError(map[string]string{
			"email": "provide either email or phone, not both",
		})
	case input.Email != "":
		identifier, channel, err := classifyIdentifier(input.Email)
		if err != nil || channel != notification.ChannelEmail {
			return "", "", autherror.NewValidationError(map[string]string{"email": "invalid email address"})
		}
		return identifier, channel, nil
	case input.Phone != "":
		identifier, channel, err := classifyIdentifier(input.Phone)
		if err != nil || channel != notification.ChannelSMS {
			return "", "", autherror.NewValidationError(map[string]string{"phone": "invalid phone number"})
		}
		return identifier, channel, nil
	default:
		return "", "", autherror.NewValidationError(map[string]string{
			"email": "either email or phone is required",
		})
	}
}
