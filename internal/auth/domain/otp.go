package domain

import (
	"fmt"
	"time"
)

// OTPPurpose tags why a challenge was issued. The values double as the
// wire-level otp_type strings.
type OTPPurpose string

const (
	PurposeEmailVerify   OTPPurpose = "email"
	PurposePhoneVerify   OTPPurpose = "phone"
	PurposeLogin         OTPPurpose = "login"
	PurposePasswordReset OTPPurpose = "password_reset"
)

func ParseOTPPurpose(s string) (OTPPurpose, error) {
	switch OTPPurpose(s) {
	case PurposeEmailVerify, PurposePhoneVerify, PurposeLogin, PurposePasswordReset:
		return OTPPurpose(s), nil
	}
	return "", fmt.Errorf("unknown otp type %q", s)
}

// OTPChallenge is one outstanding one-time code. At most one challenge per
// (identifier, purpose) pair is active; issuing a new one consumes the rest.
type OTPChallenge struct {
	ID                string
	Identifier        string
	Purpose           OTPPurpose
	Code              string
	AttemptsRemaining int
	Consumed          bool
	ExpiresAt         time.Time
	CreatedAt         time.Time
}

func (c *OTPChallenge) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
