package dto

import (
	"time"

	"github.com/driveshare/auth-service/internal/auth/domain"
)

type AccountOutput struct {
	ID            string    `json:"id"`
	Email         string    `json:"email,omitempty"`
	PhoneNumber   string    `json:"phone_number,omitempty"`
	FullName      string    `json:"full_name"`
	EmailVerified bool      `json:"email_verified"`
	PhoneVerified bool      `json:"phone_verified"`
	IsActive      bool      `json:"is_active"`
	DateJoined    time.Time `json:"date_joined"`
}

func NewAccountOutput(a *domain.Account) AccountOutput {
	out := AccountOutput{
		ID:            a.ID,
		FullName:      a.FullName,
		EmailVerified: a.EmailVerified,
		PhoneVerified: a.PhoneVerified,
		IsActive:      a.Active,
		DateJoined:    a.CreatedAt,
	}
	if a.Email != nil {
		out.Email = *a.Email
	}
	if a.Phone != nil {
		out.PhoneNumber = *a.Phone
	}
	return out
}

type SessionOutput struct {
	ID         string    `json:"id"`
	IPAddress  string    `json:"ip_address"`
	UserAgent  string    `json:"user_agent"`
	LastSeenAt time.Time `json:"last_seen_at"`
	CreatedAt  time.Time `json:"created_at"`
}

func NewSessionOutput(s domain.Session) SessionOutput {
	return SessionOutput{
		ID:         s.ID,
		IPAddress:  s.IPAddress,
		UserAgent:  s.UserAgent,
		LastSeenAt: s.LastSeenAt,
		CreatedAt:  s.CreatedAt,
	}
}
