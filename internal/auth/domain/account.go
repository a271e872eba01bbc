package domain

import "time"

// Account is the identity record. At least one of Email or Phone is set.
// An account stays inactive until one channel is verified.
type Account struct {
	ID            string
	Email         *string
	Phone         *string
	FullName      string
	PasswordHash  string
	EmailVerified bool
	PhoneVerified bool
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Identifier returns the account's primary contact, preferring email.
func (a *Account) Identifier() string {
	if a.Email != nil && *a.Email != "" {
		return *a.Email
	}
	if a.Phone != nil {
		return *a.Phone
	}
	return ""
}
