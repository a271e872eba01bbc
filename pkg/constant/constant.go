package constant

const (
	// OTPAlphabet is the canonical code alphabet. Codes are compared
	// case-insensitively, so lowercase input is accepted.
	OTPAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

	DefaultOTPLength             = 4
	DefaultOTPExpiryMinutes      = 10
	DefaultOTPMaxAttempts        = 3
	DefaultOTPCooldownSeconds    = 60
	DefaultLoginMaxAttempts      = 5
	DefaultLoginWindowMinutes    = 15
	DefaultAccessTokenExpiryMin  = 10080
	DefaultRefreshTokenExpiryMin = 43200

	BearerScheme = "Bearer"
)
