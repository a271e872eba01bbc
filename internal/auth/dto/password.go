package dto

type PasswordResetInput struct {
	Identifier string `json:"identifier" validate:"required"`
}

type PasswordResetConfirmInput struct {
	Identifier      string `json:"identifier" validate:"required"`
	OTPCode         string `json:"otp_code" validate:"required,len=4"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword"`
}

type ChangePasswordInput struct {
	OldPassword     string `json:"old_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword"`
}
