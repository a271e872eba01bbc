package dto

type VerifyOTPInput struct {
	Identifier string `json:"identifier" validate:"required"`
	OTPCode    string `json:"otp_code" validate:"required,len=4"`
	OTPType    string `json:"otp_type" validate:"required,oneof=email phone login password_reset"`
	IPAddress  string `json:"-"`
	UserAgent  string `json:"-"`
}

type ResendOTPInput struct {
	Identifier string `json:"identifier" validate:"required"`
	OTPType    string `json:"otp_type" validate:"required,oneof=email phone login password_reset"`
}
