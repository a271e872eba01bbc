package dto

type LoginInput struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
	IPAddress  string `json:"-"`
	UserAgent  string `json:"-"`
}
