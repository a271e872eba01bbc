package dto

type RefreshInput struct {
	Refresh string `json:"refresh" validate:"required"`
}

type TokenResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}
