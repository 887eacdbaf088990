package dto

type LoginRequest struct {
	Username   string `json:"username" validate:"required"`
	Password   string `json:"password" validate:"required"`
	DeviceInfo string `json:"device_info,omitempty"` // diagnostic only
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"` // always "bearer"
	Username    string `json:"username"`
	ExpiresIn   int64  `json:"expires_in"` // seconds
}

type MeResponse struct {
	Username string `json:"username"`
	Message  string `json:"message"`
}
