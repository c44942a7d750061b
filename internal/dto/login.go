package dto

import "time"

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type VerifyOtpRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type ResendOtpRequest struct {
	Email string `json:"email"`
}

// LoginResponse is shared by the login and verify steps. Only the verify step
// carries a token.
type LoginResponse struct {
	Token       string     `json:"token,omitempty"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
	Employee    *Employee  `json:"employee,omitempty"`
	RequiresOtp bool       `json:"requiresOtp"`
	Message     string     `json:"message,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
