package dto

import "time"

type TokenResponse struct {
	Token     string
	ExpiresAt time.Time
}
