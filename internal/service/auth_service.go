package service

import (
	"context"

	"employee-auth/internal/domain"
	"employee-auth/internal/dto"
)

type AuthService interface {
	Authenticate(ctx context.Context, email, password string) (*domain.Employee, error)
	IssueOtp(ctx context.Context, employee *domain.Employee) error
	Login(ctx context.Context, r dto.LoginRequest) (*dto.LoginResponse, error)
	ResendOtp(ctx context.Context, r dto.ResendOtpRequest) error
	VerifyOtp(ctx context.Context, r dto.VerifyOtpRequest) (*dto.LoginResponse, error)
}
