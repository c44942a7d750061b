package service

import (
	"context"

	"employee-auth/internal/domain"
	"employee-auth/internal/dto"
)

type TokenService interface {
	Issue(ctx context.Context, employee *domain.Employee) (*dto.TokenResponse, error)
	Parse(token string) (*domain.Principal, error)
}
