package service

import (
	"context"

	"employee-auth/internal/dto"

	"github.com/google/uuid"
)

type EmployeeService interface {
	List(ctx context.Context, search string) ([]*dto.Employee, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.Employee, error)
	Create(ctx context.Context, actorID uuid.UUID, r dto.CreateEmployeeRequest) (*dto.Employee, error)
	Update(ctx context.Context, actorID, id uuid.UUID, r dto.UpdateEmployeeRequest) (*dto.Employee, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, r dto.UpdateProfileRequest) (*dto.Employee, error)
	Delete(ctx context.Context, actorID, id uuid.UUID) error
}
