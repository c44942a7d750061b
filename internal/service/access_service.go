package service

import (
	"context"

	"employee-auth/internal/domain"

	"github.com/google/uuid"
)

// AccessService answers whether an actor may manage records holding a role.
// It never fails; lookup problems count as "no".
type AccessService interface {
	CanManage(ctx context.Context, actorID uuid.UUID, target domain.Role) bool
}
