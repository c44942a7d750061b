package impl

import (
	"context"
	"errors"
	"log/slog"

	"employee-auth/internal/domain"
	"employee-auth/internal/observability/middleware"
	"employee-auth/internal/store"

	"github.com/google/uuid"
)

type AccessServiceImpl struct {
	Store dataStore
}

func NewAccessServiceImpl(st *store.Store) *AccessServiceImpl {
	return &AccessServiceImpl{Store: gormStoreAdapter{store: st}}
}

// CanManage fails closed: an actor that cannot be loaded manages nothing.
func (s *AccessServiceImpl) CanManage(ctx context.Context, actorID uuid.UUID, target domain.Role) bool {
	actor, err := s.Store.Employees().GetByID(ctx, actorID)
	if err != nil {
		if !errors.Is(err, store.ErrRecordNotFound) {
			slog.Warn("role check lookup failed", "actor_id", actorID, "error", err,
				"request_id", middleware.RequestIDFromContext(ctx), "trace_id", middleware.TraceIDFromContext(ctx))
		}
		return false
	}
	return actor.Role.CanManage(target)
}
