package impl

import (
	"context"
	"errors"
	"time"

	"employee-auth/internal/domain"
	"employee-auth/internal/store"

	"github.com/google/uuid"
)

type dataStore interface {
	storeTx
	WithTx(ctx context.Context, fn func(tx storeTx) error) error
}

type storeTx interface {
	Employees() employeeStore
	Otps() otpStore
}

type employeeStore interface {
	Create(ctx context.Context, e *domain.Employee) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Employee, error)
	GetByEmail(ctx context.Context, email string) (*domain.Employee, error)
	List(ctx context.Context, search string) ([]domain.Employee, error)
	Update(ctx context.Context, e *domain.Employee) error
	Delete(ctx context.Context, id uuid.UUID) (map[string]int64, error)
	ExistsEmail(ctx context.Context, email string, exclude *uuid.UUID) (bool, error)
	ExistsDocument(ctx context.Context, document string, exclude *uuid.UUID) (bool, error)
	LockForUpdate(ctx context.Context, id uuid.UUID) error
}

type otpStore interface {
	InvalidateActive(ctx context.Context, employeeID uuid.UUID, now time.Time) (int64, error)
	Create(ctx context.Context, o *domain.OtpCode) error
	FindValid(ctx context.Context, employeeID uuid.UUID, code string, now time.Time) (*domain.OtpCode, error)
	Consume(ctx context.Context, id uuid.UUID, now time.Time) (bool, error)
}

type gormStoreAdapter struct {
	store *store.Store
}

func (g gormStoreAdapter) Employees() employeeStore { return g.store.Employees() }

func (g gormStoreAdapter) Otps() otpStore { return g.store.Otps() }

func (g gormStoreAdapter) WithTx(ctx context.Context, fn func(tx storeTx) error) error {
	if g.store == nil {
		return errors.New("nil store")
	}
	return g.store.WithTx(ctx, func(tx *store.Store) error {
		return fn(gormTxAdapter{tx: tx})
	})
}

type gormTxAdapter struct {
	tx *store.Store
}

func (g gormTxAdapter) Employees() employeeStore { return g.tx.Employees() }

func (g gormTxAdapter) Otps() otpStore { return g.tx.Otps() }

func utcNow() time.Time { return time.Now().UTC() }
