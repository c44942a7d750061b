package store

import (
	"context"

	"employee-auth/internal/domain"

	"gorm.io/gorm"
)

type Store struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Store { return &Store{DB: db} }

func (s *Store) WithTx(ctx context.Context, fn func(tx *Store) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{DB: tx})
	})
}

// Models lists every persisted type, in dependency order. Tests and local
// development use it with AutoMigrate; production schemas come from SQL
// migrations.
func Models() []any {
	return []any{&domain.Employee{}, &domain.Phone{}, &domain.OtpCode{}}
}
