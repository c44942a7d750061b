package store

import (
	"context"
	"time"

	"employee-auth/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OtpStore struct{ db *gorm.DB }

func (s *Store) Otps() *OtpStore { return &OtpStore{db: s.DB} }

// InvalidateActive marks every unused, unexpired code of the employee as used
// and returns how many rows were swept.
func (s *OtpStore) InvalidateActive(ctx context.Context, employeeID uuid.UUID, now time.Time) (int64, error) {
	res := s.db.WithContext(ctx).
		Model(&domain.OtpCode{}).
		Where("employee_id = ? AND is_used = ? AND expires_at > ?", employeeID, false, now.UTC()).
		Update("is_used", true)
	return res.RowsAffected, res.Error
}

func (s *OtpStore) Create(ctx context.Context, o *domain.OtpCode) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	o.ExpiresAt = o.ExpiresAt.UTC()
	o.CreatedAt = o.CreatedAt.UTC()
	return s.db.WithContext(ctx).Create(o).Error
}

// FindValid returns the newest unused, unexpired code of the employee that
// equals code.
func (s *OtpStore) FindValid(ctx context.Context, employeeID uuid.UUID, code string, now time.Time) (*domain.OtpCode, error) {
	var o domain.OtpCode
	err := s.db.WithContext(ctx).
		Where("employee_id = ? AND code = ? AND is_used = ? AND expires_at > ?", employeeID, code, false, now.UTC()).
		Order("created_at DESC").
		Take(&o).Error
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &o, nil
}

// Consume flips a code to used only if it is still unused and unexpired.
// It reports false when another request got there first or the code lapsed.
func (s *OtpStore) Consume(ctx context.Context, id uuid.UUID, now time.Time) (bool, error) {
	res := s.db.WithContext(ctx).
		Model(&domain.OtpCode{}).
		Where("id = ? AND is_used = ? AND expires_at > ?", id, false, now.UTC()).
		Update("is_used", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// ListByEmployee returns the employee's codes, newest first, used and
// expired ones included. The sign-in flow never calls it; it exists for
// inspecting code history from tests and operator tooling.
func (s *OtpStore) ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]domain.OtpCode, error) {
	var out []domain.OtpCode
	err := s.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}
