package store

import (
	"context"

	"employee-auth/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Delete removes the employee together with its phones and OTP history,
// detaches any subordinates, and returns the number of rows touched per
// table.
func (es *EmployeeStore) Delete(ctx context.Context, id uuid.UUID) (map[string]int64, error) {
	affected := map[string]int64{}

	err := es.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		run := func(label string, q *gorm.DB) error {
			if q.Error != nil {
				return q.Error
			}
			affected[label] = q.RowsAffected
			return nil
		}

		if err := run("subordinates", tx.Model(&domain.Employee{}).
			Where("manager_id = ?", id).
			Update("manager_id", nil)); err != nil {
			return err
		}
		if err := run("phones", tx.Where("employee_id = ?", id).Delete(&domain.Phone{})); err != nil {
			return err
		}
		if err := run("otpCodes", tx.Where("employee_id = ?", id).Delete(&domain.OtpCode{})); err != nil {
			return err
		}
		if err := run("employees", tx.Where("id = ?", id).Delete(&domain.Employee{})); err != nil {
			return err
		}
		if affected["employees"] == 0 {
			return ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return affected, nil
}
