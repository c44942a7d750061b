package domain

import "time"

const (
	// OtpTTL is how long an issued code stays verifiable.
	OtpTTL = 10 * time.Minute
	// OtpLength is the number of decimal digits in a code.
	OtpLength = 6
)

type OtpCode struct {
	ID         OtpID      `gorm:"type:uuid;primaryKey" db:"id"`
	EmployeeID EmployeeID `gorm:"type:uuid;not null;index:ix_otp_codes_employee_active,priority:1" db:"employee_id"`
	Code       string     `gorm:"type:varchar(6);not null" db:"code"`
	ExpiresAt  time.Time  `gorm:"not null;index:ix_otp_codes_employee_active,priority:3" db:"expires_at"`
	IsUsed     bool       `gorm:"not null;default:false;index:ix_otp_codes_employee_active,priority:2" db:"is_used"`
	CreatedAt  time.Time  `gorm:"not null" db:"created_at"`
}

func (OtpCode) TableName() string { return "otp_codes" }

// VerifiableAt reports whether the code may still be consumed at now.
func (o *OtpCode) VerifiableAt(now time.Time) bool {
	return !o.IsUsed && o.ExpiresAt.After(now)
}

// IsOtpFormat reports whether code is exactly OtpLength ASCII digits.
func IsOtpFormat(code string) bool {
	if len(code) != OtpLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}
