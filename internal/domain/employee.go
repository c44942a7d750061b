package domain

import (
	"strings"
	"time"
)

// MinimumAge is the youngest an employee may be on the day they are registered.
const MinimumAge = 18

type Employee struct {
	ID           EmployeeID  `gorm:"type:uuid;primaryKey" db:"id" json:"id"`
	FirstName    string      `gorm:"not null" db:"first_name" json:"firstName"`
	LastName     string      `gorm:"not null" db:"last_name" json:"lastName"`
	Email        string      `gorm:"not null;uniqueIndex:ux_employees_email" db:"email" json:"email"`
	Document     string      `gorm:"not null;uniqueIndex:ux_employees_document" db:"document" json:"document"`
	BirthDate    time.Time   `gorm:"not null" db:"birth_date" json:"birthDate"`
	PasswordHash string      `gorm:"not null" db:"password_hash" json:"-"`
	Role         Role        `gorm:"type:varchar(16);not null" db:"role" json:"role"`
	Department   string      `gorm:"not null;default:''" db:"department" json:"department"`
	ManagerID    *EmployeeID `gorm:"type:uuid;index" db:"manager_id" json:"managerId,omitempty"`
	Manager      *Employee   `gorm:"-" json:"-"`
	Phones       []Phone     `gorm:"foreignKey:EmployeeID" json:"phones"`
	IsActive     bool        `gorm:"not null;default:true" db:"is_active" json:"isActive"`
	CreatedAt    time.Time   `gorm:"not null" db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time   `gorm:"not null" db:"updated_at" json:"updatedAt"`
}

func (Employee) TableName() string { return "employees" }

// FullName is the display name embedded in tokens and notifications.
func (e *Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

type Phone struct {
	ID         PhoneID    `gorm:"type:uuid;primaryKey" db:"id" json:"id"`
	EmployeeID EmployeeID `gorm:"type:uuid;not null;index" db:"employee_id" json:"-"`
	Number     string     `gorm:"not null" db:"number" json:"number"`
	Type       string     `gorm:"not null;default:''" db:"type" json:"type"`
}

func (Phone) TableName() string { return "phones" }

// NormalizeEmail is applied on every write and every lookup so that the
// unique email index is effectively case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// AgeAt returns the number of whole years between birth and at.
func AgeAt(birth, at time.Time) int {
	age := at.Year() - birth.Year()
	if at.Month() < birth.Month() || (at.Month() == birth.Month() && at.Day() < birth.Day()) {
		age--
	}
	return age
}
