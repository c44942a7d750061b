package dto

import (
	"time"

	"employee-auth/internal/domain"

	"github.com/google/uuid"
)

// Employee is the external view of domain.Employee. It never carries the
// password hash.
type Employee struct {
	ID          string      `json:"id"`
	FirstName   string      `json:"firstName"`
	LastName    string      `json:"lastName"`
	Email       string      `json:"email"`
	Document    string      `json:"document"`
	BirthDate   Date        `json:"birthDate"`
	Role        domain.Role `json:"role"`
	Department  string      `json:"department"`
	ManagerID   *string     `json:"managerId"`
	ManagerName *string     `json:"managerName"`
	Phones      []Phone     `json:"phones"`
	IsActive    bool        `json:"isActive"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

type Phone struct {
	ID     string `json:"id,omitempty"`
	Number string `json:"number"`
	Type   string `json:"type"`
}

func FromEmployee(e *domain.Employee) *Employee {
	out := &Employee{
		ID:         e.ID.String(),
		FirstName:  e.FirstName,
		LastName:   e.LastName,
		Email:      e.Email,
		Document:   e.Document,
		BirthDate:  NewDate(e.BirthDate),
		Role:       e.Role,
		Department: e.Department,
		Phones:     make([]Phone, 0, len(e.Phones)),
		IsActive:   e.IsActive,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
	if e.ManagerID != nil {
		id := e.ManagerID.String()
		out.ManagerID = &id
	}
	if e.Manager != nil {
		name := e.Manager.FullName()
		out.ManagerName = &name
	}
	for _, p := range e.Phones {
		out.Phones = append(out.Phones, Phone{ID: p.ID.String(), Number: p.Number, Type: p.Type})
	}
	return out
}

func FromEmployees(list []domain.Employee) []*Employee {
	out := make([]*Employee, 0, len(list))
	for i := range list {
		out = append(out, FromEmployee(&list[i]))
	}
	return out
}

type CreateEmployeeRequest struct {
	FirstName  string      `json:"firstName"`
	LastName   string      `json:"lastName"`
	Email      string      `json:"email"`
	Document   string      `json:"document"`
	BirthDate  Date        `json:"birthDate"`
	Password   string      `json:"password"`
	Role       domain.Role `json:"role"`
	Department string      `json:"department"`
	ManagerID  *uuid.UUID  `json:"managerId,omitempty"`
	Phones     []Phone     `json:"phones"`
}

// UpdateEmployeeRequest replaces every editable field. An empty Password
// keeps the current one.
type UpdateEmployeeRequest struct {
	FirstName  string      `json:"firstName"`
	LastName   string      `json:"lastName"`
	Email      string      `json:"email"`
	Document   string      `json:"document"`
	BirthDate  Date        `json:"birthDate"`
	Password   string      `json:"password,omitempty"`
	Role       domain.Role `json:"role"`
	Department string      `json:"department"`
	ManagerID  *uuid.UUID  `json:"managerId,omitempty"`
	IsActive   bool        `json:"isActive"`
	Phones     []Phone     `json:"phones"`
}

// UpdateProfileRequest covers the personal fields a user may edit on their
// own record.
type UpdateProfileRequest struct {
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     string  `json:"email"`
	Document  string  `json:"document"`
	BirthDate Date    `json:"birthDate"`
	Password  string  `json:"password,omitempty"`
	Phones    []Phone `json:"phones"`
}

type CanManageResponse struct {
	CanManage bool `json:"canManage"`
}
