package impl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"employee-auth/internal/domain"
	"employee-auth/internal/dto"
	"employee-auth/internal/observability/metrics"
	"employee-auth/internal/observability/middleware"
	"employee-auth/internal/service"
	"employee-auth/internal/store"

	"github.com/google/uuid"
)

type EmployeeServiceImpl struct {
	Store           dataStore
	Access          service.AccessService
	PasswordService service.PasswordService
	Now             func() time.Time
}

func NewEmployeeServiceImpl(st *store.Store, access service.AccessService, passwordService service.PasswordService) *EmployeeServiceImpl {
	return &EmployeeServiceImpl{
		Store:           gormStoreAdapter{store: st},
		Access:          access,
		PasswordService: passwordService,
		Now:             utcNow,
	}
}

func (s *EmployeeServiceImpl) List(ctx context.Context, search string) ([]*dto.Employee, error) {
	list, err := s.Store.Employees().List(ctx, search)
	if err != nil {
		return nil, err
	}
	return dto.FromEmployees(list), nil
}

func (s *EmployeeServiceImpl) Get(ctx context.Context, id uuid.UUID) (*dto.Employee, error) {
	e, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.FromEmployee(e), nil
}

// Create registers a new employee. The actor must exist and must dominate
// the role being assigned.
func (s *EmployeeServiceImpl) Create(ctx context.Context, actorID uuid.UUID, r dto.CreateEmployeeRequest) (out *dto.Employee, err error) {
	defer s.countMutation("create", &err)

	p := personal{FirstName: r.FirstName, LastName: r.LastName, Email: r.Email, Document: r.Document, BirthDate: r.BirthDate.Time}
	if err := s.validatePersonal(ctx, &p, nil); err != nil {
		return nil, err
	}
	phones, err := toPhones(r.Phones)
	if err != nil {
		return nil, err
	}
	if !r.Role.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidRole, r.Role)
	}
	if err := validateNewPassword(r.Password, true); err != nil {
		return nil, err
	}

	if _, err := s.Store.Employees().GetByID(ctx, actorID); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, domain.ErrForbidden
		}
		return nil, err
	}
	if !s.Access.CanManage(ctx, actorID, r.Role) {
		return nil, domain.ErrForbidden
	}
	if err := s.checkManager(ctx, r.ManagerID, nil); err != nil {
		return nil, err
	}

	hash, err := s.PasswordService.Hash(r.Password)
	if err != nil {
		return nil, err
	}
	now := s.Now()
	e := &domain.Employee{
		ID:           uuid.New(),
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		Email:        p.Email,
		Document:     p.Document,
		BirthDate:    p.BirthDate,
		PasswordHash: hash,
		Role:         r.Role,
		Department:   strings.TrimSpace(r.Department),
		ManagerID:    r.ManagerID,
		Phones:       phones,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Store.Employees().Create(ctx, e); err != nil {
		return nil, err
	}

	slog.Info("employee created", "employee_id", e.ID, "role", e.Role, "actor_id", actorID,
		"request_id", middleware.RequestIDFromContext(ctx), "trace_id", middleware.TraceIDFromContext(ctx))
	return s.Get(ctx, e.ID)
}

// Update replaces every editable field of an employee. The actor must
// dominate both the role the employee holds now and the role being assigned.
func (s *EmployeeServiceImpl) Update(ctx context.Context, actorID, id uuid.UUID, r dto.UpdateEmployeeRequest) (out *dto.Employee, err error) {
	defer s.countMutation("update", &err)

	e, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	p := personal{FirstName: r.FirstName, LastName: r.LastName, Email: r.Email, Document: r.Document, BirthDate: r.BirthDate.Time}
	if err := s.validatePersonal(ctx, &p, &id); err != nil {
		return nil, err
	}
	phones, err := toPhones(r.Phones)
	if err != nil {
		return nil, err
	}
	if !r.Role.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidRole, r.Role)
	}
	if err := validateNewPassword(r.Password, false); err != nil {
		return nil, err
	}

	if !s.Access.CanManage(ctx, actorID, e.Role) || !s.Access.CanManage(ctx, actorID, r.Role) {
		return nil, domain.ErrForbidden
	}
	if err := s.checkManager(ctx, r.ManagerID, &id); err != nil {
		return nil, err
	}

	p.apply(e)
	e.Role = r.Role
	e.Department = strings.TrimSpace(r.Department)
	e.ManagerID = r.ManagerID
	e.IsActive = r.IsActive
	e.Phones = phones
	if r.Password != "" {
		if e.PasswordHash, err = s.PasswordService.Hash(r.Password); err != nil {
			return nil, err
		}
	}
	if err := s.Store.Employees().Update(ctx, e); err != nil {
		return nil, err
	}

	slog.Info("employee updated", "employee_id", e.ID, "role", e.Role, "actor_id", actorID,
		"request_id", middleware.RequestIDFromContext(ctx), "trace_id", middleware.TraceIDFromContext(ctx))
	return s.Get(ctx, e.ID)
}

// UpdateProfile lets a user edit their own personal fields. Role,
// department, manager and active flag are left untouched.
func (s *EmployeeServiceImpl) UpdateProfile(ctx context.Context, userID uuid.UUID, r dto.UpdateProfileRequest) (out *dto.Employee, err error) {
	defer s.countMutation("profile", &err)

	e, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	p := personal{FirstName: r.FirstName, LastName: r.LastName, Email: r.Email, Document: r.Document, BirthDate: r.BirthDate.Time}
	if err := s.validatePersonal(ctx, &p, &userID); err != nil {
		return nil, err
	}
	phones, err := toPhones(r.Phones)
	if err != nil {
		return nil, err
	}
	if err := validateNewPassword(r.Password, false); err != nil {
		return nil, err
	}

	p.apply(e)
	e.Phones = phones
	if r.Password != "" {
		if e.PasswordHash, err = s.PasswordService.Hash(r.Password); err != nil {
			return nil, err
		}
	}
	if err := s.Store.Employees().Update(ctx, e); err != nil {
		return nil, err
	}
	return s.Get(ctx, e.ID)
}

func (s *EmployeeServiceImpl) Delete(ctx context.Context, actorID, id uuid.UUID) (err error) {
	defer s.countMutation("delete", &err)

	e, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !s.Access.CanManage(ctx, actorID, e.Role) {
		return domain.ErrForbidden
	}
	counts, err := s.Store.Employees().Delete(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return domain.ErrEmployeeNotFound
		}
		return err
	}

	slog.Info("employee deleted", "employee_id", id, "actor_id", actorID, "affected", counts,
		"request_id", middleware.RequestIDFromContext(ctx), "trace_id", middleware.TraceIDFromContext(ctx))
	return nil
}

func (s *EmployeeServiceImpl) load(ctx context.Context, id uuid.UUID) (*domain.Employee, error) {
	e, err := s.Store.Employees().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, domain.ErrEmployeeNotFound
		}
		return nil, err
	}
	return e, nil
}

func (s *EmployeeServiceImpl) checkManager(ctx context.Context, managerID, self *uuid.UUID) error {
	if managerID == nil {
		return nil
	}
	if self != nil && *managerID == *self {
		return ErrSelfManaged
	}
	if _, err := s.Store.Employees().GetByID(ctx, *managerID); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return domain.ErrManagerNotFound
		}
		return err
	}
	return nil
}

func (s *EmployeeServiceImpl) countMutation(op string, err *error) {
	result := "success"
	switch {
	case *err == nil:
	case errors.Is(*err, domain.ErrForbidden):
		result = "forbidden"
	default:
		result = "failure"
	}
	metrics.EmployeeMutationsTotal.WithLabelValues(op, result).Inc()
}

// personal holds the fields shared by every create and edit path.
type personal struct {
	FirstName string
	LastName  string
	Email     string
	Document  string
	BirthDate time.Time
}

func (p *personal) apply(e *domain.Employee) {
	e.FirstName = p.FirstName
	e.LastName = p.LastName
	e.Email = p.Email
	e.Document = p.Document
	e.BirthDate = p.BirthDate
}

// validatePersonal normalizes p and checks required fields, minimum age and
// uniqueness of document and email. exclude skips the record being edited.
func (s *EmployeeServiceImpl) validatePersonal(ctx context.Context, p *personal, exclude *uuid.UUID) error {
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	p.Email = domain.NormalizeEmail(p.Email)
	p.Document = strings.TrimSpace(p.Document)

	switch {
	case p.FirstName == "" || p.LastName == "":
		return fmt.Errorf("%w: first and last name are required", domain.ErrInvalidRequest)
	case !validEmail(p.Email):
		return ErrInvalidEmail
	case p.Document == "":
		return fmt.Errorf("%w: document is required", domain.ErrInvalidRequest)
	case p.BirthDate.IsZero():
		return fmt.Errorf("%w: birth date is required", domain.ErrInvalidRequest)
	}
	if domain.AgeAt(p.BirthDate, s.Now()) < domain.MinimumAge {
		return domain.ErrUnderage
	}

	employees := s.Store.Employees()
	if taken, err := employees.ExistsDocument(ctx, p.Document, exclude); err != nil {
		return err
	} else if taken {
		return domain.ErrDocumentTaken
	}
	if taken, err := employees.ExistsEmail(ctx, p.Email, exclude); err != nil {
		return err
	} else if taken {
		return domain.ErrEmailTaken
	}
	return nil
}

func validateNewPassword(password string, required bool) error {
	if password == "" {
		if required {
			return fmt.Errorf("%w: password is required", domain.ErrInvalidRequest)
		}
		return nil
	}
	if len(password) < minPasswordLength {
		return ErrPasswordLength
	}
	return nil
}

// validEmail accepts a bare address only. Display names and line breaks
// are rejected.
func validEmail(email string) bool {
	if email == "" || strings.ContainsAny(email, "\r\n") {
		return false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	return addr.Address == email
}

// toPhones drops blank numbers and requires at least one to remain.
func toPhones(in []dto.Phone) ([]domain.Phone, error) {
	out := make([]domain.Phone, 0, len(in))
	for _, p := range in {
		number := strings.TrimSpace(p.Number)
		if number == "" {
			continue
		}
		out = append(out, domain.Phone{Number: number, Type: strings.TrimSpace(p.Type)})
	}
	if len(out) == 0 {
		return nil, ErrPhoneRequired
	}
	return out, nil
}
