package store

import (
	"context"
	"strings"
	"time"

	"employee-auth/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// likeEscaper makes search terms match literally inside a LIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type EmployeeStore struct{ db *gorm.DB }

func (s *Store) Employees() *EmployeeStore { return &EmployeeStore{db: s.DB} }

func (es *EmployeeStore) Create(ctx context.Context, e *domain.Employee) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	e.Email = domain.NormalizeEmail(e.Email)
	now := time.Now().UTC()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = e.CreatedAt
	}
	preparePhones(e)
	return es.db.WithContext(ctx).Create(e).Error
}

func (es *EmployeeStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Employee, error) {
	var e domain.Employee
	if err := es.db.WithContext(ctx).Preload("Phones").First(&e, "id = ?", id).Error; err != nil {
		return nil, mapNotFound(err)
	}
	if err := es.attachManagers(ctx, []*domain.Employee{&e}); err != nil {
		return nil, err
	}
	return &e, nil
}

// GetByEmail matches the normalized form of email.
func (es *EmployeeStore) GetByEmail(ctx context.Context, email string) (*domain.Employee, error) {
	var e domain.Employee
	err := es.db.WithContext(ctx).Preload("Phones").
		First(&e, "email = ?", domain.NormalizeEmail(email)).Error
	if err != nil {
		return nil, mapNotFound(err)
	}
	if err := es.attachManagers(ctx, []*domain.Employee{&e}); err != nil {
		return nil, err
	}
	return &e, nil
}

// LockForUpdate takes a row lock on the employee for the rest of the
// surrounding transaction. SQLite ignores the locking clause.
func (es *EmployeeStore) LockForUpdate(ctx context.Context, id uuid.UUID) error {
	var e domain.Employee
	err := es.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		First(&e, "id = ?", id).Error
	return mapNotFound(err)
}

// List returns employees ordered by name. A non-empty search matches a
// substring of first name, last name, email or document, ignoring case.
// Wildcard characters in search are matched literally.
func (es *EmployeeStore) List(ctx context.Context, search string) ([]domain.Employee, error) {
	q := es.db.WithContext(ctx).Preload("Phones").Order("first_name, last_name")
	if s := strings.TrimSpace(search); s != "" {
		like := "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
		q = q.Where(`LOWER(first_name) LIKE ? ESCAPE '\' OR LOWER(last_name) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\' OR LOWER(document) LIKE ? ESCAPE '\'`,
			like, like, like, like)
	}
	var out []domain.Employee
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	ptrs := make([]*domain.Employee, len(out))
	for i := range out {
		ptrs[i] = &out[i]
	}
	if err := es.attachManagers(ctx, ptrs); err != nil {
		return nil, err
	}
	return out, nil
}

// Update writes every column of e and replaces its phones.
func (es *EmployeeStore) Update(ctx context.Context, e *domain.Employee) error {
	e.Email = domain.NormalizeEmail(e.Email)
	e.UpdatedAt = time.Now().UTC()
	preparePhones(e)
	return es.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Employee{}).Where("id = ?", e.ID).Updates(map[string]any{
			"first_name":    e.FirstName,
			"last_name":     e.LastName,
			"email":         e.Email,
			"document":      e.Document,
			"birth_date":    e.BirthDate,
			"password_hash": e.PasswordHash,
			"role":          e.Role,
			"department":    e.Department,
			"manager_id":    e.ManagerID,
			"is_active":     e.IsActive,
			"updated_at":    e.UpdatedAt,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrRecordNotFound
		}
		if err := tx.Where("employee_id = ?", e.ID).Delete(&domain.Phone{}).Error; err != nil {
			return err
		}
		if len(e.Phones) == 0 {
			return nil
		}
		return tx.Create(&e.Phones).Error
	})
}

// ExistsEmail reports whether another employee already uses email. A non-nil
// exclude skips that employee.
func (es *EmployeeStore) ExistsEmail(ctx context.Context, email string, exclude *uuid.UUID) (bool, error) {
	return es.exists(ctx, "email = ?", domain.NormalizeEmail(email), exclude)
}

func (es *EmployeeStore) ExistsDocument(ctx context.Context, document string, exclude *uuid.UUID) (bool, error) {
	return es.exists(ctx, "document = ?", strings.TrimSpace(document), exclude)
}

func (es *EmployeeStore) exists(ctx context.Context, cond string, value any, exclude *uuid.UUID) (bool, error) {
	q := es.db.WithContext(ctx).Model(&domain.Employee{}).Where(cond, value)
	if exclude != nil {
		q = q.Where("id <> ?", *exclude)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// attachManagers loads the manager of every employee in one query.
func (es *EmployeeStore) attachManagers(ctx context.Context, list []*domain.Employee) error {
	ids := make([]uuid.UUID, 0, len(list))
	for _, e := range list {
		if e.ManagerID != nil {
			ids = append(ids, *e.ManagerID)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	var managers []domain.Employee
	if err := es.db.WithContext(ctx).Where("id IN ?", ids).Find(&managers).Error; err != nil {
		return err
	}
	byID := make(map[uuid.UUID]*domain.Employee, len(managers))
	for i := range managers {
		byID[managers[i].ID] = &managers[i]
	}
	for _, e := range list {
		if e.ManagerID != nil {
			e.Manager = byID[*e.ManagerID]
		}
	}
	return nil
}

func preparePhones(e *domain.Employee) {
	for i := range e.Phones {
		if e.Phones[i].ID == uuid.Nil {
			e.Phones[i].ID = uuid.New()
		}
		e.Phones[i].EmployeeID = e.ID
	}
}
