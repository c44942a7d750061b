package store

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"employee-auth/internal/domain"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := db.AutoMigrate(Models()...); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return New(db)
}

func seedEmployee(t *testing.T, st *Store, email string, role domain.Role, manager *uuid.UUID) *domain.Employee {
	t.Helper()
	e := &domain.Employee{
		FirstName:    "Jane",
		LastName:     "Doe",
		Email:        email,
		Document:     uuid.NewString()[:11],
		BirthDate:    time.Date(1990, 3, 4, 0, 0, 0, 0, time.UTC),
		PasswordHash: "hash",
		Role:         role,
		Department:   "Engineering",
		ManagerID:    manager,
		IsActive:     true,
		Phones:       []domain.Phone{{Number: "+55 11 99999-0000", Type: "mobile"}},
	}
	if err := st.Employees().Create(context.Background(), e); err != nil {
		t.Fatalf("create employee: %v", err)
	}
	return e
}

func TestEmployeeStoreCreateAndLookup(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	boss := seedEmployee(t, st, "boss@co.com", domain.RoleDirector, nil)
	e := seedEmployee(t, st, "Jane@Co.com", domain.RoleEmployee, &boss.ID)

	if e.Email != "jane@co.com" {
		t.Fatalf("expected normalized email, got %q", e.Email)
	}

	got, err := st.Employees().GetByEmail(ctx, "JANE@co.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if got.ID != e.ID {
		t.Fatalf("expected %s, got %s", e.ID, got.ID)
	}
	if len(got.Phones) != 1 || got.Phones[0].Number != "+55 11 99999-0000" {
		t.Fatalf("expected phones to be preloaded, got %+v", got.Phones)
	}
	if got.Manager == nil || got.Manager.ID != boss.ID {
		t.Fatalf("expected manager %s to be attached, got %+v", boss.ID, got.Manager)
	}

	if _, err := st.Employees().GetByID(ctx, uuid.New()); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
	if _, err := st.Employees().GetByEmail(ctx, "nobody@co.com"); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestEmployeeStoreExists(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	e := seedEmployee(t, st, "jane@co.com", domain.RoleEmployee, nil)

	taken, err := st.Employees().ExistsEmail(ctx, "JANE@co.com", nil)
	if err != nil || !taken {
		t.Fatalf("expected email to be taken, got %v (err=%v)", taken, err)
	}
	taken, err = st.Employees().ExistsEmail(ctx, "jane@co.com", &e.ID)
	if err != nil || taken {
		t.Fatalf("expected own email to be ignored, got %v (err=%v)", taken, err)
	}
	taken, err = st.Employees().ExistsDocument(ctx, e.Document, nil)
	if err != nil || !taken {
		t.Fatalf("expected document to be taken, got %v (err=%v)", taken, err)
	}
}

func TestEmployeeStoreUpdateReplacesPhones(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	e := seedEmployee(t, st, "jane@co.com", domain.RoleEmployee, nil)

	e.LastName = "Smith"
	e.Role = domain.RoleLeader
	e.Phones = []domain.Phone{{Number: "111", Type: "home"}, {Number: "222", Type: "work"}}
	if err := st.Employees().Update(ctx, e); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := st.Employees().GetByID(ctx, e.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.LastName != "Smith" || got.Role != domain.RoleLeader {
		t.Fatalf("update not persisted: %+v", got)
	}
	if len(got.Phones) != 2 {
		t.Fatalf("expected 2 phones after replace, got %d", len(got.Phones))
	}

	missing := &domain.Employee{ID: uuid.New()}
	if err := st.Employees().Update(ctx, missing); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound for unknown employee, got %v", err)
	}
}

func TestEmployeeStoreListSearch(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	seedEmployee(t, st, "jane@co.com", domain.RoleEmployee, nil)
	other := seedEmployee(t, st, "mark@co.com", domain.RoleLeader, nil)

	all, err := st.Employees().List(ctx, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 employees, got %d", len(all))
	}

	found, err := st.Employees().List(ctx, "MARK")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(found) != 1 || found[0].ID != other.ID {
		t.Fatalf("expected search to match %s, got %+v", other.ID, found)
	}
}

func TestEmployeeStoreListSearchMatchesWildcardsLiterally(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	seedEmployee(t, st, "jane@co.com", domain.RoleEmployee, nil)
	underscored := seedEmployee(t, st, "under_score@co.com", domain.RoleEmployee, nil)
	seedEmployee(t, st, "underxscore@co.com", domain.RoleEmployee, nil)

	for _, term := range []string{"_", "r_s"} {
		found, err := st.Employees().List(ctx, term)
		if err != nil {
			t.Fatalf("search %q: %v", term, err)
		}
		if len(found) != 1 || found[0].ID != underscored.ID {
			t.Fatalf("search %q: expected only %s, got %d rows", term, underscored.ID, len(found))
		}
	}

	for _, term := range []string{"%", `\`} {
		found, err := st.Employees().List(ctx, term)
		if err != nil {
			t.Fatalf("search %q: %v", term, err)
		}
		if len(found) != 0 {
			t.Fatalf("search %q: expected no rows, got %d", term, len(found))
		}
	}
}

func TestEmployeeStoreDelete(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	boss := seedEmployee(t, st, "boss@co.com", domain.RoleLeader, nil)
	sub := seedEmployee(t, st, "sub@co.com", domain.RoleEmployee, &boss.ID)
	now := time.Now().UTC()
	if err := st.Otps().Create(ctx, &domain.OtpCode{EmployeeID: boss.ID, Code: "123456", ExpiresAt: now.Add(domain.OtpTTL), CreatedAt: now}); err != nil {
		t.Fatalf("create otp: %v", err)
	}

	counts, err := st.Employees().Delete(ctx, boss.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if counts["employees"] != 1 || counts["phones"] != 1 || counts["otpCodes"] != 1 || counts["subordinates"] != 1 {
		t.Fatalf("unexpected delete counts: %+v", counts)
	}

	got, err := st.Employees().GetByID(ctx, sub.ID)
	if err != nil {
		t.Fatalf("get subordinate: %v", err)
	}
	if got.ManagerID != nil {
		t.Fatalf("expected subordinate to be detached, got manager %v", got.ManagerID)
	}

	if _, err := st.Employees().Delete(ctx, boss.ID); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound on second delete, got %v", err)
	}
}

func TestWithTxRollsBack(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	e := seedEmployee(t, st, "jane@co.com", domain.RoleEmployee, nil)
	now := time.Now().UTC()

	boom := errors.New("boom")
	err := st.WithTx(ctx, func(tx *Store) error {
		if err := tx.Otps().Create(ctx, &domain.OtpCode{EmployeeID: e.ID, Code: "111111", ExpiresAt: now.Add(domain.OtpTTL), CreatedAt: now}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	codes, err := st.Otps().ListByEmployee(ctx, e.ID)
	if err != nil {
		t.Fatalf("list codes: %v", err)
	}
	if len(codes) != 0 {
		t.Fatalf("expected rollback to discard the code, got %d rows", len(codes))
	}
}
