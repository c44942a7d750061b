package impl

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"employee-auth/internal/domain"
	"employee-auth/internal/store"

	"github.com/google/uuid"
)

// memoryStore is an in-process stand-in for the gorm store. WithTx holds the
// lock for the whole callback and restores a snapshot when it fails.
type memoryStore struct {
	mu        sync.Mutex
	employees map[uuid.UUID]*domain.Employee
	otps      map[uuid.UUID]*domain.OtpCode

	failGetByEmail error
	failOtpCreate  error
	locked         []uuid.UUID
}

type storeSnapshot struct {
	employees map[uuid.UUID]*domain.Employee
	otps      map[uuid.UUID]*domain.OtpCode
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		employees: make(map[uuid.UUID]*domain.Employee),
		otps:      make(map[uuid.UUID]*domain.OtpCode),
	}
}

func (m *memoryStore) Employees() employeeStore { return &memoryEmployeeStore{store: m} }

func (m *memoryStore) Otps() otpStore { return &memoryOtpStore{store: m} }

func (m *memoryStore) WithTx(ctx context.Context, fn func(tx storeTx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.snapshot()
	tx := &memoryTx{store: m}
	if err := fn(tx); err != nil {
		m.restore(snapshot)
		return err
	}
	return nil
}

func (m *memoryStore) snapshot() storeSnapshot {
	employees := make(map[uuid.UUID]*domain.Employee, len(m.employees))
	for id, e := range m.employees {
		employees[id] = cloneEmployee(e)
	}
	otps := make(map[uuid.UUID]*domain.OtpCode, len(m.otps))
	for id, o := range m.otps {
		copy := *o
		otps[id] = &copy
	}
	return storeSnapshot{employees: employees, otps: otps}
}

func (m *memoryStore) restore(s storeSnapshot) {
	m.employees = s.employees
	m.otps = s.otps
}

// put seeds an employee directly, bypassing validation.
func (m *memoryStore) put(e *domain.Employee) *domain.Employee {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	e.Email = domain.NormalizeEmail(e.Email)
	m.employees[e.ID] = cloneEmployee(e)
	return e
}

func (m *memoryStore) employee(id uuid.UUID) (*domain.Employee, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.employees[id]
	if !ok {
		return nil, false
	}
	return cloneEmployee(e), true
}

// codesFor returns the employee's codes, newest first.
func (m *memoryStore) codesFor(employeeID uuid.UUID) []domain.OtpCode {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.OtpCode
	for _, o := range m.otps {
		if o.EmployeeID == employeeID {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *memoryStore) expireAll(employeeID uuid.UUID, at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.otps {
		if o.EmployeeID == employeeID {
			o.ExpiresAt = at
		}
	}
}

func cloneEmployee(e *domain.Employee) *domain.Employee {
	copy := *e
	copy.Phones = append([]domain.Phone(nil), e.Phones...)
	copy.Manager = nil
	return &copy
}

type memoryTx struct {
	store *memoryStore
}

func (t *memoryTx) Employees() employeeStore { return &memoryEmployeeStore{store: t.store, inTx: true} }

func (t *memoryTx) Otps() otpStore { return &memoryOtpStore{store: t.store, inTx: true} }

type memoryEmployeeStore struct {
	store *memoryStore
	inTx  bool
}

func (s *memoryEmployeeStore) guard() func() {
	if s.inTx {
		return func() {}
	}
	s.store.mu.Lock()
	return s.store.mu.Unlock
}

func (s *memoryEmployeeStore) withManager(e *domain.Employee) *domain.Employee {
	out := cloneEmployee(e)
	if e.ManagerID != nil {
		if mgr, ok := s.store.employees[*e.ManagerID]; ok {
			out.Manager = cloneEmployee(mgr)
		}
	}
	return out
}

func (s *memoryEmployeeStore) Create(ctx context.Context, e *domain.Employee) error {
	defer s.guard()()
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	e.Email = domain.NormalizeEmail(e.Email)
	for _, existing := range s.store.employees {
		if existing.Email == e.Email {
			return errors.New("duplicate email")
		}
	}
	for i := range e.Phones {
		e.Phones[i].ID = uuid.New()
		e.Phones[i].EmployeeID = e.ID
	}
	s.store.employees[e.ID] = cloneEmployee(e)
	return nil
}

func (s *memoryEmployeeStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Employee, error) {
	defer s.guard()()
	e, ok := s.store.employees[id]
	if !ok {
		return nil, store.ErrRecordNotFound
	}
	return s.withManager(e), nil
}

func (s *memoryEmployeeStore) GetByEmail(ctx context.Context, email string) (*domain.Employee, error) {
	defer s.guard()()
	if s.store.failGetByEmail != nil {
		return nil, s.store.failGetByEmail
	}
	email = domain.NormalizeEmail(email)
	for _, e := range s.store.employees {
		if e.Email == email {
			return s.withManager(e), nil
		}
	}
	return nil, store.ErrRecordNotFound
}

func (s *memoryEmployeeStore) List(ctx context.Context, search string) ([]domain.Employee, error) {
	defer s.guard()()
	needle := strings.ToLower(strings.TrimSpace(search))
	var out []domain.Employee
	for _, e := range s.store.employees {
		hay := strings.ToLower(strings.Join([]string{e.FirstName, e.LastName, e.Email, e.Document}, " "))
		if needle == "" || strings.Contains(hay, needle) {
			out = append(out, *s.withManager(e))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].FirstName+" "+out[i].LastName < out[j].FirstName+" "+out[j].LastName
	})
	return out, nil
}

func (s *memoryEmployeeStore) Update(ctx context.Context, e *domain.Employee) error {
	defer s.guard()()
	if _, ok := s.store.employees[e.ID]; !ok {
		return store.ErrRecordNotFound
	}
	e.Email = domain.NormalizeEmail(e.Email)
	for i := range e.Phones {
		if e.Phones[i].ID == uuid.Nil {
			e.Phones[i].ID = uuid.New()
		}
		e.Phones[i].EmployeeID = e.ID
	}
	s.store.employees[e.ID] = cloneEmployee(e)
	return nil
}

func (s *memoryEmployeeStore) Delete(ctx context.Context, id uuid.UUID) (map[string]int64, error) {
	defer s.guard()()
	e, ok := s.store.employees[id]
	if !ok {
		return nil, store.ErrRecordNotFound
	}
	counts := map[string]int64{"employees": 1, "phones": int64(len(e.Phones))}
	for _, other := range s.store.employees {
		if other.ManagerID != nil && *other.ManagerID == id {
			other.ManagerID = nil
			counts["subordinates"]++
		}
	}
	for oid, o := range s.store.otps {
		if o.EmployeeID == id {
			delete(s.store.otps, oid)
			counts["otpCodes"]++
		}
	}
	delete(s.store.employees, id)
	return counts, nil
}

func (s *memoryEmployeeStore) ExistsEmail(ctx context.Context, email string, exclude *uuid.UUID) (bool, error) {
	defer s.guard()()
	email = domain.NormalizeEmail(email)
	for id, e := range s.store.employees {
		if e.Email == email && (exclude == nil || id != *exclude) {
			return true, nil
		}
	}
	return false, nil
}

func (s *memoryEmployeeStore) ExistsDocument(ctx context.Context, document string, exclude *uuid.UUID) (bool, error) {
	defer s.guard()()
	document = strings.TrimSpace(document)
	for id, e := range s.store.employees {
		if e.Document == document && (exclude == nil || id != *exclude) {
			return true, nil
		}
	}
	return false, nil
}

func (s *memoryEmployeeStore) LockForUpdate(ctx context.Context, id uuid.UUID) error {
	defer s.guard()()
	if _, ok := s.store.employees[id]; !ok {
		return store.ErrRecordNotFound
	}
	s.store.locked = append(s.store.locked, id)
	return nil
}

type memoryOtpStore struct {
	store *memoryStore
	inTx  bool
}

func (s *memoryOtpStore) guard() func() {
	if s.inTx {
		return func() {}
	}
	s.store.mu.Lock()
	return s.store.mu.Unlock
}

func (s *memoryOtpStore) InvalidateActive(ctx context.Context, employeeID uuid.UUID, now time.Time) (int64, error) {
	defer s.guard()()
	var n int64
	for _, o := range s.store.otps {
		if o.EmployeeID == employeeID && !o.IsUsed && o.ExpiresAt.After(now) {
			o.IsUsed = true
			n++
		}
	}
	return n, nil
}

func (s *memoryOtpStore) Create(ctx context.Context, o *domain.OtpCode) error {
	defer s.guard()()
	if s.store.failOtpCreate != nil {
		return s.store.failOtpCreate
	}
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	copy := *o
	s.store.otps[o.ID] = &copy
	return nil
}

func (s *memoryOtpStore) FindValid(ctx context.Context, employeeID uuid.UUID, code string, now time.Time) (*domain.OtpCode, error) {
	defer s.guard()()
	var best *domain.OtpCode
	for _, o := range s.store.otps {
		if o.EmployeeID != employeeID || o.Code != code || !o.VerifiableAt(now) {
			continue
		}
		if best == nil || o.CreatedAt.After(best.CreatedAt) {
			best = o
		}
	}
	if best == nil {
		return nil, store.ErrRecordNotFound
	}
	copy := *best
	return &copy, nil
}

func (s *memoryOtpStore) Consume(ctx context.Context, id uuid.UUID, now time.Time) (bool, error) {
	defer s.guard()()
	o, ok := s.store.otps[id]
	if !ok || !o.VerifiableAt(now) {
		return false, nil
	}
	o.IsUsed = true
	return true, nil
}
