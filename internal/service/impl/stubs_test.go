package impl

import (
	"context"
	"errors"
	"sync"
	"time"

	"employee-auth/internal/domain"
	"employee-auth/internal/dto"

	"github.com/google/uuid"
)

type stubPasswordService struct {
	hashFunc   func(password string) (string, error)
	verifyFunc func(password, encoded string) bool

	hashCalls   []string
	verifyCalls []string
}

func (s *stubPasswordService) Hash(password string) (string, error) {
	s.hashCalls = append(s.hashCalls, password)
	if s.hashFunc != nil {
		return s.hashFunc(password)
	}
	return "hashed:" + password, nil
}

func (s *stubPasswordService) Verify(password, encoded string) bool {
	s.verifyCalls = append(s.verifyCalls, password)
	if s.verifyFunc != nil {
		return s.verifyFunc(password, encoded)
	}
	return encoded == "hashed:"+password
}

type stubTokenService struct {
	issueErr   error
	issueCalls []uuid.UUID
	now        time.Time
}

func (s *stubTokenService) Issue(ctx context.Context, emp *domain.Employee) (*dto.TokenResponse, error) {
	s.issueCalls = append(s.issueCalls, emp.ID)
	if s.issueErr != nil {
		return nil, s.issueErr
	}
	return &dto.TokenResponse{Token: "token-for-" + emp.ID.String(), ExpiresAt: s.now.Add(time.Hour)}, nil
}

func (s *stubTokenService) Parse(token string) (*domain.Principal, error) {
	return nil, errors.New("not implemented")
}

type sentOtp struct {
	email string
	name  string
	code  string
}

type stubNotifier struct {
	mu   sync.Mutex
	err  error
	sent []sentOtp
}

func (n *stubNotifier) SendOtp(ctx context.Context, email, name, code string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, sentOtp{email: email, name: name, code: code})
	return nil
}

func (n *stubNotifier) last() sentOtp {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.sent) == 0 {
		return sentOtp{}
	}
	return n.sent[len(n.sent)-1]
}

// sequenceCodes hands out a fixed list of codes in order.
type sequenceCodes struct {
	codes []string
	next  int
}

func (s *sequenceCodes) Generate() (string, error) {
	if s.next >= len(s.codes) {
		return "", errors.New("no more codes")
	}
	c := s.codes[s.next]
	s.next++
	return c, nil
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
