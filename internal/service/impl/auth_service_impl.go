package impl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
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

const otpSentMessage = "Verification code sent to your email"

type AuthServiceImpl struct {
	Store           dataStore
	PasswordService service.PasswordService
	TService        service.TokenService
	Notifier        service.Notifier
	Codes           service.CodeGenerator
	Now             func() time.Time
}

func NewAuthServiceImpl(
	st *store.Store,
	passwordService service.PasswordService,
	tokenService service.TokenService,
	notifier service.Notifier,
	codes service.CodeGenerator,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		Store:           gormStoreAdapter{store: st},
		PasswordService: passwordService,
		TService:        tokenService,
		Notifier:        notifier,
		Codes:           codes,
		Now:             utcNow,
	}
}

// Authenticate resolves the employee by email and checks the password. An
// unknown email and a wrong password produce the same error.
func (a *AuthServiceImpl) Authenticate(ctx context.Context, email, password string) (*domain.Employee, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	emp, err := a.Store.Employees().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials // don't leak which field failed
		}
		return nil, fmt.Errorf("lookup employee: %w", err)
	}
	if !a.PasswordService.Verify(password, emp.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}
	return emp, nil
}

func (a *AuthServiceImpl) IssueOtp(ctx context.Context, emp *domain.Employee) error {
	return a.issueOtp(ctx, emp, "issue")
}

// issueOtp supersedes every outstanding code of emp, stores a fresh one and
// hands it to the notifier. The sweep and insert commit together under a
// lock on the employee row; delivery happens after commit.
func (a *AuthServiceImpl) issueOtp(ctx context.Context, emp *domain.Employee, flow string) (err error) {
	result := "success"
	defer func() {
		if err != nil {
			result = "failure"
		}
		metrics.OtpIssuedTotal.WithLabelValues(flow, result).Inc()
	}()

	code, err := a.Codes.Generate()
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}
	now := a.Now()
	otp := &domain.OtpCode{
		ID:         uuid.New(),
		EmployeeID: emp.ID,
		Code:       code,
		ExpiresAt:  now.Add(domain.OtpTTL),
		IsUsed:     false,
		CreatedAt:  now,
	}

	var superseded int64
	err = a.Store.WithTx(ctx, func(tx storeTx) error {
		if err := tx.Employees().LockForUpdate(ctx, emp.ID); err != nil {
			return err
		}
		n, err := tx.Otps().InvalidateActive(ctx, emp.ID, now)
		if err != nil {
			return err
		}
		superseded = n
		return tx.Otps().Create(ctx, otp)
	})
	if err != nil {
		return fmt.Errorf("store otp: %w", err)
	}

	if err := a.Notifier.SendOtp(ctx, emp.Email, emp.FullName(), code); err != nil {
		return fmt.Errorf("deliver otp: %w", err)
	}

	reqID := middleware.RequestIDFromContext(ctx)
	traceID := middleware.TraceIDFromContext(ctx)
	slog.Info("issued otp", "flow", flow, "employee_id", emp.ID, "otp_id", otp.ID, "superseded", superseded, "expires_at", otp.ExpiresAt, "request_id", reqID, "trace_id", traceID)
	return nil
}

func (a *AuthServiceImpl) Login(ctx context.Context, r dto.LoginRequest) (*dto.LoginResponse, error) {
	result := "success"
	defer func() {
		metrics.AuthLoginsTotal.WithLabelValues(result).Inc()
	}()

	emp, err := a.Authenticate(ctx, r.Email, r.Password)
	if err != nil {
		result = "failure"
		if errors.Is(err, domain.ErrInvalidCredentials) {
			slog.Warn("login rejected", "email", domain.NormalizeEmail(r.Email), "request_id", middleware.RequestIDFromContext(ctx), "trace_id", middleware.TraceIDFromContext(ctx))
		}
		return nil, err
	}

	if err := a.issueOtp(ctx, emp, "login"); err != nil {
		result = "error"
		return nil, err
	}

	return &dto.LoginResponse{
		RequiresOtp: true,
		Message:     otpSentMessage,
	}, nil
}

// ResendOtp repeats issuance for an email. Unknown emails fail exactly like
// bad credentials.
func (a *AuthServiceImpl) ResendOtp(ctx context.Context, r dto.ResendOtpRequest) error {
	email := domain.NormalizeEmail(r.Email)
	if email == "" {
		return domain.ErrInvalidCredentials
	}
	emp, err := a.Store.Employees().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return domain.ErrInvalidCredentials
		}
		return fmt.Errorf("lookup employee: %w", err)
	}
	return a.issueOtp(ctx, emp, "resend")
}

// VerifyOtp consumes a matching code and returns a bearer token with the
// employee view. It is the only path that mints tokens.
func (a *AuthServiceImpl) VerifyOtp(ctx context.Context, r dto.VerifyOtpRequest) (resp *dto.LoginResponse, err error) {
	result := "success"
	defer func() {
		if err != nil {
			result = "failure"
		}
		metrics.OtpVerificationsTotal.WithLabelValues(result).Inc()
	}()

	email := domain.NormalizeEmail(r.Email)
	code := strings.TrimSpace(r.Code)
	if email == "" || !domain.IsOtpFormat(code) {
		return nil, domain.ErrInvalidOrExpiredOtp
	}

	emp, err := a.Store.Employees().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, domain.ErrInvalidOrExpiredOtp
		}
		return nil, fmt.Errorf("lookup employee: %w", err)
	}

	now := a.Now()
	err = a.Store.WithTx(ctx, func(tx storeTx) error {
		otp, err := tx.Otps().FindValid(ctx, emp.ID, code, now)
		if err != nil {
			if errors.Is(err, store.ErrRecordNotFound) {
				return domain.ErrInvalidOrExpiredOtp
			}
			return err
		}
		consumed, err := tx.Otps().Consume(ctx, otp.ID, now)
		if err != nil {
			return err
		}
		if !consumed {
			return domain.ErrInvalidOrExpiredOtp
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidOrExpiredOtp) {
			return nil, err
		}
		return nil, fmt.Errorf("consume otp: %w", err)
	}

	tok, err := a.TService.Issue(ctx, emp)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	expiresAt := tok.ExpiresAt

	return &dto.LoginResponse{
		Token:       tok.Token,
		ExpiresAt:   &expiresAt,
		Employee:    dto.FromEmployee(emp),
		RequiresOtp: false,
	}, nil
}
