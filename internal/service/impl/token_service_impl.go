package impl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"employee-auth/internal/domain"
	"employee-auth/internal/dto"
	"employee-auth/internal/observability/metrics"
	"employee-auth/internal/observability/middleware"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultAccessTTL applies when no positive lifetime is configured.
const DefaultAccessTTL = 60 * time.Minute

// ====== Config ======

type TokenConfig struct {
	Issuer     string        // e.g. "EmployeeManagement"
	Audience   string        // e.g. "EmployeeManagement"
	AccessTTL  time.Duration // e.g. 60 * time.Minute
	SigningKey []byte        // HS256 secret
}

// ====== Claims ======

type AccessClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// ====== Service ======

type TokenServiceImpl struct {
	cfg TokenConfig
	now func() time.Time
}

// NewTokenServiceHS256 fails when no signing key is configured; callers treat
// that as a startup error.
func NewTokenServiceHS256(cfg TokenConfig) (*TokenServiceImpl, error) {
	if len(cfg.SigningKey) == 0 {
		return nil, ErrMissingSigningKey
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = DefaultAccessTTL
	}
	return &TokenServiceImpl{cfg: cfg, now: utcNow}, nil
}

func (t *TokenServiceImpl) Issue(ctx context.Context, emp *domain.Employee) (*dto.TokenResponse, error) {
	result := "success"
	defer func() {
		metrics.TokensIssuedTotal.WithLabelValues(result).Inc()
	}()

	now := t.now()
	exp := now.Add(t.cfg.AccessTTL)
	claims := AccessClaims{
		Email: emp.Email,
		Name:  emp.FullName(),
		Role:  emp.Role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.cfg.Issuer,
			Subject:   emp.ID.String(),
			Audience:  jwt.ClaimStrings{t.cfg.Audience},
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.cfg.SigningKey)
	if err != nil {
		result = "failure"
		return nil, err
	}

	reqID := middleware.RequestIDFromContext(ctx)
	traceID := middleware.TraceIDFromContext(ctx)
	slog.Info("issued token", "employee_id", emp.ID, "role", emp.Role, "jti", claims.ID, "request_id", reqID, "trace_id", traceID)

	return &dto.TokenResponse{Token: signed, ExpiresAt: exp}, nil
}

// Parse validates signature, algorithm, issuer, audience and expiry and
// returns the principal the token names.
func (t *TokenServiceImpl) Parse(tokenStr string) (*domain.Principal, error) {
	claims := &AccessClaims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.cfg.Issuer),
		jwt.WithAudience(t.cfg.Audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	tok, err := parser.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return t.cfg.SigningKey, nil
	})
	if err != nil || !tok.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: bad role", ErrInvalidToken)
	}
	return &domain.Principal{
		ID:    id,
		Email: claims.Email,
		Name:  claims.Name,
		Role:  role,
	}, nil
}
