package impl

import (
	"errors"
	"fmt"

	"employee-auth/internal/domain"
)

var (
	ErrEmptyPassword     = errors.New("empty password")
	ErrInvalidHash       = errors.New("unrecognized password hash")
	ErrInvalidToken      = errors.New("invalid token")
	ErrMissingSigningKey = errors.New("token signing key is not configured")
)

var (
	ErrPasswordLength = fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidRequest, minPasswordLength)
	ErrSelfManaged    = fmt.Errorf("%w: an employee cannot be their own manager", domain.ErrInvalidRequest)
	ErrInvalidEmail   = fmt.Errorf("%w: a valid email is required", domain.ErrInvalidRequest)
	ErrPhoneRequired  = fmt.Errorf("%w: at least one phone is required", domain.ErrInvalidRequest)
)

const minPasswordLength = 8
