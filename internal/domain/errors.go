package domain

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidOrExpiredOtp = errors.New("invalid or expired code")
	ErrForbidden           = errors.New("not allowed to manage employees with this role")
	ErrEmployeeNotFound    = errors.New("employee not found")
)

// Validation failures, surfaced to clients as bad requests.
var (
	ErrInvalidRequest  = errors.New("invalid request")
	ErrInvalidRole     = errors.New("invalid role")
	ErrUnderage        = errors.New("employee must be at least 18 years old")
	ErrEmailTaken      = errors.New("email already registered")
	ErrDocumentTaken   = errors.New("document already registered")
	ErrManagerNotFound = errors.New("manager not found")
)

// IsValidation reports whether err belongs to the validation class.
func IsValidation(err error) bool {
	for _, target := range []error{ErrInvalidRequest, ErrInvalidRole, ErrUnderage, ErrEmailTaken, ErrDocumentTaken, ErrManagerNotFound} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
