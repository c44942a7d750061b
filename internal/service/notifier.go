package service

import "context"

// Notifier delivers a one-time code to a person. Send returns only after the
// message was handed to the transport.
type Notifier interface {
	SendOtp(ctx context.Context, email, name, code string) error
}

// CodeGenerator produces fixed-width numeric one-time codes.
type CodeGenerator interface {
	Generate() (string, error)
}
