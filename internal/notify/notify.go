// Package notify delivers one-time codes by email. A Mailer renders the
// message and hands it to a Sender chosen by configuration.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrSendFailed    = errors.New("notify: failed to send email")
	ErrInvalidConfig = errors.New("notify: invalid config")
	ErrInvalidParams = errors.New("notify: invalid message")
)

// Message is a rendered email ready for a transport.
type Message struct {
	To       string
	ToName   string
	Subject  string
	HTMLBody string
	TextBody string
	Tag      string
}

func (m Message) Validate() error {
	switch {
	case strings.TrimSpace(m.To) == "":
		return fmt.Errorf("%w: recipient is required", ErrInvalidParams)
	case strings.TrimSpace(m.Subject) == "":
		return fmt.Errorf("%w: subject is required", ErrInvalidParams)
	case m.HTMLBody == "" && m.TextBody == "":
		return fmt.Errorf("%w: body is required", ErrInvalidParams)
	}
	return nil
}

// Sender is a single email transport.
type Sender interface {
	Send(ctx context.Context, msg Message) error
	Driver() string
}

// From identifies the sending mailbox.
type From struct {
	Email string
	Name  string
}

func (f From) String() string {
	if f.Name == "" {
		return f.Email
	}
	return fmt.Sprintf("%q <%s>", f.Name, f.Email)
}
