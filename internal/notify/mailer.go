package notify

import (
	"context"
	"fmt"
	"log/slog"

	"employee-auth/internal/observability/metrics"
)

// Mailer renders one-time code emails and delivers them through a Sender.
type Mailer struct {
	sender Sender
}

func NewMailer(sender Sender) *Mailer {
	return &Mailer{sender: sender}
}

func (m *Mailer) SendOtp(ctx context.Context, email, name, code string) (err error) {
	defer func() {
		result := "success"
		if err != nil {
			result = "failure"
		}
		metrics.NotificationsSentTotal.WithLabelValues(m.sender.Driver(), result).Inc()
	}()

	msg, err := RenderOtp(email, name, code)
	if err != nil {
		return err
	}
	if err := m.sender.Send(ctx, msg); err != nil {
		slog.Warn("otp email not delivered", "driver", m.sender.Driver(), "error", err)
		return err
	}
	return nil
}

// Drivers understood by NewSender.
const (
	DriverSMTP     = "smtp"
	DriverPostmark = "postmark"
	DriverLog      = "log"
)

// NewSender picks a transport by driver name.
func NewSender(driver string, smtpCfg SMTPConfig, postmarkCfg PostmarkConfig, logger *slog.Logger) (Sender, error) {
	switch driver {
	case DriverSMTP, "":
		s, err := NewSMTPSender(smtpCfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	case DriverPostmark:
		s, err := NewPostmarkSender(postmarkCfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	case DriverLog:
		return NewLogSender(logger), nil
	default:
		return nil, fmt.Errorf("%w: unknown email driver %q", ErrInvalidConfig, driver)
	}
}
