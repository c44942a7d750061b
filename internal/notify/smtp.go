package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wneessen/go-mail"
)

const (
	TLSOpportunistic = "opportunistic"
	TLSMandatory     = "mandatory"
	TLSNone          = "none"
)

const smtpTimeout = 15 * time.Second

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	// TLSPolicy is one of TLSOpportunistic, TLSMandatory or TLSNone.
	// Empty means opportunistic STARTTLS.
	TLSPolicy string
	From      From
}

// SMTPSender delivers through an SMTP relay. PLAIN authentication is used
// only when a username is configured.
type SMTPSender struct {
	cfg  SMTPConfig
	send func(ctx context.Context, msgs ...*mail.Msg) error
	now  func() time.Time
}

func NewSMTPSender(cfg SMTPConfig) (*SMTPSender, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("%w: SMTP host is required", ErrInvalidConfig)
	}
	if cfg.Port <= 0 {
		return nil, fmt.Errorf("%w: SMTP port must be positive", ErrInvalidConfig)
	}
	if cfg.From.Email == "" {
		return nil, fmt.Errorf("%w: sender email is required", ErrInvalidConfig)
	}
	policy, err := tlsPolicy(cfg.TLSPolicy)
	if err != nil {
		return nil, err
	}

	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(policy),
		mail.WithTimeout(smtpTimeout),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return &SMTPSender{cfg: cfg, send: client.DialAndSendWithContext, now: time.Now}, nil
}

func tlsPolicy(name string) (mail.TLSPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", TLSOpportunistic:
		return mail.TLSOpportunistic, nil
	case TLSMandatory:
		return mail.TLSMandatory, nil
	case TLSNone:
		return mail.NoTLS, nil
	default:
		return mail.NoTLS, fmt.Errorf("%w: unknown SMTP TLS policy %q", ErrInvalidConfig, name)
	}
}

func (s *SMTPSender) Driver() string { return DriverSMTP }

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m, err := s.compose(msg)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	if err := s.send(ctx, m); err != nil {
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	return nil
}

// compose builds a multipart/alternative message with a text part and an
// HTML alternative. Addresses are validated by go-mail.
func (s *SMTPSender) compose(msg Message) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.FromFormat(s.cfg.From.Name, s.cfg.From.Email); err != nil {
		return nil, fmt.Errorf("sender address: %w", err)
	}
	if err := m.AddToFormat(msg.ToName, msg.To); err != nil {
		return nil, fmt.Errorf("recipient address: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetDateWithValue(s.now().UTC())
	m.SetMessageIDWithValue(uuid.NewString() + "@" + s.cfg.Host)
	if msg.Tag != "" {
		m.SetGenHeader(mail.Header("X-Mail-Tag"), msg.Tag)
	}

	switch {
	case msg.TextBody != "" && msg.HTMLBody != "":
		m.SetBodyString(mail.TypeTextPlain, msg.TextBody)
		m.AddAlternativeString(mail.TypeTextHTML, msg.HTMLBody)
	case msg.TextBody != "":
		m.SetBodyString(mail.TypeTextPlain, msg.TextBody)
	default:
		m.SetBodyString(mail.TypeTextHTML, msg.HTMLBody)
	}
	return m, nil
}
