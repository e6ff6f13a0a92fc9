package notify

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	domain "github.com/campusbazaar/marketplace/internal/domain/notify"
	"go.uber.org/zap"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPSender delivers mail over authenticated SMTP with STARTTLS. When no
// credentials are configured it runs in demo mode: the message is logged
// instead of sent and delivery reports success, mirroring a development
// setup without a mail account.
type SMTPSender struct {
	cfg SMTPConfig
	log *zap.Logger
}

func NewSMTPSender(cfg SMTPConfig, logger *zap.Logger) *SMTPSender {
	if logger == nil {
		logger = zap.L()
	}
	return &SMTPSender{cfg: cfg, log: logger}
}

func (s *SMTPSender) Send(ctx context.Context, msg domain.Message) error {
	_ = ctx

	if s.cfg.Username == "" || s.cfg.Password == "" {
		s.log.Info("email_demo_mode",
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject),
			zap.String("body", msg.Body),
		)
		return nil
	}

	from := s.cfg.From
	if from == "" {
		from = s.cfg.Username
	}

	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	if err := smtp.SendMail(addr, auth, from, []string{msg.To}, encode(from, msg)); err != nil {
		return fmt.Errorf("smtp: send to %s: %w", msg.To, err)
	}
	return nil
}

func encode(from string, msg domain.Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)
	return []byte(b.String())
}
