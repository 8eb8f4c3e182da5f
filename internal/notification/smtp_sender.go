package notification

import (
	"context"
	"fmt"
	"net"
	"strings"

	"go-leave/internal/events"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"go.uber.org/zap"
)

type SMTPConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	From     string
	TLS      bool
}

// SMTPSender mails notifications directly. Used by the consumer, or by the API when kafka is disabled.
type SMTPSender struct {
	cfg    SMTPConfig
	send   func(addr string, a sasl.Client, from string, to []string, r *strings.Reader) error
	logger *zap.Logger
}

func NewSMTPSender(cfg SMTPConfig, logger ...*zap.Logger) *SMTPSender {
	l := zap.L().Named("notification.smtp")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.smtp")
	}
	s := &SMTPSender{cfg: cfg, logger: l}
	s.send = func(addr string, a sasl.Client, from string, to []string, r *strings.Reader) error {
		if cfg.TLS {
			return smtp.SendMailTLS(addr, a, from, to, r)
		}
		return smtp.SendMail(addr, a, from, to, r)
	}
	return s
}

func (s *SMTPSender) Send(ctx context.Context, event events.LeaveNotificationEvent) error {
	if s.cfg.Host == "" || s.cfg.Port == "" {
		s.logger.Warn("smtp not configured, notification dropped",
			zap.String("event_type", event.EventType),
			zap.String("leave_id", event.LeaveID),
		)
		return nil
	}

	mail, err := Render(event)
	if err != nil {
		return err
	}

	from := s.cfg.From
	if from == "" {
		from = s.cfg.User
	}

	var auth sasl.Client
	if s.cfg.User != "" {
		auth = sasl.NewPlainClient("", s.cfg.User, s.cfg.Password)
	}

	addr := net.JoinHostPort(s.cfg.Host, s.cfg.Port)
	if err := s.send(addr, auth, from, []string{mail.To}, strings.NewReader(compose(from, mail))); err != nil {
		s.logger.Error("send notification mail failed",
			zap.String("event_type", event.EventType),
			zap.String("leave_id", event.LeaveID),
			zap.Error(err),
		)
		return err
	}

	s.logger.Info("notification mail sent",
		zap.String("event_type", event.EventType),
		zap.String("leave_id", event.LeaveID),
	)
	return nil
}

func compose(from string, mail Mail) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", mail.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", mail.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
	b.WriteString(strings.ReplaceAll(mail.Body, "\n", "\r\n"))
	return b.String()
}
