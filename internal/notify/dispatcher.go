package notify

import (
	"context"
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"jobboard/internal/config"
)

// Dispatcher delivers a single email. Implementations are best-effort from
// the caller's point of view: the business transaction that triggered the
// notification has already committed.
type Dispatcher interface {
	Send(ctx context.Context, to []string, subject, htmlBody string) error
}

type SMTPDispatcher struct {
	cfg    config.SMTPConfig
	logger *log.Logger

	// sendMail is swappable for tests.
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPDispatcher(cfg config.SMTPConfig, logger *log.Logger) *SMTPDispatcher {
	return &SMTPDispatcher{cfg: cfg, logger: logger, sendMail: smtp.SendMail}
}

func (d *SMTPDispatcher) Send(_ context.Context, to []string, subject, htmlBody string) error {
	if d == nil || strings.TrimSpace(d.cfg.Host) == "" {
		return fmt.Errorf("smtp not configured")
	}
	if len(to) == 0 || subject == "" || htmlBody == "" {
		return fmt.Errorf("missing required email parameters")
	}

	from := fmt.Sprintf("%q <%s>", d.cfg.SenderName, d.cfg.SenderAddr)
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + strings.Join(to, ", ") + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)

	var auth smtp.Auth
	if d.cfg.Username != "" {
		auth = smtp.PlainAuth("", d.cfg.Username, d.cfg.Password, d.cfg.Host)
	}

	addr := d.cfg.Host + ":" + d.cfg.Port
	if err := d.sendMail(addr, auth, d.cfg.SenderAddr, to, []byte(b.String())); err != nil {
		return err
	}
	if d.logger != nil {
		d.logger.Printf("[Mail] sent | to=%s subject=%q", strings.Join(to, ","), subject)
	}
	return nil
}
