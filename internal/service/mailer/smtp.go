package mailer

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/resto/internal/domain"
)

// SMTPMailer отправляет письма через внешний SMTP-релей. Дедлайн отправки
// задаёт вызывающий через контекст; его истечение возвращается как
// ErrMailTimeout, отличимый от ошибки самой отправки.
type SMTPMailer struct {
	addr   string
	from   string
	auth   smtp.Auth
	logger *log.Entry
}

// NewSMTPMailer создаёт mailer для данного релея. auth может быть nil для
// релеев без аутентификации.
func NewSMTPMailer(addr, from string, auth smtp.Auth, logger *log.Entry) *SMTPMailer {
	if logger == nil {
		logger = log.WithField("component", "smtp-mailer")
	}
	return &SMTPMailer{addr: addr, from: from, auth: auth, logger: logger}
}

// Send отправляет письмо, уважая дедлайн контекста.
func (m *SMTPMailer) Send(ctx context.Context, mail domain.Mail) error {
	done := make(chan error, 1)
	go func() {
		done <- m.send(ctx, mail)
	}()

	select {
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return domain.ErrMailTimeout
		}
		return ctx.Err()
	case err := <-done:
		if err != nil {
			return fmt.Errorf("send mail to %s: %w", mail.To.String(), err)
		}
		return nil
	}
}

func (m *SMTPMailer) send(ctx context.Context, mail domain.Mail) error {
	dialer := net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", m.addr)
	if err != nil {
		return err
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	host, _, err := net.SplitHostPort(m.addr)
	if err != nil {
		host = m.addr
	}
	client, err := smtp.NewClient(conn, host)
	if err != nil {
		_ = conn.Close()
		return err
	}
	defer client.Close()

	if m.auth != nil {
		if err := client.Auth(m.auth); err != nil {
			return err
		}
	}
	if err := client.Mail(m.from); err != nil {
		return err
	}
	if err := client.Rcpt(mail.To.String()); err != nil {
		return err
	}

	writer, err := client.Data()
	if err != nil {
		return err
	}
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nDate: %s\r\n\r\n%s\r\n",
		m.from, mail.To.String(), mail.Subject, time.Now().UTC().Format(time.RFC1123Z), mail.Body)
	if _, err := writer.Write([]byte(msg)); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}
	return client.Quit()
}

var _ domain.Mailer = (*SMTPMailer)(nil)
