// Package notify holds the outbound notification sinks: SMTP mail, a
// zerolog sink for development, and a circuit breaker wrapper.
package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
)

// SMTPConfig describes the relay used for outbound mail.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	// From is the header sender, e.g. `"HR System" <hr@manaable.com>`.
	From string
	// TLS selects implicit TLS (SMTPS) instead of STARTTLS-capable plain dial.
	TLS bool
}

// SMTPNotifier sends plain-text mail through an SMTP relay.
type SMTPNotifier struct {
	addr     string
	auth     sasl.Client
	from     *mail.Address
	tls      bool
	sendMail func(addr string, a sasl.Client, from string, to []string, msg io.Reader) error
}

func NewSMTPNotifier(cfg SMTPConfig) (*SMTPNotifier, error) {
	if cfg.Host == "" {
		return nil, errors.New("smtp host is required")
	}
	from, err := mail.ParseAddress(cfg.From)
	if err != nil {
		return nil, fmt.Errorf("parse smtp from %q: %w", cfg.From, err)
	}
	port := cfg.Port
	if port == 0 {
		port = 587
	}

	n := &SMTPNotifier{
		addr: net.JoinHostPort(cfg.Host, strconv.Itoa(port)),
		from: from,
		tls:  cfg.TLS,
	}
	if cfg.User != "" {
		n.auth = sasl.NewPlainClient("", cfg.User, cfg.Password)
	}
	n.sendMail = n.send
	return n, nil
}

func (n *SMTPNotifier) send(addr string, a sasl.Client, from string, to []string, msg io.Reader) error {
	if n.tls {
		return smtp.SendMailTLS(addr, a, from, to, msg)
	}
	return smtp.SendMail(addr, a, from, to, msg)
}

// Notify delivers one message. The relay call itself cannot be interrupted,
// so ctx only bounds how long the caller waits for it.
func (n *SMTPNotifier) Notify(ctx context.Context, to, subject, body string) error {
	rcpt, err := mail.ParseAddress(to)
	if err != nil {
		return fmt.Errorf("parse recipient %q: %w", to, err)
	}

	msg := strings.NewReader(n.compose(rcpt, subject, body, time.Now()))

	errc := make(chan error, 1)
	go func() {
		errc <- n.sendMail(n.addr, n.auth, n.from.Address, []string{rcpt.Address}, msg)
	}()

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("smtp send to %s: %w", rcpt.Address, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("smtp send to %s: %w", rcpt.Address, ctx.Err())
	}
}

func (n *SMTPNotifier) compose(to *mail.Address, subject, body string, now time.Time) string {
	var b strings.Builder
	b.WriteString("From: " + n.from.String() + "\r\n")
	b.WriteString("To: " + to.String() + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", subject) + "\r\n")
	b.WriteString("Date: " + now.Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return b.String()
}
