// Package mail sends transactional email.
//
//	err := mail.To("jane@example.com").
//	    Subject("Your order #12").
//	    Template(orderTmpl, data).
//	    Send(ctx)
//
// The transport is chosen by MAIL_DRIVER: "smtp" delivers through the
// configured server, "log" (the default) writes the message to the log.
package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"net"
	"net/smtp"
	"strings"
	"sync"

	"github.com/shashiranjanraj/mockshop/config"
	"github.com/shashiranjanraj/mockshop/pkg/logger"
)

// Message is one outgoing email.
type Message struct {
	From    string
	To      []string
	Subject string
	Body    string
	HTML    bool
}

// Mailer delivers messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

var (
	mu      sync.RWMutex
	current Mailer
)

// Use replaces the process-wide mailer.
func Use(m Mailer) {
	mu.Lock()
	defer mu.Unlock()
	current = m
}

// Default returns the configured mailer, building it on first use.
func Default() Mailer {
	mu.RLock()
	m := current
	mu.RUnlock()
	if m != nil {
		return m
	}

	mu.Lock()
	defer mu.Unlock()
	if current == nil {
		switch config.MailDriver() {
		case "smtp":
			current = NewSMTPMailer(SMTPConfigFromEnv())
		default:
			current = LogMailer{}
		}
	}
	return current
}

// Builder assembles a Message fluently.
type Builder struct {
	msg Message
	err error
}

// To starts a message to addresses.
func To(addresses ...string) *Builder {
	return &Builder{msg: Message{To: addresses, From: config.MailFrom()}}
}

func (b *Builder) Subject(s string) *Builder {
	b.msg.Subject = s
	return b
}

// Text sets a plain-text body.
func (b *Builder) Text(body string) *Builder {
	b.msg.Body, b.msg.HTML = body, false
	return b
}

// Template renders t with data as an HTML body.
func (b *Builder) Template(t *template.Template, data any) *Builder {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		b.err = fmt.Errorf("mail: render %s: %w", t.Name(), err)
		return b
	}
	b.msg.Body, b.msg.HTML = buf.String(), true
	return b
}

// Message returns the assembled message.
func (b *Builder) Message() (Message, error) { return b.msg, b.err }

// Send delivers through the default mailer.
func (b *Builder) Send(ctx context.Context) error {
	if b.err != nil {
		return b.err
	}
	if len(b.msg.To) == 0 {
		return fmt.Errorf("mail: no recipients")
	}
	return Default().Send(ctx, b.msg)
}

// LogMailer writes messages to the log instead of sending them.
type LogMailer struct{}

func (LogMailer) Send(ctx context.Context, msg Message) error {
	logger.WithCtx(ctx).Info("mail: message",
		"to", strings.Join(msg.To, ","),
		"subject", msg.Subject,
		"bytes", len(msg.Body),
	)
	return nil
}

// Recorder keeps sent messages in memory.
type Recorder struct {
	mu   sync.Mutex
	sent []Message
}

func (r *Recorder) Send(_ context.Context, msg Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, msg)
	return nil
}

// Sent returns a copy of the recorded messages.
func (r *Recorder) Sent() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.sent))
	copy(out, r.sent)
	return out
}

// SMTPConfig holds server credentials.
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
}

// SMTPConfigFromEnv reads MAIL_HOST, MAIL_PORT, MAIL_USERNAME and
// MAIL_PASSWORD.
func SMTPConfigFromEnv() SMTPConfig {
	return SMTPConfig{
		Host:     config.MailHost(),
		Port:     config.MailPort(),
		Username: config.MailUsername(),
		Password: config.MailPassword(),
	}
}

// SMTPMailer delivers over SMTP, with implicit TLS on port 465 and STARTTLS
// when the server offers it elsewhere.
type SMTPMailer struct {
	cfg SMTPConfig
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer { return &SMTPMailer{cfg: cfg} }

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	addr := net.JoinHostPort(m.cfg.Host, m.cfg.Port)

	var conn net.Conn
	var err error
	dialer := &net.Dialer{}
	if m.cfg.Port == "465" {
		conn, err = (&tls.Dialer{NetDialer: dialer, Config: &tls.Config{ServerName: m.cfg.Host}}).DialContext(ctx, "tcp", addr)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return fmt.Errorf("mail: dial %s: %w", addr, err)
	}
	if dl, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(dl)
	}

	c, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("mail: handshake: %w", err)
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok && m.cfg.Port != "465" {
		if err := c.StartTLS(&tls.Config{ServerName: m.cfg.Host}); err != nil {
			return fmt.Errorf("mail: starttls: %w", err)
		}
	}
	if m.cfg.Username != "" {
		if err := c.Auth(smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)); err != nil {
			return fmt.Errorf("mail: auth: %w", err)
		}
	}
	if err := c.Mail(msg.From); err != nil {
		return err
	}
	for _, rcpt := range msg.To {
		if err := c.Rcpt(rcpt); err != nil {
			return fmt.Errorf("mail: rcpt %s: %w", rcpt, err)
		}
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(buildRaw(msg)); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}

func buildRaw(msg Message) []byte {
	contentType := "text/plain"
	if msg.HTML {
		contentType = "text/html"
	}
	var b strings.Builder
	b.WriteString("From: " + msg.From + "\r\n")
	b.WriteString("To: " + strings.Join(msg.To, ", ") + "\r\n")
	b.WriteString("Subject: " + msg.Subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: " + contentType + "; charset=\"UTF-8\"\r\n\r\n")
	b.WriteString(msg.Body)
	return []byte(b.String())
}
