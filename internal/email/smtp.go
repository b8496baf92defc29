package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/mail"
	"net/smtp"
	"strconv"
	"strings"
	"time"
)

// SMTPConfig describes an authenticated relay.
type SMTPConfig struct {
	Host     string // e.g. "smtp.gmail.com"
	Port     int    // 465 for implicit TLS, 587 for STARTTLS
	Username string
	Password string

	// ImplicitTLS dials TLS directly (port 465). Otherwise the connection is
	// upgraded with STARTTLS whenever the server offers it.
	ImplicitTLS bool

	// DialTimeout bounds the TCP/TLS connect only. Zero means 30s.
	DialTimeout time.Duration
}

// smtpClient is the concrete Sender backed by an SMTP relay.
type smtpClient struct {
	cfg SMTPConfig
}

// NewSMTPClient returns a Sender that delivers through the given relay.
func NewSMTPClient(cfg SMTPConfig) Sender {
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 30 * time.Second
	}
	return &smtpClient{cfg: cfg}
}

// Send runs one SMTP transaction: connect, optional STARTTLS, AUTH, MAIL,
// RCPT for every recipient, DATA, QUIT.
//
// ctx cancels the dial. Once connected, only ctx's deadline applies (as the
// connection deadline); cancelling ctx without a deadline does not abort a
// session already in progress.
func (c *smtpClient) Send(ctx context.Context, m Message) error {
	if len(m.To) == 0 {
		return fmt.Errorf("email: no recipients")
	}

	content, err := m.Bytes()
	if err != nil {
		return err
	}

	conn, err := c.dial(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, c.cfg.Host)
	if err != nil {
		return fmt.Errorf("email: create SMTP client: %w", err)
	}
	defer client.Close()

	if !c.cfg.ImplicitTLS {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(&tls.Config{ServerName: c.cfg.Host}); err != nil {
				return fmt.Errorf("email: start TLS: %w", err)
			}
		}
	}

	if c.cfg.Username != "" {
		if ok, _ := client.Extension("AUTH"); !ok {
			return fmt.Errorf("email: server %s does not support AUTH", c.cfg.Host)
		}
		auth := smtp.PlainAuth("", c.cfg.Username, c.cfg.Password, c.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("email: SMTP authentication failed: %w", err)
		}
	}

	if err := client.Mail(extractEmailAddress(m.From)); err != nil {
		return fmt.Errorf("email: set sender: %w", err)
	}
	for _, rcpt := range m.To {
		if err := client.Rcpt(extractEmailAddress(rcpt)); err != nil {
			return fmt.Errorf("email: recipient %s rejected: %w", rcpt, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("email: open data writer: %w", err)
	}
	if _, err := w.Write(content); err != nil {
		_ = w.Close()
		return fmt.Errorf("email: write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("email: close data writer: %w", err)
	}

	return client.Quit()
}

func (c *smtpClient) dial(ctx context.Context) (net.Conn, error) {
	addr := net.JoinHostPort(c.cfg.Host, strconv.Itoa(c.cfg.Port))
	d := &net.Dialer{Timeout: c.cfg.DialTimeout}

	if c.cfg.ImplicitTLS {
		td := &tls.Dialer{NetDialer: d, Config: &tls.Config{ServerName: c.cfg.Host}}
		conn, err := td.DialContext(ctx, "tcp", addr)
		if err != nil {
			return nil, fmt.Errorf("email: TLS connect to %s: %w", addr, err)
		}
		return conn, nil
	}

	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("email: connect to %s: %w", addr, err)
	}
	return conn, nil
}

// extractEmailAddress returns the bare address from "Name <addr>" or "addr".
func extractEmailAddress(address string) string {
	if parsed, err := mail.ParseAddress(address); err == nil {
		return parsed.Address
	}
	return strings.TrimSpace(address)
}
