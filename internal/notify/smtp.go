// Copyright (C) 2026 the quixsi maintainers
// See root-dir/LICENSE for more information

package notify

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/base64"
	"errors"
	"fmt"
	"mime/multipart"
	"net"
	"net/smtp"
	"net/textproto"
	"time"

	"github.com/quixsi/rsvp/internal/config"
)

const smtpTimeout = 10 * time.Second

// SMTPTransport delivers confirmation emails over SMTP with STARTTLS.
// The calendar invite travels as a base64 attachment next to a
// multipart/alternative text+HTML body.
type SMTPTransport struct {
	host     string
	port     string
	username string
	password string
	fromName string
	fromMail string
}

func NewSMTPTransport(cfg config.EmailConfig) *SMTPTransport {
	fromMail := cfg.OrganizerEmail
	if fromMail == "" {
		fromMail = cfg.SMTPUsername
	}
	return &SMTPTransport{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		fromName: cfg.FromNames,
		fromMail: fromMail,
	}
}

func (t *SMTPTransport) Send(ctx context.Context, mail *OutboundEmail) error {
	if t.host == "" || t.username == "" || t.password == "" {
		return errors.New("smtp transport is not configured")
	}

	msg, err := t.buildMessage(mail)
	if err != nil {
		return err
	}

	addr := net.JoinHostPort(t.host, t.port)
	conn, err := net.DialTimeout("tcp", addr, smtpTimeout)
	if err != nil {
		return fmt.Errorf("failed to dial SMTP server: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	} else {
		_ = conn.SetDeadline(time.Now().Add(smtpTimeout))
	}

	client, err := smtp.NewClient(conn, t.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Close()

	if err := client.StartTLS(&tls.Config{ServerName: t.host}); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}
	auth := smtp.PlainAuth("", t.username, t.password, t.host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}
	if err := client.Mail(t.fromMail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := client.Rcpt(mail.To); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open data writer: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		w.Close()
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}
	return client.Quit()
}

func (t *SMTPTransport) buildMessage(mail *OutboundEmail) ([]byte, error) {
	var buf bytes.Buffer

	from := t.fromMail
	if t.fromName != "" {
		from = fmt.Sprintf("%s <%s>", t.fromName, t.fromMail)
	}

	mixed := multipart.NewWriter(&buf)
	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", mail.To)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mail.Subject)
	buf.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", mixed.Boundary())

	// Body: plaintext and HTML as alternatives.
	var altBuf bytes.Buffer
	alt := multipart.NewWriter(&altBuf)
	textPart, err := alt.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/plain; charset=UTF-8"},
	})
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(textPart, "%s\r\n", mail.Text)
	htmlPart, err := alt.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/html; charset=UTF-8"},
	})
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(htmlPart, "%s\r\n", mail.HTML)
	if err := alt.Close(); err != nil {
		return nil, err
	}

	altPart, err := mixed.CreatePart(textproto.MIMEHeader{
		"Content-Type": {fmt.Sprintf("multipart/alternative; boundary=%q", alt.Boundary())},
	})
	if err != nil {
		return nil, err
	}
	if _, err := altPart.Write(altBuf.Bytes()); err != nil {
		return nil, err
	}

	if mail.Invite != nil {
		attachment, err := mixed.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {fmt.Sprintf("text/calendar; charset=UTF-8; method=REQUEST; name=%q", mail.Invite.Filename)},
			"Content-Disposition":       {fmt.Sprintf("attachment; filename=%q", mail.Invite.Filename)},
			"Content-Transfer-Encoding": {"base64"},
		})
		if err != nil {
			return nil, err
		}
		enc := base64.NewEncoder(base64.StdEncoding, attachment)
		if _, err := enc.Write(mail.Invite.Content); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
	}

	if err := mixed.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
