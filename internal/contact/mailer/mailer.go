// Package mailer forwards contact messages to the shop's inbox over SMTP.
package mailer

import (
	"context"
	"fmt"
	"html"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/karan399/milkman/internal/contact/domain"
)

const (
	senderName = "Mithai Bhandar"
	subject    = "New Contact Message"
)

// Mailer delivers a contact message.
type Mailer interface {
	SendContact(ctx context.Context, m *domain.Message) error
}

// SMTPMailer sends contact messages with gomail.
type SMTPMailer struct {
	from string
	to   string
	send func(msgs ...*gomail.Message) error
}

var _ Mailer = (*SMTPMailer)(nil)

// NewSMTPMailer returns a mailer that dials host:port for every message.
func NewSMTPMailer(host string, port int, username, password, from, to string) *SMTPMailer {
	d := gomail.NewDialer(host, port, username, password)
	return &SMTPMailer{from: from, to: to, send: d.DialAndSend}
}

// NewMailerWithSender returns a mailer that hands messages to s (an open SMTP connection, or a fake).
func NewMailerWithSender(s gomail.Sender, from, to string) *SMTPMailer {
	return &SMTPMailer{
		from: from,
		to:   to,
		send: func(msgs ...*gomail.Message) error { return gomail.Send(s, msgs...) },
	}
}

// SendContact mails m to the configured inbox with the submitter as Reply-To.
func (m *SMTPMailer) SendContact(ctx context.Context, msg *domain.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.to == "" {
		return fmt.Errorf("mailer: no recipient configured")
	}
	gm := gomail.NewMessage()
	gm.SetHeader("From", gm.FormatAddress(m.from, senderName))
	gm.SetHeader("To", m.to)
	gm.SetHeader("Reply-To", msg.Email)
	gm.SetHeader("Subject", subject)
	gm.SetBody("text/html", HTMLBody(msg))
	gm.AddAlternative("text/plain", TextBody(msg))
	if err := m.send(gm); err != nil {
		return fmt.Errorf("mailer: send: %w", err)
	}
	return nil
}

// HTMLBody renders msg as escaped HTML.
func HTMLBody(msg *domain.Message) string {
	text := strings.ReplaceAll(html.EscapeString(msg.Message), "\n", "<br/>")
	return fmt.Sprintf("<h2>New Contact Message</h2><p><b>Name:</b> %s</p><p><b>Email:</b> %s</p><p><b>Message:</b><br/>%s</p>",
		html.EscapeString(msg.Name), html.EscapeString(msg.Email), text)
}

// TextBody renders msg as plain text.
func TextBody(msg *domain.Message) string {
	return fmt.Sprintf("New Contact Message\n\nName: %s\nEmail: %s\n\n%s\n", msg.Name, msg.Email, msg.Message)
}
