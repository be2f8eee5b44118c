// Package mailer sends transactional email over SMTP. In development any
// SMTP sandbox (for example Mailtrap on port 2525) works as the relay.
package mailer

import (
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
)

// Mailer sends one email.
type Mailer interface {
	SendEmail(recipient, subject, body string) error
}

// Config holds the SMTP relay settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	Sender   string
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPMailer is a Mailer backed by an SMTP relay.
type SMTPMailer struct {
	cfg  Config
	send sendFunc
}

// NewSMTPMailer validates cfg and returns a mailer for it.
func NewSMTPMailer(cfg Config) (*SMTPMailer, error) {
	if cfg.Host == "" {
		return nil, errors.New("SMTP host must be provided")
	}
	if cfg.Sender == "" {
		return nil, errors.New("sender email address cannot be empty")
	}
	if cfg.Username == "" || cfg.Password == "" {
		return nil, errors.New("SMTP username and password must be provided")
	}
	if cfg.Port == 0 {
		cfg.Port = 2525
	}
	return &SMTPMailer{cfg: cfg, send: smtp.SendMail}, nil
}

// SendEmail sends body to recipient. Bodies containing <html> or <p> are sent as HTML.
func (m *SMTPMailer) SendEmail(recipient, subject, body string) error {
	if recipient == "" {
		return errors.New("recipient email address cannot be empty")
	}
	if subject == "" {
		return errors.New("email subject cannot be empty")
	}

	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	if err := m.send(addr, auth, m.cfg.Sender, []string{recipient}, buildMessage(m.cfg.Sender, recipient, subject, body)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func buildMessage(sender, recipient, subject, body string) []byte {
	contentType := "text/plain; charset=UTF-8"
	lower := strings.ToLower(body)
	if strings.Contains(lower, "<html>") || strings.Contains(lower, "<p>") {
		contentType = "text/html; charset=UTF-8"
	}
	return []byte(fmt.Sprintf("To: %s\r\n"+
		"From: %s\r\n"+
		"Subject: %s\r\n"+
		"Content-Type: %s\r\n"+
		"\r\n"+
		"%s\r\n", recipient, sender, subject, contentType, body))
}
