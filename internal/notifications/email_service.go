package notifications

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"sort"
	"strconv"
	"strings"
	"time"

	"busbenin/internal/shared/config"
	"busbenin/pkg/logger"
)

// EmailService delivers one rendered email
type EmailService interface {
	SendHTML(ctx context.Context, to, subject, htmlBody, textBody string) error
}

type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
	UseTLS    bool
	Timeout   time.Duration
}

func SMTPConfigFrom(cfg config.EmailConfig) *SMTPConfig {
	return &SMTPConfig{
		Host:      cfg.SMTPHost,
		Port:      cfg.SMTPPort,
		Username:  cfg.SMTPUsername,
		Password:  cfg.SMTPPassword,
		FromEmail: cfg.FromEmail,
		FromName:  cfg.FromName,
		UseTLS:    true,
		Timeout:   cfg.Timeout,
	}
}

func validateSMTPConfig(cfg *SMTPConfig) error {
	switch {
	case cfg == nil:
		return errors.New("SMTP config is nil")
	case cfg.Host == "":
		return errors.New("SMTP host is required")
	case cfg.Port <= 0 || cfg.Port > 65535:
		return errors.New("SMTP port must be between 1 and 65535")
	case cfg.FromEmail == "":
		return errors.New("from email is required")
	}
	return nil
}

type SMTPEmailService struct {
	config *SMTPConfig
	log    *logger.Logger
}

func NewSMTPEmailService(cfg *SMTPConfig, log *logger.Logger) (*SMTPEmailService, error) {
	if err := validateSMTPConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid SMTP configuration: %w", err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &SMTPEmailService{config: cfg, log: log}, nil
}

func (s *SMTPEmailService) SendHTML(ctx context.Context, to, subject, htmlBody, textBody string) error {
	message := s.buildMessage(to, subject, htmlBody, textBody)
	addr := net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))

	var auth smtp.Auth
	if s.config.Username != "" {
		auth = smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	}

	if err := s.send(ctx, addr, auth, to, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.log.InfoContext(ctx, "email sent", "to", to, "subject", subject)
	return nil
}

// send dials with the configured timeout and upgrades with STARTTLS when enabled
func (s *SMTPEmailService) send(ctx context.Context, addr string, auth smtp.Auth, to string, message []byte) error {
	dialer := net.Dialer{Timeout: s.config.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	_ = conn.SetDeadline(time.Now().Add(s.config.Timeout))

	client, err := smtp.NewClient(conn, s.config.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to open SMTP session: %w", err)
	}
	defer client.Quit()

	if s.config.UseTLS {
		if err := client.StartTLS(&tls.Config{ServerName: s.config.Host}); err != nil {
			return fmt.Errorf("failed to start TLS: %w", err)
		}
	}
	if auth != nil {
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("failed to authenticate: %w", err)
		}
	}
	if err := client.Mail(s.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err := w.Write(message); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	return w.Close()
}

func (s *SMTPEmailService) buildMessage(to, subject, htmlBody, textBody string) []byte {
	return buildMIMEMessage(s.config.FromName, s.config.FromEmail, to, subject, htmlBody, textBody, time.Now())
}

func buildMIMEMessage(fromName, fromEmail, to, subject, htmlBody, textBody string, now time.Time) []byte {
	boundary := "boundary_" + strconv.FormatInt(now.UnixNano(), 10)
	headers := map[string]string{
		"From":         fmt.Sprintf("%s <%s>", fromName, fromEmail),
		"To":           to,
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Date":         now.Format(time.RFC1123Z),
		"Content-Type": fmt.Sprintf("multipart/alternative; boundary=%s", boundary),
	}
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %s\r\n", k, headers[k])
	}
	b.WriteString("\r\n")

	if textBody != "" {
		fmt.Fprintf(&b, "--%s\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s\r\n", boundary, textBody)
	}
	if htmlBody != "" {
		fmt.Fprintf(&b, "--%s\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s\r\n", boundary, htmlBody)
	}
	fmt.Fprintf(&b, "--%s--\r\n", boundary)
	return []byte(b.String())
}

// LogEmailService stands in for SMTP when email is disabled
type LogEmailService struct {
	log *logger.Logger
}

func NewLogEmailService(log *logger.Logger) *LogEmailService {
	return &LogEmailService{log: log}
}

func (s *LogEmailService) SendHTML(ctx context.Context, to, subject, htmlBody, textBody string) error {
	s.log.InfoContext(ctx, "email (not sent, email disabled)", "to", to, "subject", subject)
	return nil
}
