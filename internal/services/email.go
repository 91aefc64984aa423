package services

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"net/url"
	"strings"

	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/config"
	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/pkg/logger"
)

// Mailer delivers account mail.
type Mailer interface {
	SendPasswordReset(to, token string) error
	SendVerification(to, token string) error
}

type EmailService struct {
	cfg config.MailConfig
}

func NewEmailService(cfg config.MailConfig) *EmailService {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	return &EmailService{cfg: cfg}
}

func (s *EmailService) SendPasswordReset(to, token string) error {
	link := s.link("/reset-password", token)
	body := fmt.Sprintf("<html><body style=\"font-family: Arial, sans-serif;\"><h2>Reset your password</h2>"+
		"<p>Use the link below to choose a new password. It expires in one hour.</p>"+
		"<p><a href=\"%s\">Reset password</a></p><p>Token: <code>%s</code></p></body></html>", link, token)
	return s.send(to, "Reset your password", body, link)
}

func (s *EmailService) SendVerification(to, token string) error {
	link := s.link("/api/auth/verify-email", token)
	body := fmt.Sprintf("<html><body style=\"font-family: Arial, sans-serif;\"><h2>Confirm your email</h2>"+
		"<p><a href=\"%s\">Verify email address</a></p></body></html>", link)
	return s.send(to, "Confirm your email address", body, link)
}

func (s *EmailService) link(path, token string) string {
	return strings.TrimSuffix(s.cfg.LinkBaseURL, "/") + path + "?token=" + url.QueryEscape(token)
}

func (s *EmailService) send(to, subject, body, link string) error {
	if !s.cfg.Enabled || s.cfg.Host == "" {
		logger.Info().Str("to", to).Str("link", link).Msg("[Email] delivery disabled, logging link")
		return nil
	}

	from := s.cfg.From
	if from == "" {
		from = s.cfg.Username
	}

	var message strings.Builder
	fmt.Fprintf(&message, "From: %s\r\n", from)
	fmt.Fprintf(&message, "To: %s\r\n", to)
	fmt.Fprintf(&message, "Subject: %s\r\n", subject)
	message.WriteString("MIME-Version: 1.0\r\n")
	message.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
	message.WriteString(body)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var auth smtp.Auth
	if s.cfg.Username != "" && s.cfg.Password != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	var err error
	if s.cfg.UseTLS {
		err = s.sendTLS(addr, auth, from, to, message.String())
	} else {
		err = smtp.SendMail(addr, auth, from, []string{to}, []byte(message.String()))
	}
	if err != nil {
		logger.Warn().Err(err).Str("to", to).Msg("[Email] failed to send")
		return err
	}

	logger.Infof("[Email] Sent %q to %s", subject, to)
	return nil
}

func (s *EmailService) sendTLS(addr string, auth smtp.Auth, from, to, message string) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: s.cfg.Host})
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return err
	}
	defer client.Close()

	if auth != nil {
		if err := client.Auth(auth); err != nil {
			return err
		}
	}
	if err := client.Mail(from); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write([]byte(message)); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}
