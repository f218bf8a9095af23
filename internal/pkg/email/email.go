package email

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/eyecare/visionai/internal/app/models"
)

// Notifier defines the outbound notification operations. Delivery is
// best-effort: callers log failures and never fail the originating request.
type Notifier interface {
	SendConsultationRequest(toEmail string, consultation *models.Consultation, patientName string) error
	SendContactNotification(recipients []string, msg *models.ContactMessage) error
}

// SMTPConfig holds configuration for the SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
	UseTLS    bool
}

// SMTPNotifier implements Notifier over plain SMTP
type SMTPNotifier struct {
	config SMTPConfig
	logger zerolog.Logger
}

// NewSMTPNotifier creates a new SMTPNotifier
func NewSMTPNotifier(config SMTPConfig, logger zerolog.Logger) *SMTPNotifier {
	return &SMTPNotifier{
		config: config,
		logger: logger,
	}
}

// SendConsultationRequest notifies the assigned specialist about a new
// consultation request.
func (s *SMTPNotifier) SendConsultationRequest(toEmail string, consultation *models.Consultation, patientName string) error {
	// Without credentials, log instead of sending (development mode)
	if s.config.Username == "" || s.config.Password == "" {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Int64("consultationId", consultation.ID).
			Msg("SMTP credentials not configured - consultation notification not sent")
		return nil
	}

	subject := fmt.Sprintf("New Consultation Request from %s", patientName)

	scheduled := "not scheduled yet"
	if consultation.ScheduledDate != nil {
		scheduled = consultation.ScheduledDate.Format(time.RFC1123)
	}

	body := fmt.Sprintf(`You have received a new consultation request:

Patient: %s
Description: %s
Scheduled Date: %s

Please log in to the system to review this consultation request.

Best regards,
EyeCare Vision AI Team`, patientName, consultation.Description, scheduled)

	return s.send([]string{toEmail}, subject, body)
}

// SendContactNotification fans a new contact message out to the staff
// recipient list.
func (s *SMTPNotifier) SendContactNotification(recipients []string, msg *models.ContactMessage) error {
	if len(recipients) == 0 {
		s.logger.Warn().Int64("messageId", msg.ID).Msg("No valid recipients for contact notification")
		return nil
	}

	if s.config.Username == "" || s.config.Password == "" {
		s.logger.Warn().
			Int("recipients", len(recipients)).
			Int64("messageId", msg.ID).
			Msg("SMTP credentials not configured - contact notification not sent")
		return nil
	}

	subject := fmt.Sprintf("New Contact Message: %s", msg.Subject)

	body := fmt.Sprintf(`New contact message received:

From: %s
Email: %s
Subject: %s

Message:
%s

Please log in to the admin panel to respond to this message.

Best regards,
EyeCare Vision AI Team`, msg.Name, msg.Email, msg.Subject, msg.Message)

	return s.send(recipients, subject, body)
}

// send delivers a plain text email to one or more recipients.
func (s *SMTPNotifier) send(to []string, subject, body string) error {
	auth := smtp.PlainAuth(
		"",
		s.config.Username,
		s.config.Password,
		s.config.Host,
	)

	headers := make(map[string]string)
	headers["From"] = fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromEmail)
	headers["To"] = strings.Join(to, ", ")
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/plain; charset=UTF-8"

	message := ""
	for key, value := range headers {
		message += fmt.Sprintf("%s: %s\r\n", key, value)
	}
	message += "\r\n" + body

	serverAddress := s.config.Host + ":" + strconv.Itoa(s.config.Port)

	if s.config.UseTLS {
		tlsConfig := &tls.Config{
			ServerName: s.config.Host,
		}

		conn, err := tls.Dial("tcp", serverAddress, tlsConfig)
		if err != nil {
			s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to connect to SMTP server")
			return fmt.Errorf("failed to connect to SMTP server: %w", err)
		}
		defer conn.Close()

		client, err := smtp.NewClient(conn, s.config.Host)
		if err != nil {
			s.logger.Error().Err(err).Msg("Failed to create SMTP client")
			return fmt.Errorf("failed to create SMTP client: %w", err)
		}
		defer client.Quit()

		if err = client.Auth(auth); err != nil {
			s.logger.Error().Err(err).Msg("SMTP authentication failed")
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}

		if err = client.Mail(s.config.FromEmail); err != nil {
			return fmt.Errorf("failed to set sender: %w", err)
		}
		for _, rcpt := range to {
			if err = client.Rcpt(rcpt); err != nil {
				return fmt.Errorf("failed to set recipient %s: %w", rcpt, err)
			}
		}

		w, err := client.Data()
		if err != nil {
			return fmt.Errorf("failed to get data writer: %w", err)
		}
		if _, err = w.Write([]byte(message)); err != nil {
			return fmt.Errorf("failed to write email message: %w", err)
		}
		if err = w.Close(); err != nil {
			return fmt.Errorf("failed to close data writer: %w", err)
		}

		return nil
	}

	if err := smtp.SendMail(serverAddress, auth, s.config.FromEmail, to, []byte(message)); err != nil {
		s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
