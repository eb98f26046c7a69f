package mail

import (
	"fmt"
	"log"
	"net/smtp"

	"github.com/gigbookhq/gigbook/internal/pkg/env"
)

// SendMail sends an email via SMTP. Used for payout notifications; a
// missing SMTP configuration logs and returns the error so callers can
// treat notification failures as non-fatal.
func SendMail(to string, subject string, body string) error {
	host := env.GetEnv("SMTP_HOST", "")
	port := env.GetEnv("SMTP_PORT", "")
	username := env.GetEnv("SMTP_USERNAME", "")
	password := env.GetEnv("SMTP_PASSWORD", "")
	sender := env.GetEnv("SMTP_SENDER", "")

	if sender == "" {
		sender = fmt.Sprintf("no-reply@%s", "localhost")
	}

	var auth smtp.Auth
	if username != "" && password != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}

	addr := fmt.Sprintf("%s:%s", host, port)

	msg := []byte(
		fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n", sender, to, subject) +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/html; charset=UTF-8\r\n\r\n" +
			body,
	)

	err := smtp.SendMail(addr, auth, sender, []string{to}, msg)
	if err != nil {
		log.Printf("SMTP send error: %v", err)
	}
	return err
}

// PayoutNotifier adapts SendMail to the finance notifier interface.
type PayoutNotifier struct{}

func (PayoutNotifier) NotifyPayout(to string, subject string, body string) error {
	return SendMail(to, subject, body)
}
