package mail

import (
	"fmt"
	"log"
	"net/smtp"

	"github.com/JonasWeidner/StayAtlas/internal/pkg/env"
)

// SendMail sends an HTML email via SMTP.
func SendMail(to string, subject string, body string) error {
	host := env.GetEnv("SMTP_HOST", "")
	port := env.GetEnv("SMTP_PORT", "")
	username := env.GetEnv("SMTP_USERNAME", "")
	password := env.GetEnv("SMTP_PASSWORD", "")
	sender := env.GetEnv("SMTP_SENDER", "")

	if sender == "" {
		sender = fmt.Sprintf("no-reply@%s", "localhost")
		log.Printf("SMTP_SENDER not set, using default sender: %s", sender)
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
	} else {
		log.Printf("Email sent to %s via %s", to, addr)
	}
	return err
}

// SMTPMailer implements the billing notification interface.
type SMTPMailer struct{}

func NewSMTPMailer() *SMTPMailer {
	return &SMTPMailer{}
}

// SendPaymentFailed notifies a host that a subscription payment failed and
// the listing has been hidden until payment succeeds.
func (m *SMTPMailer) SendPaymentFailed(toEmail, propertyTitle string) error {
	if toEmail == "" {
		return fmt.Errorf("no recipient email for payment-failed notification")
	}
	subject := "Action required: payment failed for your listing"
	body := fmt.Sprintf(
		"<p>Hi,</p>"+
			"<p>The latest subscription payment for your listing <strong>%s</strong> failed. "+
			"The listing is hidden from the directory until payment succeeds.</p>"+
			"<p>Please update your payment method in the billing portal to restore it.</p>",
		propertyTitle,
	)
	return SendMail(toEmail, subject, body)
}
