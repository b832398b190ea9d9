// Package mailer sends transactional email through SendGrid. Without an
// API key it logs the message instead, so local development needs no
// credentials.
package mailer

import (
	"fmt"

	"edutrek/config"
	"edutrek/logger"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

type Mailer struct {
	apiKey string
	from   *sgmail.Email
}

func New() *Mailer {
	return &Mailer{
		apiKey: config.AppConfig.SendGridApiKey,
		from:   sgmail.NewEmail("EduTrek", config.AppConfig.EmailSender),
	}
}

func (m *Mailer) send(toName, toEmail, subject, htmlBody string) error {
	if m.apiKey == "" {
		logger.Info("email (console fallback)", "to", toEmail, "subject", subject)
		return nil
	}

	msg := sgmail.NewSingleEmail(m.from, subject, sgmail.NewEmail(toName, toEmail), "", htmlBody)
	client := sendgrid.NewSendClient(m.apiKey)
	resp, err := client.Send(msg)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

// SendEnrollmentEmail confirms a new course enrollment.
func (m *Mailer) SendEnrollmentEmail(name, email, courseTitle string) {
	body := fmt.Sprintf(
		`<p>Hi %s,</p><p>You are now enrolled in <strong>%s</strong>. Head to your dashboard to start learning.</p>`,
		name, courseTitle,
	)
	if err := m.send(name, email, "Course Enrollment Confirmation", body); err != nil {
		logger.Error("enrollment email failed", "email", email, "error", err)
	}
}

// SendCertificateEmail notifies a student that their certificate was
// issued.
func (m *Mailer) SendCertificateEmail(name, email, courseTitle, certificateNumber string) {
	body := fmt.Sprintf(
		`<p>Congratulations %s!</p><p>You passed the assessment for <strong>%s</strong>. Your certificate number is <code>%s</code>.</p>`,
		name, courseTitle, certificateNumber,
	)
	if err := m.send(name, email, "Your EduTrek Certificate", body); err != nil {
		logger.Error("certificate email failed", "email", email, "error", err)
	}
}
