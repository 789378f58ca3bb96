package controller

import (
	"errors"
	"log"
	"net/smtp"

	"faceattend_v1/middleware"

	"github.com/jordan-wright/email"
)

// sendEmail delivers one plain-text message over SMTP. Callers that
// must not fail on delivery problems go through NotifyByEmail instead.
func sendEmail(to, subject, body string) error {
	from := middleware.GetEnv("EMAIL_ADDRESS")
	password := middleware.GetEnv("EMAIL_PASSWORD")
	host := middleware.GetEnv("SMTP_HOST", "smtp.gmail.com")
	port := middleware.GetEnv("SMTP_PORT", "587")

	if from == "" {
		return errors.New("email sender not configured")
	}

	e := email.NewEmail()
	e.From = from
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	return e.Send(host+":"+port, smtp.PlainAuth("", from, password, host))
}

// NotifyByEmail sends a notification email in the background. Failures
// are logged and swallowed; the triggering operation has already
// committed and must not be affected.
func NotifyByEmail(to, subject, body string) {
	if to == "" {
		return
	}
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Println("Email notification panic:", r)
			}
		}()
		if err := sendEmail(to, subject, body); err != nil {
			log.Println("Error sending email:", err)
		}
	}()
}
