package mailing

import (
	"strconv"

	"foodgram-backend/internal/utils"

	"gopkg.in/gomail.v2"
)

type (
	Mailer interface {
		Send(toEmail string, subject string, body string) error
	}

	smtpMailer struct {
		host     string
		port     string
		sender   string
		email    string
		password string
	}
)

func NewSMTPMailer() Mailer {
	return &smtpMailer{
		host:     utils.GetConfig("SMTP_HOST"),
		port:     utils.GetConfig("SMTP_PORT"),
		sender:   utils.GetConfig("SMTP_SENDER_NAME"),
		email:    utils.GetConfig("SMTP_AUTH_EMAIL"),
		password: utils.GetConfig("SMTP_AUTH_PASSWORD"),
	}
}

func (m *smtpMailer) Send(toEmail string, subject string, body string) error {
	mailer := gomail.NewMessage()
	mailer.SetAddressHeader("From", m.email, m.sender)
	mailer.SetHeader("To", toEmail)
	mailer.SetHeader("Subject", subject)
	mailer.SetBody("text/html", body)

	port, err := strconv.Atoi(m.port)
	if err != nil {
		return err
	}

	dialer := gomail.NewDialer(m.host, port, m.email, m.password)
	return dialer.DialAndSend(mailer)
}
