package notification

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/smtp"
	"strconv"

	"github.com/driveshare/auth-service/internal/auth/domain"
)

var emailSubjects = map[domain.OTPPurpose]string{
	domain.PurposeEmailVerify:   "Verify Your Email Address",
	domain.PurposeLogin:         "Login Verification Code",
	domain.PurposePasswordReset: "Password Reset Code",
}

// Mailer sends OTP emails over SMTP. With no host configured it logs the
// message instead, which keeps local development working without a relay.
type Mailer struct {
	host string
	port int
	user string
	pass string
	from string
}

func NewMailer(host string, port int, user, pass, from string) *Mailer {
	return &Mailer{host: host, port: port, user: user, pass: pass, from: from}
}

func (m *Mailer) Send(ctx context.Context, msg Message) error {
	subject := emailSubjects[msg.Purpose]
	if subject == "" {
		subject = "Verification Code"
	}

	if m.host == "" {
		log.Printf("[DEV MODE] email to %s: %s (%s)", msg.Recipient, msg.Code, subject)
		return nil
	}

	body := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n"+
		"Your verification code is: %s\r\n\r\n"+
		"If you didn't request this code, please ignore this email.\r\n",
		m.from, msg.Recipient, subject, msg.Code)

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.pass, m.host)
	}

	addr := net.JoinHostPort(m.host, strconv.Itoa(m.port))
	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(addr, auth, m.from, []string{msg.Recipient}, []byte(body))
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
