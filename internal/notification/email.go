package notification

import (
	"context"
	"fmt"
	"html"
	"net/smtp"

	"github.com/tendant/membership-slim/pkg/domain"
)

type EmailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	FromName string
}

// sendFunc matches smtp.SendMail.
type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailService notifies applicants about their membership application.
type EmailService struct {
	config EmailConfig
	send   sendFunc
}

func NewEmailService(config EmailConfig) *EmailService {
	return &EmailService{config: config, send: smtp.SendMail}
}

// ApplicationReceived confirms a new application to the applicant.
func (s *EmailService) ApplicationReceived(ctx context.Context, member *domain.Member) error {
	subject := "We Received Your Membership Application"
	body := fmt.Sprintf(`<html><body>
		<h2>Thank you for applying, %s!</h2>
		<p>Your membership application has been received and is awaiting review.</p>
		<p>We will email you again once an admin has made a decision.</p>
	</body></html>`, html.EscapeString(member.Name))
	return s.sendEmail(ctx, member.Email, subject, body)
}

// StatusChanged tells the applicant about a moderation decision.
// Only approval and rejection are announced.
func (s *EmailService) StatusChanged(ctx context.Context, member *domain.Member, from domain.MemberStatus) error {
	var subject, message string
	switch member.Status {
	case domain.MemberStatusApproved:
		subject = "Your Membership Has Been Approved"
		message = "Welcome aboard! Your membership application has been approved."
	case domain.MemberStatusRejected:
		subject = "Update on Your Membership Application"
		message = "After review, we are unable to approve your membership application at this time."
	default:
		return nil
	}

	body := fmt.Sprintf(`<html><body>
		<h2>Hello %s,</h2>
		<p>%s</p>
	</body></html>`, html.EscapeString(member.Name), message)
	return s.sendEmail(ctx, member.Email, subject, body)
}

func (s *EmailService) sendEmail(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	from := s.config.From
	if s.config.FromName != "" {
		from = fmt.Sprintf("%s <%s>", s.config.FromName, s.config.From)
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		from, to, subject, body)

	var auth smtp.Auth
	if s.config.User != "" {
		auth = smtp.PlainAuth("", s.config.User, s.config.Password, s.config.Host)
	}
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	if err := s.send(addr, auth, s.config.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}
