package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/telemeet/telemed-api/internal/config"
)

type smtpService struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPService(cfg config.SMTPConfig) Service {
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *smtpService) SendBookingConfirmation(ctx context.Context, to, patientName, date, timeOfDay, meetingLink string) error {
	body := fmt.Sprintf(
		"Hi %s,\n\nYour consultation is confirmed for %s at %s.\nJoin here: %s\n",
		patientName, date, timeOfDay, meetingLink,
	)
	return s.send(to, "Consultation confirmed", body)
}

func (s *smtpService) SendPrescriptionNotice(ctx context.Context, to, patientName string, medicineCount int) error {
	body := fmt.Sprintf(
		"Hi %s,\n\nYour doctor issued a prescription with %d medicine(s). You can order them from the pharmacy section.\n",
		patientName, medicineCount,
	)
	return s.send(to, "New prescription available", body)
}

func (s *smtpService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
