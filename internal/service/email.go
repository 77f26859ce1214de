package service

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"librental-backend/internal/logger"
)

type emailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

// NewEmailService builds the SendGrid-backed mailer. With an empty API key
// sends are logged and skipped, which keeps local development quiet.
func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &emailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *emailService) send(toEmail, toName, subject, plainText string) error {
	if s.apiKey == "" {
		logger.Debug("Email delivery disabled, skipping send", "to", toEmail, "subject", subject)
		return nil
	}

	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, "")

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func (s *emailService) SendRentalConfirmation(ctx context.Context, email, renterName, bookTitle, returnDate string) error {
	subject := fmt.Sprintf("Rental confirmed: %s", bookTitle)
	body := fmt.Sprintf("Hello %s,\n\nYour rental of %q is confirmed. Expected return date: %s.\n\nHappy reading,\nThe Library Team", renterName, bookTitle, returnDate)
	return s.send(email, renterName, subject, body)
}

func (s *emailService) SendReturnConfirmation(ctx context.Context, email, renterName, bookTitle string) error {
	subject := fmt.Sprintf("Return received: %s", bookTitle)
	body := fmt.Sprintf("Hello %s,\n\nThanks for returning %q. We hope you enjoyed it.\n\nThe Library Team", renterName, bookTitle)
	return s.send(email, renterName, subject, body)
}

func (s *emailService) SendOverdueReminder(ctx context.Context, email, renterName, bookTitle, returnDate string) error {
	subject := fmt.Sprintf("Overdue reminder: %s", bookTitle)
	body := fmt.Sprintf("Hello %s,\n\nOur records show %q was due back on %s. Please return it at your earliest convenience.\n\nThe Library Team", renterName, bookTitle, returnDate)
	return s.send(email, renterName, subject, body)
}
