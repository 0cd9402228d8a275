package service

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type emailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &emailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *emailService) send(to, subject, body string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail("", to)
	message := mail.NewSingleEmail(from, subject, recipient, body, "")

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

func (s *emailService) SendReservationRequested(ctx context.Context, agencyEmail, renterName, vehicleLabel, start, end string) error {
	subject := fmt.Sprintf("New booking request for %s", vehicleLabel)
	body := fmt.Sprintf("%s requested %s from %s to %s.", renterName, vehicleLabel, start, end)
	return s.send(agencyEmail, subject, body)
}

func (s *emailService) SendReservationDecision(ctx context.Context, renterEmail, vehicleLabel string, accepted bool) error {
	decision := "rejected"
	if accepted {
		decision = "accepted"
	}
	subject := fmt.Sprintf("Your booking for %s was %s", vehicleLabel, decision)
	body := fmt.Sprintf("The agency has %s your booking request for %s.", decision, vehicleLabel)
	return s.send(renterEmail, subject, body)
}

func (s *emailService) SendReservationCancelled(ctx context.Context, agencyEmail, renterName, vehicleLabel, start, end string) error {
	subject := fmt.Sprintf("Booking cancelled for %s", vehicleLabel)
	body := fmt.Sprintf("%s cancelled the booking of %s from %s to %s.", renterName, vehicleLabel, start, end)
	return s.send(agencyEmail, subject, body)
}
