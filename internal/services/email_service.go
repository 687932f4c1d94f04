package services

import (
	"petnest_backend/internal/email"
	"petnest_backend/internal/logger"
	"petnest_backend/internal/models"
)

// EmailService sends the domain emails. Delivery failures are the caller's
// problem to log, never to fail a workflow on.
type EmailService interface {
	SendPaymentConfirmation(user *models.User, pet *models.Pet, payment *models.Payment) error
	SendPasswordReset(user *models.User, token string) error
}

type emailService struct {
	sender email.Sender
}

func NewEmailService(sender email.Sender) EmailService {
	return &emailService{sender: sender}
}

func (s *emailService) SendPaymentConfirmation(user *models.User, pet *models.Pet, payment *models.Payment) error {
	body, err := email.Render("payment_confirmation", map[string]interface{}{
		"Username":      user.Username,
		"PetName":       pet.Name,
		"TransactionID": payment.TransactionID,
		"Amount":        payment.Amount,
		"Date":          payment.CreatedAt.Format("2006-01-02 15:04"),
	})
	if err != nil {
		return err
	}
	return s.sender.Send(user.Email, "Payment Confirmation - PetNest", body)
}

func (s *emailService) SendPasswordReset(user *models.User, token string) error {
	body, err := email.Render("password_reset", map[string]interface{}{
		"Username": user.Username,
		"Token":    token,
	})
	if err != nil {
		return err
	}
	return s.sender.Send(user.Email, "Password Reset - PetNest", body)
}

// NoopEmailService is used in tests and when SMTP is not configured.
type NoopEmailService struct{}

func (NoopEmailService) SendPaymentConfirmation(user *models.User, pet *models.Pet, payment *models.Payment) error {
	logger.Debug("email disabled, skipping payment confirmation", "user", user.Email)
	return nil
}

func (NoopEmailService) SendPasswordReset(user *models.User, token string) error {
	logger.Debug("email disabled, skipping password reset", "user", user.Email)
	return nil
}
