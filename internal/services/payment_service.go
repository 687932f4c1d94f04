package services

import (
	"strings"

	"petnest_backend/internal/dto"
	"petnest_backend/internal/logger"
	"petnest_backend/internal/models"
	"petnest_backend/internal/repositories"
	"petnest_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type PaymentService struct {
	db       *gorm.DB
	payments repositories.PaymentRepository
	pets     repositories.PetRepository
	gateway  PaymentGateway
	emails   EmailService
}

func NewPaymentService(
	db *gorm.DB,
	payments repositories.PaymentRepository,
	pets repositories.PetRepository,
	paymentGateway PaymentGateway,
	emails EmailService,
) *PaymentService {
	return &PaymentService{
		db:       db,
		payments: payments,
		pets:     pets,
		gateway:  paymentGateway,
		emails:   emails,
	}
}

type callbackOutcome int

const (
	outcomeSuccess callbackOutcome = iota
	outcomeFailure
	outcomeUnknown
)

// classifyStatus maps the gateway status vocabulary to an outcome. An empty
// status counts as failure; an unrecognized non-empty one is rejected so a
// vocabulary change on the gateway side cannot silently flip payments.
func classifyStatus(status string) callbackOutcome {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case "VALID", "VALIDATED", "SUCCESS":
		return outcomeSuccess
	case "FAILED", "CANCELLED", "EXPIRED", "":
		return outcomeFailure
	default:
		return outcomeUnknown
	}
}

// HandleCallback processes a gateway notification for a transaction.
// rawFields carries every field the gateway posted, for signature checking.
// The handler is idempotent: replaying a success re-ensures the publication
// record exists, while a transition conflicting with a terminal state is
// rejected without mutation.
func (s *PaymentService) HandleCallback(cb dto.PaymentCallback, rawFields map[string]string) (*models.Payment, error) {
	payment, err := s.payments.FindByTransactionID(cb.TransactionID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err, "payment", "Unknown transaction")
	}

	if cb.VerifySign != "" && cb.VerifyKey != "" {
		if !s.gateway.VerifyCallbackSignature(rawFields, cb.VerifySign, cb.VerifyKey) {
			return nil, apperrors.New(apperrors.CodeValidationFailed, "payment", "Callback signature mismatch", 400)
		}
	}

	outcome := classifyStatus(cb.Status)
	if outcome == outcomeUnknown {
		return nil, apperrors.ErrInvalidStatus("payment", "Unrecognized payment status: "+cb.Status)
	}

	switch outcome {
	case outcomeSuccess:
		return s.applySuccess(payment)
	default:
		return s.applyFailure(payment)
	}
}

func (s *PaymentService) applySuccess(payment *models.Payment) (*models.Payment, error) {
	if payment.Status.IsTerminal() && payment.Status != models.PaymentStatusCompleted {
		return nil, apperrors.ErrConflict(nil, "payment", "Payment already resolved as "+string(payment.Status))
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if payment.Status != models.PaymentStatusCompleted {
			payment.Status = models.PaymentStatusCompleted
			if err := tx.Save(payment).Error; err != nil {
				return err
			}
		}

		var existing int64
		if err := tx.Model(&models.Post{}).
			Where("user_id = ? AND pet_id = ?", payment.UserID, payment.PetID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing == 0 {
			post := &models.Post{
				UserID: payment.UserID,
				PetID:  payment.PetID,
				IsPaid: true,
			}
			if err := tx.Create(post).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	if payment.User != nil && payment.Pet != nil {
		if err := s.emails.SendPaymentConfirmation(payment.User, payment.Pet, payment); err != nil {
			logger.WithError(err).Error("failed to send payment confirmation",
				"transaction_id", payment.TransactionID)
		}
	}
	return payment, nil
}

func (s *PaymentService) applyFailure(payment *models.Payment) (*models.Payment, error) {
	if payment.Status.IsTerminal() && payment.Status != models.PaymentStatusFailed {
		return nil, apperrors.ErrConflict(nil, "payment", "Payment already resolved as "+string(payment.Status))
	}

	if payment.Status != models.PaymentStatusFailed {
		payment.Status = models.PaymentStatusFailed
		if err := s.payments.Update(payment); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}

	// The unpaid listing comes off the public feed but stays recoverable.
	if err := s.pets.SetAvailability(payment.PetID, false); err != nil {
		logger.WithError(err).Error("failed to withdraw listing after failed payment",
			"pet_id", payment.PetID)
	}
	return payment, nil
}

// History returns the caller's payments, or every payment for staff.
func (s *PaymentService) History(userID string, isStaff bool) ([]models.Payment, error) {
	var (
		payments []models.Payment
		err      error
	)
	if isStaff {
		payments, err = s.payments.FindAll()
	} else {
		payments, err = s.payments.FindForUser(userID)
	}
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return payments, nil
}
