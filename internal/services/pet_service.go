package services

import (
	"context"

	"petnest_backend/internal/dto"
	"petnest_backend/internal/logger"
	"petnest_backend/internal/models"
	"petnest_backend/internal/repositories"
	"petnest_backend/internal/services/gateway"
	"petnest_backend/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Publication fee tiers in USD. Amounts are derived from the listing kind,
// never taken from the client.
const (
	AdoptionPostFee = 5.00
	SalePostFee     = 20.00
)

// MaxImagesPerUpload bounds a single image batch.
const MaxImagesPerUpload = 5

// PaymentGateway is the external checkout collaborator.
type PaymentGateway interface {
	CreateSession(ctx context.Context, req gateway.SessionRequest) (string, error)
	VerifyCallbackSignature(fields map[string]string, verifySign, verifyKey string) bool
}

type PetService struct {
	db       *gorm.DB
	pets     repositories.PetRepository
	payments repositories.PaymentRepository
	users    repositories.UserRepository
	gateway  PaymentGateway
}

func NewPetService(
	db *gorm.DB,
	pets repositories.PetRepository,
	payments repositories.PaymentRepository,
	users repositories.UserRepository,
	paymentGateway PaymentGateway,
) *PetService {
	return &PetService{
		db:       db,
		pets:     pets,
		payments: payments,
		users:    users,
		gateway:  paymentGateway,
	}
}

// ListingResult is the outcome of a listing submission: either the listing
// went live on the free allowance, or checkout is required.
type ListingResult struct {
	Pet             *models.Pet
	RequiresPayment bool
	PaymentURL      string
	TransactionID   string
}

// validatePricing enforces the sale/adoption price invariant.
func validatePricing(isForAdoption bool, price *float64) error {
	if isForAdoption && price != nil {
		return apperrors.ValidationError(map[string]string{
			"price": "Price is not allowed for adoption listings",
		})
	}
	if !isForAdoption {
		if price == nil {
			return apperrors.ValidationError(map[string]string{
				"price": "Price is required for sale listings",
			})
		}
		if *price <= 0 {
			return apperrors.ValidationError(map[string]string{
				"price": "Price must be a positive value for sale listings",
			})
		}
	}
	return nil
}

// CreateListing validates the listing, then either publishes it through the
// user's free allowance (atomically with the publication record) or persists
// it and opens a payment session. A session failure rolls the listing back so
// the caller sees all-or-nothing.
func (s *PetService) CreateListing(ctx context.Context, userID string, req dto.CreatePetRequest) (*ListingResult, error) {
	if err := validatePricing(req.IsForAdoption, req.Price); err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(userID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err, "user", "User not found")
	}

	pet := &models.Pet{
		OwnerID:       userID,
		Name:          req.Name,
		PetType:       models.PetType(req.PetType),
		Breed:         req.Breed,
		Age:           req.Age,
		Gender:        models.PetGender(req.Gender),
		Description:   req.Description,
		IsForAdoption: req.IsForAdoption,
		Price:         req.Price,
		Availability:  true,
	}

	// Staff post free without touching their allowance.
	staff := user.IsModeratorOrAdmin()
	if staff || user.FirstPostFree {
		err = s.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(pet).Error; err != nil {
				return err
			}
			if req.ImageURL != "" {
				image := &models.PetImage{PetID: pet.ID, ImageURL: req.ImageURL}
				if err := tx.Create(image).Error; err != nil {
					return err
				}
				pet.Images = append(pet.Images, *image)
			}
			post := &models.Post{UserID: userID, PetID: pet.ID, IsFree: true}
			if err := tx.Create(post).Error; err != nil {
				return err
			}
			if staff {
				return nil
			}
			user.FirstPostFree = false
			return tx.Save(user).Error
		})
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		pet.Owner = user
		return &ListingResult{Pet: pet}, nil
	}

	// Paid path.
	amount := SalePostFee
	productName := "Pet Sale Post"
	if req.IsForAdoption {
		amount = AdoptionPostFee
		productName = "Pet Adoption Post"
	}
	transactionID := uuid.NewString()

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(pet).Error; err != nil {
			return err
		}
		if req.ImageURL != "" {
			image := &models.PetImage{PetID: pet.ID, ImageURL: req.ImageURL}
			if err := tx.Create(image).Error; err != nil {
				return err
			}
			pet.Images = append(pet.Images, *image)
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	paymentURL, err := s.gateway.CreateSession(ctx, gateway.SessionRequest{
		TransactionID:    transactionID,
		Amount:           amount,
		Currency:         "USD",
		ProductName:      productName,
		CustomerName:     user.Username,
		CustomerEmail:    user.Email,
		CustomerPhone:    user.Phone,
		CustomerAddress:  user.Address,
		CustomerCity:     user.City,
		CustomerState:    user.State,
		CustomerPostcode: user.Postcode,
	})
	if err != nil {
		// All-or-nothing: the listing must not survive a failed initiation.
		if delErr := s.pets.Delete(pet.ID); delErr != nil {
			logger.WithError(delErr).Error("failed to roll back listing after session failure", "pet_id", pet.ID)
		}
		return nil, apperrors.ErrExternalService(err, "payment", "Payment initiation failed")
	}

	payment := &models.Payment{
		UserID:        userID,
		PetID:         pet.ID,
		TransactionID: transactionID,
		Amount:        amount,
		Status:        models.PaymentStatusPending,
	}
	if err := s.payments.Create(payment); err != nil {
		if delErr := s.pets.Delete(pet.ID); delErr != nil {
			logger.WithError(delErr).Error("failed to roll back listing after payment create failure", "pet_id", pet.ID)
		}
		return nil, apperrors.InternalError(err)
	}

	pet.Owner = user
	return &ListingResult{
		Pet:             pet,
		RequiresPayment: true,
		PaymentURL:      paymentURL,
		TransactionID:   transactionID,
	}, nil
}

func (s *PetService) List(query dto.PetListQuery) ([]models.Pet, error) {
	pets, err := s.pets.FindAvailable(repositories.PetFilter{
		Keyword:      query.Keyword,
		PetType:      query.PetType,
		Gender:       query.Gender,
		Breed:        query.Breed,
		MinPrice:     query.MinPrice,
		MaxPrice:     query.MaxPrice,
		MinAge:       query.MinAge,
		MaxAge:       query.MaxAge,
		Availability: query.Availability,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return pets, nil
}

func (s *PetService) Get(petID string) (*models.Pet, error) {
	pet, err := s.pets.FindByID(petID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err, "pet", "Pet not found")
	}
	return pet, nil
}

func (s *PetService) Update(userID, petID string, req dto.UpdatePetRequest) (*models.Pet, error) {
	pet, err := s.pets.FindByIDAndOwner(petID, userID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err, "pet", "Pet not found or not owned by you")
	}

	if req.Name != nil {
		pet.Name = *req.Name
	}
	if req.PetType != nil {
		pet.PetType = models.PetType(*req.PetType)
	}
	if req.Breed != nil {
		pet.Breed = *req.Breed
	}
	if req.Age != nil {
		pet.Age = *req.Age
	}
	if req.Gender != nil {
		pet.Gender = models.PetGender(*req.Gender)
	}
	if req.Description != nil {
		pet.Description = *req.Description
	}
	if req.IsForAdoption != nil {
		pet.IsForAdoption = *req.IsForAdoption
	}
	if req.Price != nil {
		pet.Price = req.Price
	}
	if pet.IsForAdoption {
		// An update may switch a sale listing to adoption; drop the price
		// rather than fail when the client did not resend the field.
		if req.Price == nil {
			pet.Price = nil
		}
	}

	if err := validatePricing(pet.IsForAdoption, pet.Price); err != nil {
		return nil, err
	}

	if err := s.pets.Update(pet); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return pet, nil
}

// SoftDelete withdraws the listing; the row stays.
func (s *PetService) SoftDelete(userID, petID string) error {
	if _, err := s.pets.FindByIDAndOwner(petID, userID); err != nil {
		return apperrors.ErrNotFound(err, "pet", "Pet not found or not owned by you")
	}
	if err := s.pets.SetAvailability(petID, false); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// AddImages attaches up to MaxImagesPerUpload stored image URLs to an owned
// listing.
func (s *PetService) AddImages(userID, petID string, imageURLs []string) error {
	if len(imageURLs) == 0 {
		return apperrors.NewBadRequestError("No images provided")
	}
	if len(imageURLs) > MaxImagesPerUpload {
		return apperrors.New(apperrors.CodeLimitExceeded, "pet", "Maximum 5 images allowed", 400)
	}

	if _, err := s.pets.FindByIDAndOwner(petID, userID); err != nil {
		return apperrors.ErrNotFound(err, "pet", "Pet not found or not owned by you")
	}

	images := make([]models.PetImage, 0, len(imageURLs))
	for _, u := range imageURLs {
		images = append(images, models.PetImage{PetID: petID, ImageURL: u})
	}
	if err := s.pets.AddImages(images); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}
