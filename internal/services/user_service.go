package services

import (
	"petnest_backend/internal/dto"
	"petnest_backend/internal/models"
	"petnest_backend/internal/repositories"
	"petnest_backend/pkg/apperrors"

	"gorm.io/gorm"
)

const nidRejectedNote = "Verification rejected: National ID number already in use."

type UserService struct {
	db            *gorm.DB
	users         repositories.UserRepository
	verifications repositories.VerificationRepository
	posts         repositories.PostRepository
}

func NewUserService(
	db *gorm.DB,
	users repositories.UserRepository,
	verifications repositories.VerificationRepository,
	posts repositories.PostRepository,
) *UserService {
	return &UserService{
		db:            db,
		users:         users,
		verifications: verifications,
		posts:         posts,
	}
}

func (s *UserService) GetProfile(userID string) (*models.User, error) {
	user, err := s.users.FindByID(userID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err, "user", "User not found")
	}
	return user, nil
}

func (s *UserService) UpdateProfile(userID string, req dto.UpdateProfileRequest) (*models.User, error) {
	user, err := s.users.FindByID(userID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err, "user", "User not found")
	}

	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Address != nil {
		user.Address = *req.Address
	}
	if req.City != nil {
		user.City = *req.City
	}
	if req.State != nil {
		user.State = *req.State
	}
	if req.Postcode != nil {
		user.Postcode = *req.Postcode
	}
	if req.ProfilePicture != nil {
		user.ProfilePicture = *req.ProfilePicture
	}

	if err := s.users.Update(user); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return user, nil
}

func (s *UserService) GetStatus(userID string) (*dto.UserStatusResponse, error) {
	user, err := s.users.FindByID(userID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err, "user", "User not found")
	}
	return &dto.UserStatusResponse{
		IsVerified:         user.IsVerified,
		Role:               string(user.Role),
		VerificationStatus: string(user.VerificationStatus),
		ProfilePicture:     user.ProfilePicture,
	}, nil
}

// SubmitVerification stores an identity verification request. A national ID
// number already held by another user, or submitted in another user's
// request, rejects the submission automatically; the request row is still
// recorded with the rejection note. The contact fields mirror onto the user.
func (s *UserService) SubmitVerification(userID string, sub dto.VerificationSubmission) (*models.VerificationRequest, error) {
	user, err := s.users.FindByID(userID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err, "user", "User not found")
	}

	usedByUser, err := s.users.NIDInUseByOther(sub.NIDNumber, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	usedInRequest, err := s.verifications.NIDInOtherRequests(sub.NIDNumber, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	duplicate := usedByUser || usedInRequest

	request := &models.VerificationRequest{
		UserID:    userID,
		NIDNumber: sub.NIDNumber,
		NIDFront:  sub.NIDFrontURL,
		NIDBack:   sub.NIDBackURL,
		Phone:     sub.Phone,
		Address:   sub.Address,
		City:      sub.City,
		State:     sub.State,
		Postcode:  sub.Postcode,
		Status:    models.RequestStatusPending,
	}
	if duplicate {
		request.Status = models.RequestStatusRejected
		request.Notes = nidRejectedNote
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(request).Error; err != nil {
			return err
		}

		user.Phone = sub.Phone
		user.Address = sub.Address
		user.City = sub.City
		user.State = sub.State
		user.Postcode = sub.Postcode
		user.NIDNumber = sub.NIDNumber
		user.NIDFront = sub.NIDFrontURL
		user.NIDBack = sub.NIDBackURL
		user.IsVerified = false
		if duplicate {
			user.VerificationStatus = models.VerificationRejected
		} else {
			user.VerificationStatus = models.VerificationPending
		}
		return tx.Save(user).Error
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return request, nil
}

func (s *UserService) ListPosts(userID string) ([]models.Post, error) {
	posts, err := s.posts.FindForUser(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return posts, nil
}
