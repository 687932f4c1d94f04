package services

import (
	"petnest_backend/internal/dto"
	"petnest_backend/internal/models"
	"petnest_backend/internal/repositories"
	"petnest_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type AdminService struct {
	db            *gorm.DB
	users         repositories.UserRepository
	verifications repositories.VerificationRepository
	posts         repositories.PostRepository
}

func NewAdminService(
	db *gorm.DB,
	users repositories.UserRepository,
	verifications repositories.VerificationRepository,
	posts repositories.PostRepository,
) *AdminService {
	return &AdminService{
		db:            db,
		users:         users,
		verifications: verifications,
		posts:         posts,
	}
}

func (s *AdminService) ListUsers(query dto.AdminUserListQuery) ([]models.User, int64, error) {
	users, total, err := s.users.FindWithFilter(repositories.UserFilter{
		Status: query.Status,
		Role:   models.UserRole(query.Role),
	})
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}
	return users, total, nil
}

func (s *AdminService) GetUser(userID string) (*models.User, error) {
	user, err := s.users.FindByID(userID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err, "user", "User not found")
	}
	return user, nil
}

// DeactivateUser retires an account without removing the row; listings,
// payments and messages keep their references. Open sessions are revoked so
// the IsActive check on login takes effect immediately.
func (s *AdminService) DeactivateUser(userID string) error {
	if _, err := s.users.FindByID(userID); err != nil {
		return apperrors.ErrNotFound(err, "user", "User not found")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).
			Where("id = ?", userID).
			Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Delete(&models.RefreshToken{}, "user_id = ?", userID).Error
	})
	if err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// DecideVerification applies a moderator's decision to a user's verification
// state and mirrors it onto the user's open request, if one exists, in a
// single transaction.
func (s *AdminService) DecideVerification(userID string, req dto.VerificationDecisionRequest) (*models.User, error) {
	user, err := s.users.FindByID(userID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err, "user", "User not found")
	}

	pending, err := s.verifications.FindPendingForUser(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		switch req.Status {
		case "approved":
			user.IsVerified = true
			user.VerificationStatus = models.VerificationVerified
		case "rejected":
			user.IsVerified = false
			user.VerificationStatus = models.VerificationRejected
		default:
			user.IsVerified = false
			user.VerificationStatus = models.VerificationPending
		}
		if err := tx.Save(user).Error; err != nil {
			return err
		}

		if pending != nil {
			switch req.Status {
			case "approved":
				pending.Status = models.RequestStatusApproved
			case "rejected":
				pending.Status = models.RequestStatusRejected
			default:
				pending.Status = models.RequestStatusPending
			}
			pending.Notes = req.Notes
			return tx.Save(pending).Error
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return user, nil
}

func (s *AdminService) UpdateRole(userID string, req dto.RoleUpdateRequest) (*models.User, error) {
	user, err := s.users.FindByID(userID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err, "user", "User not found")
	}

	user.Role = models.UserRole(req.Role)
	if err := s.users.Update(user); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return user, nil
}

func (s *AdminService) ListVerificationRequests(status string) ([]models.VerificationRequest, error) {
	requests, err := s.verifications.FindWithStatus(status)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return requests, nil
}

func (s *AdminService) ListPosts(petType string) ([]models.Post, error) {
	posts, err := s.posts.FindAll(petType)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return posts, nil
}

func (s *AdminService) GetPost(postID string) (*models.Post, error) {
	post, err := s.posts.FindByID(postID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err, "post", "Post not found")
	}
	return post, nil
}

func (s *AdminService) DeletePost(postID string) error {
	if _, err := s.posts.FindByID(postID); err != nil {
		return apperrors.ErrNotFound(err, "post", "Post not found")
	}
	if err := s.posts.Delete(postID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}
