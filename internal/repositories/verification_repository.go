package repositories

import (
	"petnest_backend/internal/models"

	"gorm.io/gorm"
)

type VerificationRepository interface {
	Create(request *models.VerificationRequest) error
	Update(request *models.VerificationRequest) error
	FindPendingForUser(userID string) (*models.VerificationRequest, error)
	FindWithStatus(status string) ([]models.VerificationRequest, error)

	// NIDInOtherRequests reports whether another user's request already
	// carries this national ID number.
	NIDInOtherRequests(nidNumber, excludeUserID string) (bool, error)
}

type VerificationRepositoryImpl struct {
	db *gorm.DB
}

func NewVerificationRepository(db *gorm.DB) VerificationRepository {
	return &VerificationRepositoryImpl{db: db}
}

func (r *VerificationRepositoryImpl) Create(request *models.VerificationRequest) error {
	return r.db.Create(request).Error
}

func (r *VerificationRepositoryImpl) Update(request *models.VerificationRequest) error {
	return r.db.Save(request).Error
}

func (r *VerificationRepositoryImpl) FindPendingForUser(userID string) (*models.VerificationRequest, error) {
	var request models.VerificationRequest
	err := r.db.
		Where("user_id = ? AND status = ?", userID, models.RequestStatusPending).
		Order("created_at DESC").
		First(&request).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &request, nil
}

func (r *VerificationRepositoryImpl) FindWithStatus(status string) ([]models.VerificationRequest, error) {
	query := r.db.Preload("User").Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var requests []models.VerificationRequest
	err := query.Find(&requests).Error
	return requests, err
}

func (r *VerificationRepositoryImpl) NIDInOtherRequests(nidNumber, excludeUserID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.VerificationRequest{}).
		Where("nid_number = ? AND user_id <> ?", nidNumber, excludeUserID).
		Count(&count).Error
	return count > 0, err
}
