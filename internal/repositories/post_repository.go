package repositories

import (
	"errors"

	"petnest_backend/internal/models"

	"gorm.io/gorm"
)

var ErrPostNotFound = errors.New("post not found")

type PostRepository interface {
	FindByID(id string) (*models.Post, error)
	FindForUser(userID string) ([]models.Post, error)
	FindAll(petType string) ([]models.Post, error)
	Delete(id string) error
}

type PostRepositoryImpl struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &PostRepositoryImpl{db: db}
}

func (r *PostRepositoryImpl) FindByID(id string) (*models.Post, error) {
	var post models.Post
	err := r.db.Preload("User").Preload("Pet").Preload("Pet.Images").
		First(&post, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (r *PostRepositoryImpl) FindForUser(userID string) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.Preload("Pet").Preload("Pet.Images").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&posts).Error
	return posts, err
}

func (r *PostRepositoryImpl) FindAll(petType string) ([]models.Post, error) {
	query := r.db.Preload("User").Preload("Pet").Preload("Pet.Images")
	if petType != "" {
		query = query.Joins("JOIN pets ON pets.id = posts.pet_id").
			Where("pets.pet_type = ?", petType)
	}

	var posts []models.Post
	err := query.Order("posts.created_at DESC").Find(&posts).Error
	return posts, err
}

func (r *PostRepositoryImpl) Delete(id string) error {
	result := r.db.Delete(&models.Post{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}
