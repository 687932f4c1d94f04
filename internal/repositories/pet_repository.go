package repositories

import (
	"errors"

	"petnest_backend/internal/models"

	"gorm.io/gorm"
)

var ErrPetNotFound = errors.New("pet not found")

// PetFilter mirrors the public listing filters.
type PetFilter struct {
	Keyword      string
	PetType      string
	Gender       string
	Breed        string
	MinPrice     *float64
	MaxPrice     *float64
	MinAge       *float64
	MaxAge       *float64
	Availability *bool
}

type PetRepository interface {
	FindByID(id string) (*models.Pet, error)
	FindByIDAndOwner(id, ownerID string) (*models.Pet, error)
	FindAvailable(filter PetFilter) ([]models.Pet, error)
	Create(pet *models.Pet) error
	Update(pet *models.Pet) error
	SetAvailability(id string, available bool) error
	AddImages(images []models.PetImage) error

	// Delete removes the pet row and its images. Only used to roll back a
	// listing whose payment session could not be created.
	Delete(id string) error
}

type PetRepositoryImpl struct {
	db *gorm.DB
}

func NewPetRepository(db *gorm.DB) PetRepository {
	return &PetRepositoryImpl{db: db}
}

func (r *PetRepositoryImpl) FindByID(id string) (*models.Pet, error) {
	var pet models.Pet
	err := r.db.Preload("Images").First(&pet, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPetNotFound
		}
		return nil, err
	}
	return &pet, nil
}

func (r *PetRepositoryImpl) FindByIDAndOwner(id, ownerID string) (*models.Pet, error) {
	var pet models.Pet
	err := r.db.Preload("Images").First(&pet, "id = ? AND owner_id = ?", id, ownerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPetNotFound
		}
		return nil, err
	}
	return &pet, nil
}

func (r *PetRepositoryImpl) FindAvailable(filter PetFilter) ([]models.Pet, error) {
	query := r.db.Model(&models.Pet{}).Preload("Images")

	if filter.Availability != nil {
		query = query.Where("availability = ?", *filter.Availability)
	} else {
		query = query.Where("availability = ?", true)
	}
	if filter.Keyword != "" {
		like := "%" + filter.Keyword + "%"
		query = query.Where("name LIKE ? OR breed LIKE ? OR description LIKE ?", like, like, like)
	}
	if filter.PetType != "" {
		query = query.Where("pet_type = ?", filter.PetType)
	}
	if filter.Gender != "" {
		query = query.Where("gender = ?", filter.Gender)
	}
	if filter.Breed != "" {
		query = query.Where("breed LIKE ?", "%"+filter.Breed+"%")
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}
	if filter.MinAge != nil {
		query = query.Where("age >= ?", *filter.MinAge)
	}
	if filter.MaxAge != nil {
		query = query.Where("age <= ?", *filter.MaxAge)
	}

	var pets []models.Pet
	if err := query.Order("created_at DESC").Find(&pets).Error; err != nil {
		return nil, err
	}
	return pets, nil
}

func (r *PetRepositoryImpl) Create(pet *models.Pet) error {
	return r.db.Create(pet).Error
}

func (r *PetRepositoryImpl) Update(pet *models.Pet) error {
	return r.db.Save(pet).Error
}

func (r *PetRepositoryImpl) SetAvailability(id string, available bool) error {
	result := r.db.Model(&models.Pet{}).Where("id = ?", id).Update("availability", available)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPetNotFound
	}
	return nil
}

func (r *PetRepositoryImpl) AddImages(images []models.PetImage) error {
	return r.db.Create(&images).Error
}

func (r *PetRepositoryImpl) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.PetImage{}, "pet_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Pet{}, "id = ?", id).Error
	})
}
