package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Pet struct {
	BaseModel
	OwnerID       string    `gorm:"not null;index"`
	Name          string    `gorm:"not null"`
	PetType       PetType   `gorm:"type:varchar(10);not null"`
	Breed         string    `gorm:"not null"`
	Age           float64   `gorm:"not null"` // years, one decimal place
	Gender        PetGender `gorm:"type:varchar(10);not null"`
	Description   string    `gorm:"type:text"`
	IsForAdoption bool      `gorm:"default:false"`
	Price         *float64  // nil for adoption listings, > 0 for sale
	Availability  bool      `gorm:"default:true"` // soft-delete marker

	Owner  *User      `gorm:"foreignKey:OwnerID"`
	Images []PetImage `gorm:"foreignKey:PetID;constraint:OnDelete:CASCADE"`
}

type PetImage struct {
	ID         string    `gorm:"type:uuid;primaryKey"`
	PetID      string    `gorm:"not null;index"`
	ImageURL   string    `gorm:"not null"`
	UploadedAt time.Time `gorm:"autoCreateTime"`
}

func (i *PetImage) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
