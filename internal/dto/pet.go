package dto

import (
	"time"

	"petnest_backend/internal/models"
)

// CreatePetRequest is bound from the multipart listing form. The image file
// itself is handled by the handler; the service receives the stored URL.
type CreatePetRequest struct {
	Name          string   `form:"name" json:"name" validate:"required,max=100"`
	PetType       string   `form:"pet_type" json:"pet_type" validate:"required,oneof=cat dog"`
	Breed         string   `form:"breed" json:"breed" validate:"required,max=100"`
	Age           float64  `form:"age" json:"age" validate:"required,min=0"`
	Gender        string   `form:"gender" json:"gender" validate:"required,oneof=male female"`
	Description   string   `form:"description" json:"description" validate:"required"`
	IsForAdoption bool     `form:"is_for_adoption" json:"is_for_adoption"`
	Price         *float64 `form:"price" json:"price"`

	ImageURL string `form:"-" json:"-"`
}

type UpdatePetRequest struct {
	Name          *string  `form:"name" json:"name" validate:"omitempty,max=100"`
	PetType       *string  `form:"pet_type" json:"pet_type" validate:"omitempty,oneof=cat dog"`
	Breed         *string  `form:"breed" json:"breed" validate:"omitempty,max=100"`
	Age           *float64 `form:"age" json:"age" validate:"omitempty,min=0"`
	Gender        *string  `form:"gender" json:"gender" validate:"omitempty,oneof=male female"`
	Description   *string  `form:"description" json:"description"`
	IsForAdoption *bool    `form:"is_for_adoption" json:"is_for_adoption"`
	Price         *float64 `form:"price" json:"price"`
}

type PetListQuery struct {
	Keyword      string   `form:"keyword"`
	PetType      string   `form:"pet_type" validate:"omitempty,oneof=cat dog"`
	Gender       string   `form:"gender" validate:"omitempty,oneof=male female"`
	Breed        string   `form:"breed"`
	MinPrice     *float64 `form:"min_price"`
	MaxPrice     *float64 `form:"max_price"`
	MinAge       *float64 `form:"min_age"`
	MaxAge       *float64 `form:"max_age"`
	Availability *bool    `form:"availability"`
}

type PetImageResponse struct {
	ID         string    `json:"id"`
	Image      string    `json:"image"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type PetResponse struct {
	ID            string             `json:"id"`
	Owner         string             `json:"owner"`
	Name          string             `json:"name"`
	PetType       string             `json:"pet_type"`
	Breed         string             `json:"breed"`
	Age           float64            `json:"age"`
	Gender        string             `json:"gender"`
	Description   string             `json:"description"`
	IsForAdoption bool               `json:"is_for_adoption"`
	Price         *float64           `json:"price"`
	Availability  bool               `json:"availability"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
	ImagesData    []PetImageResponse `json:"images_data"`
}

func NewPetResponse(pet *models.Pet) PetResponse {
	resp := PetResponse{
		ID:            pet.ID,
		Name:          pet.Name,
		PetType:       string(pet.PetType),
		Breed:         pet.Breed,
		Age:           pet.Age,
		Gender:        string(pet.Gender),
		Description:   pet.Description,
		IsForAdoption: pet.IsForAdoption,
		Price:         pet.Price,
		Availability:  pet.Availability,
		CreatedAt:     pet.CreatedAt,
		UpdatedAt:     pet.UpdatedAt,
		ImagesData:    make([]PetImageResponse, 0, len(pet.Images)),
	}
	if pet.Owner != nil {
		resp.Owner = pet.Owner.Username
	}
	for _, img := range pet.Images {
		resp.ImagesData = append(resp.ImagesData, PetImageResponse{
			ID:         img.ID,
			Image:      img.ImageURL,
			UploadedAt: img.UploadedAt,
		})
	}
	return resp
}

// PetMinimal is the {id, name} pair shown in conversation summaries.
type PetMinimal struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
