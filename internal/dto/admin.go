package dto

import "petnest_backend/internal/models"

type VerificationDecisionRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected pending"`
	Notes  string `json:"notes"`
}

type RoleUpdateRequest struct {
	Role string `json:"role" validate:"required,oneof=client moderator admin"`
}

type AdminUserListQuery struct {
	Status string `form:"status" validate:"omitempty,oneof=verified pending rejected"`
	Role   string `form:"role" validate:"omitempty,oneof=client moderator admin"`
}

type PostResponse struct {
	ID        string       `json:"id"`
	User      UserPublic   `json:"user"`
	Pet       *PetResponse `json:"pet,omitempty"`
	IsPaid    bool         `json:"is_paid"`
	IsFree    bool         `json:"is_free"`
	CreatedAt string       `json:"created_at"`
}

func NewPostResponse(p *models.Post) PostResponse {
	resp := PostResponse{
		ID:        p.ID,
		IsPaid:    p.IsPaid,
		IsFree:    p.IsFree,
		CreatedAt: p.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if p.User != nil {
		resp.User = NewUserPublic(p.User)
	}
	if p.Pet != nil {
		petResp := NewPetResponse(p.Pet)
		resp.Pet = &petResp
	}
	return resp
}
