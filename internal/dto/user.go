package dto

import "petnest_backend/internal/models"

// UserPublic is the profile snapshot embedded in messages and conversations.
type UserPublic struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	ProfilePicture string `json:"profile_picture,omitempty"`
}

func NewUserPublic(u *models.User) UserPublic {
	if u == nil {
		return UserPublic{}
	}
	return UserPublic{
		ID:             u.ID,
		Username:       u.Username,
		ProfilePicture: u.ProfilePicture,
	}
}

type UserProfileResponse struct {
	ID                 string `json:"id"`
	Username           string `json:"username"`
	Email              string `json:"email"`
	Phone              string `json:"phone,omitempty"`
	Address            string `json:"address,omitempty"`
	City               string `json:"city,omitempty"`
	State              string `json:"state,omitempty"`
	Postcode           string `json:"postcode,omitempty"`
	ProfilePicture     string `json:"profile_picture,omitempty"`
	IsVerified         bool   `json:"is_verified"`
	VerificationStatus string `json:"verification_status"`
	Role               string `json:"role"`
	FirstPostFree      bool   `json:"first_post_free"`
}

func NewUserProfileResponse(u *models.User) UserProfileResponse {
	return UserProfileResponse{
		ID:                 u.ID,
		Username:           u.Username,
		Email:              u.Email,
		Phone:              u.Phone,
		Address:            u.Address,
		City:               u.City,
		State:              u.State,
		Postcode:           u.Postcode,
		ProfilePicture:     u.ProfilePicture,
		IsVerified:         u.IsVerified,
		VerificationStatus: string(u.VerificationStatus),
		Role:               string(u.Role),
		FirstPostFree:      u.FirstPostFree,
	}
}

type UpdateProfileRequest struct {
	Username       *string `json:"username" validate:"omitempty,min=3,max=150"`
	Phone          *string `json:"phone"`
	Address        *string `json:"address"`
	City           *string `json:"city"`
	State          *string `json:"state"`
	Postcode       *string `json:"postcode"`
	ProfilePicture *string `json:"profile_picture"`
}

type UserStatusResponse struct {
	IsVerified         bool   `json:"is_verified"`
	Role               string `json:"role"`
	VerificationStatus string `json:"verification_status"`
	ProfilePicture     string `json:"profile_picture,omitempty"`
}

// VerificationSubmission carries the multipart fields of an identity
// verification request. NID images arrive as files and are stored before the
// service sees the URLs.
type VerificationSubmission struct {
	NIDNumber string `form:"nid_number" json:"nid_number" validate:"required,max=50"`
	Phone     string `form:"phone" json:"phone" validate:"required,max=20"`
	Address   string `form:"address" json:"address" validate:"required,max=255"`
	City      string `form:"city" json:"city" validate:"required,max=100"`
	State     string `form:"state" json:"state" validate:"required,max=100"`
	Postcode  string `form:"postcode" json:"postcode" validate:"required,max=20"`

	NIDFrontURL string `form:"-" json:"-"`
	NIDBackURL  string `form:"-" json:"-"`
}

type VerificationRequestResponse struct {
	ID          string     `json:"id"`
	User        UserPublic `json:"user"`
	NIDNumber   string     `json:"nid_number"`
	Status      string     `json:"status"`
	Notes       string     `json:"notes,omitempty"`
	SubmittedAt string     `json:"submitted_at"`
}

func NewVerificationRequestResponse(r *models.VerificationRequest) VerificationRequestResponse {
	resp := VerificationRequestResponse{
		ID:          r.ID,
		NIDNumber:   r.NIDNumber,
		Status:      string(r.Status),
		Notes:       r.Notes,
		SubmittedAt: r.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if r.User != nil {
		resp.User = NewUserPublic(r.User)
	}
	return resp
}
