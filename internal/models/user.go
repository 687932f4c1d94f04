package models

import "time"

type User struct {
	BaseModel
	Username       string `gorm:"uniqueIndex;not null"`
	Email          string `gorm:"uniqueIndex;not null"`
	PasswordHash   string `gorm:"not null"`
	Phone          string
	Address        string
	City           string
	State          string
	Postcode       string
	NIDNumber      string `gorm:"column:nid_number;index"`
	NIDFront       string `gorm:"column:nid_front"`
	NIDBack        string `gorm:"column:nid_back"`
	ProfilePicture string

	IsVerified         bool               `gorm:"default:false"`
	VerificationStatus VerificationStatus `gorm:"type:varchar(20);default:'pending'"`
	Role               UserRole           `gorm:"type:varchar(20);default:'client'"`
	IsActive           bool               `gorm:"default:true"`
	FirstPostFree      bool               `gorm:"default:true"`

	ResetToken    string
	ResetTokenExp *time.Time

	// Relations
	Pets                 []Pet                 `gorm:"foreignKey:OwnerID"`
	Posts                []Post                `gorm:"foreignKey:UserID"`
	VerificationRequests []VerificationRequest `gorm:"foreignKey:UserID"`
	RefreshTokens        []RefreshToken        `gorm:"foreignKey:UserID"`
}

func (u *User) IsModeratorOrAdmin() bool {
	return u.Role == UserRoleModerator || u.Role == UserRoleAdmin
}

type RefreshToken struct {
	BaseModel
	UserID    string    `gorm:"not null;index"`
	Token     string    `gorm:"not null;uniqueIndex"`
	ExpiresAt time.Time `gorm:"not null"`
}

type VerificationRequest struct {
	BaseModel
	UserID    string `gorm:"not null;index"`
	NIDNumber string `gorm:"column:nid_number;not null;index"`
	NIDFront  string `gorm:"column:nid_front;not null"`
	NIDBack   string `gorm:"column:nid_back;not null"`
	Phone     string `gorm:"not null"`
	Address   string `gorm:"not null"`
	City      string `gorm:"not null"`
	State     string `gorm:"not null"`
	Postcode  string `gorm:"not null"`
	Status    RequestStatus `gorm:"type:varchar(20);default:'pending'"`
	Notes     string

	User *User `gorm:"foreignKey:UserID"`
}
