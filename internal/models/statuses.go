package models

type UserRole string
type VerificationStatus string
type RequestStatus string
type PaymentStatus string
type PetType string
type PetGender string

const (
	UserRoleClient    UserRole = "client"
	UserRoleModerator UserRole = "moderator"
	UserRoleAdmin     UserRole = "admin"

	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"

	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"

	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"

	PetTypeCat PetType = "cat"
	PetTypeDog PetType = "dog"

	PetGenderMale   PetGender = "male"
	PetGenderFemale PetGender = "female"
)

// IsTerminal reports whether a payment status allows no further transitions.
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusCompleted || s == PaymentStatusFailed
}
