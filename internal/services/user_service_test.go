package services_test

import (
	"testing"

	"petnest_backend/internal/dto"
	"petnest_backend/internal/models"
	"petnest_backend/internal/repositories"
	"petnest_backend/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newUserService(db *gorm.DB) *services.UserService {
	return services.NewUserService(
		db,
		repositories.NewUserRepository(db),
		repositories.NewVerificationRepository(db),
		repositories.NewPostRepository(db),
	)
}

func submission(nid string) dto.VerificationSubmission {
	return dto.VerificationSubmission{
		NIDNumber:   nid,
		Phone:       "+8801712345678",
		Address:     "12 Lake Road",
		City:        "Dhaka",
		State:       "Dhaka",
		Postcode:    "1207",
		NIDFrontURL: "/media/nid/front.jpg",
		NIDBackURL:  "/media/nid/back.jpg",
	}
}

func TestSubmitVerification_Pending(t *testing.T) {
	db := newTestDB(t)
	svc := newUserService(db)
	user := createTestUser(t, db, "alice", true)

	request, err := svc.SubmitVerification(user.ID, submission("NID-123"))
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusPending, request.Status)
	assert.Empty(t, request.Notes)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, "id = ?", user.ID).Error)
	assert.Equal(t, models.VerificationPending, reloaded.VerificationStatus)
	assert.False(t, reloaded.IsVerified)
	assert.Equal(t, "NID-123", reloaded.NIDNumber)
	assert.Equal(t, "+8801712345678", reloaded.Phone, "contact fields mirror onto the user")
}

func TestSubmitVerification_DuplicateNIDAutoRejects(t *testing.T) {
	db := newTestDB(t)
	svc := newUserService(db)
	alice := createTestUser(t, db, "alice", true)
	bob := createTestUser(t, db, "bob", true)

	_, err := svc.SubmitVerification(alice.ID, submission("NID-123"))
	require.NoError(t, err)

	// Bob submits the same national ID.
	request, err := svc.SubmitVerification(bob.ID, submission("NID-123"))
	require.NoError(t, err, "the submission is recorded, not refused")
	assert.Equal(t, models.RequestStatusRejected, request.Status)
	assert.NotEmpty(t, request.Notes)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, "id = ?", bob.ID).Error)
	assert.Equal(t, models.VerificationRejected, reloaded.VerificationStatus)
	assert.False(t, reloaded.IsVerified)
}

func TestSubmitVerification_ResubmitOwnNIDAllowed(t *testing.T) {
	db := newTestDB(t)
	svc := newUserService(db)
	alice := createTestUser(t, db, "alice", true)

	_, err := svc.SubmitVerification(alice.ID, submission("NID-123"))
	require.NoError(t, err)

	// The same user's own number is not a duplicate.
	request, err := svc.SubmitVerification(alice.ID, submission("NID-123"))
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusPending, request.Status)
}

func TestUpdateProfile_PartialMerge(t *testing.T) {
	db := newTestDB(t)
	svc := newUserService(db)
	user := createTestUser(t, db, "alice", true)

	city := "Chittagong"
	updated, err := svc.UpdateProfile(user.ID, dto.UpdateProfileRequest{City: &city})
	require.NoError(t, err)
	assert.Equal(t, "Chittagong", updated.City)
	assert.Equal(t, "alice", updated.Username, "omitted fields stay untouched")
}
