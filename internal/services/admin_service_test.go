package services_test

import (
	"testing"
	"time"

	"petnest_backend/internal/dto"
	"petnest_backend/internal/models"
	"petnest_backend/internal/repositories"
	"petnest_backend/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAdminService(db *gorm.DB) *services.AdminService {
	return services.NewAdminService(
		db,
		repositories.NewUserRepository(db),
		repositories.NewVerificationRepository(db),
		repositories.NewPostRepository(db),
	)
}

func TestDecideVerification_ApproveMirrorsRequest(t *testing.T) {
	db := newTestDB(t)
	admin := newAdminService(db)
	users := newUserService(db)
	user := createTestUser(t, db, "alice", true)

	_, err := users.SubmitVerification(user.ID, submission("NID-555"))
	require.NoError(t, err)

	decided, err := admin.DecideVerification(user.ID, dto.VerificationDecisionRequest{
		Status: "approved",
		Notes:  "Documents check out",
	})
	require.NoError(t, err)
	assert.True(t, decided.IsVerified)
	assert.Equal(t, models.VerificationVerified, decided.VerificationStatus)

	var request models.VerificationRequest
	require.NoError(t, db.First(&request, "user_id = ?", user.ID).Error)
	assert.Equal(t, models.RequestStatusApproved, request.Status)
	assert.Equal(t, "Documents check out", request.Notes)
}

func TestDecideVerification_Reject(t *testing.T) {
	db := newTestDB(t)
	admin := newAdminService(db)
	users := newUserService(db)
	user := createTestUser(t, db, "alice", true)

	_, err := users.SubmitVerification(user.ID, submission("NID-556"))
	require.NoError(t, err)

	decided, err := admin.DecideVerification(user.ID, dto.VerificationDecisionRequest{
		Status: "rejected",
		Notes:  "Photo unreadable",
	})
	require.NoError(t, err)
	assert.False(t, decided.IsVerified)
	assert.Equal(t, models.VerificationRejected, decided.VerificationStatus)

	var request models.VerificationRequest
	require.NoError(t, db.First(&request, "user_id = ?", user.ID).Error)
	assert.Equal(t, models.RequestStatusRejected, request.Status)
}

func TestDecideVerification_WithoutOpenRequest(t *testing.T) {
	db := newTestDB(t)
	admin := newAdminService(db)
	user := createTestUser(t, db, "alice", true)

	// A decision can land even when no request row exists.
	decided, err := admin.DecideVerification(user.ID, dto.VerificationDecisionRequest{Status: "approved"})
	require.NoError(t, err)
	assert.True(t, decided.IsVerified)
}

func TestListUsers_Filter(t *testing.T) {
	db := newTestDB(t)
	admin := newAdminService(db)

	verified := createTestUser(t, db, "alice", true)
	verified.IsVerified = true
	verified.VerificationStatus = models.VerificationVerified
	require.NoError(t, db.Save(verified).Error)
	createTestUser(t, db, "bob", true)

	users, total, err := admin.ListUsers(dto.AdminUserListQuery{Status: "verified"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, users, 1)
	assert.Equal(t, "alice", users[0].Username)
}

func TestUpdateRole(t *testing.T) {
	db := newTestDB(t)
	admin := newAdminService(db)
	user := createTestUser(t, db, "alice", true)

	updated, err := admin.UpdateRole(user.ID, dto.RoleUpdateRequest{Role: "moderator"})
	require.NoError(t, err)
	assert.Equal(t, models.UserRoleModerator, updated.Role)
}

func TestDeletePost(t *testing.T) {
	db := newTestDB(t)
	admin := newAdminService(db)
	user := createTestUser(t, db, "alice", true)
	pet := createTestPet(t, db, user.ID, true)

	post := &models.Post{UserID: user.ID, PetID: pet.ID, IsFree: true}
	require.NoError(t, db.Create(post).Error)

	require.NoError(t, admin.DeletePost(post.ID))

	err := admin.DeletePost(post.ID)
	require.Error(t, err, "second delete finds nothing")
}

func TestDeactivateUser_KeepsRow(t *testing.T) {
	db := newTestDB(t)
	admin := newAdminService(db)
	user := createTestUser(t, db, "alice", true)
	createTestPet(t, db, user.ID, true)
	require.NoError(t, db.Create(&models.RefreshToken{
		UserID:    user.ID,
		Token:     "rt-1",
		ExpiresAt: time.Now().Add(time.Hour),
	}).Error)

	require.NoError(t, admin.DeactivateUser(user.ID))

	// The account is retired, never removed.
	var reloaded models.User
	require.NoError(t, db.First(&reloaded, "id = ?", user.ID).Error)
	assert.False(t, reloaded.IsActive)

	// References survive; sessions do not.
	var petCount, tokenCount int64
	require.NoError(t, db.Model(&models.Pet{}).Where("owner_id = ?", user.ID).Count(&petCount).Error)
	require.NoError(t, db.Model(&models.RefreshToken{}).Where("user_id = ?", user.ID).Count(&tokenCount).Error)
	assert.EqualValues(t, 1, petCount)
	assert.Zero(t, tokenCount)

	err := admin.DeactivateUser("missing")
	require.Error(t, err)
}
