package services_test

import (
	"testing"

	"petnest_backend/internal/dto"
	"petnest_backend/internal/models"
	"petnest_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createTestPayment(t *testing.T, db *gorm.DB, userID, petID, tranID string) *models.Payment {
	t.Helper()

	payment := &models.Payment{
		UserID:        userID,
		PetID:         petID,
		TransactionID: tranID,
		Amount:        20,
		Status:        models.PaymentStatusPending,
	}
	require.NoError(t, db.Create(payment).Error)
	return payment
}

func postCount(t *testing.T, db *gorm.DB, userID, petID string) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(&models.Post{}).
		Where("user_id = ? AND pet_id = ?", userID, petID).
		Count(&count).Error)
	return count
}

func TestHandleCallback_Success(t *testing.T) {
	db := newTestDB(t)
	svc := newPaymentService(db, &fakeGateway{})
	user := createTestUser(t, db, "alice", false)
	pet := createTestPet(t, db, user.ID, false)
	createTestPayment(t, db, user.ID, pet.ID, "tx-1")

	payment, err := svc.HandleCallback(dto.PaymentCallback{TransactionID: "tx-1", Status: "VALID"}, nil)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusCompleted, payment.Status)
	assert.EqualValues(t, 1, postCount(t, db, user.ID, pet.ID))

	var post models.Post
	require.NoError(t, db.First(&post, "pet_id = ?", pet.ID).Error)
	assert.True(t, post.IsPaid)
	assert.False(t, post.IsFree)
}

func TestHandleCallback_SuccessReplayIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := newPaymentService(db, &fakeGateway{})
	user := createTestUser(t, db, "alice", false)
	pet := createTestPet(t, db, user.ID, false)
	createTestPayment(t, db, user.ID, pet.ID, "tx-1")

	for _, status := range []string{"VALID", "VALIDATED", "SUCCESS"} {
		payment, err := svc.HandleCallback(dto.PaymentCallback{TransactionID: "tx-1", Status: status}, nil)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusCompleted, payment.Status)
	}
	assert.EqualValues(t, 1, postCount(t, db, user.ID, pet.ID), "replays create no duplicate post")
}

func TestHandleCallback_Failure(t *testing.T) {
	db := newTestDB(t)
	svc := newPaymentService(db, &fakeGateway{})
	user := createTestUser(t, db, "alice", false)
	pet := createTestPet(t, db, user.ID, false)
	createTestPayment(t, db, user.ID, pet.ID, "tx-1")

	payment, err := svc.HandleCallback(dto.PaymentCallback{TransactionID: "tx-1", Status: "FAILED"}, nil)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusFailed, payment.Status)
	assert.Zero(t, postCount(t, db, user.ID, pet.ID))

	// The unpaid listing is withdrawn, not deleted.
	var reloaded models.Pet
	require.NoError(t, db.First(&reloaded, "id = ?", pet.ID).Error)
	assert.False(t, reloaded.Availability)
}

func TestHandleCallback_EmptyStatusIsFailure(t *testing.T) {
	db := newTestDB(t)
	svc := newPaymentService(db, &fakeGateway{})
	user := createTestUser(t, db, "alice", false)
	pet := createTestPet(t, db, user.ID, false)
	createTestPayment(t, db, user.ID, pet.ID, "tx-1")

	payment, err := svc.HandleCallback(dto.PaymentCallback{TransactionID: "tx-1"}, nil)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusFailed, payment.Status)
}

func TestHandleCallback_UnknownStatusRejected(t *testing.T) {
	db := newTestDB(t)
	svc := newPaymentService(db, &fakeGateway{})
	user := createTestUser(t, db, "alice", false)
	pet := createTestPet(t, db, user.ID, false)
	createTestPayment(t, db, user.ID, pet.ID, "tx-1")

	_, err := svc.HandleCallback(dto.PaymentCallback{TransactionID: "tx-1", Status: "PROCESSING"}, nil)
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeInvalidStatus, appErr.Code)

	// No mutation happened.
	var payment models.Payment
	require.NoError(t, db.First(&payment, "transaction_id = ?", "tx-1").Error)
	assert.Equal(t, models.PaymentStatusPending, payment.Status)
}

func TestHandleCallback_UnknownTransaction(t *testing.T) {
	db := newTestDB(t)
	svc := newPaymentService(db, &fakeGateway{})

	_, err := svc.HandleCallback(dto.PaymentCallback{TransactionID: "nope", Status: "VALID"}, nil)
	require.Error(t, err)
	appErr, _ := apperrors.AsAppError(err)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}

func TestHandleCallback_ConflictingTransition(t *testing.T) {
	db := newTestDB(t)
	svc := newPaymentService(db, &fakeGateway{})
	user := createTestUser(t, db, "alice", false)
	pet := createTestPet(t, db, user.ID, false)
	createTestPayment(t, db, user.ID, pet.ID, "tx-1")

	_, err := svc.HandleCallback(dto.PaymentCallback{TransactionID: "tx-1", Status: "FAILED"}, nil)
	require.NoError(t, err)

	// A success after a terminal failure is rejected.
	_, err = svc.HandleCallback(dto.PaymentCallback{TransactionID: "tx-1", Status: "VALID"}, nil)
	require.Error(t, err)
	appErr, _ := apperrors.AsAppError(err)
	assert.Equal(t, apperrors.CodeConflict, appErr.Code)
	assert.Zero(t, postCount(t, db, user.ID, pet.ID))
}

func TestHandleCallback_SignatureMismatch(t *testing.T) {
	db := newTestDB(t)
	svc := newPaymentService(db, &fakeGateway{signatureOK: false})
	user := createTestUser(t, db, "alice", false)
	pet := createTestPet(t, db, user.ID, false)
	createTestPayment(t, db, user.ID, pet.ID, "tx-1")

	cb := dto.PaymentCallback{
		TransactionID: "tx-1",
		Status:        "VALID",
		VerifySign:    "deadbeef",
		VerifyKey:     "amount,status,tran_id",
	}
	_, err := svc.HandleCallback(cb, map[string]string{"tran_id": "tx-1"})
	require.Error(t, err)
	appErr, _ := apperrors.AsAppError(err)
	assert.Equal(t, apperrors.CodeValidationFailed, appErr.Code)

	var payment models.Payment
	require.NoError(t, db.First(&payment, "transaction_id = ?", "tx-1").Error)
	assert.Equal(t, models.PaymentStatusPending, payment.Status)
	assert.Zero(t, postCount(t, db, user.ID, pet.ID))
}

func TestHandleCallback_SignatureAbsentIsAccepted(t *testing.T) {
	db := newTestDB(t)
	// signatureOK false proves the verifier is not consulted without a sign.
	svc := newPaymentService(db, &fakeGateway{signatureOK: false})
	user := createTestUser(t, db, "alice", false)
	pet := createTestPet(t, db, user.ID, false)
	createTestPayment(t, db, user.ID, pet.ID, "tx-1")

	payment, err := svc.HandleCallback(dto.PaymentCallback{TransactionID: "tx-1", Status: "VALID"}, nil)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusCompleted, payment.Status)
}

func TestHistory_Scoping(t *testing.T) {
	db := newTestDB(t)
	svc := newPaymentService(db, &fakeGateway{})
	alice := createTestUser(t, db, "alice", false)
	bob := createTestUser(t, db, "bob", false)
	alicePet := createTestPet(t, db, alice.ID, false)
	bobPet := createTestPet(t, db, bob.ID, false)
	createTestPayment(t, db, alice.ID, alicePet.ID, "tx-a")
	createTestPayment(t, db, bob.ID, bobPet.ID, "tx-b")

	mine, err := svc.History(alice.ID, false)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "tx-a", mine[0].TransactionID)

	all, err := svc.History(alice.ID, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
