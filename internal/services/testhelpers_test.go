package services_test

import (
	"context"
	"fmt"
	"testing"

	"petnest_backend/database"
	"petnest_backend/internal/config"
	"petnest_backend/internal/models"
	"petnest_backend/internal/repositories"
	"petnest_backend/internal/services"
	"petnest_backend/internal/services/gateway"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database and applies the schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.TTL = 60
	cfg.JWT.RefreshTTLDay = 7
	return cfg
}

// fakeGateway satisfies services.PaymentGateway without network traffic.
type fakeGateway struct {
	url         string
	sessionErr  error
	signatureOK bool
	sessions    []gateway.SessionRequest
}

func (f *fakeGateway) CreateSession(_ context.Context, req gateway.SessionRequest) (string, error) {
	f.sessions = append(f.sessions, req)
	if f.sessionErr != nil {
		return "", f.sessionErr
	}
	if f.url == "" {
		return "https://sandbox.example.test/checkout", nil
	}
	return f.url, nil
}

func (f *fakeGateway) VerifyCallbackSignature(map[string]string, string, string) bool {
	return f.signatureOK
}

func createTestUser(t *testing.T, db *gorm.DB, username string, firstPostFree bool) *models.User {
	t.Helper()

	user := &models.User{
		Username:           username,
		Email:              username + "@example.test",
		PasswordHash:       "x",
		Role:               models.UserRoleClient,
		VerificationStatus: models.VerificationPending,
		IsActive:           true,
		FirstPostFree:      firstPostFree,
	}
	require.NoError(t, db.Create(user).Error)
	if !firstPostFree {
		// The column default is true; a zero value is dropped on insert.
		require.NoError(t, db.Model(user).Update("first_post_free", false).Error)
	}
	return user
}

func createTestPet(t *testing.T, db *gorm.DB, ownerID string, forAdoption bool) *models.Pet {
	t.Helper()

	pet := &models.Pet{
		OwnerID:       ownerID,
		Name:          "Whiskers",
		PetType:       models.PetTypeCat,
		Breed:         "Persian",
		Age:           2,
		Gender:        models.PetGenderFemale,
		Description:   "Calm and friendly",
		IsForAdoption: forAdoption,
		Availability:  true,
	}
	if !forAdoption {
		price := 150.0
		pet.Price = &price
	}
	require.NoError(t, db.Create(pet).Error)
	return pet
}

func newPetService(db *gorm.DB, gw services.PaymentGateway) *services.PetService {
	return services.NewPetService(
		db,
		repositories.NewPetRepository(db),
		repositories.NewPaymentRepository(db),
		repositories.NewUserRepository(db),
		gw,
	)
}

func newPaymentService(db *gorm.DB, gw services.PaymentGateway) *services.PaymentService {
	return services.NewPaymentService(
		db,
		repositories.NewPaymentRepository(db),
		repositories.NewPetRepository(db),
		gw,
		services.NoopEmailService{},
	)
}

func newMessageService(db *gorm.DB) *services.MessageService {
	return services.NewMessageService(
		repositories.NewMessageRepository(db),
		repositories.NewUserRepository(db),
		repositories.NewPetRepository(db),
	)
}
