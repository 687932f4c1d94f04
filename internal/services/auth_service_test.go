package services_test

import (
	"testing"

	"petnest_backend/internal/auth"
	"petnest_backend/internal/dto"
	"petnest_backend/internal/models"
	"petnest_backend/internal/repositories"
	"petnest_backend/internal/services"
	"petnest_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAuthService(db *gorm.DB) *services.AuthService {
	auth.InitJWT("test-secret")
	return services.NewAuthService(
		repositories.NewUserRepository(db),
		repositories.NewRefreshTokenRepository(db),
		services.NoopEmailService{},
		testConfig(),
	)
}

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	user, err := svc.Register(dto.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.test",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	assert.Equal(t, models.UserRoleClient, user.Role)
	assert.True(t, user.FirstPostFree)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)

	pair, err := svc.Login(dto.LoginRequest{Email: "alice@example.test", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	claims, err := auth.ParseToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, string(models.UserRoleClient), claims.Role)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	_, err := svc.Register(dto.RegisterRequest{Username: "alice", Email: "a@example.test", Password: "s3cret-pass"})
	require.NoError(t, err)

	_, err = svc.Register(dto.RegisterRequest{Username: "alice2", Email: "a@example.test", Password: "s3cret-pass"})
	require.Error(t, err)
	appErr, _ := apperrors.AsAppError(err)
	assert.Equal(t, apperrors.CodeAlreadyExists, appErr.Code)
}

func TestLogin_WrongCredentialsIndistinguishable(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	_, err := svc.Register(dto.RegisterRequest{Username: "alice", Email: "a@example.test", Password: "s3cret-pass"})
	require.NoError(t, err)

	_, err1 := svc.Login(dto.LoginRequest{Email: "a@example.test", Password: "wrong"})
	_, err2 := svc.Login(dto.LoginRequest{Email: "ghost@example.test", Password: "s3cret-pass"})
	require.Error(t, err1)
	require.Error(t, err2)
	assert.Equal(t, err1.Error(), err2.Error(), "unknown email and wrong password look the same")
}

func TestRefresh_RotatesToken(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	_, err := svc.Register(dto.RegisterRequest{Username: "alice", Email: "a@example.test", Password: "s3cret-pass"})
	require.NoError(t, err)
	pair, err := svc.Login(dto.LoginRequest{Email: "a@example.test", Password: "s3cret-pass"})
	require.NoError(t, err)

	rotated, err := svc.Refresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	// The spent token no longer works.
	_, err = svc.Refresh(pair.RefreshToken)
	require.Error(t, err)
}

func TestChangePassword_RevokesSessions(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	user, err := svc.Register(dto.RegisterRequest{Username: "alice", Email: "a@example.test", Password: "s3cret-pass"})
	require.NoError(t, err)
	pair, err := svc.Login(dto.LoginRequest{Email: "a@example.test", Password: "s3cret-pass"})
	require.NoError(t, err)

	err = svc.ChangePassword(user.ID, dto.PasswordChangeRequest{
		OldPassword: "s3cret-pass",
		NewPassword: "even-m0re-secret",
	})
	require.NoError(t, err)

	_, err = svc.Refresh(pair.RefreshToken)
	require.Error(t, err, "old refresh tokens die with the password")

	_, err = svc.Login(dto.LoginRequest{Email: "a@example.test", Password: "even-m0re-secret"})
	require.NoError(t, err)
}

func TestPasswordReset_Flow(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	user, err := svc.Register(dto.RegisterRequest{Username: "alice", Email: "a@example.test", Password: "s3cret-pass"})
	require.NoError(t, err)

	// Unknown address is silently accepted.
	require.NoError(t, svc.RequestPasswordReset("ghost@example.test"))

	require.NoError(t, svc.RequestPasswordReset("a@example.test"))
	var reloaded models.User
	require.NoError(t, db.First(&reloaded, "id = ?", user.ID).Error)
	require.NotEmpty(t, reloaded.ResetToken)

	err = svc.ConfirmPasswordReset(dto.PasswordResetConfirmRequest{
		Token:       reloaded.ResetToken,
		NewPassword: "fresh-passw0rd",
	})
	require.NoError(t, err)

	_, err = svc.Login(dto.LoginRequest{Email: "a@example.test", Password: "fresh-passw0rd"})
	require.NoError(t, err)

	// The token is single-use.
	err = svc.ConfirmPasswordReset(dto.PasswordResetConfirmRequest{
		Token:       reloaded.ResetToken,
		NewPassword: "another-passw0rd",
	})
	require.Error(t, err)
}
