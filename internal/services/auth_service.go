package services

import (
	"time"

	"petnest_backend/internal/auth"
	"petnest_backend/internal/config"
	"petnest_backend/internal/dto"
	"petnest_backend/internal/logger"
	"petnest_backend/internal/models"
	"petnest_backend/internal/repositories"
	"petnest_backend/pkg/apperrors"

	"github.com/google/uuid"
)

type AuthService struct {
	users         repositories.UserRepository
	refreshTokens repositories.RefreshTokenRepository
	emails        EmailService
	cfg           *config.Config
}

func NewAuthService(
	users repositories.UserRepository,
	refreshTokens repositories.RefreshTokenRepository,
	emails EmailService,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		users:         users,
		refreshTokens: refreshTokens,
		emails:        emails,
		cfg:           cfg,
	}
}

func (s *AuthService) Register(req dto.RegisterRequest) (*models.User, error) {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.ValidationError(map[string]string{"password": err.Error()})
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Username:           req.Username,
		Email:              req.Email,
		PasswordHash:       hash,
		Role:               models.UserRoleClient,
		VerificationStatus: models.VerificationPending,
		IsActive:           true,
		FirstPostFree:      true,
	}

	if err := s.users.Create(user); err != nil {
		if err == repositories.ErrUserAlreadyExists {
			return nil, apperrors.ErrAlreadyExists(err, "user", "Email or username already registered")
		}
		return nil, apperrors.InternalError(err)
	}
	return user, nil
}

func (s *AuthService) Login(req dto.LoginRequest) (*dto.TokenPairResponse, error) {
	user, err := s.users.FindByEmail(req.Email)
	if err != nil {
		// Same response for unknown email and wrong password.
		return nil, apperrors.New(apperrors.CodeInvalidCredentials, "auth", "Invalid email or password", 401)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.New(apperrors.CodeInvalidCredentials, "auth", "Invalid email or password", 401)
	}
	if !user.IsActive {
		return nil, apperrors.NewForbiddenError("Account is deactivated")
	}

	return s.issueTokenPair(user)
}

func (s *AuthService) Refresh(refreshToken string) (*dto.TokenPairResponse, error) {
	stored, err := s.refreshTokens.Find(refreshToken)
	if err != nil {
		return nil, apperrors.NewUnauthorizedError("Invalid refresh token")
	}
	if stored.ExpiresAt.Before(time.Now()) {
		_ = s.refreshTokens.Delete(refreshToken)
		return nil, apperrors.New(apperrors.CodeTokenExpired, "auth", "Refresh token expired", 401)
	}

	user, err := s.users.FindByID(stored.UserID)
	if err != nil {
		return nil, apperrors.NewUnauthorizedError("Invalid refresh token")
	}

	// Rotate: the old token is spent.
	if err := s.refreshTokens.Delete(refreshToken); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return s.issueTokenPair(user)
}

func (s *AuthService) Logout(userID string) error {
	if err := s.refreshTokens.DeleteForUser(userID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *AuthService) ChangePassword(userID string, req dto.PasswordChangeRequest) error {
	user, err := s.users.FindByID(userID)
	if err != nil {
		return apperrors.ErrNotFound(err, "user", "User not found")
	}

	if !auth.CheckPasswordHash(req.OldPassword, user.PasswordHash) {
		return apperrors.New(apperrors.CodeInvalidCredentials, "auth", "Current password is incorrect", 400)
	}
	if err := auth.ValidatePassword(req.NewPassword); err != nil {
		return apperrors.ValidationError(map[string]string{"new_password": err.Error()})
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return apperrors.InternalError(err)
	}

	user.PasswordHash = hash
	if err := s.users.Update(user); err != nil {
		return apperrors.InternalError(err)
	}

	// Force re-login everywhere.
	return s.Logout(userID)
}

func (s *AuthService) RequestPasswordReset(email string) error {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		// Do not reveal whether the address exists.
		logger.Info("password reset requested for unknown email")
		return nil
	}

	token := uuid.NewString()
	exp := time.Now().Add(time.Hour)
	user.ResetToken = token
	user.ResetTokenExp = &exp
	if err := s.users.Update(user); err != nil {
		return apperrors.InternalError(err)
	}

	if err := s.emails.SendPasswordReset(user, token); err != nil {
		logger.WithError(err).Error("failed to send password reset email", "user_id", user.ID)
	}
	return nil
}

func (s *AuthService) ConfirmPasswordReset(req dto.PasswordResetConfirmRequest) error {
	user, err := s.users.FindByResetToken(req.Token)
	if err != nil {
		return apperrors.New(apperrors.CodeInvalidToken, "auth", "Invalid or expired reset token", 400)
	}
	if user.ResetTokenExp == nil || user.ResetTokenExp.Before(time.Now()) {
		return apperrors.New(apperrors.CodeTokenExpired, "auth", "Invalid or expired reset token", 400)
	}
	if err := auth.ValidatePassword(req.NewPassword); err != nil {
		return apperrors.ValidationError(map[string]string{"new_password": err.Error()})
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return apperrors.InternalError(err)
	}

	user.PasswordHash = hash
	user.ResetToken = ""
	user.ResetTokenExp = nil
	if err := s.users.Update(user); err != nil {
		return apperrors.InternalError(err)
	}
	return s.Logout(user.ID)
}

func (s *AuthService) issueTokenPair(user *models.User) (*dto.TokenPairResponse, error) {
	accessTTL := time.Duration(s.cfg.JWT.TTL) * time.Minute
	access, err := auth.GenerateToken(user.ID, string(user.Role), accessTTL)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	refresh := &models.RefreshToken{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().AddDate(0, 0, s.cfg.JWT.RefreshTTLDay),
	}
	if err := s.refreshTokens.Create(refresh); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.TokenPairResponse{
		AccessToken:  access,
		RefreshToken: refresh.Token,
	}, nil
}
