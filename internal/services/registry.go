package services

import (
	"petnest_backend/internal/config"
	"petnest_backend/internal/repositories"

	"gorm.io/gorm"
)

// ServiceContainer wires every service over a shared set of repositories.
type ServiceContainer struct {
	Auth     *AuthService
	Users    *UserService
	Pets     *PetService
	Payments *PaymentService
	Messages *MessageService
	Admin    *AdminService
	Emails   EmailService
}

func NewServiceContainer(db *gorm.DB, cfg *config.Config, paymentGateway PaymentGateway, emails EmailService) *ServiceContainer {
	users := repositories.NewUserRepository(db)
	refreshTokens := repositories.NewRefreshTokenRepository(db)
	pets := repositories.NewPetRepository(db)
	posts := repositories.NewPostRepository(db)
	payments := repositories.NewPaymentRepository(db)
	messages := repositories.NewMessageRepository(db)
	verifications := repositories.NewVerificationRepository(db)

	return &ServiceContainer{
		Auth:     NewAuthService(users, refreshTokens, emails, cfg),
		Users:    NewUserService(db, users, verifications, posts),
		Pets:     NewPetService(db, pets, payments, users, paymentGateway),
		Payments: NewPaymentService(db, payments, pets, paymentGateway, emails),
		Messages: NewMessageService(messages, users, pets),
		Admin:    NewAdminService(db, users, verifications, posts),
		Emails:   emails,
	}
}
