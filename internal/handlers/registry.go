package handlers

import (
	"petnest_backend/internal/services"
	"petnest_backend/internal/validator"
)

// AppHandlers groups every HTTP handler for route registration.
type AppHandlers struct {
	Auth     *AuthHandler
	Users    *UserHandler
	Pets     *PetHandler
	Payments *PaymentHandler
	Messages *MessageHandler
	Admin    *AdminHandler
}

func NewAppHandlers(
	svcs *services.ServiceContainer,
	uploads *Uploader,
	v *validator.Validator,
	notify func(userID string, event any),
) *AppHandlers {
	base := NewBaseHandler(v)

	return &AppHandlers{
		Auth:     NewAuthHandler(base, svcs.Auth),
		Users:    NewUserHandler(base, svcs.Users, uploads),
		Pets:     NewPetHandler(base, svcs.Pets, uploads),
		Payments: NewPaymentHandler(base, svcs.Payments),
		Messages: NewMessageHandler(base, svcs.Messages, notify),
		Admin:    NewAdminHandler(base, svcs.Admin),
	}
}
