package dto

import (
	"time"

	"petnest_backend/internal/models"
)

// PaymentCallback is the gateway's asynchronous notification. Both
// body-encoded and query-encoded deliveries are merged into it, body winning.
type PaymentCallback struct {
	TransactionID string `form:"tran_id" json:"tran_id"`
	Status        string `form:"status" json:"status"`
	ValID         string `form:"val_id" json:"val_id"`
	Amount        string `form:"amount" json:"amount"`
	VerifySign    string `form:"verify_sign" json:"verify_sign"`
	VerifyKey     string `form:"verify_key" json:"verify_key"`
}

// PaymentInitiatedResponse is returned with 202 when a paid listing awaits
// gateway checkout.
type PaymentInitiatedResponse struct {
	PaymentURL    string      `json:"payment_url"`
	TransactionID string      `json:"transaction_id"`
	Pet           PetResponse `json:"pet"`
}

type PaymentResponse struct {
	ID            string    `json:"id"`
	UserName      string    `json:"user_name"`
	PetName       string    `json:"pet_name"`
	TransactionID string    `json:"transaction_id"`
	Amount        float64   `json:"amount"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

func NewPaymentResponse(p *models.Payment) PaymentResponse {
	resp := PaymentResponse{
		ID:            p.ID,
		TransactionID: p.TransactionID,
		Amount:        p.Amount,
		Status:        string(p.Status),
		CreatedAt:     p.CreatedAt,
	}
	if p.User != nil {
		resp.UserName = p.User.Username
	}
	if p.Pet != nil {
		resp.PetName = p.Pet.Name
	}
	return resp
}
