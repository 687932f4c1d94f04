package dto

import (
	"time"

	"petnest_backend/internal/models"
)

type SendMessageRequest struct {
	Receiver string `json:"receiver" validate:"required"` // username
	PetID    string `json:"pet" validate:"required"`
	Content  string `json:"content" validate:"required"`
}

type MessageResponse struct {
	ID        string     `json:"id"`
	Sender    UserPublic `json:"sender"`
	Receiver  UserPublic `json:"receiver"`
	PetID     string     `json:"pet"`
	Content   string     `json:"content"`
	Timestamp time.Time  `json:"timestamp"`
	IsRead    bool       `json:"is_read"`
}

func NewMessageResponse(m *models.Message) MessageResponse {
	return MessageResponse{
		ID:        m.ID,
		Sender:    NewUserPublic(m.Sender),
		Receiver:  NewUserPublic(m.Receiver),
		PetID:     m.PetID,
		Content:   m.Content,
		Timestamp: m.Timestamp,
		IsRead:    m.IsRead,
	}
}

// ConversationResponse is one per distinct (other user, pet) pair.
type ConversationResponse struct {
	OtherUser     UserPublic      `json:"other_user"`
	Pet           PetMinimal      `json:"pet"`
	PetDetail     PetResponse     `json:"pet_detail"`
	LatestMessage MessageResponse `json:"latest_message"`
	UnreadCount   int64           `json:"unread_count"`
}
