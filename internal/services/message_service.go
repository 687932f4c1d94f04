package services

import (
	"petnest_backend/internal/dto"
	"petnest_backend/internal/models"
	"petnest_backend/internal/repositories"
	"petnest_backend/pkg/apperrors"
)

type MessageService struct {
	messages repositories.MessageRepository
	users    repositories.UserRepository
	pets     repositories.PetRepository
}

func NewMessageService(
	messages repositories.MessageRepository,
	users repositories.UserRepository,
	pets repositories.PetRepository,
) *MessageService {
	return &MessageService{
		messages: messages,
		users:    users,
		pets:     pets,
	}
}

// Send delivers a message addressed by receiver username. Unknown receiver
// and unknown pet produce distinct errors so the client can tell which
// reference was wrong.
func (s *MessageService) Send(senderID string, req dto.SendMessageRequest) (*models.Message, error) {
	receiver, err := s.users.FindByUsername(req.Receiver)
	if err != nil {
		return nil, apperrors.ErrNotFound(err, "message", "Receiver not found")
	}
	return s.SendByIDs(senderID, receiver.ID, req.PetID, req.Content)
}

// SendByIDs is the resolved-reference variant used by the websocket relay.
func (s *MessageService) SendByIDs(senderID, receiverID, petID, content string) (*models.Message, error) {
	sender, err := s.users.FindByID(senderID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err, "message", "Sender not found")
	}
	receiver, err := s.users.FindByID(receiverID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err, "message", "Receiver not found")
	}
	pet, err := s.pets.FindByID(petID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err, "message", "Pet not found")
	}
	if content == "" {
		return nil, apperrors.ValidationError(map[string]string{"content": "Content is required"})
	}

	message := &models.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		PetID:      petID,
		Content:    content,
	}
	if err := s.messages.Create(message); err != nil {
		return nil, apperrors.InternalError(err)
	}

	message.Sender = sender
	message.Receiver = receiver
	message.Pet = pet
	return message, nil
}

// Conversations aggregates the user's messages into one entry per distinct
// (counterpart, pet) pair. The scan runs newest first and keeps the first
// message seen per pair, so every entry carries its latest message and the
// list comes out ordered by recency.
func (s *MessageService) Conversations(userID string) ([]dto.ConversationResponse, error) {
	messages, err := s.messages.FindForUser(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	type pairKey struct {
		otherUserID string
		petID       string
	}
	seen := make(map[pairKey]bool)
	conversations := make([]dto.ConversationResponse, 0)

	for i := range messages {
		m := &messages[i]

		other := m.Sender
		otherID := m.SenderID
		if m.SenderID == userID {
			other = m.Receiver
			otherID = m.ReceiverID
		}

		key := pairKey{otherUserID: otherID, petID: m.PetID}
		if seen[key] {
			continue
		}
		seen[key] = true

		unread, err := s.messages.CountUnread(userID, otherID, m.PetID)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}

		conv := dto.ConversationResponse{
			OtherUser:     dto.NewUserPublic(other),
			LatestMessage: dto.NewMessageResponse(m),
			UnreadCount:   unread,
		}
		if m.Pet != nil {
			conv.Pet = dto.PetMinimal{ID: m.Pet.ID, Name: m.Pet.Name}
			conv.PetDetail = dto.NewPetResponse(m.Pet)
		} else {
			conv.Pet = dto.PetMinimal{ID: m.PetID}
		}
		conversations = append(conversations, conv)
	}
	return conversations, nil
}

// ConversationDetail returns the full exchange with one user about one pet,
// oldest first, marking the incoming side read as a side effect.
func (s *MessageService) ConversationDetail(userID, otherUsername, petID string) ([]models.Message, error) {
	other, err := s.users.FindByUsername(otherUsername)
	if err != nil {
		return nil, apperrors.ErrNotFound(err, "message", "User not found")
	}
	if _, err := s.pets.FindByID(petID); err != nil {
		return nil, apperrors.ErrNotFound(err, "message", "Pet not found")
	}

	if _, err := s.messages.MarkRead(userID, other.ID, petID); err != nil {
		return nil, apperrors.InternalError(err)
	}

	messages, err := s.messages.FindConversation(userID, other.ID, petID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return messages, nil
}

// MarkRead flips the unread messages from one user about one pet and reports
// how many were affected.
func (s *MessageService) MarkRead(userID, otherUsername, petID string) (int64, error) {
	other, err := s.users.FindByUsername(otherUsername)
	if err != nil {
		return 0, apperrors.ErrNotFound(err, "message", "User not found")
	}
	count, err := s.messages.MarkRead(userID, other.ID, petID)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return count, nil
}
