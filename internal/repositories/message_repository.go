package repositories

import (
	"petnest_backend/internal/models"

	"gorm.io/gorm"
)

type MessageRepository interface {
	Create(message *models.Message) error

	// FindForUser returns every message the user sent or received, newest
	// first. Ties on timestamp are broken by id so the ordering is stable.
	FindForUser(userID string) ([]models.Message, error)

	// FindConversation returns both directions of the (user, other user)
	// exchange about one pet, oldest first.
	FindConversation(userID, otherUserID, petID string) ([]models.Message, error)

	// MarkRead flips the unread messages sent by otherUserID to userID about
	// petID. Returns the number of rows affected.
	MarkRead(userID, otherUserID, petID string) (int64, error)

	CountUnread(receiverID, senderID, petID string) (int64, error)
}

type MessageRepositoryImpl struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &MessageRepositoryImpl{db: db}
}

func (r *MessageRepositoryImpl) Create(message *models.Message) error {
	return r.db.Create(message).Error
}

func (r *MessageRepositoryImpl) FindForUser(userID string) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.Preload("Sender").Preload("Receiver").Preload("Pet").
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("timestamp DESC, id DESC").
		Find(&messages).Error
	return messages, err
}

func (r *MessageRepositoryImpl) FindConversation(userID, otherUserID, petID string) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.Preload("Sender").Preload("Receiver").
		Where("pet_id = ?", petID).
		Where(
			r.db.Where("sender_id = ? AND receiver_id = ?", userID, otherUserID).
				Or("sender_id = ? AND receiver_id = ?", otherUserID, userID),
		).
		Order("timestamp ASC, id ASC").
		Find(&messages).Error
	return messages, err
}

func (r *MessageRepositoryImpl) MarkRead(userID, otherUserID, petID string) (int64, error) {
	result := r.db.Model(&models.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND pet_id = ? AND is_read = ?",
			otherUserID, userID, petID, false).
		Update("is_read", true)
	return result.RowsAffected, result.Error
}

func (r *MessageRepositoryImpl) CountUnread(receiverID, senderID, petID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND pet_id = ? AND is_read = ?",
			senderID, receiverID, petID, false).
		Count(&count).Error
	return count, err
}
