package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message is immutable once created except for IsRead, which only flips
// false -> true through the batch mark-read operation.
type Message struct {
	ID         string    `gorm:"type:uuid;primaryKey"`
	SenderID   string    `gorm:"not null;index:idx_messages_participants"`
	ReceiverID string    `gorm:"not null;index:idx_messages_participants"`
	PetID      string    `gorm:"not null;index:idx_messages_participants"`
	Content    string    `gorm:"type:text;not null"`
	Timestamp  time.Time `gorm:"index;autoCreateTime"`
	IsRead     bool      `gorm:"default:false"`

	Sender   *User `gorm:"foreignKey:SenderID"`
	Receiver *User `gorm:"foreignKey:ReceiverID"`
	Pet      *Pet  `gorm:"foreignKey:PetID"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
