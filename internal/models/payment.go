package models

type Payment struct {
	BaseModel
	UserID        string        `gorm:"not null;index"`
	PetID         string        `gorm:"not null;index"`
	TransactionID string        `gorm:"uniqueIndex;not null"`
	Amount        float64       `gorm:"not null"`
	Status        PaymentStatus `gorm:"type:varchar(20);default:'pending'"`

	User *User `gorm:"foreignKey:UserID"`
	Pet  *Pet  `gorm:"foreignKey:PetID"`
}

// Post records that a listing went live, either through the free allowance
// or a completed payment. At most one exists per (user, pet) pair.
type Post struct {
	BaseModel
	UserID string `gorm:"not null;index:idx_posts_user_pet,unique"`
	PetID  string `gorm:"not null;index:idx_posts_user_pet,unique"`
	IsPaid bool   `gorm:"default:false"`
	IsFree bool   `gorm:"default:false"`

	User *User `gorm:"foreignKey:UserID"`
	Pet  *Pet  `gorm:"foreignKey:PetID"`
}
