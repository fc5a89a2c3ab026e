package models

import "github.com/google/uuid"

// Contact is a delivery address plus phone. A user may keep several.
type Contact struct {
	Base
	UserID    uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	City      string    `gorm:"size:50;not null" json:"city"`
	Street    string    `gorm:"size:100;not null" json:"street"`
	House     string    `gorm:"size:15" json:"house"`
	Structure string    `gorm:"size:15" json:"structure"`
	Building  string    `gorm:"size:15" json:"building"`
	Apartment string    `gorm:"size:15" json:"apartment"`
	Phone     string    `gorm:"size:20;not null" json:"phone"`

	// Relationships
	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Contact) TableName() string {
	return "contacts"
}
