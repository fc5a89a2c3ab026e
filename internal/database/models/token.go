package models

import (
	"github.com/avolkov/orderhub/pkg/token"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ConfirmEmailToken is a one-time key tied to a user, consumed by the
// email confirmation and password reset flows. The key is filled in on
// first save and never regenerated; uniqueness is enforced by the index,
// not by retrying.
type ConfirmEmailToken struct {
	Base
	UserID uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	Key    string    `gorm:"size:64;uniqueIndex;not null" json:"-"`

	// Relationships
	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (ConfirmEmailToken) TableName() string {
	return "confirm_email_tokens"
}

func (t *ConfirmEmailToken) BeforeCreate(tx *gorm.DB) error {
	if err := t.Base.BeforeCreate(tx); err != nil {
		return err
	}
	if t.Key == "" {
		key, err := token.Generate()
		if err != nil {
			return err
		}
		t.Key = key
	}
	return nil
}
