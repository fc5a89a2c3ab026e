package models

import "github.com/google/uuid"

// Shop is a seller. The owning user is optional: shops created from
// imported price lists may exist before anyone claims them.
type Shop struct {
	Base
	Name   string     `gorm:"size:80;not null" json:"name"`
	URL    string     `gorm:"size:255" json:"url,omitempty"`
	UserID *uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"user_id,omitempty"`

	// Relationships
	User       *User         `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Categories []Category    `gorm:"many2many:shop_categories" json:"categories,omitempty"`
	Listings   []ProductInfo `gorm:"foreignKey:ShopID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Shop) TableName() string {
	return "shops"
}

// Category groups products. A category can be served by many shops.
type Category struct {
	Base
	Name string `gorm:"size:80;not null" json:"name"`

	// Relationships
	Shops    []Shop    `gorm:"many2many:shop_categories" json:"-"`
	Products []Product `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Category) TableName() string {
	return "categories"
}
