package models

import "github.com/google/uuid"

// Product is a catalog item definition. Price and stock live on
// ProductInfo because both are shop-specific.
type Product struct {
	Base
	Name       string    `gorm:"size:80;not null" json:"name"`
	CategoryID uuid.UUID `gorm:"type:uuid;index;not null" json:"category_id"`

	// Relationships
	Category *Category     `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"category,omitempty"`
	Listings []ProductInfo `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Product) TableName() string {
	return "products"
}

// ProductInfo is the sellable listing of a Product at one Shop.
// ExternalID is the identifier from the shop's own catalog, so the same
// external entry cannot be registered twice for one product and shop.
type ProductInfo struct {
	Base
	Model      string    `gorm:"size:80" json:"model"`
	Quantity   uint      `gorm:"not null" json:"quantity"`
	Price      uint      `gorm:"not null" json:"price"`
	PriceRRC   uint      `gorm:"not null" json:"price_rrc"`
	ExternalID uint      `gorm:"not null;uniqueIndex:idx_product_shop_external" json:"external_id"`
	ProductID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_product_shop_external" json:"product_id"`
	ShopID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_product_shop_external" json:"shop_id"`

	// Relationships
	Product    *Product           `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"product,omitempty"`
	Shop       *Shop              `gorm:"foreignKey:ShopID;constraint:OnDelete:CASCADE" json:"shop,omitempty"`
	Parameters []ProductParameter `gorm:"foreignKey:ProductInfoID;constraint:OnDelete:CASCADE" json:"parameters,omitempty"`
}

func (ProductInfo) TableName() string {
	return "product_infos"
}

// Parameter is a named attribute type ("color", "weight") shared across
// listings.
type Parameter struct {
	Base
	Name string `gorm:"size:80;not null" json:"name"`
}

func (Parameter) TableName() string {
	return "parameters"
}

// ProductParameter holds the value of one Parameter for one listing.
// A parameter appears at most once per listing.
type ProductParameter struct {
	Base
	ProductInfoID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_listing_parameter" json:"product_info_id"`
	ParameterID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_listing_parameter" json:"parameter_id"`
	Value         string    `gorm:"size:100;not null" json:"value"`

	// Relationships
	ProductInfo *ProductInfo `gorm:"foreignKey:ProductInfoID;constraint:OnDelete:CASCADE" json:"-"`
	Parameter   *Parameter   `gorm:"foreignKey:ParameterID;constraint:OnDelete:CASCADE" json:"parameter,omitempty"`
}

func (ProductParameter) TableName() string {
	return "product_parameters"
}
