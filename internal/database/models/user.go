package models

type UserType string

const (
	UserTypeShop  UserType = "shop"
	UserTypeBuyer UserType = "buyer"
)

// User is the account identity. Email is the login key; username is a
// display identifier and is not unique.
type User struct {
	Base
	Email        string   `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string   `gorm:"not null" json:"-"`
	Username     string   `gorm:"size:150" json:"username"`
	FirstName    string   `gorm:"size:150" json:"first_name"`
	LastName     string   `gorm:"size:150" json:"last_name"`
	Company      string   `gorm:"size:40" json:"company"`
	Position     string   `gorm:"size:40" json:"position"`
	Type         UserType `gorm:"size:5;default:'buyer'" json:"type"`

	// Accounts stay inactive until the email confirmation flow flips this.
	IsActive    bool `gorm:"default:false" json:"is_active"`
	IsStaff     bool `gorm:"default:false" json:"-"`
	IsSuperuser bool `gorm:"default:false" json:"-"`

	// Relationships
	Shop     *Shop              `gorm:"foreignKey:UserID" json:"shop,omitempty"`
	Contacts []Contact          `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"contacts,omitempty"`
	Orders   []Order            `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Tokens   []ConfirmEmailToken `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (User) TableName() string {
	return "users"
}
