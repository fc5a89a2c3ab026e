package auth

import (
	"context"
	"errors"

	"github.com/avolkov/orderhub/internal/database/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrEmailRequired      = errors.New("email must be set")
	ErrNotSuperuser       = errors.New("superuser must have staff and superuser flags set")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveUser       = errors.New("user is inactive")
	ErrInvalidConfirmKey  = errors.New("invalid confirmation key")
)

type Service struct {
	db  *gorm.DB
	jwt *JWTService
}

func NewService(db *gorm.DB, jwt *JWTService) *Service {
	return &Service{db: db, jwt: jwt}
}

// CreateUserInput carries everything the user factory accepts. The
// elevation flags are pointers so CreateSuperuser can tell "absent"
// apart from an explicit false.
type CreateUserInput struct {
	Email       string
	Password    string
	Username    string
	FirstName   string
	LastName    string
	Company     string
	Position    string
	Type        models.UserType
	IsStaff     *bool
	IsSuperuser *bool
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// CreateUser builds an account from a normalized email and a hashed
// password. New accounts are inactive until the email is confirmed.
func (s *Service) CreateUser(ctx context.Context, input CreateUserInput) (*models.User, error) {
	if input.Email == "" {
		return nil, ErrEmailRequired
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	userType := input.Type
	if userType == "" {
		userType = models.UserTypeBuyer
	}

	user := models.User{
		Email:        NormalizeEmail(input.Email),
		PasswordHash: hash,
		Username:     input.Username,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Company:      input.Company,
		Position:     input.Position,
		Type:         userType,
		IsActive:     false,
		IsStaff:      input.IsStaff != nil && *input.IsStaff,
		IsSuperuser:  input.IsSuperuser != nil && *input.IsSuperuser,
	}

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	return &user, nil
}

// CreateSuperuser creates a privileged account. Both elevation flags
// default to true; passing either as false is a validation error.
func (s *Service) CreateSuperuser(ctx context.Context, input CreateUserInput) (*models.User, error) {
	if input.IsStaff != nil && !*input.IsStaff {
		return nil, ErrNotSuperuser
	}
	if input.IsSuperuser != nil && !*input.IsSuperuser {
		return nil, ErrNotSuperuser
	}

	elevated := true
	input.IsStaff = &elevated
	input.IsSuperuser = &elevated
	return s.CreateUser(ctx, input)
}

func (s *Service) Login(ctx context.Context, input LoginInput) (*AuthResponse, error) {
	var user models.User
	if err := s.db.WithContext(ctx).
		Where("email = ?", NormalizeEmail(input.Email)).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !CheckPassword(input.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrInactiveUser
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Email, user.Type)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		Token: token,
		User:  &user,
	}, nil
}

func (s *Service) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpdateUserInput updates only the fields whose pointers are set.
type UpdateUserInput struct {
	Username  *string
	FirstName *string
	LastName  *string
	Company   *string
	Position  *string
	Password  *string
}

func (s *Service) UpdateUser(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*models.User, error) {
	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Username != nil {
		user.Username = *input.Username
	}
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Company != nil {
		user.Company = *input.Company
	}
	if input.Position != nil {
		user.Position = *input.Position
	}
	if input.Password != nil {
		hash, err := HashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// IssueConfirmToken creates a fresh confirmation token for a user. The
// key is generated by the model hook on first save.
func (s *Service) IssueConfirmToken(ctx context.Context, userID uuid.UUID) (*models.ConfirmEmailToken, error) {
	token := models.ConfirmEmailToken{UserID: userID}
	if err := s.db.WithContext(ctx).Create(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

// ConfirmEmail burns a confirmation token and activates the account.
func (s *Service) ConfirmEmail(ctx context.Context, email, key string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Where("email = ?", NormalizeEmail(email)).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidConfirmKey
			}
			return err
		}

		var token models.ConfirmEmailToken
		if err := tx.Where("user_id = ? AND key = ?", user.ID, key).First(&token).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidConfirmKey
			}
			return err
		}

		if err := tx.Model(&user).Update("is_active", true).Error; err != nil {
			return err
		}
		return tx.Delete(&token).Error
	})
}

// RequestPasswordReset issues a reset token for the account, if it
// exists. The caller is responsible for delivering the key.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) (*models.ConfirmEmailToken, error) {
	var user models.User
	if err := s.db.WithContext(ctx).
		Where("email = ?", NormalizeEmail(email)).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.IssueConfirmToken(ctx, user.ID)
}

// ResetPassword burns a reset token and replaces the password hash.
func (s *Service) ResetPassword(ctx context.Context, email, key, password string) error {
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Where("email = ?", NormalizeEmail(email)).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidConfirmKey
			}
			return err
		}

		var token models.ConfirmEmailToken
		if err := tx.Where("user_id = ? AND key = ?", user.ID, key).First(&token).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidConfirmKey
			}
			return err
		}

		if err := tx.Model(&user).Update("password_hash", hash).Error; err != nil {
			return err
		}
		return tx.Delete(&token).Error
	})
}
