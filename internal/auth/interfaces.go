package auth

import (
	"context"

	"github.com/avolkov/orderhub/internal/database/models"
	"github.com/google/uuid"
)

// Authenticator defines the interface for account operations.
type Authenticator interface {
	CreateUser(ctx context.Context, input CreateUserInput) (*models.User, error)
	CreateSuperuser(ctx context.Context, input CreateUserInput) (*models.User, error)
	Login(ctx context.Context, input LoginInput) (*AuthResponse, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	ConfirmEmail(ctx context.Context, email, key string) error
}

// TokenService defines the interface for JWT token operations.
type TokenService interface {
	GenerateToken(userID uuid.UUID, email string, userType models.UserType) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

// Compile-time interface satisfaction checks
var (
	_ Authenticator = (*Service)(nil)
	_ TokenService  = (*JWTService)(nil)
)
