package dto

import "github.com/avolkov/orderhub/internal/api/validation"

type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Company   string `json:"company,omitempty"`
	Position  string `json:"position,omitempty"`
	Type      string `json:"type,omitempty"` // shop or buyer, defaults to buyer
}

func (r RegisterRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Email == "" {
		errors["email"] = "Email is required"
	} else if !validation.IsValidEmail(r.Email) {
		errors["email"] = "Invalid email format"
	}
	if r.Password == "" {
		errors["password"] = "Password is required"
	} else if len(r.Password) < 8 {
		errors["password"] = "Password must be at least 8 characters"
	}
	if r.Username != "" && !validation.IsValidUsername(r.Username) {
		errors["username"] = "Username may contain only letters, digits and @/./+/-/_"
	}
	if r.Type != "" && r.Type != "shop" && r.Type != "buyer" {
		errors["type"] = "Type must be shop or buyer"
	}

	return errors
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Email == "" {
		errors["email"] = "Email is required"
	}
	if r.Password == "" {
		errors["password"] = "Password is required"
	}

	return errors
}

type ConfirmEmailRequest struct {
	Email string `json:"email"`
	Key   string `json:"key"`
}

func (r ConfirmEmailRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Email == "" {
		errors["email"] = "Email is required"
	}
	if r.Key == "" {
		errors["key"] = "Key is required"
	}

	return errors
}

type PasswordResetRequest struct {
	Email string `json:"email"`
}

func (r PasswordResetRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Email == "" {
		errors["email"] = "Email is required"
	}

	return errors
}

type PasswordResetConfirmRequest struct {
	Email    string `json:"email"`
	Key      string `json:"key"`
	Password string `json:"password"`
}

func (r PasswordResetConfirmRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Email == "" {
		errors["email"] = "Email is required"
	}
	if r.Key == "" {
		errors["key"] = "Key is required"
	}
	if r.Password == "" {
		errors["password"] = "Password is required"
	} else if len(r.Password) < 8 {
		errors["password"] = "Password must be at least 8 characters"
	}

	return errors
}

type UpdateAccountRequest struct {
	Username  *string `json:"username,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Company   *string `json:"company,omitempty"`
	Position  *string `json:"position,omitempty"`
	Password  *string `json:"password,omitempty"`
}

func (r UpdateAccountRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Username != nil && !validation.IsValidUsername(*r.Username) {
		errors["username"] = "Username may contain only letters, digits and @/./+/-/_"
	}
	if r.Password != nil && len(*r.Password) < 8 {
		errors["password"] = "Password must be at least 8 characters"
	}

	return errors
}

type AuthResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

type UserDTO struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Company   string `json:"company,omitempty"`
	Position  string `json:"position,omitempty"`
	Type      string `json:"type"`
	IsActive  bool   `json:"is_active"`
}
