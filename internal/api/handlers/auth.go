package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/avolkov/orderhub/internal/api/dto"
	"github.com/avolkov/orderhub/internal/api/middleware"
	"github.com/avolkov/orderhub/internal/auth"
	"github.com/avolkov/orderhub/internal/database/models"
	"github.com/avolkov/orderhub/internal/tasks"
	"github.com/hibiken/asynq"
)

type AuthHandler struct {
	authService *auth.Service
	asynqClient *asynq.Client
	logger      *slog.Logger
}

func NewAuthHandler(authService *auth.Service, asynqClient *asynq.Client, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		asynqClient: asynqClient,
		logger:      logger,
	}
}

func userToDTO(u *models.User) dto.UserDTO {
	return dto.UserDTO{
		ID:        u.ID.String(),
		Email:     u.Email,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Company:   u.Company,
		Position:  u.Position,
		Type:      string(u.Type),
		IsActive:  u.IsActive,
	}
}

// Register creates an inactive account and kicks off the confirmation
// email. Without a queue (no Redis) the token is issued inline so the
// flow still works in development.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errors})
		return
	}

	user, err := h.authService.CreateUser(r.Context(), auth.CreateUserInput{
		Email:     req.Email,
		Password:  req.Password,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Company:   req.Company,
		Position:  req.Position,
		Type:      models.UserType(req.Type),
	})
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserExists):
			writeJSON(w, http.StatusConflict, dto.ErrorResponse{Error: "User already exists"})
		case errors.Is(err, auth.ErrEmailRequired):
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Email is required"})
		default:
			writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Registration failed"})
		}
		return
	}

	if h.asynqClient != nil {
		task, err := tasks.NewConfirmationEmailTask(tasks.ConfirmationEmailPayload{UserID: user.ID})
		if err == nil {
			_, err = h.asynqClient.Enqueue(task)
		}
		if err != nil {
			h.logger.Error("failed to enqueue confirmation email", "user_id", user.ID, "error", err)
		}
	} else {
		token, err := h.authService.IssueConfirmToken(r.Context(), user.ID)
		if err != nil {
			h.logger.Error("failed to issue confirmation token", "user_id", user.ID, "error", err)
		} else {
			h.logger.Info("confirmation token issued", "user_id", user.ID, "key", token.Key)
		}
	}

	writeJSON(w, http.StatusCreated, userToDTO(user))
}

// Confirm burns an emailed key and activates the account.
func (h *AuthHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	var req dto.ConfirmEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errors})
		return
	}

	if err := h.authService.ConfirmEmail(r.Context(), req.Email, req.Key); err != nil {
		if errors.Is(err, auth.ErrInvalidConfirmKey) {
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid email or key"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Confirmation failed"})
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Email confirmed"})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errors})
		return
	}

	resp, err := h.authService.Login(r.Context(), auth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			writeJSON(w, http.StatusUnauthorized, dto.ErrorResponse{Error: "Invalid credentials"})
		case errors.Is(err, auth.ErrInactiveUser):
			writeJSON(w, http.StatusForbidden, dto.ErrorResponse{Error: "Account is inactive"})
		default:
			writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Login failed"})
		}
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    resp.Token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   86400,
	})

	writeJSON(w, http.StatusOK, dto.AuthResponse{
		Token: resp.Token,
		User:  userToDTO(resp.User),
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Logged out"})
}

// PasswordReset issues a reset key for an account. The response does not
// reveal whether the account exists.
func (h *AuthHandler) PasswordReset(w http.ResponseWriter, r *http.Request) {
	var req dto.PasswordResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errors})
		return
	}

	token, err := h.authService.RequestPasswordReset(r.Context(), req.Email)
	if err != nil {
		if !errors.Is(err, auth.ErrUserNotFound) {
			h.logger.Error("password reset failed", "error", err)
		}
	} else if h.asynqClient != nil {
		task, terr := tasks.NewConfirmationEmailTask(tasks.ConfirmationEmailPayload{UserID: token.UserID})
		if terr == nil {
			_, terr = h.asynqClient.Enqueue(task)
		}
		if terr != nil {
			h.logger.Error("failed to enqueue reset email", "error", terr)
		}
	} else {
		h.logger.Info("password reset key issued", "user_id", token.UserID, "key", token.Key)
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "If the account exists, a reset key has been sent"})
}

// PasswordResetConfirm burns a reset key and sets the new password.
func (h *AuthHandler) PasswordResetConfirm(w http.ResponseWriter, r *http.Request) {
	var req dto.PasswordResetConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errors})
		return
	}

	if err := h.authService.ResetPassword(r.Context(), req.Email, req.Key, req.Password); err != nil {
		if errors.Is(err, auth.ErrInvalidConfirmKey) {
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid email or key"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Password reset failed"})
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Password updated"})
}

// Me returns the authenticated account.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	user, err := h.authService.GetUserByID(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "User not found"})
		return
	}
	writeJSON(w, http.StatusOK, userToDTO(user))
}

// UpdateMe updates account details for the authenticated user.
func (h *AuthHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errors})
		return
	}

	userID := middleware.GetUserID(r.Context())
	user, err := h.authService.UpdateUser(r.Context(), userID, auth.UpdateUserInput{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Company:   req.Company,
		Position:  req.Position,
		Password:  req.Password,
	})
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "User not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Update failed"})
		return
	}

	writeJSON(w, http.StatusOK, userToDTO(user))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
