package handlers_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/avolkov/orderhub/internal/api/dto"
	"github.com/avolkov/orderhub/internal/api/handlers"
	"github.com/avolkov/orderhub/internal/api/middleware"
	"github.com/avolkov/orderhub/internal/auth"
	"github.com/avolkov/orderhub/internal/database/models"
	"github.com/avolkov/orderhub/internal/testutil"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthTestRouter(t *testing.T) (*chi.Mux, *testutil.TestSetup, *auth.Service) {
	tc := testutil.NewTestContext(t, models.UserTypeBuyer)

	authService := auth.NewService(tc.DB, tc.JWTService)
	handler := handlers.NewAuthHandler(authService, nil, slog.Default())

	r := chi.NewRouter()
	r.Post("/api/v1/auth/register", handler.Register)
	r.Post("/api/v1/auth/confirm", handler.Confirm)
	r.Post("/api/v1/auth/login", handler.Login)
	r.Post("/api/v1/auth/logout", handler.Logout)
	r.Post("/api/v1/auth/password-reset", handler.PasswordReset)
	r.Post("/api/v1/auth/password-reset/confirm", handler.PasswordResetConfirm)
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(tc.JWTService))
		r.Get("/api/v1/me", handler.Me)
		r.Put("/api/v1/me", handler.UpdateMe)
	})

	return r, tc, authService
}

func TestAuthHandler_Register(t *testing.T) {
	router, tc, _ := setupAuthTestRouter(t)
	defer tc.Cleanup()

	t.Run("successful registration", func(t *testing.T) {
		body := map[string]string{
			"email":      "newuser@example.com",
			"password":   "securepassword123",
			"username":   "newuser",
			"first_name": "New",
			"last_name":  "User",
		}

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/register", body)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)

		var resp dto.UserDTO
		err := json.Unmarshal(rr.Body.Bytes(), &resp)
		require.NoError(t, err)
		assert.Equal(t, "newuser@example.com", resp.Email)
		assert.Equal(t, "buyer", resp.Type)
		assert.False(t, resp.IsActive, "accounts start inactive")
	})

	t.Run("shop registration", func(t *testing.T) {
		body := map[string]string{
			"email":    "seller@example.com",
			"password": "securepassword123",
			"type":     "shop",
		}

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/register", body)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)

		var resp dto.UserDTO
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "shop", resp.Type)
	})

	t.Run("duplicate email", func(t *testing.T) {
		body := map[string]string{
			"email":    "duplicate@example.com",
			"password": "securepassword123",
		}

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/register", body)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusCreated, rr.Code)

		req = testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/register", body)
		rr = httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("missing email", func(t *testing.T) {
		body := map[string]string{"password": "securepassword123"}

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/register", body)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("password too short", func(t *testing.T) {
		body := map[string]string{
			"email":    "shortpw@example.com",
			"password": "short",
		}

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/register", body)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("unknown account type", func(t *testing.T) {
		body := map[string]string{
			"email":    "weird@example.com",
			"password": "securepassword123",
			"type":     "admin",
		}

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/register", body)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestAuthHandler_ConfirmAndLogin(t *testing.T) {
	router, tc, authService := setupAuthTestRouter(t)
	defer tc.Cleanup()
	ctx := testutil.TestContext(t)

	registerBody := map[string]string{
		"email":    "logintest@example.com",
		"password": "securepassword123",
	}
	req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/register", registerBody)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)

	t.Run("login before confirmation is forbidden", func(t *testing.T) {
		body := map[string]string{
			"email":    "logintest@example.com",
			"password": "securepassword123",
		}

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/login", body)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("confirm with wrong key", func(t *testing.T) {
		body := map[string]string{
			"email": "logintest@example.com",
			"key":   "wrong-key",
		}

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/confirm", body)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("confirm activates the account", func(t *testing.T) {
		// Without a queue the registration flow issues the token inline
		var user models.User
		require.NoError(t, tc.DB.Where("email = ?", "logintest@example.com").First(&user).Error)
		var token models.ConfirmEmailToken
		require.NoError(t, tc.DB.Where("user_id = ?", user.ID).First(&token).Error)

		body := map[string]string{
			"email": "logintest@example.com",
			"key":   token.Key,
		}

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/confirm", body)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("successful login sets cookie", func(t *testing.T) {
		body := map[string]string{
			"email":    "logintest@example.com",
			"password": "securepassword123",
		}

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/login", body)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp dto.AuthResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, "logintest@example.com", resp.User.Email)

		var tokenCookie *http.Cookie
		for _, c := range rr.Result().Cookies() {
			if c.Name == "token" {
				tokenCookie = c
				break
			}
		}
		require.NotNil(t, tokenCookie)
		assert.Equal(t, resp.Token, tokenCookie.Value)
		assert.True(t, tokenCookie.HttpOnly)
	})

	t.Run("wrong password", func(t *testing.T) {
		body := map[string]string{
			"email":    "logintest@example.com",
			"password": "wrongpassword",
		}

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/login", body)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("password reset round trip", func(t *testing.T) {
		body := map[string]string{"email": "logintest@example.com"}
		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/password-reset", body)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		require.Equal(t, http.StatusOK, rr.Code)

		var user models.User
		require.NoError(t, tc.DB.Where("email = ?", "logintest@example.com").First(&user).Error)
		var token models.ConfirmEmailToken
		require.NoError(t, tc.DB.Where("user_id = ?", user.ID).Order("created_at DESC").First(&token).Error)

		confirmBody := map[string]string{
			"email":    "logintest@example.com",
			"key":      token.Key,
			"password": "brandnewpassword1",
		}
		req = testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/password-reset/confirm", confirmBody)
		rr = httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		require.Equal(t, http.StatusOK, rr.Code)

		_, err := authService.Login(ctx, auth.LoginInput{
			Email:    "logintest@example.com",
			Password: "brandnewpassword1",
		})
		assert.NoError(t, err)
	})

	t.Run("reset does not reveal unknown accounts", func(t *testing.T) {
		body := map[string]string{"email": "ghost@example.com"}
		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/password-reset", body)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})
}

func TestAuthHandler_MeAndUpdate(t *testing.T) {
	router, tc, _ := setupAuthTestRouter(t)
	defer tc.Cleanup()

	t.Run("requires authentication", func(t *testing.T) {
		req := testutil.UnauthenticatedRequest(t, "GET", "/api/v1/me", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("returns the account", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "GET", "/api/v1/me", nil, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp dto.UserDTO
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, tc.User.Email, resp.Email)
	})

	t.Run("updates fields", func(t *testing.T) {
		body := map[string]string{
			"first_name": "Updated",
			"company":    "New Corp",
		}

		req := testutil.AuthenticatedRequest(t, "PUT", "/api/v1/me", body, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp dto.UserDTO
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "Updated", resp.FirstName)
		assert.Equal(t, "New Corp", resp.Company)
	})

	t.Run("rejects bad username", func(t *testing.T) {
		body := map[string]string{"username": "has spaces!"}

		req := testutil.AuthenticatedRequest(t, "PUT", "/api/v1/me", body, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	router, tc, _ := setupAuthTestRouter(t)
	defer tc.Cleanup()

	req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/auth/logout", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var tokenCookie *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == "token" {
			tokenCookie = c
			break
		}
	}
	require.NotNil(t, tokenCookie)
	assert.Empty(t, tokenCookie.Value)
	assert.Equal(t, -1, tokenCookie.MaxAge)
}
