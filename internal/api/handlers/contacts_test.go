package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/avolkov/orderhub/internal/api/handlers"
	"github.com/avolkov/orderhub/internal/api/middleware"
	"github.com/avolkov/orderhub/internal/database/models"
	"github.com/avolkov/orderhub/internal/testutil"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupContactTestRouter(t *testing.T) (*chi.Mux, *testutil.TestSetup) {
	tc := testutil.NewTestContext(t, models.UserTypeBuyer)
	t.Cleanup(tc.Cleanup)

	handler := handlers.NewContactHandler(tc.DB)

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(tc.JWTService))
		r.Get("/api/v1/contacts", handler.List)
		r.Post("/api/v1/contacts", handler.Create)
		r.Put("/api/v1/contacts/{id}", handler.Update)
		r.Delete("/api/v1/contacts/{id}", handler.Delete)
	})

	return r, tc
}

func TestContactHandler_CRUD(t *testing.T) {
	router, tc := setupContactTestRouter(t)

	var created models.Contact

	t.Run("create", func(t *testing.T) {
		body := map[string]string{
			"city":      "Springfield",
			"street":    "Evergreen Terrace",
			"house":     "742",
			"apartment": "1",
			"phone":     "+15551234567",
		}

		req := testutil.AuthenticatedRequest(t, "POST", "/api/v1/contacts", body, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
		assert.Equal(t, tc.User.ID, created.UserID)
		assert.Equal(t, "Springfield", created.City)
	})

	t.Run("create requires city street phone", func(t *testing.T) {
		body := map[string]string{"city": "Springfield"}

		req := testutil.AuthenticatedRequest(t, "POST", "/api/v1/contacts", body, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("create rejects bad phone", func(t *testing.T) {
		body := map[string]string{
			"city":   "Springfield",
			"street": "Evergreen Terrace",
			"phone":  "not-a-phone",
		}

		req := testutil.AuthenticatedRequest(t, "POST", "/api/v1/contacts", body, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("list returns own contacts only", func(t *testing.T) {
		stranger := testutil.CreateTestUser(t, tc.DB, models.UserTypeBuyer)
		testutil.CreateTestContact(t, tc.DB, stranger)

		req := testutil.AuthenticatedRequest(t, "GET", "/api/v1/contacts", nil, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var list []models.Contact
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
		require.Len(t, list, 1)
		assert.Equal(t, created.ID, list[0].ID)
	})

	t.Run("update", func(t *testing.T) {
		body := map[string]string{
			"city":   "Shelbyville",
			"street": "Main Street",
			"phone":  "+15559876543",
		}

		req := testutil.AuthenticatedRequest(t, "PUT", "/api/v1/contacts/"+created.ID.String(), body, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var updated models.Contact
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
		assert.Equal(t, "Shelbyville", updated.City)
	})

	t.Run("cannot touch someone else's contact", func(t *testing.T) {
		stranger := testutil.CreateTestUser(t, tc.DB, models.UserTypeBuyer)
		other := testutil.CreateTestContact(t, tc.DB, stranger)

		body := map[string]string{
			"city":   "Nowhere",
			"street": "Nowhere",
			"phone":  "+15550000000",
		}
		req := testutil.AuthenticatedRequest(t, "PUT", "/api/v1/contacts/"+other.ID.String(), body, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusNotFound, rr.Code)

		req = testutil.AuthenticatedRequest(t, "DELETE", "/api/v1/contacts/"+other.ID.String(), nil, tc.Token)
		rr = httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("delete", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "DELETE", "/api/v1/contacts/"+created.ID.String(), nil, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)

		req = testutil.AuthenticatedRequest(t, "DELETE", "/api/v1/contacts/"+created.ID.String(), nil, tc.Token)
		rr = httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "DELETE", "/api/v1/contacts/"+uuid.Nil.String()[:8], nil, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
