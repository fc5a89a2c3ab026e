package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/avolkov/orderhub/internal/api/dto"
	"github.com/avolkov/orderhub/internal/api/middleware"
	"github.com/avolkov/orderhub/internal/api/validation"
	"github.com/avolkov/orderhub/internal/catalog"
	"github.com/avolkov/orderhub/internal/orders"
	"github.com/avolkov/orderhub/internal/tasks"
	"github.com/hibiken/asynq"
)

// PartnerHandler serves the shop-side API: price-list publication and
// the fulfillment view of incoming orders.
type PartnerHandler struct {
	catalog     *catalog.Service
	orders      *orders.Service
	asynqClient *asynq.Client
}

func NewPartnerHandler(catalogService *catalog.Service, orderService *orders.Service, asynqClient *asynq.Client) *PartnerHandler {
	return &PartnerHandler{
		catalog:     catalogService,
		orders:      orderService,
		asynqClient: asynqClient,
	}
}

type PriceListUpdateRequest struct {
	URL string `json:"url"`
}

func (r PriceListUpdateRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if r.URL == "" {
		errors["url"] = "URL is required"
	} else if !validation.IsValidURL(r.URL) {
		errors["url"] = "URL must be absolute http(s)"
	}
	return errors
}

// Update handles POST /api/v1/partner/update: the shop points at its
// published price list and the import runs in the background.
func (h *PartnerHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req PriceListUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errors})
		return
	}

	if h.asynqClient == nil {
		writeJSON(w, http.StatusServiceUnavailable, dto.ErrorResponse{Error: "Background processing unavailable"})
		return
	}

	userID := middleware.GetUserID(r.Context())
	task, err := tasks.NewPriceListImportTask(tasks.PriceListImportPayload{
		OwnerID: userID,
		URL:     req.URL,
	})
	if err == nil {
		_, err = h.asynqClient.Enqueue(task)
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to schedule import"})
		return
	}

	writeJSON(w, http.StatusAccepted, dto.SuccessResponse{Message: "Price list import scheduled"})
}

// Orders handles GET /api/v1/partner/orders: placed orders that touch
// the shop's listings.
func (h *PartnerHandler) Orders(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	shop, err := h.catalog.ShopByOwner(r.Context(), userID)
	if err != nil {
		if errors.Is(err, catalog.ErrShopNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "No shop for this account"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to resolve shop"})
		return
	}

	list, err := h.orders.ShopOrders(r.Context(), shop.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list orders"})
		return
	}

	writeJSON(w, http.StatusOK, list)
}
