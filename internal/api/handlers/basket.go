package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/avolkov/orderhub/internal/api/dto"
	"github.com/avolkov/orderhub/internal/api/middleware"
	"github.com/avolkov/orderhub/internal/orders"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type BasketHandler struct {
	orders *orders.Service
}

func NewBasketHandler(orderService *orders.Service) *BasketHandler {
	return &BasketHandler{orders: orderService}
}

// Get handles GET /api/v1/basket
func (h *BasketHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	basket, err := h.orders.Basket(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to load basket"})
		return
	}

	writeJSON(w, http.StatusOK, basket)
}

type AddItemRequest struct {
	ProductInfoID string `json:"product_info_id"`
	Quantity      uint   `json:"quantity"`
}

func (r AddItemRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if r.ProductInfoID == "" {
		errors["product_info_id"] = "Listing is required"
	} else if _, err := uuid.Parse(r.ProductInfoID); err != nil {
		errors["product_info_id"] = "Invalid listing ID"
	}
	if r.Quantity == 0 {
		errors["quantity"] = "Quantity must be positive"
	}
	return errors
}

// AddItem handles POST /api/v1/basket/items
func (h *BasketHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errors})
		return
	}

	productInfoID, _ := uuid.Parse(req.ProductInfoID)
	item, err := h.orders.AddItem(r.Context(), userID, productInfoID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrListingNotFound):
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Listing not found"})
		case errors.Is(err, orders.ErrDuplicateItem):
			writeJSON(w, http.StatusConflict, dto.ErrorResponse{Error: "Listing already in basket"})
		default:
			writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to add item"})
		}
		return
	}

	writeJSON(w, http.StatusCreated, item)
}

type UpdateItemRequest struct {
	Quantity uint `json:"quantity"`
}

// UpdateItem handles PUT /api/v1/basket/items/{id}
func (h *BasketHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	itemID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid item ID"})
		return
	}

	var req UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if err := h.orders.UpdateItemQuantity(r.Context(), userID, itemID, req.Quantity); err != nil {
		switch {
		case errors.Is(err, orders.ErrInvalidQuantity):
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Quantity must be positive"})
		case errors.Is(err, orders.ErrItemNotFound):
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Item not found"})
		default:
			writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to update item"})
		}
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Item updated"})
}

// RemoveItem handles DELETE /api/v1/basket/items/{id}
func (h *BasketHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	itemID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid item ID"})
		return
	}

	if err := h.orders.RemoveItem(r.Context(), userID, itemID); err != nil {
		if errors.Is(err, orders.ErrItemNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Item not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to remove item"})
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Item removed"})
}
