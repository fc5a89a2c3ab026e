package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/avolkov/orderhub/internal/api/dto"
	"github.com/avolkov/orderhub/internal/api/middleware"
	"github.com/avolkov/orderhub/internal/database/models"
	"github.com/avolkov/orderhub/internal/orders"
	"github.com/avolkov/orderhub/internal/tasks"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

type OrderHandler struct {
	orders      *orders.Service
	asynqClient *asynq.Client
	logger      *slog.Logger
}

func NewOrderHandler(orderService *orders.Service, asynqClient *asynq.Client, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		orders:      orderService,
		asynqClient: asynqClient,
		logger:      logger,
	}
}

// List handles GET /api/v1/orders
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	list, err := h.orders.ListOrders(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list orders"})
		return
	}

	writeJSON(w, http.StatusOK, list)
}

// Get handles GET /api/v1/orders/{id}
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid order ID"})
		return
	}

	order, err := h.orders.GetOrder(r.Context(), userID, orderID)
	if err != nil {
		if errors.Is(err, orders.ErrOrderNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Order not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to load order"})
		return
	}

	writeJSON(w, http.StatusOK, order)
}

type SubmitOrderRequest struct {
	ContactID string `json:"contact_id"`
}

func (r SubmitOrderRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if r.ContactID == "" {
		errors["contact_id"] = "Contact is required"
	} else if _, err := uuid.Parse(r.ContactID); err != nil {
		errors["contact_id"] = "Invalid contact ID"
	}
	return errors
}

// Submit handles POST /api/v1/orders: turns the basket into a placed
// order against a delivery contact.
func (h *OrderHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req SubmitOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errors})
		return
	}

	contactID, _ := uuid.Parse(req.ContactID)
	order, err := h.orders.Submit(r.Context(), userID, contactID)
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrOrderNotFound), errors.Is(err, orders.ErrEmptyBasket):
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Basket is empty"})
		case errors.Is(err, orders.ErrContactNotFound):
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Contact not found"})
		default:
			writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to submit order"})
		}
		return
	}

	h.notifyState(order.ID, order.State)

	writeJSON(w, http.StatusCreated, order)
}

type SetStateRequest struct {
	State string `json:"state"`
}

// SetState handles PUT /api/v1/orders/{id}/state (staff only). The
// transition validator decides what is legal; the handler only maps the
// outcome to a status code.
func (h *OrderHandler) SetState(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid order ID"})
		return
	}

	var req SetStateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	next := models.OrderState(req.State)
	if !next.Valid() {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Unknown order state"})
		return
	}

	order, err := h.orders.SetState(r.Context(), orderID, next)
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrOrderNotFound):
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Order not found"})
		case errors.Is(err, orders.ErrInvalidTransition):
			writeJSON(w, http.StatusConflict, dto.ErrorResponse{Error: "Illegal state transition"})
		default:
			writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to update state"})
		}
		return
	}

	h.notifyState(order.ID, order.State)

	writeJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) notifyState(orderID uuid.UUID, state models.OrderState) {
	if h.asynqClient == nil {
		return
	}
	task, err := tasks.NewOrderStatusEmailTask(tasks.OrderStatusEmailPayload{
		OrderID: orderID,
		State:   state,
	})
	if err == nil {
		_, err = h.asynqClient.Enqueue(task)
	}
	if err != nil {
		h.logger.Error("failed to enqueue order status email", "order_id", orderID, "error", err)
	}
}
