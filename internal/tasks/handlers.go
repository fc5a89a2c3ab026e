package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/avolkov/orderhub/internal/auth"
	"github.com/avolkov/orderhub/internal/catalog"
	"github.com/avolkov/orderhub/internal/database/models"
	"github.com/avolkov/orderhub/internal/mailer"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

// maxPriceListSize caps a fetched price-list document at 10 MiB.
const maxPriceListSize = 10 << 20

type Handler struct {
	db      *gorm.DB
	logger  *slog.Logger
	mailer  mailer.Mailer
	catalog *catalog.Service
	auth    *auth.Service
	client  *http.Client
}

func NewHandler(db *gorm.DB, logger *slog.Logger, m mailer.Mailer, authService *auth.Service) *Handler {
	return &Handler{
		db:      db,
		logger:  logger,
		mailer:  m,
		catalog: catalog.NewService(db, logger),
		auth:    authService,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (h *Handler) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(TypePriceListImport, h.HandlePriceListImport)
	mux.HandleFunc(TypeConfirmationEmail, h.HandleConfirmationEmail)
	mux.HandleFunc(TypeOrderStatusEmail, h.HandleOrderStatusEmail)
}

// HandlePriceListImport fetches a shop's price list over HTTP and runs
// the catalog importer.
func (h *Handler) HandlePriceListImport(ctx context.Context, t *asynq.Task) error {
	var payload PriceListImportPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	h.logger.Info("importing price list", "owner_id", payload.OwnerID, "url", payload.URL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, payload.URL, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetching price list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetching price list: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPriceListSize))
	if err != nil {
		return fmt.Errorf("reading price list: %w", err)
	}

	result, err := h.catalog.ImportPriceList(ctx, payload.OwnerID, data)
	if err != nil {
		h.logger.Error("price list import failed", "owner_id", payload.OwnerID, "error", err)
		return err
	}

	h.logger.Info("price list imported",
		"shop", result.Shop,
		"categories", result.Categories,
		"listings", result.Listings,
	)
	return nil
}

// HandleConfirmationEmail issues a confirmation token and mails the key
// to a newly registered account.
func (h *Handler) HandleConfirmationEmail(ctx context.Context, t *asynq.Task) error {
	var payload ConfirmationEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	user, err := h.auth.GetUserByID(ctx, payload.UserID)
	if err != nil {
		return err
	}

	token, err := h.auth.IssueConfirmToken(ctx, user.ID)
	if err != nil {
		return err
	}

	body := fmt.Sprintf(
		"Hello %s,\n\nYour confirmation key is: %s\n\nUse it to activate your account.\n",
		user.FirstName, token.Key,
	)
	if err := h.mailer.Send(user.Email, "Confirm your email", body); err != nil {
		return err
	}

	h.logger.Info("confirmation email sent", "user_id", user.ID)
	return nil
}

// HandleOrderStatusEmail notifies the buyer about an order state change.
func (h *Handler) HandleOrderStatusEmail(ctx context.Context, t *asynq.Task) error {
	var payload OrderStatusEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	var order models.Order
	if err := h.db.WithContext(ctx).Preload("User").First(&order, payload.OrderID).Error; err != nil {
		return fmt.Errorf("loading order: %w", err)
	}
	if order.User == nil {
		return fmt.Errorf("order %s has no user", order.ID)
	}

	subject := fmt.Sprintf("Order %s is now %s", order.ID, payload.State)
	body := fmt.Sprintf(
		"Hello %s,\n\nYour order from %s is now %q.\n",
		order.User.FirstName, order.CreatedAt.Format("2006-01-02"), payload.State,
	)
	if err := h.mailer.Send(order.User.Email, subject, body); err != nil {
		return err
	}

	h.logger.Info("order status email sent", "order_id", order.ID, "state", payload.State)
	return nil
}
