package tasks

import (
	"encoding/json"

	"github.com/avolkov/orderhub/internal/database/models"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Task type names
const (
	TypePriceListImport   = "catalog:price_list_import"
	TypeConfirmationEmail = "email:confirmation"
	TypeOrderStatusEmail  = "email:order_status"
)

// PriceListImportPayload tells the worker where to fetch a shop's
// catalog and which user owns it.
type PriceListImportPayload struct {
	OwnerID uuid.UUID `json:"owner_id"`
	URL     string    `json:"url"`
}

func NewPriceListImportTask(payload PriceListImportPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypePriceListImport, data, asynq.Queue("low")), nil
}

// ConfirmationEmailPayload requests an activation mail for a freshly
// registered account. The token is issued by the worker.
type ConfirmationEmailPayload struct {
	UserID uuid.UUID `json:"user_id"`
}

func NewConfirmationEmailTask(payload ConfirmationEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeConfirmationEmail, data, asynq.Queue("critical")), nil
}

// OrderStatusEmailPayload notifies a buyer that their order entered a
// new state.
type OrderStatusEmailPayload struct {
	OrderID uuid.UUID         `json:"order_id"`
	State   models.OrderState `json:"state"`
}

func NewOrderStatusEmailTask(payload OrderStatusEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeOrderStatusEmail, data, asynq.Queue("critical")), nil
}
