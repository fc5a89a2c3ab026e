package orders

import (
	"context"
	"errors"
	"log/slog"

	"github.com/avolkov/orderhub/internal/database/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrListingNotFound   = errors.New("listing not found")
	ErrItemNotFound      = errors.New("order item not found")
	ErrContactNotFound   = errors.New("contact not found")
	ErrDuplicateItem     = errors.New("listing already in order")
	ErrEmptyBasket       = errors.New("basket is empty")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrInvalidTransition = errors.New("illegal order state transition")
)

type Service struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewService(db *gorm.DB, logger *slog.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// Basket returns the user's basket order, creating it on first use.
func (s *Service) Basket(ctx context.Context, userID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND state = ?", userID, models.OrderStateBasket).
		Preload("Items.ProductInfo.Product").
		Preload("Items.ProductInfo.Shop").
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		order = models.Order{UserID: userID, State: models.OrderStateBasket}
		err = s.db.WithContext(ctx).Create(&order).Error
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// AddItem puts a listing into the user's basket as a new line. A listing
// can appear only once per order; a second insert surfaces the unique
// violation as ErrDuplicateItem, and the caller should adjust the
// existing line's quantity instead.
func (s *Service) AddItem(ctx context.Context, userID, productInfoID uuid.UUID, quantity uint) (*models.OrderItem, error) {
	if quantity == 0 {
		return nil, ErrInvalidQuantity
	}

	var listing models.ProductInfo
	if err := s.db.WithContext(ctx).First(&listing, productInfoID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}

	basket, err := s.Basket(ctx, userID)
	if err != nil {
		return nil, err
	}

	item := models.OrderItem{
		OrderID:       basket.ID,
		ProductInfoID: productInfoID,
		Quantity:      quantity,
	}
	if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateItem
		}
		return nil, err
	}

	return &item, nil
}

func (s *Service) UpdateItemQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity uint) error {
	if quantity == 0 {
		return ErrInvalidQuantity
	}

	result := s.db.WithContext(ctx).
		Model(&models.OrderItem{}).
		Where("order_items.id = ?", itemID).
		Where("order_id IN (?)", s.basketIDs(userID)).
		Update("quantity", quantity)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (s *Service) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Where("order_items.id = ?", itemID).
		Where("order_id IN (?)", s.basketIDs(userID)).
		Delete(&models.OrderItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (s *Service) basketIDs(userID uuid.UUID) *gorm.DB {
	return s.db.
		Model(&models.Order{}).
		Select("id").
		Where("user_id = ? AND state = ?", userID, models.OrderStateBasket)
}

// Submit turns the user's basket into a placed order. A delivery contact
// owned by the same user is mandatory before the order may leave basket
// state.
func (s *Service) Submit(ctx context.Context, userID, contactID uuid.UUID) (*models.Order, error) {
	var order models.Order

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("user_id = ? AND state = ?", userID, models.OrderStateBasket).
			Preload("Items").
			First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if len(order.Items) == 0 {
			return ErrEmptyBasket
		}

		var contact models.Contact
		if err := tx.Where("id = ? AND user_id = ?", contactID, userID).First(&contact).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrContactNotFound
			}
			return err
		}

		if !order.State.CanTransitionTo(models.OrderStateNew) {
			return ErrInvalidTransition
		}

		order.State = models.OrderStateNew
		order.ContactID = &contact.ID
		return tx.Model(&order).Updates(map[string]any{
			"state":      models.OrderStateNew,
			"contact_id": contact.ID,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order submitted", "order_id", order.ID, "user_id", userID)
	return &order, nil
}

// SetState advances a placed order through the fulfillment chain. Only
// steps allowed by OrderState.CanTransitionTo are accepted; the schema
// itself would happily store anything, so every state write goes through
// here. Baskets are off limits: an order leaves basket state only via
// Submit, which attaches the mandatory delivery contact.
func (s *Service) SetState(ctx context.Context, orderID uuid.UUID, next models.OrderState) (*models.Order, error) {
	var order models.Order

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		if order.State == models.OrderStateBasket {
			return ErrInvalidTransition
		}
		if !order.State.CanTransitionTo(next) {
			return ErrInvalidTransition
		}

		order.State = next
		return tx.Model(&order).Update("state", next).Error
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order state changed", "order_id", order.ID, "state", next)
	return &order, nil
}

// ListOrders returns the user's placed orders, newest first. Baskets are
// not orders yet and are excluded.
func (s *Service) ListOrders(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	var list []models.Order
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND state <> ?", userID, models.OrderStateBasket).
		Preload("Items.ProductInfo.Product").
		Preload("Contact").
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (s *Service) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", orderID, userID).
		Preload("Items.ProductInfo.Product").
		Preload("Items.ProductInfo.Shop").
		Preload("Contact").
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ShopOrders returns placed orders that contain at least one of the
// shop's listings, for the seller-side fulfillment view.
func (s *Service) ShopOrders(ctx context.Context, shopID uuid.UUID) ([]models.Order, error) {
	var list []models.Order
	err := s.db.WithContext(ctx).
		Distinct("orders.*").
		Joins("JOIN order_items ON order_items.order_id = orders.id").
		Joins("JOIN product_infos ON product_infos.id = order_items.product_info_id").
		Where("product_infos.shop_id = ? AND orders.state <> ?", shopID, models.OrderStateBasket).
		Preload("Items.ProductInfo.Product").
		Preload("Contact").
		Order("orders.created_at DESC").
		Find(&list).Error
	return list, err
}
