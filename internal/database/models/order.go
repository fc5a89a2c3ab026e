package models

import "github.com/google/uuid"

type OrderState string

const (
	OrderStateBasket    OrderState = "basket"
	OrderStateNew       OrderState = "new"
	OrderStateConfirmed OrderState = "confirmed"
	OrderStateAssembled OrderState = "assembled"
	OrderStateSent      OrderState = "sent"
	OrderStateDelivered OrderState = "delivered"
	OrderStateCanceled  OrderState = "canceled"
)

// orderStateRank orders the forward fulfillment chain. Canceled sits
// outside the chain and is reachable from any non-terminal state.
var orderStateRank = map[OrderState]int{
	OrderStateBasket:    0,
	OrderStateNew:       1,
	OrderStateConfirmed: 2,
	OrderStateAssembled: 3,
	OrderStateSent:      4,
	OrderStateDelivered: 5,
}

// Valid reports whether s is one of the enumerated states.
func (s OrderState) Valid() bool {
	if s == OrderStateCanceled {
		return true
	}
	_, ok := orderStateRank[s]
	return ok
}

// CanTransitionTo reports whether moving from s to next is a legal step:
// one step forward through basket -> new -> confirmed -> assembled ->
// sent -> delivered, or sideways to canceled. The schema itself stores
// any state; workflow code is expected to consult this before writing.
func (s OrderState) CanTransitionTo(next OrderState) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	if s == OrderStateCanceled || s == OrderStateDelivered {
		return false
	}
	if next == OrderStateCanceled {
		return true
	}
	return orderStateRank[next] == orderStateRank[s]+1
}

// Order is a purchase owned by a user. An order in basket state is the
// user's shopping cart; the contact becomes mandatory when it leaves
// that state, which the orders service enforces.
type Order struct {
	Base
	UserID    uuid.UUID  `gorm:"type:uuid;index;not null" json:"user_id"`
	State     OrderState `gorm:"size:15;index;not null" json:"state"`
	ContactID *uuid.UUID `gorm:"type:uuid" json:"contact_id,omitempty"`

	// Relationships
	User    *User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Contact *Contact    `gorm:"foreignKey:ContactID;constraint:OnDelete:CASCADE" json:"contact,omitempty"`
	Items   []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// Total sums price * quantity over loaded items.
func (o *Order) Total() uint {
	var total uint
	for _, item := range o.Items {
		if item.ProductInfo != nil {
			total += item.ProductInfo.Price * item.Quantity
		}
	}
	return total
}

// OrderItem is one line of an order. A listing appears at most once per
// order; callers adjust Quantity instead of inserting a second line.
type OrderItem struct {
	Base
	OrderID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_order_listing" json:"order_id"`
	ProductInfoID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_order_listing" json:"product_info_id"`
	Quantity      uint      `gorm:"not null" json:"quantity"`

	// Relationships
	Order       *Order       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"-"`
	ProductInfo *ProductInfo `gorm:"foreignKey:ProductInfoID;constraint:OnDelete:CASCADE" json:"product_info,omitempty"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
