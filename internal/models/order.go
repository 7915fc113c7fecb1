package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:    {OrderProcessing, OrderCancelled},
	OrderProcessing: {OrderShipped, OrderCancelled},
	OrderShipped:    {OrderDelivered, OrderCancelled},
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Order is written once by checkout. Only Status changes afterwards.
type Order struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"                    json:"id"`
	OrderNumber      string          `gorm:"uniqueIndex;not null"                    json:"orderNumber"`
	UserID           uuid.UUID       `gorm:"type:uuid;index;not null"                json:"userId"`
	Status           OrderStatus     `gorm:"type:varchar(16);not null;index"         json:"status"`
	Subtotal         decimal.Decimal `gorm:"type:numeric(12,2);not null"             json:"subtotal"`
	Tax              decimal.Decimal `gorm:"type:numeric(12,2);not null"             json:"tax"`
	Shipping         decimal.Decimal `gorm:"type:numeric(12,2);not null"             json:"shipping"`
	Total            decimal.Decimal `gorm:"type:numeric(12,2);not null"             json:"total"`
	Currency         string          `gorm:"type:varchar(3);not null"                json:"currency"`
	AddressID        uuid.UUID       `gorm:"type:uuid;not null"                      json:"addressId"`
	ShipTo           PostalAddress   `gorm:"embedded;embeddedPrefix:ship_"           json:"shippingAddress"`
	PaymentMethod    string          `gorm:"not null"                                json:"paymentMethod"`
	PaymentReference string          `gorm:"not null;index"                          json:"paymentReference"`
	Items            []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt        time.Time       `gorm:"index"                                   json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

type OrderItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"         json:"id"`
	OrderID     uuid.UUID       `gorm:"type:uuid;index;not null"     json:"orderId"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null"           json:"productId"`
	ProductName string          `gorm:"not null"                     json:"productName"`
	Quantity    uint            `gorm:"not null"                     json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(12,2);not null"  json:"unitPrice"`
	LineTotal   decimal.Decimal `gorm:"type:numeric(12,2);not null"  json:"lineTotal"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
