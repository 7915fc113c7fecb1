package transport

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateProductRequest struct {
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"originalPrice"`
	Category      string           `json:"category"`
	Brand         string           `json:"brand"`
	Images        []string         `json:"images"`
	Stock         int              `json:"stock"`
	Featured      bool             `json:"featured"`
}

type PatchProductRequest struct {
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	Price         *decimal.Decimal `json:"price"`
	OriginalPrice *decimal.Decimal `json:"originalPrice"`
	Category      *string          `json:"category"`
	Brand         *string          `json:"brand"`
	Images        []string         `json:"images"`
	Stock         *int             `json:"stock"`
	Featured      *bool            `json:"featured"`
}

type CreateReviewRequest struct {
	ProductID uuid.UUID `json:"productId"`
	Rating    int       `json:"rating"`
	Title     string    `json:"title"`
	Comment   string    `json:"comment"`
}

type AddToCartRequest struct {
	ProductID uuid.UUID `json:"productId"`
	Quantity  uint      `json:"quantity"`
}

type UpdateCartItemRequest struct {
	ItemID   uuid.UUID `json:"itemId"`
	Quantity uint      `json:"quantity"`
}

type AddressRequest struct {
	FullName  string `json:"fullName"`
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zipCode"`
	Country   string `json:"country"`
	Phone     string `json:"phone"`
	IsDefault bool   `json:"isDefault"`
}

type PatchAddressRequest struct {
	FullName  *string `json:"fullName"`
	Street    *string `json:"street"`
	City      *string `json:"city"`
	State     *string `json:"state"`
	ZipCode   *string `json:"zipCode"`
	Country   *string `json:"country"`
	Phone     *string `json:"phone"`
	IsDefault *bool   `json:"isDefault"`
}

type CreateOrderRequest struct {
	AddressID     string `json:"addressId"`
	PaymentMethod string `json:"paymentMethod"`
	PaymentToken  string `json:"paymentToken"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
