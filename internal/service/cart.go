package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/pricing"
	"github.com/Skotchmaster/storefront/internal/repo"
)

type CartService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

// CartView is the cart with a price preview computed from live product prices.
type CartView struct {
	Items  []models.CartItem `json:"items"`
	Totals pricing.Totals    `json:"totals"`
}

func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) (*CartView, error) {
	items, err := s.Repo.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	lines := make([]pricing.Line, 0, len(items))
	for _, it := range items {
		if it.Product == nil {
			continue
		}
		lines = append(lines, pricing.Line{UnitPrice: it.Product.Price, Quantity: it.Quantity})
	}
	return &CartView{Items: items, Totals: pricing.Calculate(lines)}, nil
}

func (s *CartService) AddToCart(ctx context.Context, userID, productID uuid.UUID, qty uint) (*models.CartItem, error) {
	if productID == uuid.Nil {
		return nil, fmt.Errorf("ID product must be not nil: %w", ErrValidation)
	}
	if qty == 0 {
		return nil, fmt.Errorf("quantity must be more than zero: %w", ErrValidation)
	}

	prod, err := s.Repo.GetProduct(ctx, productID)
	if err != nil {
		return nil, storeErr(err, "product")
	}

	item := &models.CartItem{UserID: userID, ProductID: productID, Quantity: qty}
	if err := s.Repo.AddToCart(ctx, item); err != nil {
		return nil, err
	}
	item.Product = prod

	events.Emit(ctx, s.Events, events.TopicCart, userID.String(), "cart_item_added",
		map[string]any{"userId": userID, "productId": productID, "quantity": item.Quantity})
	return item, nil
}

// SetQuantity clamps qty to the product's stock when stock is known. The clamp is
// advisory: nothing holds stock between here and checkout.
func (s *CartService) SetQuantity(ctx context.Context, userID, itemID uuid.UUID, qty uint) (*models.CartItem, error) {
	if itemID == uuid.Nil {
		return nil, fmt.Errorf("itemId required: %w", ErrValidation)
	}
	if qty < 1 {
		return nil, fmt.Errorf("quantity must be at least 1: %w", ErrValidation)
	}

	current, err := s.Repo.GetCartItem(ctx, userID, itemID)
	if err != nil {
		return nil, storeErr(err, "cart item")
	}
	if current.Product != nil && current.Product.Stock > 0 && qty > uint(current.Product.Stock) {
		qty = uint(current.Product.Stock)
	}

	item, err := s.Repo.SetQuantity(ctx, userID, itemID, qty)
	if err != nil {
		return nil, storeErr(err, "cart item")
	}
	events.Emit(ctx, s.Events, events.TopicCart, userID.String(), "cart_item_updated",
		map[string]any{"userId": userID, "itemId": itemID, "quantity": item.Quantity})
	return item, nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error {
	if err := s.Repo.RemoveCartItem(ctx, userID, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("cart item not found: %w", ErrNotFound)
		}
		return err
	}
	events.Emit(ctx, s.Events, events.TopicCart, userID.String(), "cart_item_removed",
		map[string]any{"userId": userID, "itemId": itemID})
	return nil
}

func (s *CartService) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.Repo.DeleteAllFromCart(ctx, userID); err != nil {
		return err
	}
	events.Emit(ctx, s.Events, events.TopicCart, userID.String(), "cart_cleared", map[string]any{"userId": userID})
	return nil
}
