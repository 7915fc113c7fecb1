package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
)

// OrderService reads placed orders and drives fulfillment status. Orders are
// created only by checkout.
type OrderService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

func (s *OrderService) List(ctx context.Context, userID uuid.UUID, offset, limit int) ([]models.Order, error) {
	return s.Repo.ListOrders(ctx, userID, limit, offset)
}

func (s *OrderService) Get(ctx context.Context, userID, id uuid.UUID) (*models.Order, error) {
	order, err := s.Repo.GetOrder(ctx, id, userID)
	if err != nil {
		return nil, storeErr(err, "order")
	}
	return order, nil
}

func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, next models.OrderStatus) (*models.Order, error) {
	if !next.Valid() {
		return nil, fmt.Errorf("unknown status %q: %w", next, ErrValidation)
	}

	current, err := s.Repo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "order")
	}
	if !current.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%s -> %s: %w", current.Status, next, ErrConflict)
	}

	order, ok, err := s.Repo.UpdateOrderStatus(ctx, id, current.Status, next)
	if err != nil {
		return nil, storeErr(err, "order")
	}
	if !ok {
		return nil, fmt.Errorf("order status changed concurrently: %w", ErrConflict)
	}

	events.Emit(ctx, s.Events, events.TopicOrders, order.UserID.String(), "order_status_changed",
		map[string]any{"orderId": order.ID, "orderNumber": order.OrderNumber, "from": current.Status, "to": next})
	return order, nil
}
