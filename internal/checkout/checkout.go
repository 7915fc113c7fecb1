// Package checkout turns a user's cart into a paid, persisted order.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/payment"
	"github.com/Skotchmaster/storefront/internal/pricing"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

const (
	defaultPaymentTimeout = 10 * time.Second
	defaultLockTTL        = time.Minute
)

type CartStore interface {
	GetCart(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
	DeleteAllFromCart(ctx context.Context, userID uuid.UUID) error
}

type AddressBook interface {
	GetAddress(ctx context.Context, id, userID uuid.UUID) (*models.Address, error)
}

type OrderLedger interface {
	CreateOrder(ctx context.Context, order *models.Order) error
}

type Recorder interface {
	CheckoutOutcome(outcome string)
}

type Request struct {
	AddressID     string
	PaymentMethod string
	PaymentToken  string
}

type Service struct {
	Carts     CartStore
	Addresses AddressBook
	Orders    OrderLedger
	Gateway   payment.Gateway
	Locker    Locker
	Events    events.Publisher
	Metrics   Recorder

	Currency       string
	PaymentTimeout time.Duration
	LockTTL        time.Duration

	Now          func() time.Time
	OnTransition func(from, to State)
}

type run struct {
	svc   *Service
	l     *slog.Logger
	state State
}

func (r *run) advance(to State) error {
	if !r.state.CanTransitionTo(to) {
		return fmt.Errorf("%s -> %s: %w", r.state, to, ErrIllegalTransition)
	}
	from := r.state
	r.state = to
	r.l.Info("checkout_transition", "from", from.String(), "to", to.String())
	if r.svc.OnTransition != nil {
		r.svc.OnTransition(from, to)
	}
	return nil
}

// Checkout runs Idle -> PaymentPending -> PaymentCaptured -> OrderPersisted ->
// CartCleared -> Done for userID. Only one checkout per user runs at a time.
func (s *Service) Checkout(ctx context.Context, userID uuid.UUID, req Request) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "checkout", "user_id", userID.String())

	order, outcome, err := s.checkout(ctx, l, userID, req)
	if s.Metrics != nil {
		s.Metrics.CheckoutOutcome(outcome)
	}
	if err != nil {
		return nil, err
	}

	events.Emit(ctx, s.Events, events.TopicOrders, userID.String(), "order_created", order)
	return order, nil
}

func (s *Service) checkout(ctx context.Context, l *slog.Logger, userID uuid.UUID, req Request) (*models.Order, string, error) {
	if userID == uuid.Nil {
		return nil, "unauthorized", ErrUnauthorized
	}
	addressID, err := uuid.Parse(strings.TrimSpace(req.AddressID))
	method := strings.TrimSpace(req.PaymentMethod)
	if err != nil || method == "" {
		l.Warn("checkout_rejected", "reason", "missing address or payment method")
		return nil, "invalid", ErrValidation
	}

	release, err := s.Locker.Acquire(ctx, "checkout:"+userID.String(), s.lockTTL())
	if err != nil {
		if errors.Is(err, ErrLocked) {
			l.Warn("checkout_rejected", "reason", "checkout in progress")
			return nil, "in_progress", ErrCheckoutInProgress
		}
		return nil, "error", fmt.Errorf("acquire checkout lock: %w", err)
	}
	defer release()

	addr, err := s.Addresses.GetAddress(ctx, addressID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("checkout_rejected", "reason", "address not found", "address_id", addressID.String())
			return nil, "invalid", ErrValidation
		}
		return nil, "error", fmt.Errorf("load address: %w", err)
	}

	items, err := s.Carts.GetCart(ctx, userID)
	if err != nil {
		return nil, "error", fmt.Errorf("load cart: %w", err)
	}
	if len(items) == 0 {
		l.Warn("checkout_rejected", "reason", "cart is empty")
		return nil, "empty_cart", ErrEmptyCart
	}
	for _, it := range items {
		if it.Product == nil || it.Quantity == 0 {
			l.Warn("checkout_rejected", "reason", "cart line without product", "item_id", it.ID.String())
			return nil, "invalid", ErrValidation
		}
	}

	r := &run{svc: s, l: l, state: StateIdle}
	if err := r.advance(StatePaymentPending); err != nil {
		return nil, "error", err
	}

	lines := make([]pricing.Line, 0, len(items))
	for _, it := range items {
		lines = append(lines, pricing.Line{UnitPrice: it.Product.Price, Quantity: it.Quantity})
	}
	totals := pricing.Calculate(lines)
	amount := pricing.MinorUnits(totals.Total)

	capture, err := s.capture(ctx, payment.CaptureRequest{
		AmountMinor:    amount,
		Currency:       s.currency(),
		CustomerRef:    userID.String(),
		PaymentMethod:  method,
		Token:          req.PaymentToken,
		IdempotencyKey: "checkout-" + uuid.NewString(),
	})
	if err != nil {
		_ = r.advance(StateFailed)
		reason := payment.Reason(err)
		l.Warn("checkout_payment_failed", "amount_minor", amount, "reason", reason, "error", err)
		return nil, "payment_failed", &PaymentFailure{Reason: reason, Err: err}
	}
	if err := r.advance(StatePaymentCaptured); err != nil {
		return nil, "error", err
	}

	order := s.snapshot(userID, addr, items, totals, method, capture.Reference)

	// The charge already happened: a dropped client must not abort the write.
	persistCtx := context.WithoutCancel(ctx)
	if err := s.Orders.CreateOrder(persistCtx, order); err != nil {
		_ = r.advance(StateFailed)
		l.Error("checkout_reconciliation_required",
			"payment_reference", capture.Reference,
			"amount_minor", amount,
			"currency", order.Currency,
			"order_number", order.OrderNumber,
			"error", err,
		)
		return nil, "persistence_failed", fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	if err := r.advance(StateOrderPersisted); err != nil {
		return nil, "error", err
	}

	if err := s.Carts.DeleteAllFromCart(persistCtx, userID); err != nil {
		l.Warn("checkout_cart_clear_failed", "order_number", order.OrderNumber, "error", err)
	} else if err := r.advance(StateCartCleared); err != nil {
		return nil, "error", err
	}

	if err := r.advance(StateDone); err != nil {
		return nil, "error", err
	}
	l.Info("checkout_completed", "order_number", order.OrderNumber, "total", order.Total.StringFixed(2))
	return order, "success", nil
}

// capture bounds the gateway call. A timeout is a failed capture.
func (s *Service) capture(ctx context.Context, req payment.CaptureRequest) (*payment.CaptureResult, error) {
	pctx, cancel := context.WithTimeout(ctx, s.paymentTimeout())
	defer cancel()

	res, err := s.Gateway.Capture(pctx, req)
	if err != nil {
		return nil, err
	}
	if res == nil || res.Reference == "" {
		return nil, errors.New("gateway returned no capture reference")
	}
	return res, nil
}

func (s *Service) snapshot(userID uuid.UUID, addr *models.Address, items []models.CartItem, totals pricing.Totals, method, reference string) *models.Order {
	now := s.now()
	orderItems := make([]models.OrderItem, 0, len(items))
	for _, it := range items {
		line := pricing.Line{UnitPrice: it.Product.Price, Quantity: it.Quantity}
		orderItems = append(orderItems, models.OrderItem{
			ProductID:   it.ProductID,
			ProductName: it.Product.Name,
			Quantity:    it.Quantity,
			UnitPrice:   it.Product.Price,
			LineTotal:   pricing.LineTotal(line),
		})
	}

	return &models.Order{
		ID:               uuid.New(),
		OrderNumber:      NewOrderNumber(now),
		UserID:           userID,
		Status:           models.OrderProcessing,
		Subtotal:         totals.Subtotal,
		Tax:              totals.Tax,
		Shipping:         totals.Shipping,
		Total:            totals.Total,
		Currency:         s.currency(),
		AddressID:        addr.ID,
		ShipTo:           addr.PostalAddress,
		PaymentMethod:    method,
		PaymentReference: reference,
		Items:            orderItems,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *Service) currency() string {
	if s.Currency == "" {
		return "usd"
	}
	return s.Currency
}

func (s *Service) paymentTimeout() time.Duration {
	if s.PaymentTimeout <= 0 {
		return defaultPaymentTimeout
	}
	return s.PaymentTimeout
}

func (s *Service) lockTTL() time.Duration {
	if s.LockTTL <= 0 {
		return defaultLockTTL
	}
	return s.LockTTL
}
