package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/checkout"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/internal/util"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type OrderHTTP struct {
	Svc      *service.OrderService
	Checkout *checkout.Service
}

// CreateOrder runs checkout for the caller's cart.
func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create")

	uid, err := userID(c)
	if err != nil {
		return err
	}
	var req transport.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_order_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid data")
	}

	order, err := h.Checkout.Checkout(ctx, uid, checkout.Request{
		AddressID:     req.AddressID,
		PaymentMethod: req.PaymentMethod,
		PaymentToken:  req.PaymentToken,
	})
	if err != nil {
		return checkoutError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"order": order})
}

func checkoutError(err error) error {
	var pf *checkout.PaymentFailure
	switch {
	case errors.Is(err, checkout.ErrUnauthorized):
		return errUnauthorized
	case errors.Is(err, checkout.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid data")
	case errors.Is(err, checkout.ErrEmptyCart):
		return echo.NewHTTPError(http.StatusBadRequest, "Cart is empty")
	case errors.As(err, &pf):
		return echo.NewHTTPError(http.StatusPaymentRequired, pf.Reason)
	case errors.Is(err, checkout.ErrCheckoutInProgress):
		return echo.NewHTTPError(http.StatusConflict, "Checkout already in progress")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create order").SetInternal(err)
	}
}

func (h *OrderHTTP) GetOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list")

	uid, err := userID(c)
	if err != nil {
		return err
	}
	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("limit"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	orders, err := h.Svc.List(ctx, uid, offset, limit)
	if err != nil {
		return svcError(l, "list_orders_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"orders": orders})
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get")

	uid, err := userID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	order, err := h.Svc.Get(ctx, uid, id)
	if err != nil {
		return svcError(l, "get_order_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"order": order})
}

func (h *OrderHTTP) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_status")

	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req transport.UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_order_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid data")
	}
	order, err := h.Svc.UpdateStatus(ctx, id, models.OrderStatus(req.Status))
	if err != nil {
		return svcError(l, "update_order_error", err)
	}
	l.Info("order_status_updated", "order_id", id.String(), "status", req.Status)
	return c.JSON(http.StatusOK, echo.Map{"order": order})
}
