package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	uid, err := userID(c)
	if err != nil {
		return err
	}
	view, err := h.Svc.GetCart(ctx, uid)
	if err != nil {
		return svcError(l, "get_cart_error", err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	uid, err := userID(c)
	if err != nil {
		return err
	}
	req := transport.AddToCartRequest{Quantity: 1}
	if err := c.Bind(&req); err != nil {
		l.Warn("add_to_cart_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid data")
	}

	item, err := h.Svc.AddToCart(ctx, uid, req.ProductID, req.Quantity)
	if err != nil {
		return svcError(l, "add_to_cart_error", err)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *CartHTTP) UpdateItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update")

	uid, err := userID(c)
	if err != nil {
		return err
	}
	var req transport.UpdateCartItemRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_cart_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid data")
	}

	item, err := h.Svc.SetQuantity(ctx, uid, req.ItemID, req.Quantity)
	if err != nil {
		return svcError(l, "update_cart_error", err)
	}
	return c.JSON(http.StatusOK, item)
}

// RemoveItem deletes one line when itemId is given and clears the cart otherwise.
func (h *CartHTTP) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove")

	uid, err := userID(c)
	if err != nil {
		return err
	}

	raw := c.Param("id")
	if raw == "" {
		raw = c.QueryParam("itemId")
	}
	if raw == "" {
		if err := h.Svc.Clear(ctx, uid); err != nil {
			return svcError(l, "clear_cart_error", err)
		}
		return c.NoContent(http.StatusNoContent)
	}

	itemID, err := uuid.Parse(raw)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid data")
	}
	if err := h.Svc.RemoveItem(ctx, uid, itemID); err != nil {
		return svcError(l, "remove_cart_item_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}
