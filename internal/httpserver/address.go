package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type AddressHTTP struct {
	Svc *service.AddressService
}

func (h *AddressHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "address.list")

	uid, err := userID(c)
	if err != nil {
		return err
	}
	items, err := h.Svc.List(ctx, uid)
	if err != nil {
		return svcError(l, "list_addresses_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"addresses": items})
}

func (h *AddressHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "address.create")

	uid, err := userID(c)
	if err != nil {
		return err
	}
	var req transport.AddressRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_address_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid data")
	}
	addr, err := h.Svc.Create(ctx, uid, req)
	if err != nil {
		return svcError(l, "create_address_error", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"address": addr})
}

func (h *AddressHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "address.update")

	uid, err := userID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req transport.PatchAddressRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_address_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid data")
	}
	addr, err := h.Svc.Update(ctx, uid, id, req)
	if err != nil {
		return svcError(l, "update_address_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"address": addr})
}

func (h *AddressHTTP) SetDefault(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "address.default")

	uid, err := userID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	addr, err := h.Svc.SetDefault(ctx, uid, id)
	if err != nil {
		return svcError(l, "default_address_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"address": addr})
}

func (h *AddressHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "address.delete")

	uid, err := userID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.Svc.Delete(ctx, uid, id); err != nil {
		return svcError(l, "delete_address_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}
