package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
	jwthelp "github.com/Skotchmaster/storefront/pkg/jwt"
	"github.com/Skotchmaster/storefront/pkg/logging"
	middleware "github.com/Skotchmaster/storefront/pkg/middleware/auth"
)

type AuthHTTP struct {
	Svc           *service.AuthService
	SecureCookies bool
}

func (h *AuthHTTP) setAuthCookies(c echo.Context, pair middleware.TokenPair) {
	c.SetCookie(jwthelp.CreateCookie(jwthelp.AccessCookie, pair.AccessToken, "/", pair.AccessExp, h.SecureCookies))
	c.SetCookie(jwthelp.CreateCookie(jwthelp.RefreshCookie, pair.RefreshToken, "/", pair.RefreshExp, h.SecureCookies))
}

func (h *AuthHTTP) clearAuthCookies(c echo.Context) {
	c.SetCookie(jwthelp.DeleteCookie(jwthelp.AccessCookie, "/", h.SecureCookies))
	c.SetCookie(jwthelp.DeleteCookie(jwthelp.RefreshCookie, "/", h.SecureCookies))
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid data")
	}

	if _, err := h.Svc.Register(ctx, req.Email, req.Name, req.Password); err != nil {
		if errors.Is(err, service.ErrConflict) {
			l.Warn("register_error", "status", 409, "error", err)
			return echo.NewHTTPError(http.StatusConflict, "Email already registered")
		}
		return svcError(l, "register_error", err)
	}

	res, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		return svcError(l, "register_login_error", err)
	}
	h.setAuthCookies(c, res.TokenPair)

	l.Info("register_successful", "user_id", res.User.ID.String())
	return c.JSON(http.StatusCreated, echo.Map{"user": res.User})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid data")
	}

	res, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			l.Warn("login_failed", "status", 401)
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
		}
		return svcError(l, "login_error", err)
	}
	h.setAuthCookies(c, res.TokenPair)

	l.Info("login_successful", "user_id", res.User.ID.String())
	return c.JSON(http.StatusOK, echo.Map{"user": res.User})
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.refresh")

	cookie, err := c.Cookie(jwthelp.RefreshCookie)
	if err != nil || cookie.Value == "" {
		return errUnauthorized
	}

	pair, err := h.Svc.Refresh(ctx, cookie.Value)
	if err != nil {
		h.clearAuthCookies(c)
		return svcError(l, "refresh_error", err)
	}
	h.setAuthCookies(c, *pair)
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	if cookie, err := c.Cookie(jwthelp.RefreshCookie); err == nil {
		if err := h.Svc.Logout(ctx, cookie.Value); err != nil {
			l.Warn("logout_revoke_failed", "error", err)
		}
	}
	h.clearAuthCookies(c)
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.me")

	id, err := userID(c)
	if err != nil {
		return err
	}
	user, err := h.Svc.GetUser(ctx, id)
	if err != nil {
		return svcError(l, "me_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"user": user})
}
