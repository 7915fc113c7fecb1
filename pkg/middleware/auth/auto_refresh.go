package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	jwthelp "github.com/Skotchmaster/storefront/pkg/jwt"
	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/Skotchmaster/storefront/pkg/tokens"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const principalKey = "principal"

// Principal is the authenticated caller attached to the request.
type Principal struct {
	UserID string
	Role   string
}

func (p Principal) IsAdmin() bool { return p.Role == "admin" }

// TokenPair is a freshly issued access/refresh pair.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
}

// Refresher rotates a refresh token in-process.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
}

type AutoRefreshMiddleware struct {
	JWTSecret     []byte
	Refresher     Refresher
	SecureCookies bool
}

func NewAutoRefreshMiddleware(secret []byte, refresher Refresher) *AutoRefreshMiddleware {
	return &AutoRefreshMiddleware{
		JWTSecret: secret,
		Refresher: refresher,
	}
}

type ValidatorFunc func(claims *tokens.AccessClaims) error

func (m *AutoRefreshMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireAuthWithValidator(next, nil)
}

func (m *AutoRefreshMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireAuthWithValidator(next, func(claims *tokens.AccessClaims) error {
		if claims.Role != "admin" {
			return echo.NewHTTPError(http.StatusForbidden, "admin access required")
		}
		return nil
	})
}

func (m *AutoRefreshMiddleware) requireAuthWithValidator(next echo.HandlerFunc, validator ValidatorFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		l := logging.FromContext(c.Request().Context()).With("middleware", "auth")

		accessCookie, err := c.Cookie(jwthelp.AccessCookie)
		if err != nil || accessCookie.Value == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
		}

		claims, err := tokens.AccessClaimsFromToken(accessCookie.Value, m.JWTSecret)
		if err == nil && claims != nil {
			if validator != nil {
				if validationErr := validator(claims); validationErr != nil {
					return validationErr
				}
			}
			setPrincipal(c, claims)
			return next(c)
		}

		if !errors.Is(err, jwt.ErrTokenExpired) || m.Refresher == nil {
			m.clearAuthCookies(c)
			return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
		}

		refreshCookie, rErr := c.Cookie(jwthelp.RefreshCookie)
		if rErr != nil || refreshCookie.Value == "" {
			m.clearAuthCookies(c)
			return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
		}

		pair, refErr := m.Refresher.Refresh(c.Request().Context(), refreshCookie.Value)
		if refErr != nil {
			l.Warn("token_refresh_failed", "error", refErr)
			m.clearAuthCookies(c)
			return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
		}

		c.SetCookie(jwthelp.CreateCookie(jwthelp.AccessCookie, pair.AccessToken, "/", pair.AccessExp, m.SecureCookies))
		c.SetCookie(jwthelp.CreateCookie(jwthelp.RefreshCookie, pair.RefreshToken, "/", pair.RefreshExp, m.SecureCookies))

		newClaims, pErr := tokens.AccessClaimsFromToken(pair.AccessToken, m.JWTSecret)
		if pErr != nil || newClaims == nil {
			m.clearAuthCookies(c)
			return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
		}

		if validator != nil {
			if validationErr := validator(newClaims); validationErr != nil {
				return validationErr
			}
		}
		setPrincipal(c, newClaims)

		return next(c)
	}
}

func (m *AutoRefreshMiddleware) clearAuthCookies(c echo.Context) {
	c.SetCookie(jwthelp.DeleteCookie(jwthelp.AccessCookie, "/", m.SecureCookies))
	c.SetCookie(jwthelp.DeleteCookie(jwthelp.RefreshCookie, "/", m.SecureCookies))
}

func setPrincipal(c echo.Context, claims *tokens.AccessClaims) {
	c.Set(principalKey, Principal{UserID: claims.Subject, Role: claims.Role})
}

// PrincipalFrom returns the caller set by RequireAuth or RequireAdmin.
func PrincipalFrom(c echo.Context) (Principal, bool) {
	p, ok := c.Get(principalKey).(Principal)
	if !ok || p.UserID == "" {
		return Principal{}, false
	}
	return p, true
}

// WithPrincipal attaches a caller directly. Used by tests and internal callers.
func WithPrincipal(c echo.Context, p Principal) {
	c.Set(principalKey, p)
}
