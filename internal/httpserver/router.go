package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/metrics"
	middleware "github.com/Skotchmaster/storefront/pkg/middleware/auth"
)

type Deps struct {
	AuthHandler    *AuthHTTP
	CatalogHandler *CatalogHTTP
	ReviewHandler  *ReviewHTTP
	CartHandler    *CartHTTP
	AddressHandler *AddressHTTP
	OrderHandler   *OrderHTTP

	JWTSecret     []byte
	Refresher     middleware.Refresher
	SecureCookies bool
	Metrics       *metrics.ServerMetrics
	DB            *gorm.DB
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.DB == nil {
			return c.NoContent(http.StatusOK)
		}
		sqlDB, err := d.DB.DB()
		if err != nil {
			return c.NoContent(http.StatusServiceUnavailable)
		}
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := sqlDB.PingContext(ctx); err != nil {
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	})
	if d.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(d.Metrics.Handler()))
	}

	authMW := middleware.NewAutoRefreshMiddleware(d.JWTSecret, d.Refresher)
	authMW.SecureCookies = d.SecureCookies
	api := e.Group("/api/v1")

	auth := api.Group("/auth")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/refresh", d.AuthHandler.Refresh)
	auth.POST("/logout", d.AuthHandler.Logout)
	auth.GET("/me", d.AuthHandler.Me, authMW.RequireAuth)

	products := api.Group("/products")
	products.GET("/search", d.CatalogHandler.SearchProducts)
	products.GET("", d.CatalogHandler.GetProducts)
	products.GET("/:id", d.CatalogHandler.GetProduct)

	admin := products.Group("", authMW.RequireAdmin)
	admin.POST("", d.CatalogHandler.CreateProduct)
	admin.PATCH("/:id", d.CatalogHandler.PatchProduct)
	admin.DELETE("/:id", d.CatalogHandler.DeleteProduct)

	api.POST("/reviews", d.ReviewHandler.CreateReview, authMW.RequireAuth)

	cart := api.Group("/cart", authMW.RequireAuth)
	cart.GET("", d.CartHandler.GetCart)
	cart.POST("", d.CartHandler.AddToCart)
	cart.PATCH("", d.CartHandler.UpdateItem)
	cart.DELETE("", d.CartHandler.RemoveItem)
	cart.DELETE("/items/:id", d.CartHandler.RemoveItem)

	addresses := api.Group("/addresses", authMW.RequireAuth)
	addresses.GET("", d.AddressHandler.List)
	addresses.POST("", d.AddressHandler.Create)
	addresses.PATCH("/:id", d.AddressHandler.Update)
	addresses.DELETE("/:id", d.AddressHandler.Delete)
	addresses.POST("/:id/default", d.AddressHandler.SetDefault)

	orders := api.Group("/orders", authMW.RequireAuth)
	orders.POST("", d.OrderHandler.CreateOrder)
	orders.GET("", d.OrderHandler.GetOrders)
	orders.GET("/:id", d.OrderHandler.GetOrder)
	api.PATCH("/orders/:id/status", d.OrderHandler.UpdateStatus, authMW.RequireAdmin)
}
