package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/Skotchmaster/storefront/internal/checkout"
	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/httpserver"
	"github.com/Skotchmaster/storefront/internal/metrics"
	"github.com/Skotchmaster/storefront/internal/payment"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/search"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/pkg/config"
	pkgdb "github.com/Skotchmaster/storefront/pkg/db"
	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/Skotchmaster/storefront/pkg/middleware/csrf"
	loggingmw "github.com/Skotchmaster/storefront/pkg/middleware/logging"
)

func serveCmd() *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if cmd.Flags().Changed("port") {
				cfg.ServerPort = port
			}
			return runServe(cmd.Context(), cfg)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 8080, "listen port (overrides SERVER_PORT)")
	return cmd
}

func runServe(parent context.Context, cfg config.Config) error {
	config.MustNonEmptyBytes(cfg.JWTAccessSecret, "JWT_SECRET")
	config.MustNonEmptyBytes(cfg.JWTRefreshSecret, "JWT_REFRESH_SECRET")

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	db, err := openDB(cfg)
	if err != nil {
		return fmt.Errorf("db open: %w", err)
	}
	defer pkgdb.Close(db)
	if err := repo.Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	store := &repo.GormRepo{DB: db}

	var publisher events.Publisher = events.Noop{}
	if len(cfg.KafkaBrokers) > 0 {
		producer := events.NewProducer(cfg.KafkaBrokers)
		defer producer.Close()
		publisher = producer
		logger.Info("kafka_enabled", "brokers", cfg.KafkaBrokers)
	}

	catalogSvc := &service.CatalogService{Repo: store, Events: publisher}
	if cfg.ElasticURL != "" {
		ctx, cancel := context.WithTimeout(parent, 5*time.Second)
		client, err := search.NewClient(ctx, search.Config{
			URL:      cfg.ElasticURL,
			User:     cfg.ElasticUser,
			Password: cfg.ElasticPassword,
			Index:    cfg.ElasticIndex,
		})
		cancel()
		if err != nil {
			logger.Warn("elasticsearch_unavailable", "error", err)
		} else {
			catalogSvc.Search = client
		}
	}

	var locker checkout.Locker = checkout.NewMemoryLocker()
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("redis url: %w", err)
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		locker = &checkout.RedisLocker{Client: rdb, Prefix: "storefront:"}
	}

	var gateway payment.Gateway = &payment.SandboxGateway{MinAmount: cfg.PaymentMinAmount}
	if cfg.StripeSecretKey != "" {
		gateway = payment.NewStripeGateway(cfg.StripeSecretKey, cfg.PaymentMinAmount)
	} else {
		logger.Warn("payment_sandbox_enabled", "reason", "STRIPE_SECRET_KEY not set")
	}
	gateway = payment.NewBreakerGateway(gateway, payment.BreakerSettings{Name: "payment"})

	m := metrics.NewServerMetrics()
	authSvc := &service.AuthService{Repo: store, JWTSecret: cfg.JWTAccessSecret, RefreshSecret: cfg.JWTRefreshSecret}
	checkoutSvc := &checkout.Service{
		Carts:          store,
		Addresses:      store,
		Orders:         store,
		Gateway:        gateway,
		Locker:         locker,
		Events:         publisher,
		Metrics:        m,
		Currency:       cfg.PaymentCurrency,
		PaymentTimeout: cfg.PaymentTimeout,
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(m.Middleware())
	e.Use(echomw.Secure())
	e.Use(echomw.CORS())
	if cfg.CSRFEnabled {
		e.Use(csrf.Middleware(csrf.Config{
			Secure:         cfg.CookieSecure,
			TrustedOrigins: cfg.CSRFTrustedOrigins,
			SkipPaths:      []string{"/metrics", "/health/live", "/health/ready"},
		}))
	}

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler:    &httpserver.AuthHTTP{Svc: authSvc, SecureCookies: cfg.CookieSecure},
		CatalogHandler: &httpserver.CatalogHTTP{Svc: catalogSvc},
		ReviewHandler:  &httpserver.ReviewHTTP{Svc: &service.ReviewService{Repo: store}},
		CartHandler:    &httpserver.CartHTTP{Svc: &service.CartService{Repo: store, Events: publisher}},
		AddressHandler: &httpserver.AddressHTTP{Svc: &service.AddressService{Repo: store}},
		OrderHandler: &httpserver.OrderHTTP{
			Svc:      &service.OrderService{Repo: store, Events: publisher},
			Checkout: checkoutSvc,
		},
		JWTSecret:     cfg.JWTAccessSecret,
		Refresher:     authSvc,
		SecureCookies: cfg.CookieSecure,
		Metrics:       m,
		DB:            db,
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("storefront_listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown_failed", "error", err)
	}
	logger.Info("storefront_stopped")
	return nil
}
