package cmd

import (
	"context"
	"database/sql"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kliqtmedia/ms-go-billing/app/controller"
	"github.com/kliqtmedia/ms-go-billing/app/factory"
	"github.com/kliqtmedia/ms-go-billing/app/gateway"
	"github.com/kliqtmedia/ms-go-billing/app/identity"
	"github.com/kliqtmedia/ms-go-billing/app/repository"
	"github.com/kliqtmedia/ms-go-billing/app/service"
	"github.com/kliqtmedia/ms-go-billing/config"

	_ "github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  "Start the HTTP (Echo) server for checkout, webhooks, jobs, and dashboard reads.",
	Run:   runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

type controllers struct {
	checkout *controller.CheckoutController
	webhook  *controller.WebhookController
	jobs     *controller.JobController
	apiKeys  *controller.APIKeyController
	orders   *controller.OrderController
}

func runServe(_ *cobra.Command, _ []string) {
	cfg, ctrls, cleanup := mustCreateControllers()
	defer cleanup()

	e := setupHTTPServer(ctrls)

	go func() {
		httpAddr := net.JoinHostPort(cfg.HTTP.Host, cfg.HTTP.Port)
		logrus.WithField("addr", httpAddr).Info("Starting HTTP server")
		if err := e.Start(httpAddr); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Warn("HTTP shutdown error")
	}

	logrus.Info("Server stopped")
}

func setupHTTPServer(ctrls *controllers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogRemoteIP:  true,
		LogLatency:   true,
		LogUserAgent: true,
		LogError:     true,
		HandleError:  true,
		LogRequestID: true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			fields := logrus.Fields{
				"remote_ip":  v.RemoteIP,
				"host":       v.Host,
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
				"latency_ns": v.Latency.Nanoseconds(),
				"user_agent": v.UserAgent,
			}
			entry := logrus.WithFields(fields)
			if v.Error != nil {
				entry = entry.WithError(v.Error)
			}
			entry.Info("http_request")
			return nil
		},
	}))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())

	e.GET("/health", ctrls.checkout.Health)

	checkout := e.Group("/checkout")
	checkout.POST("/sessions", ctrls.checkout.CreateCheckoutSession)

	webhooks := e.Group("/webhooks")
	webhooks.POST("/stripe", ctrls.webhook.HandleStripeEvent)

	jobs := e.Group("/jobs")
	jobs.GET("", ctrls.jobs.ListJobs)
	jobs.POST("", ctrls.jobs.PostJob)

	keys := e.Group("/keys")
	keys.GET("", ctrls.apiKeys.ListKeys)
	keys.POST("", ctrls.apiKeys.GenerateKey)

	e.GET("/orders", ctrls.orders.ListOrders)
	e.GET("/payments", ctrls.orders.ListPayments)

	return e
}

func mustCreateControllers() (*config.Config, *controllers, func()) {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	if err := configureLogging(cfg); err != nil {
		logrus.WithError(err).Fatal("Failed to configure logging")
	}

	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}

	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		logrus.WithError(err).Fatal("Failed to ping database")
	}

	sessionRepo := repository.NewCheckoutSessionRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	eventRepo := repository.NewWebhookEventRepository(db)
	jobRepo := repository.NewJobRepository(db)
	keyRepo := repository.NewAPIKeyRepository(db)

	stripeGateway := gateway.NewStripeGateway(gateway.StripeConfig{
		SecretKey:                 cfg.Stripe.SecretKey,
		WebhookSecret:             cfg.Stripe.WebhookSecret,
		SignatureToleranceSeconds: cfg.Stripe.SignatureToleranceSeconds,
		HTTPTimeout:               cfg.Stripe.HTTPTimeout,
	})

	verifier := identity.NewHTTPVerifier(identity.HTTPVerifierConfig{
		UserInfoURL: cfg.Auth.UserInfoURL,
		HTTPTimeout: cfg.Auth.HTTPTimeout,
	})

	checkoutService := service.NewCheckoutService(
		stripeGateway,
		sessionRepo,
		cfg.Checkout,
		factory.NewModuleLogger("checkout-service"),
	)
	webhookService := service.NewWebhookService(
		stripeGateway,
		sessionRepo,
		orderRepo,
		paymentRepo,
		customerRepo,
		eventRepo,
		cfg.Webhook,
		factory.NewModuleLogger("webhook-service"),
	)
	jobService := service.NewJobService(jobRepo)
	apiKeyService := service.NewAPIKeyService(keyRepo, factory.NewModuleLogger("apikeys-service"))
	orderService := service.NewOrderService(orderRepo, paymentRepo)

	ctrls := &controllers{
		checkout: controller.NewCheckoutController(checkoutService),
		webhook:  controller.NewWebhookController(webhookService),
		jobs:     controller.NewJobController(jobService, apiKeyService),
		apiKeys:  controller.NewAPIKeyController(apiKeyService, verifier),
		orders:   controller.NewOrderController(orderService, verifier),
	}

	cleanup := func() {
		if err := db.Close(); err != nil {
			logrus.WithError(err).Warn("Failed to close database")
		}
	}

	return cfg, ctrls, cleanup
}
