package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/api/routes"
	cartsvc "github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/internal/cart"
	checkoutsvc "github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/internal/checkout"
	deliverysvc "github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/internal/delivery"
	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/internal/documents"
	feedbacksvc "github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/internal/feedback"
	inventorysvc "github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/internal/inventory"
	orderssvc "github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/internal/orders"
	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/internal/payments"
	refundssvc "github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/internal/refunds"
	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/internal/slips"
	stripewebhook "github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/internal/webhooks/stripe"
	wishlistsvc "github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/internal/wishlist"
	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/config"
	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/db"
	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/logger"
	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/mail"
	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/migrate"
	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/redis"
	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/stripe"
)

const webhookEventTTL = 7 * 24 * time.Hour

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	stripeClient, err := stripe.NewClient(context.Background(), cfg.Stripe, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap stripe", err)
		os.Exit(1)
	}

	mailClient := mail.NewClient(cfg.Sendgrid, logg)

	cartRepo := cartsvc.NewRepository(dbClient.DB())
	deliveryRepo := deliverysvc.NewRepository(dbClient.DB())
	inventoryRepo := inventorysvc.NewRepository(dbClient.DB())
	ordersRepo := orderssvc.NewRepository(dbClient.DB())
	refundsRepo := refundssvc.NewRepository(dbClient.DB())
	sessionRepo := checkoutsvc.NewSessionRepository(dbClient.DB())

	cartService, err := cartsvc.NewService(cartRepo)
	exitOnError(logg, "cart service", err)
	deliveryService, err := deliverysvc.NewService(deliveryRepo)
	exitOnError(logg, "delivery service", err)
	inventoryService, err := inventorysvc.NewService(inventoryRepo)
	exitOnError(logg, "inventory service", err)
	ordersService, err := orderssvc.NewService(ordersRepo)
	exitOnError(logg, "orders service", err)
	refundsService, err := refundssvc.NewService(refundssvc.ServiceParams{
		RefundRepo: refundsRepo,
		Orders:     ordersRepo,
	})
	exitOnError(logg, "refunds service", err)

	gateway, err := payments.NewStripeGateway(stripeClient, cfg.Checkout)
	exitOnError(logg, "payment gateway", err)

	checkoutService, err := checkoutsvc.NewService(checkoutsvc.ServiceParams{
		Tx:            dbClient,
		CartRepo:      cartRepo,
		OrdersRepo:    ordersRepo,
		SessionRepo:   sessionRepo,
		InventoryRepo: inventoryRepo,
		Delivery:      deliveryService,
		Gateway:       gateway,
		Notifier:      mailClient,
		Config:        cfg.Checkout,
		Logger:        logg,
	})
	exitOnError(logg, "checkout service", err)

	feedbackService, err := feedbacksvc.NewService(feedbacksvc.NewRepository(dbClient.DB()))
	exitOnError(logg, "feedback service", err)
	wishlistService, err := wishlistsvc.NewService(wishlistsvc.NewRepository(dbClient.DB()))
	exitOnError(logg, "wishlist service", err)

	slipStorage, err := slips.NewStorage(cfg.Uploads)
	exitOnError(logg, "slip storage", err)

	webhookService, err := stripewebhook.NewService(checkoutService, logg)
	exitOnError(logg, "stripe webhook service", err)
	webhookGuard, err := stripewebhook.NewIdempotencyGuard(redisClient, webhookEventTTL, "stripe-webhook")
	exitOnError(logg, "stripe webhook guard", err)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			registry,
			dbClient,
			redisClient,
			routes.Services{
				Cart:      cartService,
				Delivery:  deliveryService,
				Inventory: inventoryService,
				Orders:    ordersService,
				Refunds:   refundsService,
				Checkout:  checkoutService,
				Feedback:  feedbackService,
				Wishlist:  wishlistService,
				Documents: documents.NewGenerator(),
				Slips:     slipStorage,
			},
			stripeClient,
			webhookService,
			webhookGuard,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func exitOnError(logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "failed to create "+resource, err)
	os.Exit(1)
}
