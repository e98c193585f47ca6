package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/api/controllers"
	webhookcontrollers "github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/api/controllers/webhooks"
	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/api/middleware"
	cartsvc "github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/internal/cart"
	checkoutsvc "github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/internal/checkout"
	deliverysvc "github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/internal/delivery"
	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/internal/documents"
	feedbacksvc "github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/internal/feedback"
	inventorysvc "github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/internal/inventory"
	orderssvc "github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/internal/orders"
	refundssvc "github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/internal/refunds"
	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/internal/slips"
	stripewebhook "github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/internal/webhooks/stripe"
	wishlistsvc "github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/internal/wishlist"
	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/config"
	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/db"
	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/logger"
	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/metrics"
	pkgredis "github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/redis"
	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/stripe"
)

// Services groups the storefront services the router hands to controllers.
type Services struct {
	Cart      cartsvc.Service
	Delivery  deliverysvc.Service
	Inventory inventorysvc.Service
	Orders    orderssvc.Service
	Refunds   refundssvc.Service
	Checkout  checkoutsvc.Service
	Feedback  feedbacksvc.Service
	Wishlist  wishlistsvc.Service
	Documents documents.Generator
	Slips     slips.Storage
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	registry *prometheus.Registry,
	dbP db.Pinger,
	redisClient *pkgredis.Client,
	svcs Services,
	stripeClient *stripe.Client,
	stripeWebhookService stripewebhook.Service,
	stripeWebhookGuard *stripewebhook.IdempotencyGuard,
) http.Handler {
	r := chi.NewRouter()

	httpMetrics := metrics.NewHTTPMetrics(registry)

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, controllers.ReadinessDeps(dbP, redisClient)))
	})
	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}
	r.Get("/ping", controllers.PublicPing())

	r.Route("/cart", func(r chi.Router) {
		r.Use(middleware.Idempotency(redisClient, logg))
		r.Post("/add-to-cart", controllers.CartAdd(svcs.Cart, logg))
		r.Get("/items/{userId}", controllers.CartItems(svcs.Cart, logg))
		r.Put("/item/{itemId}", controllers.CartUpdateQuantity(svcs.Cart, logg))
		r.Delete("/item/{userId}/{itemId}", controllers.CartRemove(svcs.Cart, logg))
	})

	r.Route("/delivery", func(r chi.Router) {
		r.Use(middleware.Idempotency(redisClient, logg))
		r.Post("/saveDeliveryDetails", controllers.DeliverySave(svcs.Delivery, logg))
		r.Get("/user/{userId}", controllers.DeliveryByUser(svcs.Delivery, logg))
		r.Get("/{id}", controllers.DeliveryDetail(svcs.Delivery, logg))
		r.Put("/{id}", controllers.DeliveryUpdate(svcs.Delivery, logg))
		r.Delete("/{id}", controllers.DeliveryDelete(svcs.Delivery, logg))
		r.With(middleware.Auth(cfg.JWT, logg), middleware.RequireRole("admin", logg)).
			Put("/{id}/status", controllers.DeliveryUpdateStatus(svcs.Delivery, logg))
	})

	r.Route("/order", func(r chi.Router) {
		r.Use(middleware.Idempotency(redisClient, logg))
		r.Post("/create", controllers.OrderCreate(svcs.Checkout, logg))
		r.Get("/user/{userId}", controllers.OrdersByUser(svcs.Orders, logg))
		r.Delete("/user/{userId}", controllers.OrdersDeleteByUser(svcs.Orders, logg))
		r.Get("/pdf/{orderId}", controllers.OrderInvoicePDF(svcs.Orders, svcs.Documents, logg))
		r.Get("/all-pdf/{userId}", controllers.OrderHistoryPDF(svcs.Orders, svcs.Documents, logg))
		r.Post("/{orderId}/bank-slip", controllers.OrderAttachBankSlip(svcs.Orders, svcs.Slips, logg))
		r.Get("/{orderId}", controllers.OrderDetail(svcs.Orders, logg))
		r.Delete("/{orderId}", controllers.OrderDelete(svcs.Orders, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg), middleware.RequireRole("admin", logg))
			r.Get("/all", controllers.OrdersAll(svcs.Orders, logg))
			r.Put("/{orderId}/status", controllers.OrderUpdateStatus(svcs.Orders, logg))
			r.Post("/{orderId}/confirm-slip", controllers.OrderConfirmBankSlip(svcs.Orders, logg))
			r.Get("/{orderId}/bank-slip", controllers.OrderDownloadBankSlip(svcs.Orders, svcs.Slips, logg))
		})
	})

	r.Route("/payment", func(r chi.Router) {
		r.With(middleware.Idempotency(redisClient, logg)).
			Post("/create-checkout-session", controllers.PaymentCreateCheckoutSession(svcs.Checkout, logg))
		r.Post("/confirm/{sessionId}", controllers.PaymentConfirm(svcs.Checkout, logg))
		r.Post("/webhook", webhookcontrollers.StripeWebhook(stripeWebhookService, stripeClient, stripeWebhookGuard, logg))
	})

	r.Route("/refund", func(r chi.Router) {
		r.Use(middleware.Idempotency(redisClient, logg))
		r.Post("/create", controllers.RefundCreate(svcs.Refunds, logg))
		r.Get("/order/{orderId}", controllers.RefundByOrder(svcs.Refunds, logg))
		r.Get("/user/{userId}", controllers.RefundsByUser(svcs.Refunds, logg))
		r.Get("/{refundId}", controllers.RefundDetail(svcs.Refunds, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg), middleware.RequireRole("admin", logg))
			r.Get("/all", controllers.RefundsAll(svcs.Refunds, logg))
			r.Put("/{refundId}/status", controllers.RefundUpdateStatus(svcs.Refunds, logg))
			r.Delete("/{refundId}", controllers.RefundDelete(svcs.Refunds, logg))
		})
	})

	r.Route("/inventory", func(r chi.Router) {
		r.Get("/", controllers.InventoryList(svcs.Inventory, logg))
		r.Get("/{itemId}", controllers.InventoryDetail(svcs.Inventory, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg), middleware.RequireRole("admin", logg))
			r.Post("/", controllers.InventoryCreate(svcs.Inventory, logg))
			r.Put("/{itemId}", controllers.InventoryUpdate(svcs.Inventory, logg))
			r.Delete("/{itemId}", controllers.InventoryDelete(svcs.Inventory, logg))
		})
	})

	r.Route("/feedback", func(r chi.Router) {
		r.Use(middleware.Idempotency(redisClient, logg))
		r.Post("/", controllers.FeedbackCreate(svcs.Feedback, logg))
		r.Get("/", controllers.FeedbackList(svcs.Feedback, logg))
		r.Get("/user/{userId}", controllers.FeedbackByUser(svcs.Feedback, logg))
		r.Delete("/{feedbackId}", controllers.FeedbackDelete(svcs.Feedback, logg))
	})

	r.Route("/wishlist", func(r chi.Router) {
		r.Post("/", controllers.WishlistAdd(svcs.Wishlist, logg))
		r.Get("/{userId}", controllers.WishlistByUser(svcs.Wishlist, logg))
		r.Delete("/{userId}/{itemId}", controllers.WishlistRemove(svcs.Wishlist, logg))
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg), middleware.RequireRole("admin", logg))
		r.Get("/ping", controllers.AdminPing())
	})

	return r
}
