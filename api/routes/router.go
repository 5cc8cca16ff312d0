package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tradekart/tradekart-backend/api/controllers"
	"github.com/tradekart/tradekart-backend/api/middleware"
	cartsvc "github.com/tradekart/tradekart-backend/internal/cart"
	checkoutsvc "github.com/tradekart/tradekart-backend/internal/checkout"
	instructionsvc "github.com/tradekart/tradekart-backend/internal/instructions"
	ordersvc "github.com/tradekart/tradekart-backend/internal/orders"
	paymentsvc "github.com/tradekart/tradekart-backend/internal/payments"
	"github.com/tradekart/tradekart-backend/internal/pricing"
	suppliersvc "github.com/tradekart/tradekart-backend/internal/suppliers"
	"github.com/tradekart/tradekart-backend/pkg/config"
	"github.com/tradekart/tradekart-backend/pkg/db"
	"github.com/tradekart/tradekart-backend/pkg/logger"
	"github.com/tradekart/tradekart-backend/pkg/redis"
)

// NewRouter assembles the HTTP surface: public health and metrics, then the
// buyer-scoped /api/v1 storefront behind auth and idempotency.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	calc *pricing.Calculator,
	cartService cartsvc.Service,
	checkoutService checkoutsvc.Service,
	paymentsService paymentsvc.Service,
	instructionsService instructionsvc.Service,
	ordersService ordersvc.Service,
	suppliersService suppliersvc.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbP, redisClient, logg))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireBuyer(logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(cartService, calc, logg))
			r.Delete("/", controllers.CartClear(cartService, logg))
			r.Post("/items", controllers.CartAddItem(cartService, calc, logg))
			r.Patch("/items/{itemId}", controllers.CartUpdateItem(cartService, calc, logg))
			r.Delete("/items/{itemId}", controllers.CartRemoveItem(cartService, calc, logg))
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/", controllers.Checkout(checkoutService, paymentsService, logg))
			r.Route("/{groupId}", func(r chi.Router) {
				r.Get("/confirmation", controllers.CheckoutConfirmation(checkoutService, logg))
				r.Get("/instructions", controllers.Instructions(instructionsService, logg))
				r.Get("/instructions/{orderNumber}/qr", controllers.InstructionsQR(instructionsService, logg))
				r.Post("/instructions/{orderNumber}/mark-paid", controllers.InstructionsMarkPaid(instructionsService, logg))
				r.Delete("/instructions/{orderNumber}/mark-paid", controllers.InstructionsUnmarkPaid(instructionsService, logg))
			})
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrdersList(ordersService, logg))
			r.Get("/{orderNumber}", controllers.OrderGet(ordersService, logg))
			r.Post("/{orderNumber}/cancel", controllers.OrderCancel(ordersService, logg))
			r.Post("/{orderNumber}/payment-proof", controllers.OrderPaymentProof(ordersService, logg))
		})

		r.Route("/payments/razorpay", func(r chi.Router) {
			r.Get("/key", controllers.RazorpayKey(paymentsService, logg))
			r.Post("/verify", controllers.RazorpayVerify(paymentsService, logg))
		})

		r.Get("/suppliers/{supplierId}/bank-details", controllers.SupplierBankDetails(suppliersService, logg))
	})

	return r
}
