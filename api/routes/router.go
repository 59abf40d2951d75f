package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mpoberly/storefront-backend/api/controllers"
	"github.com/mpoberly/storefront-backend/api/middleware"
	cartsvc "github.com/mpoberly/storefront-backend/internal/cart"
	checkoutsvc "github.com/mpoberly/storefront-backend/internal/checkout"
	couponsvc "github.com/mpoberly/storefront-backend/internal/coupons"
	"github.com/mpoberly/storefront-backend/internal/orders"
	paymentsvc "github.com/mpoberly/storefront-backend/internal/payments"
	shippingsvc "github.com/mpoberly/storefront-backend/internal/shipping"
	"github.com/mpoberly/storefront-backend/internal/stores"
	"github.com/mpoberly/storefront-backend/pkg/auth/session"
	"github.com/mpoberly/storefront-backend/pkg/config"
	"github.com/mpoberly/storefront-backend/pkg/db"
	"github.com/mpoberly/storefront-backend/pkg/logger"
	"github.com/mpoberly/storefront-backend/pkg/metrics"
	pkgredis "github.com/mpoberly/storefront-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *pkgredis.Client,
	sessions session.AccessSessionChecker,
	storesRepo *stores.Repository,
	ordersRepo *orders.Repository,
	cartService cartsvc.Service,
	couponService couponsvc.Service,
	shippingService shippingsvc.Service,
	checkoutService checkoutsvc.Service,
	paymentsService paymentsvc.Service,
	registry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()

	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	httpMetrics := metrics.NewHTTPMetrics(registry)

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisPinger(redisClient)))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	cartPolicy := middleware.NewRateLimitPolicy(
		"cart",
		cfg.RateLimit.Window,
		cfg.RateLimit.IPLimit,
		cfg.RateLimit.CustomerLimit,
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Use(middleware.ResolveStore(storesRepo, logg))
		r.Use(middleware.StoreContext(logg))
		if redisClient != nil {
			r.Use(middleware.RateLimit(cartPolicy, redisClient, logg))
		}

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartShow(ordersRepo, logg))
			if redisClient != nil {
				r.With(middleware.Idempotency(redisClient, cfg.Checkout.AddIdempotencyTTL, logg)).
					Post("/add", controllers.CartAdd(cartService, ordersRepo, cfg.Checkout, logg))
			} else {
				r.Post("/add", controllers.CartAdd(cartService, ordersRepo, cfg.Checkout, logg))
			}

			r.Route("/{cartID}", func(r chi.Router) {
				r.Patch("/", controllers.CheckoutPatch(checkoutService, logg))
				r.Get("/shipping-methods", controllers.CheckoutShippingMethods(shippingService, logg))
				r.Delete("/items", controllers.CartRemoveItems(cartService, logg))
				r.Patch("/items/{itemID}", controllers.CartUpdateItem(cartService, logg))
				r.Patch("/coupons", controllers.CouponApply(couponService, logg))
				r.Delete("/coupons", controllers.CouponRemove(couponService, logg))
			})
		})

		r.Route("/payment-methods", func(r chi.Router) {
			r.Get("/", controllers.PaymentMethodList(paymentsService, logg))
			r.Post("/", controllers.PaymentMethodCreate(paymentsService, logg))
		})
	})

	return r
}

// redisPinger keeps a nil *Client from turning into a non-nil interface
// inside the readiness probe.
func redisPinger(client *pkgredis.Client) pkgredis.Pinger {
	if client == nil {
		return nil
	}
	return client
}
