package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mustt-clothing/storefront/api/controllers"
	webhookcontrollers "github.com/mustt-clothing/storefront/api/controllers/webhooks"
	"github.com/mustt-clothing/storefront/api/middleware"
	"github.com/mustt-clothing/storefront/internal/cart"
	"github.com/mustt-clothing/storefront/internal/catalog"
	"github.com/mustt-clothing/storefront/internal/orders"
	stripewebhook "github.com/mustt-clothing/storefront/internal/webhooks/stripe"
	"github.com/mustt-clothing/storefront/pkg/config"
	"github.com/mustt-clothing/storefront/pkg/enums"
	"github.com/mustt-clothing/storefront/pkg/logger"
	"github.com/mustt-clothing/storefront/pkg/metrics"
	"github.com/mustt-clothing/storefront/pkg/redis"
	"github.com/mustt-clothing/storefront/pkg/stripe"
)

// NewRouter mounts every HTTP route. idempotencyStore, stripeClient and
// stripeWebhookGuard may be nil when the backing integration is disabled.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	readiness map[string]controllers.Pinger,
	gatherer prometheus.Gatherer,
	httpMetrics *metrics.HTTPMetrics,
	idempotencyStore redis.IdempotencyStore,
	catalogService catalog.Service,
	cartService cart.Service,
	ordersService orders.Service,
	stripeClient *stripe.Client,
	stripeWebhookService *stripewebhook.Service,
	stripeWebhookGuard *stripewebhook.IdempotencyGuard,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.App.AllowedOrigins),
	)

	idempotent := middleware.Idempotency(idempotencyStore, cfg.Cache.IdempotencyTTL, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, readiness, logg))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	if stripeClient != nil && stripeWebhookService != nil && stripeWebhookGuard != nil {
		r.Route("/api/v1/webhooks", func(r chi.Router) {
			r.Post("/stripe", webhookcontrollers.StripeWebhook(stripeWebhookService, stripeClient, stripeWebhookGuard, logg))
		})
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.StorefrontProductList(catalogService, logg))
			r.Get("/{slug}", controllers.StorefrontProductBySlug(catalogService, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartGet(cartService, logg))
				r.Delete("/", controllers.CartClear(cartService, logg))
				r.With(idempotent).Post("/items", controllers.CartAddItem(cartService, logg))
				r.Patch("/items", controllers.CartUpdateSelection(cartService, logg))
				r.Delete("/items", controllers.CartRemoveSelection(cartService, logg))
				r.Patch("/items/{rowKey}", controllers.CartUpdateItem(cartService, logg))
				r.Delete("/items/{rowKey}", controllers.CartRemoveItem(cartService, logg))
			})
			r.Get("/orders", controllers.OrderHistory(ordersService, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole(enums.RoleAdmin, logg))

		r.Route("/products", func(r chi.Router) {
			r.With(idempotent).Post("/", controllers.AdminProductCreate(catalogService, logg))
			r.Get("/", controllers.AdminProductList(catalogService, logg))
			r.Get("/{productId}", controllers.AdminProductGet(catalogService, logg))
			r.Patch("/{productId}", controllers.AdminProductUpdate(catalogService, logg))
			r.Delete("/{productId}", controllers.AdminProductDelete(catalogService, logg))
			r.Post("/{productId}/visibility", controllers.AdminProductVisibility(catalogService, logg))
		})
		r.Get("/barcodes/{barcode}", controllers.AdminBarcodeLookup(catalogService, logg))
	})

	return r
}
