package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shopease/shopease-backend/api/controllers"
	"github.com/shopease/shopease-backend/api/middleware"
	authsvc "github.com/shopease/shopease-backend/internal/auth"
	cartsvc "github.com/shopease/shopease-backend/internal/cart"
	checkoutsvc "github.com/shopease/shopease-backend/internal/checkout"
	ordersvc "github.com/shopease/shopease-backend/internal/orders"
	productsvc "github.com/shopease/shopease-backend/internal/products"
	wishlistsvc "github.com/shopease/shopease-backend/internal/wishlist"
	"github.com/shopease/shopease-backend/pkg/auth/session"
	"github.com/shopease/shopease-backend/pkg/config"
	"github.com/shopease/shopease-backend/pkg/db"
	"github.com/shopease/shopease-backend/pkg/logger"
	"github.com/shopease/shopease-backend/pkg/metrics"
	"github.com/shopease/shopease-backend/pkg/redis"
)

// Services groups the domain services mounted by the router.
type Services struct {
	Auth     authsvc.Service
	Products productsvc.Service
	Cart     cartsvc.Service
	Checkout checkoutsvc.Service
	Orders   ordersvc.Service
	Wishlist wishlistsvc.Service
}

// NewRouter builds the full HTTP surface: health probes, metrics, public
// catalog and auth endpoints, and the authenticated storefront routes.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	sessions session.AccessSessionChecker,
	svcs Services,
	httpMetrics *metrics.HTTPMetrics,
	promRegistry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	// A typed nil *redis.Client must not reach the middleware as a
	// non-nil interface.
	var limiter middleware.RateLimiterStore
	var idemStore redis.IdempotencyStore
	var redisPinger redis.Pinger
	if redisClient != nil {
		limiter = redisClient
		idemStore = redisClient
		redisPinger = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisPinger))
	})

	if promRegistry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		// public surface
		r.Group(func(r chi.Router) {
			r.With(middleware.AuthRateLimit(loginPolicy, limiter, logg)).
				Post("/auth/login", controllers.AuthLogin(svcs.Auth, logg))
			r.With(
				middleware.AuthRateLimit(registerPolicy, limiter, logg),
				middleware.Idempotency(idemStore, logg),
			).Post("/auth/register", controllers.AuthRegister(svcs.Auth, logg))
			r.Post("/auth/refresh", controllers.AuthRefresh(svcs.Auth, logg))
			r.Post("/auth/logout", controllers.AuthLogout(svcs.Auth, cfg.JWT, logg))

			r.Get("/products", controllers.ProductList(svcs.Products, logg))
			r.Get("/products/{productID}", controllers.ProductDetail(svcs.Products, logg))
		})

		// authenticated surface
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, sessions, logg))
			r.Use(middleware.Idempotency(idemStore, logg))

			r.Get("/auth/me", controllers.AuthMe(svcs.Auth, logg))

			r.Post("/products", controllers.ProductCreate(svcs.Products, logg))
			r.Patch("/products/{productID}", controllers.ProductUpdate(svcs.Products, logg))
			r.Delete("/products/{productID}", controllers.ProductDelete(svcs.Products, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartGet(svcs.Cart, logg))
				r.Delete("/", controllers.CartClear(svcs.Cart, logg))
				r.Post("/items", controllers.CartAddItem(svcs.Cart, logg))
				r.Put("/items/{productID}", controllers.CartSetQuantity(svcs.Cart, logg))
				r.Delete("/items/{productID}", controllers.CartRemoveItem(svcs.Cart, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.OrderList(svcs.Orders, logg))
				r.Post("/", controllers.Checkout(svcs.Checkout, logg))
				r.Get("/{orderID}", controllers.OrderDetail(svcs.Orders, logg))
				r.Put("/{orderID}/status", controllers.OrderSetStatus(svcs.Orders, logg))
			})

			r.Route("/wishlist", func(r chi.Router) {
				r.Get("/", controllers.WishlistList(svcs.Wishlist, logg))
				r.Delete("/", controllers.WishlistClear(svcs.Wishlist, logg))
				r.Get("/check/{productID}", controllers.WishlistCheck(svcs.Wishlist, logg))
				r.Post("/items", controllers.WishlistAdd(svcs.Wishlist, logg))
				r.Delete("/items/{productID}", controllers.WishlistRemove(svcs.Wishlist, logg))
			})
		})
	})

	return r
}
