package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/suryakv/ecommerce-backend/api/controllers"
	"github.com/suryakv/ecommerce-backend/api/middleware"
	authsvc "github.com/suryakv/ecommerce-backend/internal/auth"
	cartsvc "github.com/suryakv/ecommerce-backend/internal/cart"
	checkoutsvc "github.com/suryakv/ecommerce-backend/internal/checkout"
	ordersrepo "github.com/suryakv/ecommerce-backend/internal/orders"
	productsvc "github.com/suryakv/ecommerce-backend/internal/products"
	"github.com/suryakv/ecommerce-backend/pkg/config"
	"github.com/suryakv/ecommerce-backend/pkg/logger"
)

// Dependencies carries everything the router wires into handlers.
type Dependencies struct {
	Config          *config.Config
	Logger          *logger.Logger
	DBPinger        controllers.Pinger
	RedisPinger     controllers.Pinger
	AuthService     authsvc.Service
	ProductService  productsvc.Service
	CartService     cartsvc.Service
	CheckoutService checkoutsvc.Service
	OrdersRepo      *ordersrepo.Repository
	MetricsGatherer prometheus.Gatherer
}

func NewRouter(deps Dependencies) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, map[string]controllers.Pinger{
			"database": deps.DBPinger,
			"redis":    deps.RedisPinger,
		}, logg))
	})

	if deps.MetricsGatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.MetricsGatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.Login(deps.AuthService, logg))
	})

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ListProducts(deps.ProductService, logg))
		r.Get("/{productId}", controllers.GetProduct(deps.ProductService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Post("/", controllers.CreateProduct(deps.ProductService, logg))
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.ListCart(deps.CartService, logg))
			r.Post("/", controllers.AddCartItem(deps.CartService, logg))
			r.Delete("/{itemId}", controllers.RemoveCartItem(deps.CartService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.PlaceOrder(deps.CheckoutService, logg))
			r.Get("/", controllers.ListOrders(deps.OrdersRepo, logg))
		})
	})

	return r
}
