package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gentlecorp/inventory-service/api/controllers"
	"github.com/gentlecorp/inventory-service/api/middleware"
	"github.com/gentlecorp/inventory-service/internal/auth"
	"github.com/gentlecorp/inventory-service/internal/inventory"
	"github.com/gentlecorp/inventory-service/pkg/config"
	"github.com/gentlecorp/inventory-service/pkg/db"
	"github.com/gentlecorp/inventory-service/pkg/enums"
	"github.com/gentlecorp/inventory-service/pkg/logger"
	"github.com/gentlecorp/inventory-service/pkg/metrics"
	"github.com/gentlecorp/inventory-service/pkg/redis"
)

// RouterParams bundles everything the HTTP surface depends on.
type RouterParams struct {
	Config           *config.Config
	Logger           *logger.Logger
	DBPinger         db.Pinger
	Redis            *redis.Client
	HTTPMetrics      *metrics.HTTPMetrics
	AuthService      auth.Service
	RegisterService  auth.RegisterService
	InventoryService inventory.Service
}

func NewRouter(params RouterParams) http.Handler {
	cfg := params.Config
	logg := params.Logger

	// Avoid handing typed-nil interfaces to the middleware nil checks.
	var idemStore redis.IdempotencyStore
	var limiterStore middleware.RateLimiterStore
	if params.Redis != nil {
		idemStore = params.Redis
		limiterStore = params.Redis
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.CORS(),
		middleware.Logging(logg),
		middleware.Metrics(params.HTTPMetrics),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginUsernameLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, params.DBPinger, params.Redis))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, limiterStore, logg)).
			Post("/login", controllers.AuthLogin(params.AuthService, logg))
	})

	r.Route("/api/v1/inventory", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(idemStore, logg))

		r.Get("/", controllers.ListInventory(params.InventoryService, logg))
		r.Get("/sku/{skuCode}", controllers.GetInventoryBySku(params.InventoryService, logg))

		r.With(middleware.RequireRole(logg, enums.RoleAdmin, enums.RoleUser)).
			Post("/", controllers.CreateInventory(params.InventoryService, logg))

		r.Route("/{inventoryId}", func(r chi.Router) {
			r.Get("/", controllers.GetInventory(params.InventoryService, logg))
			r.Get("/reservations", controllers.ListReservations(params.InventoryService, logg))
			r.Post("/reserve", controllers.ReserveStock(params.InventoryService, logg))

			r.With(middleware.RequireRole(logg, enums.RoleAdmin, enums.RoleUser)).
				Patch("/", controllers.UpdateInventory(params.InventoryService, logg))

			// Deleting a record destroys its reservations, so only admins may.
			r.With(middleware.RequireRole(logg, enums.RoleAdmin)).
				Delete("/", controllers.DeleteInventory(params.InventoryService, logg))
		})
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole(logg, enums.RoleAdmin))
		r.Get("/ping", controllers.AdminPing())
		r.Post("/v1/auth/register", controllers.AuthRegister(params.RegisterService, logg))
	})

	return r
}
