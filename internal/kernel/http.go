// Package kernel assembles the HTTP handler: middleware stack, API routes,
// health and metrics endpoints, and the static UI.
package kernel

import (
	"context"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/inventario/app/controllers"
	"github.com/shashiranjanraj/inventario/app/routes"
	"github.com/shashiranjanraj/inventario/app/services"
	"github.com/shashiranjanraj/inventario/pkg/cache"
	"github.com/shashiranjanraj/inventario/pkg/database"
	"github.com/shashiranjanraj/inventario/pkg/metrics"
	"github.com/shashiranjanraj/inventario/pkg/middleware"
	"github.com/shashiranjanraj/inventario/pkg/reqid"
	"github.com/shashiranjanraj/inventario/pkg/response"
	"github.com/shashiranjanraj/inventario/pkg/router"
)

// Options are the runtime knobs read from config by the caller.
type Options struct {
	OrderTimeout       time.Duration
	CacheTTL           time.Duration
	LowStockThreshold  int
	RateLimitPerMinute int // 0 disables rate limiting
	StaticDir          string
}

// HTTPKernel owns the router and the services behind it.
type HTTPKernel struct {
	router *router.Router
	db     *gorm.DB

	Products *services.ProductService
	Orders   *services.OrderService
}

// New wires services over db and store and mounts every route.
//
// Middleware, outermost first: metrics (total latency), request id, access
// log, panic recovery (inside the logger so panics carry the request id),
// CORS. The rate limiter wraps only the API routes.
func New(db *gorm.DB, store cache.Store, opts Options) *HTTPKernel {
	k := &HTTPKernel{
		router: router.New(),
		db:     db,
		Products: services.NewProductService(db, store, services.ProductServiceConfig{
			Timeout:           opts.OrderTimeout,
			CacheTTL:          opts.CacheTTL,
			LowStockThreshold: opts.LowStockThreshold,
		}),
		Orders: services.NewOrderService(db, store, services.OrderServiceConfig{
			Timeout:           opts.OrderTimeout,
			LowStockThreshold: opts.LowStockThreshold,
		}),
	}

	r := k.router
	r.Use(metrics.Middleware())
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.Recovery)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))

	r.HandleFunc("/metrics", metrics.Handler())
	r.Get("/healthz", "health", k.health)

	var api []router.Middleware
	if opts.RateLimitPerMinute > 0 {
		api = append(api, middleware.RateLimit(opts.RateLimitPerMinute, time.Minute))
	}
	routes.RegisterAPI(r,
		controllers.NewProductController(k.Products),
		controllers.NewOrderController(k.Orders),
		api...,
	)

	if opts.StaticDir != "" {
		r.Static(opts.StaticDir)
	}
	return k
}

func (k *HTTPKernel) Handler() http.Handler { return k.router.Handler() }

// Routes lists the named routes for `inventario route:list`.
func (k *HTTPKernel) Routes() []router.RouteInfo { return k.router.Routes() }

func (k *HTTPKernel) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := database.Ping(ctx, k.db); err != nil {
		response.JSON(w, http.StatusServiceUnavailable, map[string]string{"estado": "sin base de datos"})
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"estado": "ok"})
}
