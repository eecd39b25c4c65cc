package routes

import (
	"github.com/shashiranjanraj/inventario/app/controllers"
	"github.com/shashiranjanraj/inventario/pkg/router"
)

// RegisterAPI mounts the product and order endpoints. mw wraps every one of
// them (the kernel passes the rate limiter).
func RegisterAPI(r *router.Router, products *controllers.ProductController, orders *controllers.OrderController, mw ...router.Middleware) {
	api := r.Group("", mw...)

	api.Post("/productos", "products.store", products.Store)
	api.Get("/productos", "products.index", products.Index)
	api.Get("/productos/bajo-stock", "products.low_stock", products.LowStock)
	api.Get("/productos/{id}", "products.show", products.Show)
	api.Put("/productos/{id}", "products.update", products.Update)
	api.Delete("/productos/{id}", "products.destroy", products.Destroy)

	api.Post("/pedidos", "orders.store", orders.Store)
	api.Get("/pedidos", "orders.index", orders.Index)
}
