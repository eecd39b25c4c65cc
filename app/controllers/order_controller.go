package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/inventario/app/services"
	"github.com/shashiranjanraj/inventario/pkg/bind"
	"github.com/shashiranjanraj/inventario/pkg/response"
)

type orderRequest struct {
	ProductoID uint `json:"producto_id" validate:"required"`
	Cantidad   int  `json:"cantidad"    validate:"required,gt=0"`
}

type OrderController struct {
	service *services.OrderService
}

func NewOrderController(service *services.OrderService) *OrderController {
	return &OrderController{service: service}
}

// Store handles POST /pedidos: validate, then place the order atomically.
func (c *OrderController) Store(w http.ResponseWriter, r *http.Request) {
	var body orderRequest
	errs, err := bind.JSON(w, r, &body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	order, err := c.service.PlaceOrder(r.Context(), body.ProductoID, body.Cantidad)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Created(w, order.ID, "Pedido registrado")
}

// Index handles GET /pedidos.
func (c *OrderController) Index(w http.ResponseWriter, r *http.Request) {
	orders, err := c.service.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Success(w, orders)
}
