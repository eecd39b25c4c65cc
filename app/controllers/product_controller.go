package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shashiranjanraj/inventario/app/services"
	"github.com/shashiranjanraj/inventario/pkg/bind"
	"github.com/shashiranjanraj/inventario/pkg/response"
)

type productRequest struct {
	Nombre string  `json:"nombre" validate:"required,max=255"`
	Precio float64 `json:"precio" validate:"gte=0"`
	Stock  int     `json:"stock"  validate:"gte=0"`
}

func (p productRequest) input() services.ProductInput {
	return services.ProductInput{Name: p.Nombre, Price: p.Precio, Stock: p.Stock}
}

type ProductController struct {
	service *services.ProductService
}

func NewProductController(service *services.ProductService) *ProductController {
	return &ProductController{service: service}
}

// Store handles POST /productos.
func (c *ProductController) Store(w http.ResponseWriter, r *http.Request) {
	var body productRequest
	errs, err := bind.JSON(w, r, &body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	p, err := c.service.Create(r.Context(), body.input())
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Created(w, p.ID, "Producto creado")
}

// Index handles GET /productos.
func (c *ProductController) Index(w http.ResponseWriter, r *http.Request) {
	products, err := c.service.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Success(w, products)
}

// LowStock handles GET /productos/bajo-stock.
func (c *ProductController) LowStock(w http.ResponseWriter, r *http.Request) {
	products, err := c.service.LowStock(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Success(w, products)
}

// Show handles GET /productos/{id}.
func (c *ProductController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}
	p, err := c.service.Find(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Success(w, p)
}

// Update handles PUT /productos/{id}.
func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}
	var body productRequest
	errs, err := bind.JSON(w, r, &body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if _, err := c.service.Update(r.Context(), id, body.input()); err != nil {
		writeError(w, r, err)
		return
	}
	response.Message(w, "Producto actualizado")
}

// Destroy handles DELETE /productos/{id}.
func (c *ProductController) Destroy(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}
	if err := c.service.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	response.Message(w, "Producto eliminado")
}

// productID parses the {id} path parameter. A non-numeric or zero id can
// never match a row, so it is answered as not found.
func productID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		response.NotFound(w, msgProductNotFound)
		return 0, false
	}
	return uint(id), true
}
