package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/shashiranjanraj/inventario/app/services"
	"github.com/shashiranjanraj/inventario/pkg/bind"
	"github.com/shashiranjanraj/inventario/pkg/logger"
	"github.com/shashiranjanraj/inventario/pkg/response"
)

// User-facing messages. The UI shows them verbatim.
const (
	msgInvalid           = "Datos inválidos"
	msgProductNotFound   = "Producto no encontrado"
	msgInsufficientStock = "Stock insuficiente"
	msgProductInUse      = "El producto tiene pedidos registrados y no puede eliminarse"
	msgUnavailable       = "Servicio no disponible, intente de nuevo"
	msgInternal          = "Error interno del servidor"
)

// writeError maps a service or bind error to its status and message. Storage
// details are logged, never sent.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var bodyErr *bind.BodyError
	switch {
	case errors.As(err, &bodyErr):
		response.Error(w, http.StatusBadRequest, bodyErr.Message)
	case errors.Is(err, services.ErrValidation):
		response.Error(w, http.StatusUnprocessableEntity, msgInvalid)
	case errors.Is(err, services.ErrProductNotFound):
		response.NotFound(w, msgProductNotFound)
	case errors.Is(err, services.ErrInsufficientStock):
		response.Error(w, http.StatusConflict, msgInsufficientStock)
	case errors.Is(err, services.ErrProductInUse):
		response.Error(w, http.StatusConflict, msgProductInUse)
	case errors.Is(err, context.DeadlineExceeded):
		logger.WithCtx(r.Context()).Error("storage timeout", "error", err)
		response.Error(w, http.StatusServiceUnavailable, msgUnavailable)
	default:
		logger.WithCtx(r.Context()).Error("storage failure", "error", err)
		response.Error(w, http.StatusInternalServerError, msgInternal)
	}
}
