package transport

import (
	"errors"
	"net/http"

	"season-admin/internal/middleware"
	"season-admin/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// UpdateOrderStatusRequest changes exactly one of the two order status
// fields.
type UpdateOrderStatusRequest struct {
	Field string `json:"field" validate:"required,oneof=orderStatus utrStatus"`
	Value string `json:"value" validate:"required"`
}

// OrderHandler handles the orders screen. Like the product handler it
// builds a fresh manager per request.
type OrderHandler struct {
	client service.OrderClient
	logger *zap.Logger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(client service.OrderClient, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{client: client, logger: logger}
}

// RegisterRoutes registers all order routes behind the given auth middleware.
func (h *OrderHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/", h.List)
		r.Put("/{id}/status", h.UpdateStatus)
	})
}

// List fetches the full order set. No filter facets are derived.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders := service.NewOrderService(h.client)
	if err := orders.Load(r.Context()); err != nil {
		h.logger.Error("Failed to load orders", zap.Error(err))
		middleware.RespondWithJSON(w, http.StatusBadGateway, map[string]interface{}{
			"notice": errorNotice(msgOrdersFailed),
		})
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"orders": orders.Orders(),
		"total":  len(orders.Orders()),
	})
}

// UpdateStatus changes one status field on one order. The upstream PUT
// carries only that field; a failed call leaves the upstream state
// authoritative and reports the failure as a notice.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateOrderStatusRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Order status validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	orders := service.NewOrderService(h.client)
	if err := orders.Load(r.Context()); err != nil {
		h.logger.Error("Failed to load orders", zap.Error(err))
		middleware.RespondWithJSON(w, http.StatusBadGateway, map[string]interface{}{
			"notice": errorNotice(msgOrdersFailed),
		})
		return
	}

	err := orders.UpdateStatus(r.Context(), id, service.StatusField(req.Field), req.Value)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotLoaded):
			middleware.RespondWithError(w, http.StatusNotFound, "order not found")
		case errors.Is(err, service.ErrInvalidStatus), errors.Is(err, service.ErrUnknownField):
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("Order status update failed",
				zap.String("order_id", id),
				zap.Error(err),
			)
			middleware.RespondWithJSON(w, http.StatusBadGateway, map[string]interface{}{
				"notice": errorNotice(msgGenericFailure),
			})
		}
		return
	}

	order, _ := orders.Find(id)
	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"order": order})
}
