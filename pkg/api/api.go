// Package api exposes the order service over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	gootel "go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"foodorder/pkg/logger"
	"foodorder/pkg/order"
	"foodorder/pkg/otel"
)

// Prices go over the wire as JSON numbers.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Handler serves the /orders routes.
type Handler struct {
	svc *order.Service
	log *logger.Logger
}

// New creates a Handler backed by svc.
func New(svc *order.Service, log *logger.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// Register mounts the order routes on r.
func (h *Handler) Register(r *mux.Router) {
	api := r.PathPrefix("/orders").Subrouter()
	api.HandleFunc("", h.createOrderHandler).Methods(http.MethodPost)
	api.HandleFunc("", h.listOrdersHandler).Methods(http.MethodGet)
	api.HandleFunc("/user/{userId}", h.ordersByUserHandler).Methods(http.MethodGet)
	api.HandleFunc("/{id}", h.getOrderHandler).Methods(http.MethodGet)
	api.HandleFunc("/{id}", h.updateOrderHandler).Methods(http.MethodPut)
	api.HandleFunc("/{id}", h.deleteOrderHandler).Methods(http.MethodDelete)
}

// TraceMiddleware continues any incoming trace and makes tracer available to handlers.
func TraceMiddleware(tracer trace.Tracer) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := gootel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
			ctx = otel.InjectTracing(ctx, tracer)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// messageResponse is the body of confirmations and errors.
type messageResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// placeResponse is returned by a successful order placement.
type placeResponse struct {
	Message        string      `json:"message"`
	Order          order.Order `json:"order"`
	PaymentOrderID string      `json:"paymentOrderId"`
}

// updateRequest carries the desired order status.
type updateRequest struct {
	OrderStatus order.Status `json:"orderStatus"`
}

// createOrderHandler places a new order.
// @Summary Place order
// @Description Prices the items, opens a payment order and stores the order
// @Accept json
// @Produce json
// @Param order body order.PlaceRequest true "Order"
// @Success 200 {object} placeResponse
// @Failure 400 {object} messageResponse
// @Failure 500 {object} messageResponse
// @Router /orders [post]
func (h *Handler) createOrderHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "createOrderHandler")
	defer span.End()

	var req order.PlaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Invalid request body", Error: err.Error()})
		return
	}

	p, err := h.svc.Place(ctx, req)
	if err != nil {
		h.log.Error(ctx, "place order", "error", err)
		status := http.StatusInternalServerError
		if errors.Is(err, order.ErrInvalidRequest) {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, messageResponse{Message: "Not able to place orders: " + err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, placeResponse{
		Message:        "Order placed successfully",
		Order:          p.Order,
		PaymentOrderID: p.PaymentOrderID,
	})
}

// listOrdersHandler lists orders.
// @Summary List orders
// @Produce json
// @Success 200 {array} order.Order
// @Failure 500 {object} messageResponse
// @Router /orders [get]
func (h *Handler) listOrdersHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "listOrdersHandler")
	defer span.End()

	orders, err := h.svc.List(ctx)
	if err != nil {
		h.log.Error(ctx, "list orders", "error", err)
		writeJSON(w, http.StatusInternalServerError, messageResponse{Message: "Internal Server Error"})
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// getOrderHandler retrieves an order by ID.
// @Summary Get order
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} order.Order
// @Failure 404 {object} messageResponse
// @Router /orders/{id} [get]
func (h *Handler) getOrderHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "getOrderHandler")
	defer span.End()

	id := mux.Vars(r)["id"]
	o, err := h.svc.Get(ctx, id)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, messageResponse{Message: "Order not found"})
			return
		}
		h.log.Error(ctx, "get order", "orderId", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, messageResponse{Message: "Order not found", Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// updateOrderHandler sets the status of an order.
// @Summary Update order status
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param status body updateRequest true "New status"
// @Success 200 {object} messageResponse
// @Failure 400 {object} messageResponse
// @Failure 404 {object} messageResponse
// @Failure 500 {object} messageResponse
// @Router /orders/{id} [put]
func (h *Handler) updateOrderHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "updateOrderHandler")
	defer span.End()

	id := mux.Vars(r)["id"]
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Invalid status"})
		return
	}

	err := h.svc.UpdateStatus(ctx, id, req.OrderStatus)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, messageResponse{Message: "Order status updated to " + string(req.OrderStatus)})
	case errors.Is(err, order.ErrInvalidStatus):
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Invalid status"})
	case errors.Is(err, order.ErrNotFound):
		writeJSON(w, http.StatusNotFound, messageResponse{Message: "Order not found"})
	default:
		h.log.Error(ctx, "update order", "orderId", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, messageResponse{Message: "Failed to update order status", Error: err.Error()})
	}
}

// ordersByUserHandler lists the orders a user placed.
// @Summary List orders by user
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {array} order.Order
// @Failure 400 {object} messageResponse
// @Failure 500 {object} messageResponse
// @Router /orders/user/{userId} [get]
func (h *Handler) ordersByUserHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "ordersByUserHandler")
	defer span.End()

	userID := mux.Vars(r)["userId"]
	h.log.Debug(ctx, "fetching orders for user", "userId", userID)

	orders, err := h.svc.ListByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, order.ErrInvalidID) {
			writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Invalid user ID"})
			return
		}
		h.log.Error(ctx, "list orders by user", "userId", userID, "error", err)
		writeJSON(w, http.StatusInternalServerError, messageResponse{Message: "Internal Server Error"})
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// deleteOrderHandler removes an order.
// @Summary Delete order
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} order.DeleteResult
// @Failure 500 {object} messageResponse
// @Router /orders/{id} [delete]
func (h *Handler) deleteOrderHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "deleteOrderHandler")
	defer span.End()

	id := mux.Vars(r)["id"]
	res, err := h.svc.Delete(ctx, id)
	if err != nil {
		h.log.Error(ctx, "delete order", "orderId", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, messageResponse{Message: "Order not deleted", Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
