package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mohamedrafeek-mr/FoodHub/internal/domain"
	"github.com/mohamedrafeek-mr/FoodHub/internal/service"
	"github.com/mohamedrafeek-mr/FoodHub/pkg/httputil"
	"github.com/mohamedrafeek-mr/FoodHub/pkg/middleware"
	"github.com/mohamedrafeek-mr/FoodHub/pkg/pagination"
	"github.com/mohamedrafeek-mr/FoodHub/pkg/validator"
)

// OrderHandler handles HTTP requests for order endpoints.
type OrderHandler struct {
	service *service.OrderService
	logger  *slog.Logger
}

// NewOrderHandler creates a new order HTTP handler.
func NewOrderHandler(svc *service.OrderService, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// CreateOrderRequest is the JSON request body for placing an order from the cart.
type CreateOrderRequest struct {
	DeliveryAddress     string `json:"delivery_address" validate:"required,min=5"`
	ContactPhone        string `json:"contact_phone" validate:"required,min=7"`
	SpecialInstructions string `json:"special_instructions" validate:"max=500"`
	PaymentMethod       string `json:"payment_method" validate:"omitempty,oneof=cash razorpay"`
}

// UpdateOrderStatusRequest is the JSON request body for moving an order
// through the kitchen flow.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed preparing ready delivered cancelled"`
}

// CancelOrderRequest is the JSON request body for cancelling an order.
type CancelOrderRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

// CheckoutResponse pairs the order with its price quote.
type CheckoutResponse struct {
	Order *domain.Order `json:"order"`
	Quote domain.Quote  `json:"quote"`
}

// OrderStatusResponse is the lightweight status view for polling.
type OrderStatusResponse struct {
	OrderNumber       string `json:"order_number"`
	Status            string `json:"status"`
	PaymentStatus     string `json:"payment_status"`
	EstimatedDelivery string `json:"estimated_delivery,omitempty"`
}

// --- Handlers ---

// CreateOrder handles POST /api/v1/orders
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	order, err := h.service.CreateOrder(r.Context(), service.CreateOrderInput{
		UserID:              middleware.UserIDFromContext(r.Context()),
		DeliveryAddress:     req.DeliveryAddress,
		ContactPhone:        req.ContactPhone,
		SpecialInstructions: req.SpecialInstructions,
		PaymentMethodHint:   req.PaymentMethod,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: order})
}

// ListOrders handles GET /api/v1/orders
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)
	userID := middleware.UserIDFromContext(r.Context())

	var status *string
	if v := r.URL.Query().Get("status"); v != "" {
		status = &v
	}

	orders, total, err := h.service.ListOrders(r.Context(), userID, status, params.Page, params.PerPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, pagination.NewResult(orders, total, params))
}

// GetOrder handles GET /api/v1/orders/{orderNumber}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	order, err := h.service.GetOrder(r.Context(), userID, chi.URLParam(r, "orderNumber"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: order})
}

// GetOrderStatus handles GET /api/v1/orders/{orderNumber}/status
func (h *OrderHandler) GetOrderStatus(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	order, err := h.service.GetOrder(r.Context(), userID, chi.URLParam(r, "orderNumber"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	resp := OrderStatusResponse{
		OrderNumber:   order.OrderNumber,
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
	}
	if order.EstimatedDelivery != nil {
		resp.EstimatedDelivery = order.EstimatedDelivery.Format("2006-01-02T15:04:05Z07:00")
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: resp})
}

// Checkout handles GET /api/v1/orders/{orderNumber}/checkout
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	order, quote, err := h.service.Checkout(r.Context(), userID, chi.URLParam(r, "orderNumber"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: CheckoutResponse{Order: order, Quote: quote}})
}

// UpdateOrderStatus handles PUT /api/v1/orders/{orderNumber}/status
func (h *OrderHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req UpdateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	order, err := h.service.UpdateStatus(r.Context(), chi.URLParam(r, "orderNumber"), req.Status)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: order})
}

// CancelOrder handles POST /api/v1/orders/{orderNumber}/cancel
func (h *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req CancelOrderRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
			})
			return
		}
	}

	userID := middleware.UserIDFromContext(r.Context())

	order, err := h.service.Cancel(r.Context(), userID, chi.URLParam(r, "orderNumber"), req.Reason)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: order})
}
