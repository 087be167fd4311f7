package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mohamedrafeek-mr/FoodHub/internal/domain"
	"github.com/mohamedrafeek-mr/FoodHub/internal/service"
	apperrors "github.com/mohamedrafeek-mr/FoodHub/pkg/errors"
	"github.com/mohamedrafeek-mr/FoodHub/pkg/httputil"
	"github.com/mohamedrafeek-mr/FoodHub/pkg/middleware"
	"github.com/mohamedrafeek-mr/FoodHub/pkg/validator"
)

// PaymentHandler handles HTTP requests for payment endpoints.
type PaymentHandler struct {
	service *service.PaymentService
	logger  *slog.Logger
}

// NewPaymentHandler creates a new payment HTTP handler.
func NewPaymentHandler(svc *service.PaymentService, logger *slog.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// InitiatePaymentRequest is the JSON request body for starting a payment.
type InitiatePaymentRequest struct {
	OrderNumber string `json:"order_number" validate:"required"`
	Method      string `json:"method" validate:"required,oneof=cash razorpay"`
}

// VerifyPaymentRequest is the gateway confirmation handed back by the
// checkout UI. The field names follow the provider's callback contract.
type VerifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" validate:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" validate:"required"`
	RazorpaySignature string `json:"razorpay_signature" validate:"required"`
}

// GatewayLaunchData is what the client needs to open the provider checkout UI.
type GatewayLaunchData struct {
	OrderRef string `json:"order_ref"`
	KeyID    string `json:"key_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// InitiatePaymentResponse is the JSON response for an initiated payment.
type InitiatePaymentResponse struct {
	Payment *domain.Payment    `json:"payment"`
	Gateway *GatewayLaunchData `json:"gateway,omitempty"`
}

// VerifyPaymentResponse reports the reconciliation outcome.
type VerifyPaymentResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	OrderNumber string `json:"order_number,omitempty"`
}

// --- Handlers ---

// InitiatePayment handles POST /api/v1/payments
func (h *PaymentHandler) InitiatePayment(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req InitiatePaymentRequest
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

	userID := middleware.UserIDFromContext(r.Context())

	result, err := h.service.Initiate(r.Context(), userID, req.OrderNumber, req.Method)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	resp := InitiatePaymentResponse{Payment: result.Payment}
	if result.GatewayOrderRef != "" {
		resp.Gateway = &GatewayLaunchData{
			OrderRef: result.GatewayOrderRef,
			KeyID:    result.GatewayKeyID,
			Amount:   result.Amount,
			Currency: result.Currency,
		}
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: resp})
}

// VerifyPayment handles POST /api/v1/payments/verify
func (h *PaymentHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req VerifyPaymentRequest
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

	payment, err := h.service.Reconcile(r.Context(), service.ConfirmPaymentInput{
		GatewayOrderRef:   req.RazorpayOrderID,
		GatewayPaymentRef: req.RazorpayPaymentID,
		Signature:         req.RazorpaySignature,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrSignatureMismatch) {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Data: VerifyPaymentResponse{Success: false, Message: "payment verification failed"},
			})
			return
		}
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: VerifyPaymentResponse{
			Success:     true,
			Message:     "payment verified",
			OrderNumber: payment.OrderNumber,
		},
	})
}

// LatestPayment handles GET /api/v1/payments/latest
func (h *PaymentHandler) LatestPayment(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	payment, err := h.service.LatestOutcome(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: payment})
}
