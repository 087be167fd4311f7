package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mohamedrafeek-mr/FoodHub/internal/service"
	"github.com/mohamedrafeek-mr/FoodHub/pkg/httputil"
	"github.com/mohamedrafeek-mr/FoodHub/pkg/middleware"
	"github.com/mohamedrafeek-mr/FoodHub/pkg/pagination"
	"github.com/mohamedrafeek-mr/FoodHub/pkg/validator"
)

// ReservationHandler handles HTTP requests for table booking endpoints.
type ReservationHandler struct {
	service *service.ReservationService
	logger  *slog.Logger
}

// NewReservationHandler creates a new reservation HTTP handler.
func NewReservationHandler(svc *service.ReservationService, logger *slog.Logger) *ReservationHandler {
	return &ReservationHandler{
		service: svc,
		logger:  logger,
	}
}

// CreateReservationRequest is the JSON request body for booking a table.
type CreateReservationRequest struct {
	Name           string    `json:"name" validate:"required,min=2"`
	Phone          string    `json:"phone" validate:"required,min=7"`
	Guests         int       `json:"guests" validate:"required,gte=1,lte=20"`
	ReservedAt     time.Time `json:"reserved_at" validate:"required"`
	SpecialRequest string    `json:"special_request" validate:"max=500"`
}

// UpdateReservationStatusRequest is the JSON request body for moving a booking.
type UpdateReservationStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed cancelled completed"`
}

// CreateReservation handles POST /api/v1/reservations
func (h *ReservationHandler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req CreateReservationRequest
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

	res, err := h.service.Create(r.Context(), service.CreateReservationInput{
		UserID:         middleware.UserIDFromContext(r.Context()),
		Name:           req.Name,
		Phone:          req.Phone,
		Guests:         req.Guests,
		ReservedAt:     req.ReservedAt,
		SpecialRequest: req.SpecialRequest,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: res})
}

// ListReservations handles GET /api/v1/reservations
func (h *ReservationHandler) ListReservations(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)
	userID := middleware.UserIDFromContext(r.Context())

	reservations, total, err := h.service.List(r.Context(), userID, params.Page, params.PerPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, pagination.NewResult(reservations, total, params))
}

// GetReservation handles GET /api/v1/reservations/{id}
func (h *ReservationHandler) GetReservation(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	res, err := h.service.Get(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: res})
}

// UpdateReservationStatus handles PUT /api/v1/reservations/{id}/status
func (h *ReservationHandler) UpdateReservationStatus(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req UpdateReservationStatusRequest
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

	res, err := h.service.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: res})
}
