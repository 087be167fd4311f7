package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mohamedrafeek-mr/FoodHub/internal/domain"
	"github.com/mohamedrafeek-mr/FoodHub/internal/repository"
	apperrors "github.com/mohamedrafeek-mr/FoodHub/pkg/errors"
)

// ReservationService implements the business logic for table bookings.
type ReservationService struct {
	repo   repository.ReservationRepository
	logger *slog.Logger
}

// NewReservationService creates a new reservation service.
func NewReservationService(repo repository.ReservationRepository, logger *slog.Logger) *ReservationService {
	return &ReservationService{
		repo:   repo,
		logger: logger,
	}
}

// CreateReservationInput holds the parameters for booking a table.
type CreateReservationInput struct {
	UserID         string
	Name           string
	Phone          string
	Guests         int
	ReservedAt     time.Time
	SpecialRequest string
}

// Create books a table for the user.
func (s *ReservationService) Create(ctx context.Context, input CreateReservationInput) (*domain.Reservation, error) {
	if input.Name == "" {
		return nil, apperrors.InvalidInput("name is required")
	}
	if input.Phone == "" {
		return nil, apperrors.InvalidInput("phone is required")
	}
	if input.Guests < 1 {
		return nil, apperrors.InvalidInput("guests must be at least 1")
	}
	if input.ReservedAt.Before(time.Now()) {
		return nil, apperrors.InvalidInput("reserved_at must be in the future")
	}

	now := time.Now().UTC()
	res := &domain.Reservation{
		ID:             uuid.New().String(),
		UserID:         input.UserID,
		Name:           input.Name,
		Phone:          input.Phone,
		Guests:         input.Guests,
		ReservedAt:     input.ReservedAt.UTC(),
		SpecialRequest: input.SpecialRequest,
		Status:         domain.ReservationStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, res); err != nil {
		return nil, fmt.Errorf("create reservation: %w", err)
	}

	s.logger.InfoContext(ctx, "reservation created",
		slog.String("reservation_id", res.ID),
		slog.String("user_id", res.UserID),
		slog.Int("guests", res.Guests),
	)

	return res, nil
}

// Get retrieves a reservation for the given user. A reservation belonging to
// another user reads as not found.
func (s *ReservationService) Get(ctx context.Context, userID, id string) (*domain.Reservation, error) {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get reservation: %w", err)
	}

	if res.UserID != userID {
		return nil, apperrors.NotFound("reservation", id)
	}

	return res, nil
}

// List returns the user's reservations along with the total count.
func (s *ReservationService) List(ctx context.Context, userID string, page, perPage int) ([]domain.Reservation, int, error) {
	reservations, total, err := s.repo.ListByUser(ctx, userID, page, perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("list reservations: %w", err)
	}

	return reservations, total, nil
}

// UpdateStatus moves a reservation to a new status.
func (s *ReservationService) UpdateStatus(ctx context.Context, id, status string) (*domain.Reservation, error) {
	if !domain.IsValidReservationStatus(status) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid reservation status: %s", status))
	}

	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get reservation: %w", err)
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("update reservation status: %w", err)
	}

	res.Status = status

	return res, nil
}
