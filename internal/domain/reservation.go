package domain

import "time"

// Reservation status constants. Reservations are plain CRUD with a status
// field; there is no transition table beyond validity checks.
const (
	ReservationStatusPending   = "pending"
	ReservationStatusConfirmed = "confirmed"
	ReservationStatusCancelled = "cancelled"
	ReservationStatusCompleted = "completed"
)

// Reservation is a table booking.
type Reservation struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Name           string    `json:"name"`
	Phone          string    `json:"phone"`
	Guests         int       `json:"guests"`
	ReservedAt     time.Time `json:"reserved_at"`
	SpecialRequest string    `json:"special_request,omitempty"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ValidReservationStatuses returns all valid reservation statuses.
func ValidReservationStatuses() []string {
	return []string{
		ReservationStatusPending,
		ReservationStatusConfirmed,
		ReservationStatusCancelled,
		ReservationStatusCompleted,
	}
}

// IsValidReservationStatus checks if a status string is valid.
func IsValidReservationStatus(status string) bool {
	for _, s := range ValidReservationStatuses() {
		if s == status {
			return true
		}
	}
	return false
}
