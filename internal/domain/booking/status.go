package booking

import "github.com/BruksfildServices01/services-booking/internal/httperr"

// ===============================
// Booking Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// ParseStatus accepts only the three known statuses.
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return st, nil
	}
	return "", httperr.Validation(
		"invalid_status",
		"status must be one of pending, confirmed, cancelled",
	)
}

// Occupies reports whether a booking in this status blocks its slot.
func (s Status) Occupies() bool {
	return s != StatusCancelled
}

func InitialStatus() Status {
	return StatusPending
}
