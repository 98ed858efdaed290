package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/BruksfildServices01/services-booking/internal/models"
)

var (
	ErrNotFound = errors.New("record not found")

	// ErrSlotTaken is returned when the store rejects an insert because an
	// active booking already starts at the same service, date and time.
	ErrSlotTaken = errors.New("slot already taken")

	// ErrLockTimeout is returned by a Locker that gave up waiting.
	ErrLockTimeout = errors.New("lock wait timed out")
)

// ConflictCheck runs inside the store transaction against the current
// non-cancelled bookings of the same service and date.
type ConflictCheck func(existing []models.Booking) error

type ListFilter struct {
	Status           string
	ServiceID        uint
	From             string
	To               string
	ExcludeCancelled bool

	Page  int
	Limit int
}

type Repository interface {
	// -------- Service --------
	FindService(
		ctx context.Context,
		id uint,
	) (*models.Service, error)

	// -------- Booking (read) --------
	FindBookingsFor(
		ctx context.Context,
		serviceID uint,
		date string,
	) ([]models.Booking, error)

	FindBooking(
		ctx context.Context,
		id uint,
	) (*models.Booking, error)

	ListBookings(
		ctx context.Context,
		f ListFilter,
	) ([]models.Booking, int64, error)

	// -------- Booking (write) --------
	InsertBooking(
		ctx context.Context,
		b *models.Booking,
		check ConflictCheck,
	) error

	UpdateBookingStatus(
		ctx context.Context,
		b *models.Booking,
		status Status,
		check ConflictCheck,
	) error
}

// Locker serialises bookings that compete for the same service and date.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

func LockKey(serviceID uint, date string) string {
	return fmt.Sprintf("booking:%d:%s", serviceID, date)
}
