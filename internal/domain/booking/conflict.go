package booking

import (
	"fmt"

	"github.com/BruksfildServices01/services-booking/internal/httperr"
	"github.com/BruksfildServices01/services-booking/internal/models"
)

// CheckOverlap returns a conflict error for the first non-cancelled
// booking in existing whose interval overlaps req. Rows with id skipID
// are ignored so a booking never conflicts with itself.
func CheckOverlap(req Interval, existing []models.Booking, skipID uint) error {
	for _, b := range existing {
		if b.ID != 0 && b.ID == skipID {
			continue
		}
		if !Status(b.Status).Occupies() {
			continue
		}
		start, err := ParseClock(b.BookingTime)
		if err != nil {
			continue
		}
		if req.Overlaps(NewInterval(start, b.BookedDuration)) {
			return httperr.Conflict(
				"slot_conflict",
				fmt.Sprintf(
					"time slot overlaps with an existing booking from %s for %d minutes",
					b.BookingTime,
					b.BookedDuration,
				),
			)
		}
	}
	return nil
}
