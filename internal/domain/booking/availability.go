package booking

import (
	"github.com/BruksfildServices01/services-booking/internal/models"
)

type AvailabilityInput struct {
	ServiceID uint
	Date      string
}

type Availability struct {
	SelectedDate   string   `json:"selectedDate"`
	AvailableSlots []string `json:"availableSlots"`
}

// CandidateStarts steps from the opening time by slot minutes and keeps
// only starts whose full slot ends by the closing time.
func CandidateStarts(w Window, slot int) []int {
	if slot <= 0 {
		return nil
	}

	var starts []int
	for cur := w.Open; cur+slot <= w.Close; cur += slot {
		starts = append(starts, cur)
	}
	return starts
}

// FreeSlots returns the candidate starts, formatted as HH:mm, that do not
// fall inside any occupied interval. The result is ascending and never nil.
func FreeSlots(w Window, slot int, occupied []Interval) []string {
	free := []string{}

	for _, start := range CandidateStarts(w, slot) {
		taken := false
		for _, iv := range occupied {
			if iv.Contains(start) {
				taken = true
				break
			}
		}
		if !taken {
			free = append(free, FormatClock(start))
		}
	}

	return free
}

// Occupied converts bookings into their intervals. Cancelled bookings and
// rows with an unreadable time are skipped.
func Occupied(bookings []models.Booking) []Interval {
	out := make([]Interval, 0, len(bookings))
	for _, b := range bookings {
		if !Status(b.Status).Occupies() {
			continue
		}
		start, err := ParseClock(b.BookingTime)
		if err != nil {
			continue
		}
		out = append(out, NewInterval(start, b.BookedDuration))
	}
	return out
}
