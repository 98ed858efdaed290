package validators

import (
	"fmt"

	domain "github.com/BruksfildServices01/services-booking/internal/domain/booking"
	"github.com/BruksfildServices01/services-booking/internal/httperr"
	"github.com/BruksfildServices01/services-booking/internal/models"
)

// Days checks the weekly schedule of a service: at least one day, no
// weekday twice, and opening before closing for every active day. Field
// format errors are left to Struct.
func Days(days []models.ServiceDay) error {
	if len(days) == 0 {
		return httperr.Fields([]httperr.FieldError{{Field: "days", Message: "must contain at least 1 item(s)"}})
	}

	var fields []httperr.FieldError
	seen := map[string]bool{}

	for i, d := range days {
		if seen[d.Name] {
			fields = append(fields, httperr.FieldError{
				Field:   fmt.Sprintf("days[%d].name", i),
				Message: fmt.Sprintf("%s is listed more than once", d.Name),
			})
		}
		seen[d.Name] = true

		if d.Status != models.StatusActive {
			continue
		}
		open, err1 := domain.ParseClock(d.OpeningTiming)
		closing, err2 := domain.ParseClock(d.CloseTiming)
		if err1 == nil && err2 == nil && open >= closing {
			fields = append(fields, httperr.FieldError{
				Field:   fmt.Sprintf("days[%d].closeTiming", i),
				Message: "must be later than openingTiming",
			})
		}
	}

	return httperr.Fields(fields)
}
