package booking

import (
	"errors"
	"fmt"
	"time"

	domain "github.com/BruksfildServices01/services-booking/internal/domain/booking"
	"github.com/BruksfildServices01/services-booking/internal/httperr"
	"github.com/BruksfildServices01/services-booking/internal/models"
	"github.com/BruksfildServices01/services-booking/internal/notify"
)

type Mailer interface {
	Dispatch(msg notify.Message)
}

// Clock resolves "today" for past-date checks.
type Clock struct {
	Loc *time.Location
	Now func() time.Time
}

func (c Clock) now() time.Time {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	loc := c.Loc
	if loc == nil {
		loc = time.Local
	}
	return now().In(loc)
}

// --------------------------------------------------
// shared steps
// --------------------------------------------------

func activeService(svc *models.Service, err error) (*models.Service, error) {
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.NotFoundErr("service_not_found", "service not found")
	}
	if err != nil {
		return nil, err
	}
	if !svc.IsActive() {
		return nil, httperr.InvalidState("service_inactive", "service is not active")
	}
	return svc, nil
}

// bookableDate parses raw and rejects days before today.
func bookableDate(raw string, clock Clock) (time.Time, error) {
	now := clock.now()

	date, err := domain.ParseDate(raw, now.Location())
	if err != nil {
		return time.Time{}, httperr.Validation("invalid_date", "date must be in YYYY-MM-DD format")
	}
	if domain.IsPastDate(date, now) {
		return time.Time{}, httperr.Validation("past_date", "date cannot be in the past")
	}
	return date, nil
}

func dayWindow(svc *models.Service, date time.Time) (domain.Window, error) {
	weekday := date.Weekday().String()

	w, ok, err := domain.WindowOf(svc, weekday)
	if err != nil {
		return domain.Window{}, err
	}
	if !ok {
		return domain.Window{}, httperr.Validation(
			"service_unavailable",
			fmt.Sprintf("service not available on %s", weekday),
		)
	}
	return w, nil
}

func lockErr(err error) error {
	if errors.Is(err, domain.ErrLockTimeout) {
		return httperr.Conflict("slot_busy", "another booking for this service and date is in progress, try again")
	}
	return fmt.Errorf("acquire booking lock: %w", err)
}
