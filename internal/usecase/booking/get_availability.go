package booking

import (
	"context"

	domain "github.com/BruksfildServices01/services-booking/internal/domain/booking"
)

type GetAvailability struct {
	repo  domain.Repository
	clock Clock
}

func NewGetAvailability(repo domain.Repository, clock Clock) *GetAvailability {
	return &GetAvailability{repo: repo, clock: clock}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) (*domain.Availability, error) {

	svc, err := activeService(uc.repo.FindService(ctx, in.ServiceID))
	if err != nil {
		return nil, err
	}

	date, err := bookableDate(in.Date, uc.clock)
	if err != nil {
		return nil, err
	}

	window, err := dayWindow(svc, date)
	if err != nil {
		return nil, err
	}

	day := date.Format(domain.DateLayout)

	bookings, err := uc.repo.FindBookingsFor(ctx, svc.ID, day)
	if err != nil {
		return nil, err
	}

	return &domain.Availability{
		SelectedDate:   day,
		AvailableSlots: domain.FreeSlots(window, svc.SlotDuration, domain.Occupied(bookings)),
	}, nil
}
