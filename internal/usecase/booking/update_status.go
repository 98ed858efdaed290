package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/services-booking/internal/audit"
	"github.com/BruksfildServices01/services-booking/internal/domain/auth"
	domain "github.com/BruksfildServices01/services-booking/internal/domain/booking"
	"github.com/BruksfildServices01/services-booking/internal/httperr"
	"github.com/BruksfildServices01/services-booking/internal/metrics"
	"github.com/BruksfildServices01/services-booking/internal/models"
)

type UpdateStatusInput struct {
	BookingID uint
	Status    string
}

type UpdateStatus struct {
	repo   domain.Repository
	locker domain.Locker
	audit  audit.Recorder
	logger zerolog.Logger
}

func NewUpdateStatus(
	repo domain.Repository,
	locker domain.Locker,
	audit audit.Recorder,
	logger zerolog.Logger,
) *UpdateStatus {
	return &UpdateStatus{
		repo:   repo,
		locker: locker,
		audit:  audit,
		logger: logger,
	}
}

func (uc *UpdateStatus) Execute(
	ctx context.Context,
	actor auth.Context,
	in UpdateStatusInput,
) (*models.Booking, error) {

	if !actor.CanMutate() {
		return nil, httperr.Forbidden("insufficient_permission", "permission 'all' is required")
	}

	next, err := domain.ParseStatus(in.Status)
	if err != nil {
		return nil, err
	}

	b, err := uc.repo.FindBooking(ctx, in.BookingID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.NotFoundErr("booking_not_found", "booking not found")
	}
	if err != nil {
		return nil, err
	}

	prev := domain.Status(b.Status)

	// --------------------------------------------------
	// A cancelled booking coming back must still fit
	// --------------------------------------------------
	var check domain.ConflictCheck
	if !prev.Occupies() && next.Occupies() {
		uc.logger.Warn().
			Uint("booking_id", b.ID).
			Str("to", string(next)).
			Msg("reviving cancelled booking")

		start, err := domain.ParseClock(b.BookingTime)
		if err != nil {
			return nil, fmt.Errorf("booking %d: %w", b.ID, err)
		}
		req := domain.NewInterval(start, b.BookedDuration)
		check = func(existing []models.Booking) error {
			return domain.CheckOverlap(req, existing, b.ID)
		}

		unlock, err := uc.locker.Lock(ctx, domain.LockKey(b.ServiceID, b.BookingDate))
		if err != nil {
			return nil, lockErr(err)
		}
		defer unlock()
	}

	err = uc.repo.UpdateBookingStatus(ctx, b, next, check)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNotFound):
		return nil, httperr.NotFoundErr("booking_not_found", "booking not found")
	case errors.Is(err, domain.ErrSlotTaken):
		metrics.IncBookingConflict("index")
		return nil, httperr.Conflict(
			"slot_conflict",
			fmt.Sprintf("time slot starting at %s is already booked", b.BookingTime),
		)
	case httperr.KindOf(err) == httperr.KindConflict:
		metrics.IncBookingConflict("check")
		return nil, err
	default:
		return nil, err
	}

	metrics.IncBookingStatus(string(next))

	uc.audit.Dispatch(audit.Event{
		Actor:    actor,
		Action:   "booking_status_changed",
		Entity:   "booking",
		EntityID: &b.ID,
		Metadata: map[string]string{
			"from": string(prev),
			"to":   string(next),
		},
	})

	return b, nil
}
