package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/services-booking/internal/audit"
	"github.com/BruksfildServices01/services-booking/internal/domain/auth"
	domain "github.com/BruksfildServices01/services-booking/internal/domain/booking"
	"github.com/BruksfildServices01/services-booking/internal/httperr"
	"github.com/BruksfildServices01/services-booking/internal/metrics"
	"github.com/BruksfildServices01/services-booking/internal/models"
	"github.com/BruksfildServices01/services-booking/internal/notify"
)

// ======================================================
// INPUT
// ======================================================

type CreateBookingInput struct {
	ServiceID uint

	BookingDate    string
	BookingTime    string
	BookedDuration int

	Name    string
	Email   string
	Mobile  string
	Address string
	City    string
	Pincode string
	Country string
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	repo     domain.Repository
	locker   domain.Locker
	audit    audit.Recorder
	mailer   Mailer
	operator string
	clock    Clock
	logger   zerolog.Logger
}

func NewCreateBooking(
	repo domain.Repository,
	locker domain.Locker,
	audit audit.Recorder,
	mailer Mailer,
	operator string,
	clock Clock,
	logger zerolog.Logger,
) *CreateBooking {
	return &CreateBooking{
		repo:     repo,
		locker:   locker,
		audit:    audit,
		mailer:   mailer,
		operator: operator,
		clock:    clock,
		logger:   logger,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (*models.Booking, error) {

	// --------------------------------------------------
	// 1. Service
	// --------------------------------------------------
	svc, err := activeService(uc.repo.FindService(ctx, in.ServiceID))
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2. Date
	// --------------------------------------------------
	date, err := bookableDate(in.BookingDate, uc.clock)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 3. Day window
	// --------------------------------------------------
	window, err := dayWindow(svc, date)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 4. Duration
	// --------------------------------------------------
	if svc.SlotDuration <= 0 {
		return nil, fmt.Errorf("service %d has slot duration %d", svc.ID, svc.SlotDuration)
	}
	if in.BookedDuration <= 0 || in.BookedDuration%svc.SlotDuration != 0 {
		return nil, httperr.Validation(
			"invalid_duration",
			fmt.Sprintf("booked duration must be a positive multiple of %d minutes", svc.SlotDuration),
		)
	}

	// --------------------------------------------------
	// 5. Time
	// --------------------------------------------------
	start, err := domain.ParseClock(in.BookingTime)
	if err != nil {
		return nil, httperr.Validation("invalid_time", "booking time must be in HH:mm format")
	}

	// --------------------------------------------------
	// 6. Inside service hours
	// --------------------------------------------------
	// A duration longer than the window can never fit; checking it first
	// also keeps start+duration from overflowing.
	req := domain.NewInterval(start, in.BookedDuration)
	if in.BookedDuration > window.Close-window.Open || !req.Within(window) {
		return nil, httperr.Validation(
			"outside_service_hours",
			fmt.Sprintf("booking must be within service hours %s", window),
		)
	}

	// --------------------------------------------------
	// 7. Price
	// --------------------------------------------------
	b := &models.Booking{
		ServiceID:      svc.ID,
		BookingDate:    date.Format(domain.DateLayout),
		BookingTime:    in.BookingTime,
		BookedDuration: in.BookedDuration,
		Name:           strings.TrimSpace(in.Name),
		Email:          strings.ToLower(strings.TrimSpace(in.Email)),
		Mobile:         strings.TrimSpace(in.Mobile),
		Address:        strings.TrimSpace(in.Address),
		City:           strings.TrimSpace(in.City),
		Pincode:        strings.TrimSpace(in.Pincode),
		Country:        strings.TrimSpace(in.Country),
		TotalPrice:     float64(in.BookedDuration/svc.SlotDuration) * svc.PriceOrZero(),
		Status:         string(domain.InitialStatus()),
	}

	// --------------------------------------------------
	// 8. Overlap check + insert under the slot lock
	// --------------------------------------------------
	if err := uc.insert(ctx, b, req); err != nil {
		return nil, err
	}
	b.Service = svc

	metrics.IncBookingCreated()

	// --------------------------------------------------
	// 9. Audit
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		Actor:    auth.Context{},
		Action:   "booking_created",
		Entity:   "booking",
		EntityID: &b.ID,
		Metadata: map[string]any{
			"service_id": b.ServiceID,
			"date":       b.BookingDate,
			"time":       b.BookingTime,
		},
	})

	// --------------------------------------------------
	// 10. Operator notification (best effort)
	// --------------------------------------------------
	uc.notify(b, svc)

	return b, nil
}

func (uc *CreateBooking) insert(ctx context.Context, b *models.Booking, req domain.Interval) error {
	unlock, err := uc.locker.Lock(ctx, domain.LockKey(b.ServiceID, b.BookingDate))
	if err != nil {
		return lockErr(err)
	}
	defer unlock()

	err = uc.repo.InsertBooking(ctx, b, func(existing []models.Booking) error {
		return domain.CheckOverlap(req, existing, 0)
	})

	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrSlotTaken):
		metrics.IncBookingConflict("index")
		return httperr.Conflict(
			"slot_conflict",
			fmt.Sprintf("time slot starting at %s is already booked", b.BookingTime),
		)
	case httperr.KindOf(err) == httperr.KindConflict:
		metrics.IncBookingConflict("check")
		return err
	case errors.Is(err, domain.ErrNotFound):
		return httperr.NotFoundErr("service_not_found", "service not found")
	default:
		return err
	}
}

func (uc *CreateBooking) notify(b *models.Booking, svc *models.Service) {
	if uc.operator == "" {
		return
	}

	msg, err := notify.BookingCreated(uc.operator, b, svc)
	if err != nil {
		uc.logger.Warn().Err(err).Uint("booking_id", b.ID).Msg("render booking email")
		return
	}
	uc.mailer.Dispatch(msg)
}
