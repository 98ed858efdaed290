package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	domain "github.com/BruksfildServices01/services-booking/internal/domain/booking"
	"github.com/BruksfildServices01/services-booking/internal/models"
	"github.com/BruksfildServices01/services-booking/internal/notify"
	"github.com/BruksfildServices01/services-booking/internal/timezone"
)

type BookingLister interface {
	ListBookings(ctx context.Context, f domain.ListFilter) ([]models.Booking, int64, error)
}

type Mailer interface {
	Dispatch(msg notify.Message)
}

// AgendaJob emails the operator the day's active bookings.
type AgendaJob struct {
	bookings BookingLister
	mailer   Mailer
	to       string
	loc      *time.Location
	logger   zerolog.Logger

	now func() time.Time
}

func NewAgendaJob(
	bookings BookingLister,
	mailer Mailer,
	to string,
	loc *time.Location,
	logger zerolog.Logger,
) *AgendaJob {
	return &AgendaJob{
		bookings: bookings,
		mailer:   mailer,
		to:       to,
		loc:      loc,
		logger:   logger.With().Str("job", "daily_agenda").Logger(),
		now:      time.Now,
	}
}

func (j *AgendaJob) Run(ctx context.Context) error {
	date := timezone.Today(j.now(), j.loc).Format(domain.DateLayout)

	bookings, _, err := j.bookings.ListBookings(ctx, domain.ListFilter{
		From:             date,
		To:               date,
		ExcludeCancelled: true,
	})
	if err != nil {
		return fmt.Errorf("list agenda for %s: %w", date, err)
	}

	msg, err := notify.DailyAgenda(j.to, date, bookings)
	if err != nil {
		return err
	}
	j.mailer.Dispatch(msg)

	j.logger.Info().Str("date", date).Int("bookings", len(bookings)).Msg("agenda sent")
	return nil
}

// Schedule registers the job on a new cron scheduler. The caller starts
// and stops the returned scheduler.
func Schedule(spec string, job *AgendaJob) (*cron.Cron, error) {
	c := cron.New(cron.WithLocation(job.loc))

	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		if err := job.Run(ctx); err != nil {
			job.logger.Error().Err(err).Msg("agenda job failed")
		}
	})
	if err != nil {
		return nil, fmt.Errorf("schedule agenda %q: %w", spec, err)
	}
	return c, nil
}
