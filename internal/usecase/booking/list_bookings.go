package booking

import (
	"context"
	"errors"
	"io"

	"github.com/BruksfildServices01/services-booking/internal/domain/auth"
	domain "github.com/BruksfildServices01/services-booking/internal/domain/booking"
	"github.com/BruksfildServices01/services-booking/internal/export"
	"github.com/BruksfildServices01/services-booking/internal/httperr"
	"github.com/BruksfildServices01/services-booking/internal/models"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

type ListInput struct {
	Status    string
	ServiceID uint
	From      string
	To        string
	Page      int
	Limit     int
}

type ListResult struct {
	Items []models.Booking
	Total int64
	Page  int
	Limit int
}

func adminOnly(actor auth.Context) error {
	if !actor.IsAdmin() {
		return httperr.Forbidden("admin_required", "admin access required")
	}
	return nil
}

// filter validates the query and normalises its dates to YYYY-MM-DD.
func (in ListInput) filter(clock Clock) (domain.ListFilter, error) {
	f := domain.ListFilter{ServiceID: in.ServiceID}

	var fields []httperr.FieldError
	if in.Status != "" {
		st, err := domain.ParseStatus(in.Status)
		if err != nil {
			fields = append(fields, httperr.FieldError{Field: "status", Message: "must be one of pending, confirmed, cancelled"})
		}
		f.Status = string(st)
	}

	loc := clock.now().Location()
	for _, d := range []struct {
		name string
		raw  string
		dst  *string
	}{
		{"from", in.From, &f.From},
		{"to", in.To, &f.To},
	} {
		if d.raw == "" {
			continue
		}
		t, err := domain.ParseDate(d.raw, loc)
		if err != nil {
			fields = append(fields, httperr.FieldError{Field: d.name, Message: "must be a date in YYYY-MM-DD format"})
			continue
		}
		*d.dst = t.Format(domain.DateLayout)
	}

	if err := httperr.Fields(fields); err != nil {
		return domain.ListFilter{}, err
	}
	return f, nil
}

// ======================================================
// LIST
// ======================================================

type ListBookings struct {
	repo  domain.Repository
	clock Clock
}

func NewListBookings(repo domain.Repository, clock Clock) *ListBookings {
	return &ListBookings{repo: repo, clock: clock}
}

func (uc *ListBookings) Execute(
	ctx context.Context,
	actor auth.Context,
	in ListInput,
) (*ListResult, error) {

	if err := adminOnly(actor); err != nil {
		return nil, err
	}

	f, err := in.filter(uc.clock)
	if err != nil {
		return nil, err
	}

	f.Page = in.Page
	if f.Page <= 0 {
		f.Page = 1
	}
	f.Limit = in.Limit
	if f.Limit <= 0 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}

	items, total, err := uc.repo.ListBookings(ctx, f)
	if err != nil {
		return nil, err
	}

	return &ListResult{
		Items: items,
		Total: total,
		Page:  f.Page,
		Limit: f.Limit,
	}, nil
}

// ======================================================
// EXPORT
// ======================================================

type ExportBookings struct {
	repo  domain.Repository
	clock Clock
}

func NewExportBookings(repo domain.Repository, clock Clock) *ExportBookings {
	return &ExportBookings{repo: repo, clock: clock}
}

// Execute writes every booking matching in as an xlsx workbook. Paging
// fields are ignored.
func (uc *ExportBookings) Execute(
	ctx context.Context,
	actor auth.Context,
	in ListInput,
	out io.Writer,
) error {

	if err := adminOnly(actor); err != nil {
		return err
	}

	f, err := in.filter(uc.clock)
	if err != nil {
		return err
	}

	items, _, err := uc.repo.ListBookings(ctx, f)
	if err != nil {
		return err
	}

	return export.WriteBookings(out, items)
}

// ======================================================
// GET
// ======================================================

type GetBooking struct {
	repo domain.Repository
}

func NewGetBooking(repo domain.Repository) *GetBooking {
	return &GetBooking{repo: repo}
}

func (uc *GetBooking) Execute(
	ctx context.Context,
	actor auth.Context,
	id uint,
) (*models.Booking, error) {

	if err := adminOnly(actor); err != nil {
		return nil, err
	}

	b, err := uc.repo.FindBooking(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.NotFoundErr("booking_not_found", "booking not found")
	}
	return b, err
}
