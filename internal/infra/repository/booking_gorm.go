package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/services-booking/internal/domain/booking"
	"github.com/BruksfildServices01/services-booking/internal/httperr"
	"github.com/BruksfildServices01/services-booking/internal/models"
)

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

var _ domain.Repository = (*BookingGormRepository)(nil)

// --------------------------------------------------
// Service
// --------------------------------------------------

func (r *BookingGormRepository) FindService(
	ctx context.Context,
	id uint,
) (*models.Service, error) {

	var svc models.Service
	if err := r.db.WithContext(ctx).
		Preload("Days").
		First(&svc, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &svc, nil
}

// --------------------------------------------------
// Booking (read)
// --------------------------------------------------

func (r *BookingGormRepository) FindBookingsFor(
	ctx context.Context,
	serviceID uint,
	date string,
) ([]models.Booking, error) {
	return activeBookings(r.db.WithContext(ctx), serviceID, date, 0)
}

func (r *BookingGormRepository) FindBooking(
	ctx context.Context,
	id uint,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).
		Preload("Service").
		Preload("Service.Days").
		First(&b, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

func (r *BookingGormRepository) ListBookings(
	ctx context.Context,
	f domain.ListFilter,
) ([]models.Booking, int64, error) {

	q := r.db.WithContext(ctx).Model(&models.Booking{})

	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.ExcludeCancelled {
		q = q.Where("status <> ?", string(domain.StatusCancelled))
	}
	if f.ServiceID != 0 {
		q = q.Where("service_id = ?", f.ServiceID)
	}
	if f.From != "" {
		q = q.Where("booking_date >= ?", f.From)
	}
	if f.To != "" {
		q = q.Where("booking_date <= ?", f.To)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q = q.Preload("Service").Order("booking_date ASC, booking_time ASC, id ASC")
	if f.Limit > 0 {
		page := f.Page
		if page <= 0 {
			page = 1
		}
		q = q.Limit(f.Limit).Offset((page - 1) * f.Limit)
	}

	var bookings []models.Booking
	if err := q.Find(&bookings).Error; err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// --------------------------------------------------
// Booking (write)
// --------------------------------------------------

// InsertBooking locks the service row, runs check against the active
// bookings of the same date and inserts b, all in one transaction.
func (r *BookingGormRepository) InsertBooking(
	ctx context.Context,
	b *models.Booking,
	check domain.ConflictCheck,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockService(tx, b.ServiceID); err != nil {
			return err
		}

		existing, err := activeBookings(tx, b.ServiceID, b.BookingDate, 0)
		if err != nil {
			return err
		}
		if check != nil {
			if err := check(existing); err != nil {
				return err
			}
		}

		if err := tx.Omit("Service").Create(b).Error; err != nil {
			if httperr.IsUniqueViolation(err) {
				return domain.ErrSlotTaken
			}
			return err
		}
		return nil
	})
}

// UpdateBookingStatus persists a new status for b. When check is set it
// runs under the same service row lock, against the other active bookings
// of that date.
func (r *BookingGormRepository) UpdateBookingStatus(
	ctx context.Context,
	b *models.Booking,
	status domain.Status,
	check domain.ConflictCheck,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if check != nil {
			if err := lockService(tx, b.ServiceID); err != nil {
				return err
			}
			existing, err := activeBookings(tx, b.ServiceID, b.BookingDate, b.ID)
			if err != nil {
				return err
			}
			if err := check(existing); err != nil {
				return err
			}
		}

		res := tx.Model(&models.Booking{}).
			Where("id = ?", b.ID).
			Update("status", string(status))
		if res.Error != nil {
			if httperr.IsUniqueViolation(res.Error) {
				return domain.ErrSlotTaken
			}
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}

		b.Status = string(status)
		return nil
	})
}

// --------------------------------------------------
// helpers
// --------------------------------------------------

func lockService(tx *gorm.DB, serviceID uint) error {
	var svc models.Service
	if err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		First(&svc, serviceID).Error; err != nil {
		return notFound(err)
	}
	return nil
}

func activeBookings(db *gorm.DB, serviceID uint, date string, skipID uint) ([]models.Booking, error) {
	q := db.
		Where("service_id = ? AND booking_date = ? AND status <> ?", serviceID, date, string(domain.StatusCancelled))
	if skipID != 0 {
		q = q.Where("id <> ?", skipID)
	}

	var bookings []models.Booking
	if err := q.Order("booking_time ASC").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}
