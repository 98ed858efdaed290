package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/services-booking/internal/domain/booking"
	"github.com/BruksfildServices01/services-booking/internal/export"
	"github.com/BruksfildServices01/services-booking/internal/httperr"
	"github.com/BruksfildServices01/services-booking/internal/httpresp"
	"github.com/BruksfildServices01/services-booking/internal/middleware"
	"github.com/BruksfildServices01/services-booking/internal/models"
	ucBooking "github.com/BruksfildServices01/services-booking/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type BookingHandler struct {
	availability *ucBooking.GetAvailability
	create       *ucBooking.CreateBooking
	updateStatus *ucBooking.UpdateStatus
	list         *ucBooking.ListBookings
	get          *ucBooking.GetBooking
	export       *ucBooking.ExportBookings
}

func NewBookingHandler(
	availability *ucBooking.GetAvailability,
	create *ucBooking.CreateBooking,
	updateStatus *ucBooking.UpdateStatus,
	list *ucBooking.ListBookings,
	get *ucBooking.GetBooking,
	export *ucBooking.ExportBookings,
) *BookingHandler {
	return &BookingHandler{
		availability: availability,
		create:       create,
		updateStatus: updateStatus,
		list:         list,
		get:          get,
		export:       export,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateBookingRequest struct {
	ServiceID      uint   `json:"serviceId" validate:"required"`
	BookingDate    string `json:"bookingDate" validate:"required"`
	BookingTime    string `json:"bookingTime" validate:"required"`
	BookedDuration int    `json:"bookedDuration" validate:"required,gt=0,max=1440"`

	Name    string `json:"name" validate:"required,min=2,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Mobile  string `json:"mobile" validate:"required,mobile"`
	Address string `json:"address" validate:"required,max=255"`
	City    string `json:"city" validate:"required,max=100"`
	Pincode string `json:"pincode" validate:"required,pincode"`
	Country string `json:"country" validate:"required,max=100"`
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// ======================================================
// PUBLIC
// ======================================================

func (h *BookingHandler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if !bindJSON(c, &req) {
		return
	}

	b, err := h.create.Execute(c.Request.Context(), ucBooking.CreateBookingInput{
		ServiceID:      req.ServiceID,
		BookingDate:    req.BookingDate,
		BookingTime:    req.BookingTime,
		BookedDuration: req.BookedDuration,
		Name:           req.Name,
		Email:          req.Email,
		Mobile:         req.Mobile,
		Address:        req.Address,
		City:           req.City,
		Pincode:        req.Pincode,
		Country:        req.Country,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, b)
}

func (h *BookingHandler) AvailableSlots(c *gin.Context) {
	serviceID, err := strconv.ParseUint(c.Query("serviceId"), 10, 64)
	if err != nil || serviceID == 0 {
		httperr.Respond(c, httperr.Fields([]httperr.FieldError{{Field: "serviceId", Message: "is required"}}))
		return
	}
	date := c.Query("date")
	if date == "" {
		httperr.Respond(c, httperr.Fields([]httperr.FieldError{{Field: "date", Message: "is required"}}))
		return
	}

	out, err := h.availability.Execute(c.Request.Context(), domain.AvailabilityInput{
		ServiceID: uint(serviceID),
		Date:      date,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, out)
}

// ======================================================
// ADMIN
// ======================================================

func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	id, ok := idParam(c, "bookingId")
	if !ok {
		return
	}

	var req UpdateBookingStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	b, err := h.updateStatus.Execute(c.Request.Context(), middleware.AuthFrom(c), ucBooking.UpdateStatusInput{
		BookingID: id,
		Status:    req.Status,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, b)
}

func listInput(c *gin.Context) ucBooking.ListInput {
	serviceID, _ := strconv.ParseUint(c.Query("serviceId"), 10, 64)
	return ucBooking.ListInput{
		Status:    c.Query("status"),
		ServiceID: uint(serviceID),
		From:      c.Query("from"),
		To:        c.Query("to"),
		Page:      queryInt(c, "page", 1),
		Limit:     queryInt(c, "limit", 0),
	}
}

func (h *BookingHandler) List(c *gin.Context) {
	res, err := h.list.Execute(c.Request.Context(), middleware.AuthFrom(c), listInput(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Page[models.Booking](c, res.Items, res.Total, res.Page, res.Limit)
}

func (h *BookingHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "bookingId")
	if !ok {
		return
	}

	b, err := h.get.Execute(c.Request.Context(), middleware.AuthFrom(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, b)
}

// Export answers with the filtered bookings as an xlsx attachment.
func (h *BookingHandler) Export(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.export.Execute(c.Request.Context(), middleware.AuthFrom(c), listInput(c), &buf); err != nil {
		httperr.Respond(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(
		`attachment; filename="bookings-%s.xlsx"`,
		time.Now().Format("20060102-150405"),
	))
	c.Data(http.StatusOK, export.ContentTypeXLSX, buf.Bytes())
}
