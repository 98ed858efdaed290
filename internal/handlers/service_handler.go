package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/services-booking/internal/audit"
	"github.com/BruksfildServices01/services-booking/internal/httperr"
	"github.com/BruksfildServices01/services-booking/internal/httpresp"
	"github.com/BruksfildServices01/services-booking/internal/middleware"
	"github.com/BruksfildServices01/services-booking/internal/models"
	"github.com/BruksfildServices01/services-booking/internal/validators"
)

type ServiceHandler struct {
	db    *gorm.DB
	audit audit.Recorder
}

func NewServiceHandler(db *gorm.DB, audit audit.Recorder) *ServiceHandler {
	return &ServiceHandler{db: db, audit: audit}
}

// --------- Requests ---------

type ServiceDayRequest struct {
	Name          string `json:"name" validate:"required,weekday"`
	OpeningTiming string `json:"openingTiming" validate:"required,clock"`
	CloseTiming   string `json:"closeTiming" validate:"required,clock"`
	Status        string `json:"status" validate:"omitempty,oneof=active inactive"`
}

type CreateServiceRequest struct {
	Title        string              `json:"title" validate:"required,min=3,max=150"`
	Description  string              `json:"description" validate:"required,min=10"`
	SlotDuration int                 `json:"slotDuration" validate:"required,min=1"`
	ImageURL     string              `json:"imageUrl" validate:"omitempty,url"`
	Status       string              `json:"status" validate:"omitempty,oneof=active inactive"`
	Price        *float64            `json:"price" validate:"omitempty,gte=0"`
	Days         []ServiceDayRequest `json:"days" validate:"required,min=1,dive"`
}

type UpdateServiceRequest struct {
	Title        *string             `json:"title" validate:"omitempty,min=3,max=150"`
	Description  *string             `json:"description" validate:"omitempty,min=10"`
	SlotDuration *int                `json:"slotDuration" validate:"omitempty,min=1"`
	ImageURL     *string             `json:"imageUrl" validate:"omitempty,url"`
	Status       *string             `json:"status" validate:"omitempty,oneof=active inactive"`
	Price        *float64            `json:"price" validate:"omitempty,gte=0"`
	Days         []ServiceDayRequest `json:"days" validate:"omitempty,min=1,dive"`
}

func toDays(in []ServiceDayRequest) []models.ServiceDay {
	days := make([]models.ServiceDay, 0, len(in))
	for _, d := range in {
		status := d.Status
		if status == "" {
			status = models.StatusActive
		}
		days = append(days, models.ServiceDay{
			Name:          d.Name,
			OpeningTiming: d.OpeningTiming,
			CloseTiming:   d.CloseTiming,
			Status:        status,
		})
	}
	return days
}

func duplicateTitle() error {
	return httperr.Validation("duplicate_title", "a service with this title already exists")
}

// --------- Handlers ---------

func (h *ServiceHandler) Create(c *gin.Context) {
	var req CreateServiceRequest
	if !bindJSON(c, &req) {
		return
	}

	days := toDays(req.Days)
	if err := validators.Days(days); err != nil {
		httperr.Respond(c, err)
		return
	}

	status := req.Status
	if status == "" {
		status = models.StatusActive
	}

	svc := models.Service{
		Title:        strings.TrimSpace(req.Title),
		Description:  strings.TrimSpace(req.Description),
		SlotDuration: req.SlotDuration,
		ImageURL:     req.ImageURL,
		Status:       status,
		Price:        req.Price,
		Days:         days,
	}

	db := h.db.WithContext(c.Request.Context())

	var count int64
	if err := db.Model(&models.Service{}).Where("title = ?", svc.Title).Count(&count).Error; err != nil {
		httperr.Respond(c, err)
		return
	}
	if count > 0 {
		httperr.Respond(c, duplicateTitle())
		return
	}

	if err := db.Create(&svc).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			err = duplicateTitle()
		}
		httperr.Respond(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		Actor:    middleware.AuthFrom(c),
		Action:   "service_created",
		Entity:   "service",
		EntityID: &svc.ID,
	})

	httpresp.Created(c, svc)
}

func (h *ServiceHandler) List(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).Preload("Days")

	if status := strings.TrimSpace(c.Query("status")); status != "" {
		q = q.Where("status = ?", status)
	}

	var services []models.Service
	if err := q.Order("id ASC").Find(&services).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, services)
}

func (h *ServiceHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var svc models.Service
	if err := h.db.WithContext(c.Request.Context()).Preload("Days").First(&svc, id).Error; err != nil {
		httperr.Respond(c, notFoundAs(err, "service_not_found", "service not found"))
		return
	}

	httpresp.OK(c, svc)
}

// Update applies the fields present in the body. A days list replaces the
// whole weekly schedule.
func (h *ServiceHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req UpdateServiceRequest
	if !bindJSON(c, &req) {
		return
	}

	var days []models.ServiceDay
	if req.Days != nil {
		days = toDays(req.Days)
		if err := validators.Days(days); err != nil {
			httperr.Respond(c, err)
			return
		}
	}

	var svc models.Service
	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&svc, id).Error; err != nil {
			return notFoundAs(err, "service_not_found", "service not found")
		}

		if req.Title != nil {
			title := strings.TrimSpace(*req.Title)
			var count int64
			if err := tx.Model(&models.Service{}).
				Where("title = ? AND id <> ?", title, svc.ID).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return duplicateTitle()
			}
			svc.Title = title
		}
		if req.Description != nil {
			svc.Description = strings.TrimSpace(*req.Description)
		}
		if req.SlotDuration != nil {
			svc.SlotDuration = *req.SlotDuration
		}
		if req.ImageURL != nil {
			svc.ImageURL = *req.ImageURL
		}
		if req.Status != nil {
			svc.Status = *req.Status
		}
		if req.Price != nil {
			svc.Price = req.Price
		}

		if err := tx.Omit("Days").Save(&svc).Error; err != nil {
			if httperr.IsUniqueViolation(err) {
				return duplicateTitle()
			}
			return err
		}

		if days != nil {
			if err := tx.Where("service_id = ?", svc.ID).Delete(&models.ServiceDay{}).Error; err != nil {
				return err
			}
			for i := range days {
				days[i].ServiceID = svc.ID
			}
			if err := tx.Create(&days).Error; err != nil {
				return err
			}
		}

		return tx.Preload("Days").First(&svc, svc.ID).Error
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		Actor:    middleware.AuthFrom(c),
		Action:   "service_updated",
		Entity:   "service",
		EntityID: &svc.ID,
	})

	httpresp.OK(c, svc)
}
