package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/services-booking/internal/audit"
	"github.com/BruksfildServices01/services-booking/internal/httperr"
	"github.com/BruksfildServices01/services-booking/internal/httpresp"
	"github.com/BruksfildServices01/services-booking/internal/metrics"
	"github.com/BruksfildServices01/services-booking/internal/middleware"
	"github.com/BruksfildServices01/services-booking/internal/models"
	"github.com/BruksfildServices01/services-booking/internal/notify"
	"github.com/BruksfildServices01/services-booking/internal/validators"
)

type Mailer interface {
	Dispatch(msg notify.Message)
}

// LeadHandler serves request-quote and join-us submissions.
type LeadHandler struct {
	db       *gorm.DB
	mailer   Mailer
	operator string
	audit    audit.Recorder

	// domains rejects emails whose domain cannot receive mail. Nil skips
	// the lookup.
	domains validators.Resolver
}

func NewLeadHandler(
	db *gorm.DB,
	mailer Mailer,
	operator string,
	audit audit.Recorder,
	domains validators.Resolver,
) *LeadHandler {
	return &LeadHandler{db: db, mailer: mailer, operator: operator, audit: audit, domains: domains}
}

// --------- Requests ---------

type CreateQuoteRequest struct {
	FirstName       string `json:"firstName" validate:"required,max=100"`
	LastName        string `json:"lastName" validate:"required,max=100"`
	Mobile          string `json:"mobile" validate:"required,mobile"`
	Email           string `json:"email" validate:"required,email"`
	Location        string `json:"location" validate:"required,max=255"`
	ReasonOfInquiry string `json:"reasonOfInquiry" validate:"required,max=255"`
	Message         string `json:"message" validate:"required"`
}

type JoinUsRequest struct {
	Name      string `json:"name" validate:"required,min=3,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Mobile    string `json:"mobile" validate:"required,mobile"`
	AboutYou  string `json:"aboutYou" validate:"required"`
	WhyJoinUs string `json:"whyJoinUs" validate:"required"`
	Resume    string `json:"resume" validate:"required,url"`
}

type QuoteStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending completed cancelled"`
}

type JoinUsStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending rejected completed"`
}

func (h *LeadHandler) checkDomain(c *gin.Context, email string) error {
	if h.domains == nil || validators.EmailDomainResolves(c.Request.Context(), h.domains, email) {
		return nil
	}
	return httperr.Fields([]httperr.FieldError{{Field: "email", Message: "domain does not accept mail"}})
}

func (h *LeadHandler) send(c *gin.Context, msg notify.Message, err error) {
	if err != nil {
		zerolog.Ctx(c.Request.Context()).Warn().Err(err).Msg("render lead email")
		return
	}
	h.mailer.Dispatch(msg)
}

// ======================================================
// REQUEST QUOTE
// ======================================================

func (h *LeadHandler) CreateQuote(c *gin.Context) {
	var req CreateQuoteRequest
	if !bindJSON(c, &req) {
		return
	}

	db := h.db.WithContext(c.Request.Context())
	email := normalizeEmail(req.Email)
	mobile := strings.TrimSpace(req.Mobile)
	if err := h.checkDomain(c, email); err != nil {
		httperr.Respond(c, err)
		return
	}

	var pending int64
	if err := db.Model(&models.RequestQuote{}).
		Where("email = ? AND mobile = ? AND status = ?", email, mobile, models.LeadPending).
		Count(&pending).Error; err != nil {
		httperr.Respond(c, err)
		return
	}
	if pending > 0 {
		httperr.Respond(c, httperr.Validation("quote_pending", "a request with this email and mobile is already pending"))
		return
	}

	q := models.RequestQuote{
		FirstName:       strings.TrimSpace(req.FirstName),
		LastName:        strings.TrimSpace(req.LastName),
		Mobile:          mobile,
		Email:           email,
		Location:        strings.TrimSpace(req.Location),
		ReasonOfInquiry: strings.TrimSpace(req.ReasonOfInquiry),
		Message:         strings.TrimSpace(req.Message),
		Status:          models.LeadPending,
	}
	if err := db.Create(&q).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	metrics.IncLeadCreated("request_quote")
	if h.operator != "" {
		msg, err := notify.QuoteReceived(h.operator, &q)
		h.send(c, msg, err)
	}

	httpresp.Created(c, q)
}

func (h *LeadHandler) ListQuotes(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).Order("created_at DESC, id DESC")
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var quotes []models.RequestQuote
	if err := q.Find(&quotes).Error; err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, quotes)
}

func (h *LeadHandler) PendingQuotes(c *gin.Context) {
	var quotes []models.RequestQuote
	if err := h.db.WithContext(c.Request.Context()).
		Where("status = ?", models.LeadPending).
		Order("created_at DESC, id DESC").
		Find(&quotes).Error; err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, quotes)
}

func (h *LeadHandler) UpdateQuoteStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req QuoteStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	var q models.RequestQuote
	if err := h.updateStatus(c, &q, id, req.Status, "request_quote"); err != nil {
		httperr.Respond(c, notFoundAs(err, "quote_not_found", "request quote not found"))
		return
	}
	httpresp.OK(c, q)
}

// ======================================================
// JOIN US
// ======================================================

func (h *LeadHandler) ApplyJoinUs(c *gin.Context) {
	var req JoinUsRequest
	if !bindJSON(c, &req) {
		return
	}

	email := normalizeEmail(req.Email)
	if err := h.checkDomain(c, email); err != nil {
		httperr.Respond(c, err)
		return
	}

	j := models.JoinUs{
		Name:      strings.TrimSpace(req.Name),
		Email:     email,
		Mobile:    strings.TrimSpace(req.Mobile),
		AboutYou:  strings.TrimSpace(req.AboutYou),
		WhyJoinUs: strings.TrimSpace(req.WhyJoinUs),
		Resume:    req.Resume,
		Status:    models.LeadPending,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&j).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	metrics.IncLeadCreated("join_us")
	if h.operator != "" {
		msg, err := notify.JoinUsReceived(h.operator, &j)
		h.send(c, msg, err)
	}

	httpresp.Created(c, j)
}

// ListJoinUs defaults to pending applications.
func (h *LeadHandler) ListJoinUs(c *gin.Context) {
	h.listJoinUs(c, c.DefaultQuery("status", models.LeadPending))
}

func (h *LeadHandler) PendingJoinUs(c *gin.Context) {
	h.listJoinUs(c, models.LeadPending)
}

func (h *LeadHandler) listJoinUs(c *gin.Context, status string) {
	var apps []models.JoinUs
	if err := h.db.WithContext(c.Request.Context()).
		Where("status = ?", status).
		Order("created_at DESC, id DESC").
		Find(&apps).Error; err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, apps)
}

func (h *LeadHandler) UpdateJoinUsStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req JoinUsStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	var j models.JoinUs
	if err := h.updateStatus(c, &j, id, req.Status, "join_us"); err != nil {
		httperr.Respond(c, notFoundAs(err, "application_not_found", "join us application not found"))
		return
	}
	httpresp.OK(c, j)
}

// updateStatus loads the lead with id into dst and sets its status.
func (h *LeadHandler) updateStatus(c *gin.Context, dst any, id uint, status, entity string) error {
	db := h.db.WithContext(c.Request.Context())
	if err := db.First(dst, id).Error; err != nil {
		return err
	}
	if err := db.Model(dst).Update("status", status).Error; err != nil {
		return err
	}
	if err := db.First(dst, id).Error; err != nil {
		return err
	}

	h.audit.Dispatch(audit.Event{
		Actor:    middleware.AuthFrom(c),
		Action:   entity + "_status_changed",
		Entity:   entity,
		EntityID: &id,
		Metadata: map[string]string{"to": status},
	})
	return nil
}
