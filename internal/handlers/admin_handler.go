package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/services-booking/internal/audit"
	"github.com/BruksfildServices01/services-booking/internal/config"
	"github.com/BruksfildServices01/services-booking/internal/domain/auth"
	"github.com/BruksfildServices01/services-booking/internal/httperr"
	"github.com/BruksfildServices01/services-booking/internal/httpresp"
	"github.com/BruksfildServices01/services-booking/internal/middleware"
	"github.com/BruksfildServices01/services-booking/internal/models"
)

type AdminHandler struct {
	db     *gorm.DB
	config *config.Config
	audit  audit.Recorder
}

func NewAdminHandler(db *gorm.DB, cfg *config.Config, audit audit.Recorder) *AdminHandler {
	return &AdminHandler{db: db, config: cfg, audit: audit}
}

// --------- Requests ---------

type RegisterAdminRequest struct {
	Name       string `json:"name" validate:"required,min=3,max=100"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,password"`
	Mobile     string `json:"mobile" validate:"omitempty,mobile"`
	Permission string `json:"permission" validate:"omitempty,oneof=all read"`
}

type AdminLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateRoleRequest struct {
	Email      string  `json:"email" validate:"required,email"`
	Status     *string `json:"status" validate:"omitempty,oneof=active inactive"`
	Permission *string `json:"permission" validate:"omitempty,oneof=all read"`
}

type AuthResponse[T any] struct {
	Token   string `json:"token"`
	Subject T      `json:"data"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func currentAdmin(c *gin.Context) *models.Admin {
	return c.MustGet(middleware.ContextAdmin).(*models.Admin)
}

// --------- Handlers ---------

// Register creates an admin. While no admin exists anyone may register
// and gets permission "all"; afterwards the caller must be an active admin
// with permission "all".
func (h *AdminHandler) Register(c *gin.Context) {
	var req RegisterAdminRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	db := h.db.WithContext(ctx)

	var admins int64
	if err := db.Model(&models.Admin{}).Count(&admins).Error; err != nil {
		httperr.Respond(c, err)
		return
	}
	if admins > 0 {
		if err := h.requireMutatingAdmin(ctx, middleware.AuthFrom(c)); err != nil {
			httperr.Respond(c, err)
			return
		}
	}

	email := normalizeEmail(req.Email)

	var taken int64
	if err := db.Model(&models.Admin{}).Where("email = ?", email).Count(&taken).Error; err != nil {
		httperr.Respond(c, err)
		return
	}
	if taken > 0 {
		httperr.Respond(c, httperr.Validation("duplicate_email", "email already in use"))
		return
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	perm := req.Permission
	switch {
	case admins == 0:
		// The bootstrap admin must be able to create the others.
		perm = string(auth.PermissionAll)
	case perm == "":
		perm = string(auth.PermissionRead)
	}

	admin := models.Admin{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hash,
		Mobile:       req.Mobile,
		Permission:   perm,
		Status:       models.StatusActive,
	}
	if err := db.Create(&admin).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			err = httperr.Validation("duplicate_email", "email already in use")
		}
		httperr.Respond(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		Actor:    middleware.AuthFrom(c),
		Action:   "admin_registered",
		Entity:   "admin",
		EntityID: &admin.ID,
		Metadata: map[string]string{"permission": admin.Permission},
	})

	httpresp.Created(c, admin)
}

func (h *AdminHandler) requireMutatingAdmin(ctx context.Context, a auth.Context) error {
	if a.Kind != auth.KindAdmin {
		return httperr.UnauthorizedErr("admin_required", "an admin token is required to register admins")
	}

	var caller models.Admin
	if err := h.db.WithContext(ctx).First(&caller, a.SubjectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return httperr.UnauthorizedErr("admin_not_found", "admin no longer exists")
		}
		return err
	}
	if caller.Status != models.StatusActive || caller.Permission != string(auth.PermissionAll) {
		return httperr.Forbidden("insufficient_permission", "permission 'all' is required")
	}
	return nil
}

func (h *AdminHandler) Login(c *gin.Context) {
	var req AdminLoginRequest
	if !bindJSON(c, &req) {
		return
	}

	var admin models.Admin
	if err := h.db.WithContext(c.Request.Context()).
		Where("email = ?", normalizeEmail(req.Email)).
		First(&admin).Error; err != nil {
		httperr.Respond(c, notFoundAs(err, "admin_not_found", "account not found"))
		return
	}

	if admin.Status != models.StatusActive {
		httperr.Respond(c, httperr.Forbidden("admin_inactive", "account is not active"))
		return
	}
	if err := checkPassword(admin.PasswordHash, req.Password, "invalid_credentials"); err != nil {
		httperr.Respond(c, err)
		return
	}

	token, err := middleware.IssueToken(h.config.JWTSecret, h.config.JWTTTL, auth.Context{
		SubjectID:  admin.ID,
		Kind:       auth.KindAdmin,
		Permission: auth.Permission(admin.Permission),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, AuthResponse[models.Admin]{Token: token, Subject: admin})
}

func (h *AdminHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	admin := currentAdmin(c)
	if err := checkPassword(admin.PasswordHash, req.OldPassword, "invalid_password"); err != nil {
		httperr.Respond(c, err)
		return
	}

	hash, err := hashPassword(req.NewPassword)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if err := h.db.WithContext(c.Request.Context()).
		Model(admin).
		Update("password_hash", hash).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Message(c, http.StatusOK, "password updated")
}

func (h *AdminHandler) UpdateRole(c *gin.Context) {
	var req UpdateRoleRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Status == nil && req.Permission == nil {
		httperr.Respond(c, httperr.Validation("nothing_to_update", "status or permission is required"))
		return
	}

	db := h.db.WithContext(c.Request.Context())

	var admin models.Admin
	if err := db.Where("email = ?", normalizeEmail(req.Email)).First(&admin).Error; err != nil {
		httperr.Respond(c, notFoundAs(err, "admin_not_found", "admin not found"))
		return
	}

	before := map[string]string{"status": admin.Status, "permission": admin.Permission}
	updates := map[string]any{}
	if req.Status != nil {
		updates["status"] = *req.Status
		admin.Status = *req.Status
	}
	if req.Permission != nil {
		updates["permission"] = *req.Permission
		admin.Permission = *req.Permission
	}

	if err := db.Model(&admin).Updates(updates).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		Actor:    middleware.AuthFrom(c),
		Action:   "admin_role_updated",
		Entity:   "admin",
		EntityID: &admin.ID,
		Metadata: map[string]any{"before": before, "after": updates},
	})

	httpresp.OK(c, admin)
}

func (h *AdminHandler) GetMe(c *gin.Context) {
	httpresp.OK(c, currentAdmin(c))
}

func (h *AdminHandler) GetAll(c *gin.Context) {
	var admins []models.Admin
	if err := h.db.WithContext(c.Request.Context()).Order("id ASC").Find(&admins).Error; err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, admins)
}

func (h *AdminHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if id == currentAdmin(c).ID {
		httperr.Respond(c, httperr.InvalidState("cannot_delete_self", "you cannot delete your own account"))
		return
	}

	res := h.db.WithContext(c.Request.Context()).Delete(&models.Admin{}, id)
	if res.Error != nil {
		httperr.Respond(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		httperr.Respond(c, httperr.NotFoundErr("admin_not_found", "admin not found"))
		return
	}

	h.audit.Dispatch(audit.Event{
		Actor:    middleware.AuthFrom(c),
		Action:   "admin_deleted",
		Entity:   "admin",
		EntityID: &id,
	})

	httpresp.Message(c, http.StatusOK, "admin deleted")
}
