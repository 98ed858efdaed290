package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/services-booking/internal/config"
	"github.com/BruksfildServices01/services-booking/internal/domain/auth"
	"github.com/BruksfildServices01/services-booking/internal/httperr"
	"github.com/BruksfildServices01/services-booking/internal/httpresp"
	"github.com/BruksfildServices01/services-booking/internal/middleware"
	"github.com/BruksfildServices01/services-booking/internal/models"
)

type UserHandler struct {
	db     *gorm.DB
	config *config.Config
}

func NewUserHandler(db *gorm.DB, cfg *config.Config) *UserHandler {
	return &UserHandler{db: db, config: cfg}
}

// --------- Requests ---------

type RegisterUserRequest struct {
	Name     string `json:"name" validate:"required,min=3,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Mobile   string `json:"mobile" validate:"required,mobile"`
	Password string `json:"password" validate:"required,min=6,password"`
	Address  string `json:"address" validate:"omitempty,max=255"`
	Pincode  string `json:"pincode" validate:"omitempty,pincode"`
}

type UserLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *UserHandler) token(u *models.User) (string, error) {
	return middleware.IssueToken(h.config.JWTSecret, h.config.JWTTTL, auth.Context{
		SubjectID: u.ID,
		Kind:      auth.KindUser,
	})
}

// --------- Handlers ---------

func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterUserRequest
	if !bindJSON(c, &req) {
		return
	}

	db := h.db.WithContext(c.Request.Context())
	email := normalizeEmail(req.Email)
	mobile := strings.TrimSpace(req.Mobile)

	var fields []httperr.FieldError
	for _, dup := range []struct {
		column, value, field, msg string
	}{
		{"email", email, "email", "email already in use"},
		{"mobile", mobile, "mobile", "mobile number already in use"},
	} {
		var n int64
		if err := db.Model(&models.User{}).Where(dup.column+" = ?", dup.value).Count(&n).Error; err != nil {
			httperr.Respond(c, err)
			return
		}
		if n > 0 {
			fields = append(fields, httperr.FieldError{Field: dup.field, Message: dup.msg})
		}
	}
	if err := httperr.Fields(fields); err != nil {
		httperr.Respond(c, err)
		return
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	user := models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		Mobile:       mobile,
		Address:      req.Address,
		Pincode:      req.Pincode,
		PasswordHash: hash,
		Status:       models.StatusActive,
	}
	if err := db.Create(&user).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			err = httperr.Validation("duplicate_mobile", "mobile number already in use")
		}
		httperr.Respond(c, err)
		return
	}

	token, err := h.token(&user)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, AuthResponse[models.User]{Token: token, Subject: user})
}

func (h *UserHandler) Login(c *gin.Context) {
	var req UserLoginRequest
	if !bindJSON(c, &req) {
		return
	}

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).
		Where("email = ?", normalizeEmail(req.Email)).
		First(&user).Error; err != nil {
		httperr.Respond(c, notFoundAs(err, "user_not_found", "account not found"))
		return
	}

	if user.Status != models.StatusActive {
		httperr.Respond(c, httperr.Forbidden("user_inactive", "account is not active"))
		return
	}
	if err := checkPassword(user.PasswordHash, req.Password, "invalid_credentials"); err != nil {
		httperr.Respond(c, err)
		return
	}

	token, err := h.token(&user)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, AuthResponse[models.User]{Token: token, Subject: user})
}

func (h *UserHandler) GetMe(c *gin.Context) {
	httpresp.OK(c, c.MustGet(middleware.ContextUser).(*models.User))
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	user := c.MustGet(middleware.ContextUser).(*models.User)
	if err := checkPassword(user.PasswordHash, req.OldPassword, "invalid_password"); err != nil {
		httperr.Respond(c, err)
		return
	}

	hash, err := hashPassword(req.NewPassword)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if err := h.db.WithContext(c.Request.Context()).
		Model(user).
		Update("password_hash", hash).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Message(c, http.StatusOK, "password updated")
}
