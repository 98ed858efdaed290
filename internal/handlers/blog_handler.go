package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/services-booking/internal/audit"
	"github.com/BruksfildServices01/services-booking/internal/httperr"
	"github.com/BruksfildServices01/services-booking/internal/httpresp"
	"github.com/BruksfildServices01/services-booking/internal/infra/storage"
	"github.com/BruksfildServices01/services-booking/internal/middleware"
	"github.com/BruksfildServices01/services-booking/internal/models"
	"github.com/BruksfildServices01/services-booking/internal/slug"
	"github.com/BruksfildServices01/services-booking/internal/validators"
)

type BlogHandler struct {
	db    *gorm.DB
	store storage.ObjectStore
	audit audit.Recorder
}

func NewBlogHandler(db *gorm.DB, store storage.ObjectStore, audit audit.Recorder) *BlogHandler {
	return &BlogHandler{db: db, store: store, audit: audit}
}

// --------- Requests (multipart) ---------

type CreateBlogRequest struct {
	Title       string `form:"title" validate:"required,min=3,max=150"`
	Content     string `form:"content" validate:"required"`
	Author      string `form:"author" validate:"omitempty,max=100"`
	Status      string `form:"status" validate:"omitempty,oneof=active inactive"`
	PublishDate string `form:"publishDate"`
	Categories  string `form:"categories"`
	Tags        string `form:"tags"`
}

type UpdateBlogRequest struct {
	Title       *string `form:"title" validate:"omitempty,min=3,max=150"`
	Content     *string `form:"content" validate:"omitempty,min=1"`
	Author      *string `form:"author" validate:"omitempty,max=100"`
	Status      *string `form:"status" validate:"omitempty,oneof=active inactive"`
	PublishDate *string `form:"publishDate"`
	Categories  *string `form:"categories"`
	Tags        *string `form:"tags"`
}

func bindForm(c *gin.Context, dst any) bool {
	if err := c.ShouldBind(dst); err != nil {
		httperr.BadRequest(c, "invalid_request", "request must be multipart/form-data")
		return false
	}
	if err := validators.Struct(dst); err != nil {
		httperr.Respond(c, err)
		return false
	}
	return true
}

// splitList reads "a, b,c" into trimmed, non-empty items.
func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parsePublishDate(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, httperr.Fields([]httperr.FieldError{{Field: "publishDate", Message: "must be a date in YYYY-MM-DD or RFC3339 format"}})
	}
	return t, nil
}

func duplicateBlogTitle() error {
	return httperr.Validation("duplicate_title", "a blog with this title already exists")
}

// --------- Thumbnail ---------

// uploadThumbnail reads the "thumbnail" file, re-encodes it as WebP and
// stores it. required controls whether a missing file is an error.
func (h *BlogHandler) uploadThumbnail(c *gin.Context, required bool) (url, key string, err error) {
	fh, err := c.FormFile("thumbnail")
	if err != nil {
		if required {
			return "", "", httperr.Fields([]httperr.FieldError{{Field: "thumbnail", Message: "is required"}})
		}
		return "", "", nil
	}
	if fh.Size > storage.MaxUploadBytes {
		return "", "", httperr.Validation("file_too_large", fmt.Sprintf("thumbnail must be at most %d MB", storage.MaxUploadBytes>>20))
	}

	f, err := fh.Open()
	if err != nil {
		return "", "", err
	}
	defer f.Close()

	raw, err := io.ReadAll(io.LimitReader(f, storage.MaxUploadBytes+1))
	if err != nil {
		return "", "", err
	}

	img, err := storage.NormalizeImage(raw, storage.ThumbnailWidth)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedImage) {
			return "", "", httperr.Validation("unsupported_image", err.Error())
		}
		return "", "", err
	}

	key = "blogs/" + uuid.NewString() + ".webp"
	url, err = h.store.Put(c.Request.Context(), key, "image/webp", img)
	if errors.Is(err, storage.ErrDisabled) {
		return "", "", httperr.InvalidState("storage_disabled", "file uploads are not configured")
	}
	if err != nil {
		return "", "", fmt.Errorf("upload thumbnail: %w", err)
	}
	return url, key, nil
}

func (h *BlogHandler) removeObject(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := h.store.Delete(ctx, key); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("delete blog thumbnail")
	}
}

// uniqueSlug derives a slug from title, suffixing -2, -3 ... on clashes.
func uniqueSlug(db *gorm.DB, title string, exceptID uint) (string, error) {
	base := slug.Make(title)
	if base == "" {
		base = "post"
	}

	candidate := base
	for i := 2; ; i++ {
		var n int64
		if err := db.Model(&models.Blog{}).
			Where("slug = ? AND id <> ?", candidate, exceptID).
			Count(&n).Error; err != nil {
			return "", err
		}
		if n == 0 {
			return candidate, nil
		}
		candidate = base + "-" + strconv.Itoa(i)
	}
}

func (h *BlogHandler) titleTaken(db *gorm.DB, title string, exceptID uint) (bool, error) {
	var n int64
	err := db.Model(&models.Blog{}).Where("title = ? AND id <> ?", title, exceptID).Count(&n).Error
	return n > 0, err
}

// --------- Admin ---------

func (h *BlogHandler) Create(c *gin.Context) {
	var req CreateBlogRequest
	if !bindForm(c, &req) {
		return
	}

	ctx := c.Request.Context()
	db := h.db.WithContext(ctx)
	title := strings.TrimSpace(req.Title)

	publish, err := parsePublishDate(req.PublishDate)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	taken, err := h.titleTaken(db, title, 0)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if taken {
		httperr.Respond(c, duplicateBlogTitle())
		return
	}

	blogSlug, err := uniqueSlug(db, title, 0)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	url, key, err := h.uploadThumbnail(c, true)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	status := req.Status
	if status == "" {
		status = models.StatusActive
	}

	blog := models.Blog{
		ThumbnailURL: url,
		ThumbnailKey: key,
		Title:        title,
		Slug:         blogSlug,
		PublishDate:  publish,
		Status:       status,
		Content:      req.Content,
		Author:       strings.TrimSpace(req.Author),
		Categories:   splitList(req.Categories),
		Tags:         splitList(req.Tags),
	}
	if err := db.Create(&blog).Error; err != nil {
		h.removeObject(ctx, key)
		if httperr.IsUniqueViolation(err) {
			err = duplicateBlogTitle()
		}
		httperr.Respond(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		Actor:    middleware.AuthFrom(c),
		Action:   "blog_created",
		Entity:   "blog",
		EntityID: &blog.ID,
	})

	httpresp.Created(c, blog)
}

func (h *BlogHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req UpdateBlogRequest
	if !bindForm(c, &req) {
		return
	}

	ctx := c.Request.Context()
	db := h.db.WithContext(ctx)

	var blog models.Blog
	if err := db.First(&blog, id).Error; err != nil {
		httperr.Respond(c, notFoundAs(err, "blog_not_found", "blog not found"))
		return
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		taken, err := h.titleTaken(db, title, blog.ID)
		if err != nil {
			httperr.Respond(c, err)
			return
		}
		if taken {
			httperr.Respond(c, duplicateBlogTitle())
			return
		}
		if title != blog.Title {
			blogSlug, err := uniqueSlug(db, title, blog.ID)
			if err != nil {
				httperr.Respond(c, err)
				return
			}
			blog.Title, blog.Slug = title, blogSlug
		}
	}
	if req.Content != nil {
		blog.Content = *req.Content
	}
	if req.Author != nil {
		blog.Author = strings.TrimSpace(*req.Author)
	}
	if req.Status != nil {
		blog.Status = *req.Status
	}
	if req.PublishDate != nil {
		publish, err := parsePublishDate(*req.PublishDate)
		if err != nil {
			httperr.Respond(c, err)
			return
		}
		blog.PublishDate = publish
	}
	if req.Categories != nil {
		blog.Categories = splitList(*req.Categories)
	}
	if req.Tags != nil {
		blog.Tags = splitList(*req.Tags)
	}

	url, key, err := h.uploadThumbnail(c, false)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	oldKey := ""
	if key != "" {
		oldKey = blog.ThumbnailKey
		blog.ThumbnailURL, blog.ThumbnailKey = url, key
	}

	if err := db.Save(&blog).Error; err != nil {
		h.removeObject(ctx, key)
		if httperr.IsUniqueViolation(err) {
			err = duplicateBlogTitle()
		}
		httperr.Respond(c, err)
		return
	}
	h.removeObject(ctx, oldKey)

	h.audit.Dispatch(audit.Event{
		Actor:    middleware.AuthFrom(c),
		Action:   "blog_updated",
		Entity:   "blog",
		EntityID: &blog.ID,
	})

	httpresp.OK(c, blog)
}

func (h *BlogHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	db := h.db.WithContext(ctx)

	var blog models.Blog
	if err := db.First(&blog, id).Error; err != nil {
		httperr.Respond(c, notFoundAs(err, "blog_not_found", "blog not found"))
		return
	}
	if err := db.Delete(&blog).Error; err != nil {
		httperr.Respond(c, err)
		return
	}
	h.removeObject(ctx, blog.ThumbnailKey)

	h.audit.Dispatch(audit.Event{
		Actor:    middleware.AuthFrom(c),
		Action:   "blog_deleted",
		Entity:   "blog",
		EntityID: &blog.ID,
		Metadata: map[string]string{"title": blog.Title},
	})

	httpresp.Message(c, http.StatusOK, "blog deleted")
}

func (h *BlogHandler) ListAdmin(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).Order("publish_date DESC, id DESC")
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var blogs []models.Blog
	if err := q.Find(&blogs).Error; err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, blogs)
}

func (h *BlogHandler) GetAdmin(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var blog models.Blog
	if err := h.db.WithContext(c.Request.Context()).First(&blog, id).Error; err != nil {
		httperr.Respond(c, notFoundAs(err, "blog_not_found", "blog not found"))
		return
	}
	httpresp.OK(c, blog)
}

// --------- Public ---------

func (h *BlogHandler) ListPublic(c *gin.Context) {
	var blogs []models.Blog
	if err := h.db.WithContext(c.Request.Context()).
		Where("status = ?", models.StatusActive).
		Order("publish_date DESC, id DESC").
		Find(&blogs).Error; err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, blogs)
}

// GetPublic accepts a numeric id or a slug and counts the view.
func (h *BlogHandler) GetPublic(c *gin.Context) {
	ref := c.Param("id")
	db := h.db.WithContext(c.Request.Context())

	q := db.Where("status = ?", models.StatusActive)
	if id, err := strconv.ParseUint(ref, 10, 64); err == nil {
		q = q.Where("id = ?", id)
	} else {
		q = q.Where("slug = ?", ref)
	}

	var blog models.Blog
	if err := q.First(&blog).Error; err != nil {
		httperr.Respond(c, notFoundAs(err, "blog_not_found", "blog not found"))
		return
	}

	if err := db.Model(&models.Blog{}).
		Where("id = ?", blog.ID).
		UpdateColumn("views", gorm.Expr("views + 1")).Error; err != nil {
		httperr.Respond(c, err)
		return
	}
	blog.Views++

	httpresp.OK(c, blog)
}
