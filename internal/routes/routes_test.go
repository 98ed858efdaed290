package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/services-booking/internal/audit"
	"github.com/BruksfildServices01/services-booking/internal/config"
	"github.com/BruksfildServices01/services-booking/internal/export"
	"github.com/BruksfildServices01/services-booking/internal/httperr"
	"github.com/BruksfildServices01/services-booking/internal/infra/lock"
	"github.com/BruksfildServices01/services-booking/internal/models"
	"github.com/BruksfildServices01/services-booking/internal/notify"
	"github.com/BruksfildServices01/services-booking/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type captureMailer struct {
	mu   sync.Mutex
	sent []notify.Message
}

func (c *captureMailer) Dispatch(msg notify.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, msg)
}

type captureAudit struct {
	mu      sync.Mutex
	actions []string
}

func (c *captureAudit) Dispatch(ev audit.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.actions = append(c.actions, ev.Action)
}

type testAPI struct {
	t      *testing.T
	r      *gin.Engine
	db     *gorm.DB
	store  *testutil.MemoryStore
	mailer *captureMailer
	audit  *captureAudit
}

func newAPI(t *testing.T) *testAPI {
	t.Helper()

	cfg := &config.Config{
		JWTSecret:     "test-secret",
		JWTTTL:        time.Hour,
		OperatorEmail: "ops@example.com",
	}
	cfg.RateLimit.RPS = 1000
	cfg.RateLimit.Burst = 1000

	a := &testAPI{
		t:      t,
		r:      gin.New(),
		db:     testutil.NewDB(t),
		store:  testutil.NewMemoryStore(),
		mailer: &captureMailer{},
		audit:  &captureAudit{},
	}

	RegisterRoutes(a.r, Deps{
		DB:       a.db,
		Config:   cfg,
		Logger:   zerolog.New(io.Discard),
		Location: time.UTC,
		Locker:   lock.NewLocalLocker(time.Second),
		Audit:    a.audit,
		Mailer:   a.mailer,
		Store:    a.store,
	})
	return a
}

func (a *testAPI) send(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.r.ServeHTTP(w, req)
	return w
}

func (a *testAPI) json(method, path string, body any, token string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	return a.send(req, token)
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

type authResponse struct {
	Token string `json:"token"`
}

// bootstrapAdmin registers the first admin and logs in. The first admin
// always gets full access.
func (a *testAPI) bootstrapAdmin() string {
	w := a.json(http.MethodPost, "/api/v1/admin/register", map[string]any{
		"name": "Root Admin", "email": "root@example.com", "password": "Secret1!", "permission": "read",
	}, "")
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	return a.login("root@example.com", "Secret1!")
}

func (a *testAPI) login(email, password string) string {
	w := a.json(http.MethodPost, "/api/v1/admin/login", map[string]any{"email": email, "password": password}, "")
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
	return decode[authResponse](a.t, w).Token
}

// nextMonday is at least a week ahead so it never counts as past.
func nextMonday() string {
	d := time.Now().UTC().AddDate(0, 0, 7)
	for d.Weekday() != time.Monday {
		d = d.AddDate(0, 0, 1)
	}
	return d.Format("2006-01-02")
}

func (a *testAPI) createHaircut(token string) uint {
	w := a.json(http.MethodPost, "/api/v1/service/create", map[string]any{
		"title":        "Haircut",
		"description":  "A classic haircut with wash",
		"slotDuration": 30,
		"price":        20,
		"days": []map[string]any{
			{"name": "Monday", "openingTiming": "09:00", "closeTiming": "12:00"},
		},
	}, token)
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[models.Service](a.t, w).ID
}

func bookingBody(serviceID uint, date, at string, minutes int) map[string]any {
	return map[string]any{
		"serviceId": serviceID, "bookingDate": date, "bookingTime": at, "bookedDuration": minutes,
		"name": "Asha", "email": "asha@example.com", "mobile": "9999999999",
		"address": "1 Main St", "city": "Pune", "pincode": "411001", "country": "India",
	}
}

// ======================================================
// BOOKING
// ======================================================

func TestBookingFlow(t *testing.T) {
	a := newAPI(t)
	token := a.bootstrapAdmin()
	svcID := a.createHaircut(token)
	date := nextMonday()
	slotsURL := fmt.Sprintf("/api/v1/booking/available-slots?serviceId=%d&date=%s", svcID, date)

	w := a.json(http.MethodGet, slotsURL, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	slots := decode[map[string]any](t, w)
	assert.Equal(t, date, slots["selectedDate"])
	assert.Len(t, slots["availableSlots"], 6)

	w = a.json(http.MethodPost, "/api/v1/booking/create-booking", bookingBody(svcID, date, "09:00", 60), "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	booking := decode[models.Booking](t, w)
	assert.Equal(t, "pending", booking.Status)
	assert.Equal(t, 40.0, booking.TotalPrice)
	assert.Len(t, a.mailer.sent, 1)

	w = a.json(http.MethodPost, "/api/v1/booking/create-booking", bookingBody(svcID, date, "09:30", 30), "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "slot_conflict", decode[httperr.HTTPError](t, w).Code)

	w = a.json(http.MethodGet, slotsURL, nil, "")
	assert.Equal(t, []any{"10:00", "10:30", "11:00", "11:30"}, decode[map[string]any](t, w)["availableSlots"])

	// admin views
	w = a.json(http.MethodGet, "/api/v1/booking/bookings?status=pending", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[map[string]any](t, w)
	assert.EqualValues(t, 1, page["total"])

	w = a.json(http.MethodGet, fmt.Sprintf("/api/v1/booking/booking/%d", booking.ID), nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Haircut", decode[models.Booking](t, w).Service.Title)

	w = a.json(http.MethodGet, "/api/v1/booking/bookings", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = a.json(http.MethodGet, "/api/v1/booking/bookings/export", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, export.ContentTypeXLSX, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")

	// cancel frees the slot
	statusURL := fmt.Sprintf("/api/v1/booking/update-booking-status/%d", booking.ID)
	w = a.json(http.MethodPatch, statusURL, map[string]any{"status": "archived"}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.json(http.MethodPatch, statusURL, map[string]any{"status": "cancelled"}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = a.json(http.MethodGet, slotsURL, nil, "")
	assert.Len(t, decode[map[string]any](t, w)["availableSlots"], 6)

	assert.Contains(t, a.audit.actions, "booking_created")
	assert.Contains(t, a.audit.actions, "booking_status_changed")
}

func TestCreateBookingValidationEnvelope(t *testing.T) {
	a := newAPI(t)

	w := a.json(http.MethodPost, "/api/v1/booking/create-booking", map[string]any{"serviceId": 1}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decode[httperr.HTTPError](t, w)
	assert.Equal(t, "validation_error", body.Code)
	fields := map[string]bool{}
	for _, f := range body.Errors {
		fields[f.Field] = true
	}
	assert.True(t, fields["bookingDate"])
	assert.True(t, fields["email"])

	huge := bookingBody(1, nextMonday(), "09:00", 30)
	huge["bookedDuration"] = int64(9223372036854775800)
	w = a.json(http.MethodPost, "/api/v1/booking/create-booking", huge, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "bookedDuration", decode[httperr.HTTPError](t, w).Errors[0].Field)

	w = a.json(http.MethodGet, "/api/v1/booking/available-slots?date=2030-01-01", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.json(http.MethodPost, "/api/v1/booking/create-booking", bookingBody(42, nextMonday(), "09:00", 30), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReadOnlyAdminCannotMutate(t *testing.T) {
	a := newAPI(t)
	root := a.bootstrapAdmin()

	w := a.json(http.MethodPost, "/api/v1/admin/register", map[string]any{
		"name": "Viewer", "email": "viewer@example.com", "password": "Secret1!", "permission": "read",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code, "only the first admin may self-register")

	w = a.json(http.MethodPost, "/api/v1/admin/register", map[string]any{
		"name": "Viewer", "email": "viewer@example.com", "password": "Secret1!", "permission": "read",
	}, root)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	viewer := a.login("viewer@example.com", "Secret1!")

	w = a.json(http.MethodPost, "/api/v1/service/create", map[string]any{}, viewer)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = a.json(http.MethodGet, "/api/v1/admin/get-all-admin", nil, viewer)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, decode[map[string]any](t, w)["total"])

	// promotion takes effect without a new token
	w = a.json(http.MethodPut, "/api/v1/admin/update-role", map[string]any{"email": "viewer@example.com", "permission": "all"}, root)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	a.createHaircut(viewer)
}

// ======================================================
// ADMIN / USER
// ======================================================

func TestAdminAccount(t *testing.T) {
	a := newAPI(t)
	root := a.bootstrapAdmin()

	w := a.json(http.MethodPost, "/api/v1/admin/login", map[string]any{"email": "root@example.com", "password": "wrong"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = a.json(http.MethodPost, "/api/v1/admin/login", map[string]any{"email": "nobody@example.com", "password": "x"}, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = a.json(http.MethodGet, "/api/v1/admin/get-me", nil, root)
	require.Equal(t, http.StatusOK, w.Code)
	me := decode[models.Admin](t, w)
	assert.Equal(t, "root@example.com", me.Email)
	assert.NotContains(t, w.Body.String(), "password")

	w = a.json(http.MethodPatch, "/api/v1/admin/change-password", map[string]any{"oldPassword": "Secret1!", "newPassword": "Secret1!"}, root)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = a.json(http.MethodPatch, "/api/v1/admin/change-password", map[string]any{"oldPassword": "nope", "newPassword": "Better2@"}, root)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = a.json(http.MethodPatch, "/api/v1/admin/change-password", map[string]any{"oldPassword": "Secret1!", "newPassword": "Better2@"}, root)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	a.login("root@example.com", "Better2@")

	w = a.json(http.MethodDelete, fmt.Sprintf("/api/v1/admin/%d", me.ID), nil, root)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.json(http.MethodGet, "/api/v1/admin/audit-logs", nil, root)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestInactiveAdminIsRejected(t *testing.T) {
	a := newAPI(t)
	root := a.bootstrapAdmin()

	w := a.json(http.MethodPost, "/api/v1/admin/register", map[string]any{
		"name": "Temp", "email": "temp@example.com", "password": "Secret1!",
	}, root)
	require.Equal(t, http.StatusCreated, w.Code)
	temp := a.login("temp@example.com", "Secret1!")

	w = a.json(http.MethodPut, "/api/v1/admin/update-role", map[string]any{"email": "temp@example.com", "status": "inactive"}, root)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, http.StatusForbidden, a.json(http.MethodGet, "/api/v1/admin/get-me", nil, temp).Code)
	w = a.json(http.MethodPost, "/api/v1/admin/login", map[string]any{"email": "temp@example.com", "password": "Secret1!"}, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUserAccount(t *testing.T) {
	a := newAPI(t)
	register := map[string]any{
		"name": "Asha Rao", "email": "asha@example.com", "mobile": "9999999999", "password": "Secret1!",
	}

	w := a.json(http.MethodPost, "/api/v1/user/register", register, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	token := decode[authResponse](t, w).Token

	w = a.json(http.MethodPost, "/api/v1/user/register", register, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Len(t, decode[httperr.HTTPError](t, w).Errors, 2)

	w = a.json(http.MethodGet, "/api/v1/user/get-me", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "9999999999", decode[models.User](t, w).Mobile)

	// a user token is not an admin token
	assert.Equal(t, http.StatusForbidden, a.json(http.MethodGet, "/api/v1/admin/get-me", nil, token).Code)

	w = a.json(http.MethodPatch, "/api/v1/user/change-password", map[string]any{"oldPassword": "Secret1!", "newPassword": "Better2@"}, token)
	require.Equal(t, http.StatusOK, w.Code)

	w = a.json(http.MethodPost, "/api/v1/user/login", map[string]any{"email": "asha@example.com", "password": "Better2@"}, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

// ======================================================
// LEADS
// ======================================================

func TestRequestQuote(t *testing.T) {
	a := newAPI(t)
	root := a.bootstrapAdmin()
	quote := map[string]any{
		"firstName": "Ravi", "lastName": "K", "mobile": "8888888888", "email": "ravi@example.com",
		"location": "Mumbai", "reasonOfInquiry": "Office cleaning", "message": "Weekly please",
	}

	w := a.json(http.MethodPost, "/api/v1/request-quote/create", quote, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[models.RequestQuote](t, w)
	require.Len(t, a.mailer.sent, 1)

	w = a.json(http.MethodPost, "/api/v1/request-quote/create", quote, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "quote_pending", decode[httperr.HTTPError](t, w).Code)

	assert.Equal(t, http.StatusUnauthorized, a.json(http.MethodGet, "/api/v1/request-quote/pending", nil, "").Code)
	w = a.json(http.MethodGet, "/api/v1/request-quote/pending", nil, root)
	assert.EqualValues(t, 1, decode[map[string]any](t, w)["total"])

	w = a.json(http.MethodPatch, fmt.Sprintf("/api/v1/request-quote/update-quote-status/%d", created.ID), map[string]any{"status": "rejected"}, root)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = a.json(http.MethodPatch, fmt.Sprintf("/api/v1/request-quote/update-quote-status/%d", created.ID), map[string]any{"status": "completed"}, root)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "completed", decode[models.RequestQuote](t, w).Status)

	// no longer pending, so the same contact may ask again
	w = a.json(http.MethodPost, "/api/v1/request-quote/create", quote, "")
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestJoinUs(t *testing.T) {
	a := newAPI(t)
	root := a.bootstrapAdmin()

	w := a.json(http.MethodPost, "/api/v1/join-us/apply", map[string]any{
		"name": "Meera", "email": "meera@example.com", "mobile": "7777777777",
		"aboutYou": "Ten years of experience", "whyJoinUs": "Growth", "resume": "https://files.example.com/cv.pdf",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	app := decode[models.JoinUs](t, w)

	w = a.json(http.MethodPatch, fmt.Sprintf("/api/v1/join-us/%d", app.ID), map[string]any{"status": "rejected"}, root)
	require.Equal(t, http.StatusOK, w.Code)

	w = a.json(http.MethodGet, "/api/v1/join-us/all-joinUs", nil, root)
	assert.EqualValues(t, 0, decode[map[string]any](t, w)["total"])
	w = a.json(http.MethodGet, "/api/v1/join-us/all-joinUs?status=rejected", nil, root)
	assert.EqualValues(t, 1, decode[map[string]any](t, w)["total"])
}

// ======================================================
// BLOG
// ======================================================

func pngFile(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 20))
	for x := 0; x < 40; x++ {
		for y := 0; y < 20; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: uint8(y * 10), B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func (a *testAPI) multipart(method, path string, fields map[string]string, file []byte, token string) *httptest.ResponseRecorder {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(a.t, mw.WriteField(k, v))
	}
	if file != nil {
		fw, err := mw.CreateFormFile("thumbnail", "thumb.png")
		require.NoError(a.t, err)
		_, err = fw.Write(file)
		require.NoError(a.t, err)
	}
	require.NoError(a.t, mw.Close())

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return a.send(req, token)
}

func TestBlogLifecycle(t *testing.T) {
	a := newAPI(t)
	root := a.bootstrapAdmin()

	w := a.multipart(http.MethodPost, "/api/v1/blog/create", map[string]string{
		"title": "Café Cleaning Tips", "content": "Start from the top.", "tags": "tips, cafe", "categories": "guides",
	}, nil, root)
	assert.Equal(t, http.StatusBadRequest, w.Code, "thumbnail is required")

	w = a.multipart(http.MethodPost, "/api/v1/blog/create", map[string]string{
		"title": "Café Cleaning Tips", "content": "Start from the top.", "tags": "tips, cafe", "categories": "guides",
	}, pngFile(t), root)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	blog := decode[models.Blog](t, w)
	assert.Equal(t, "cafe-cleaning-tips", blog.Slug)
	assert.Equal(t, []string{"tips", "cafe"}, blog.Tags)
	assert.Equal(t, 1, a.store.Len())

	w = a.multipart(http.MethodPost, "/api/v1/blog/create", map[string]string{
		"title": "Café Cleaning Tips", "content": "again",
	}, pngFile(t), root)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 1, a.store.Len())

	w = a.json(http.MethodGet, "/api/v1/blog/all/cafe-cleaning-tips", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	w = a.json(http.MethodGet, fmt.Sprintf("/api/v1/blog/all/%d", blog.ID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, decode[models.Blog](t, w).Views)

	var stored models.Blog
	require.NoError(t, a.db.First(&stored, blog.ID).Error)
	oldKey := stored.ThumbnailKey

	w = a.multipart(http.MethodPatch, fmt.Sprintf("/api/v1/blog/%d", blog.ID), map[string]string{"status": "inactive"}, pngFile(t), root)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.False(t, a.store.Has(oldKey))
	assert.Equal(t, 1, a.store.Len())

	w = a.json(http.MethodGet, "/api/v1/blog/all", nil, "")
	assert.EqualValues(t, 0, decode[map[string]any](t, w)["total"])
	w = a.json(http.MethodGet, "/api/v1/blog/all-admin", nil, root)
	assert.EqualValues(t, 1, decode[map[string]any](t, w)["total"])

	w = a.json(http.MethodDelete, fmt.Sprintf("/api/v1/blog/%d", blog.ID), nil, root)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, a.store.Len())
}

// ======================================================
// HEALTH
// ======================================================

func TestHealth(t *testing.T) {
	a := newAPI(t)

	assert.Equal(t, http.StatusOK, a.json(http.MethodGet, "/healthz", nil, "").Code)

	w := a.json(http.MethodGet, "/readyz", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode[map[string]any](t, w)["ready"])
}
