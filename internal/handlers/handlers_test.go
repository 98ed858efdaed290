package handlers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/services-booking/internal/audit"
	"github.com/BruksfildServices01/services-booking/internal/httperr"
	"github.com/BruksfildServices01/services-booking/internal/models"
	"github.com/BruksfildServices01/services-booking/internal/notify"
	"github.com/BruksfildServices01/services-booking/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type nopAudit struct{}

func (nopAudit) Dispatch(audit.Event) {}

type nopMailer struct{}

func (nopMailer) Dispatch(notify.Message) {}

type noMailResolver struct{}

func (noMailResolver) LookupMX(context.Context, string) ([]*net.MX, error) {
	return nil, errors.New("no such host")
}

func (noMailResolver) LookupHost(context.Context, string) ([]string, error) {
	return nil, errors.New("no such host")
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, splitList(" a, b,,c ,"))
	assert.Equal(t, []string{}, splitList(""))
}

func TestParsePublishDate(t *testing.T) {
	d, err := parsePublishDate("2030-05-06")
	require.NoError(t, err)
	assert.Equal(t, 6, d.Day())

	_, err = parsePublishDate("2030-05-06T10:00:00Z")
	require.NoError(t, err)

	_, err = parsePublishDate("06/05/2030")
	assert.Equal(t, httperr.KindValidation, httperr.KindOf(err))
}

func TestUniqueSlug(t *testing.T) {
	db := testutil.NewDB(t)

	s, err := uniqueSlug(db, "Deep Cleaning", 0)
	require.NoError(t, err)
	assert.Equal(t, "deep-cleaning", s)

	first := models.Blog{Title: "Deep Cleaning", Slug: "deep-cleaning", Content: "x", ThumbnailURL: "u"}
	require.NoError(t, db.Create(&first).Error)
	require.NoError(t, db.Create(&models.Blog{Title: "Deep cleaning!", Slug: "deep-cleaning-2", Content: "x", ThumbnailURL: "u"}).Error)

	s, err = uniqueSlug(db, "Deep  Cleaning", 0)
	require.NoError(t, err)
	assert.Equal(t, "deep-cleaning-3", s)

	s, err = uniqueSlug(db, "Deep Cleaning", first.ID)
	require.NoError(t, err)
	assert.Equal(t, "deep-cleaning", s, "a post keeps its own slug")

	s, err = uniqueSlug(db, "!!!", 0)
	require.NoError(t, err)
	assert.Equal(t, "post", s)
}

func TestPaging(t *testing.T) {
	cases := []struct {
		query       string
		page, limit int
	}{
		{"", 1, 50},
		{"?page=3&limit=10", 3, 10},
		{"?page=-1&limit=1000", 1, 50},
		{"?page=x&limit=y", 1, 50},
	}
	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/"+tc.query, nil)

			page, limit := paging(c, 50, 200)
			assert.Equal(t, tc.page, page)
			assert.Equal(t, tc.limit, limit)
		})
	}
}

func TestCreateQuoteRejectsUnresolvableDomain(t *testing.T) {
	db := testutil.NewDB(t)
	h := NewLeadHandler(db, nopMailer{}, "", nopAudit{}, noMailResolver{})

	r := gin.New()
	r.POST("/quote", h.CreateQuote)

	body := `{"firstName":"Ravi","lastName":"K","mobile":"8888888888","email":"ravi@nowhere.test",
		"location":"Mumbai","reasonOfInquiry":"Cleaning","message":"Hi"}`
	req := httptest.NewRequest(http.MethodPost, "/quote", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(zerolog.New(io.Discard).WithContext(req.Context()))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "domain does not accept mail")

	var n int64
	require.NoError(t, db.Model(&models.RequestQuote{}).Count(&n).Error)
	assert.Zero(t, n)
}
