package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/services-booking/internal/httperr"
	"github.com/BruksfildServices01/services-booking/internal/validators"
)

// bindJSON decodes the body into dst and runs its validate tags. It
// writes the error response itself and reports whether to continue.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		httperr.BadRequest(c, "invalid_request", "request body is not valid JSON for this endpoint")
		return false
	}
	if err := validators.Struct(dst); err != nil {
		httperr.Respond(c, err)
		return false
	}
	return true
}

func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", name+" must be a positive integer")
		return 0, false
	}
	return uint(id), true
}

func queryInt(c *gin.Context, name string, def int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return def
	}
	return v
}

func paging(c *gin.Context, defLimit, maxLimit int) (page, limit int) {
	page = queryInt(c, "page", 1)
	if page <= 0 {
		page = 1
	}
	limit = queryInt(c, "limit", defLimit)
	if limit <= 0 || limit > maxLimit {
		limit = defLimit
	}
	return page, limit
}

// notFoundAs turns a missing row into a NotFound business error.
func notFoundAs(err error, code, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.NotFoundErr(code, message)
	}
	return err
}
