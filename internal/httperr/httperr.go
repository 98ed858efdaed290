package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type HTTPError struct {
	Code    string       `json:"error_code"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

// Respond converts err into the JSON error envelope. Business errors keep
// their code and message; anything else is logged and answered as an
// internal error whose details are only exposed in debug mode.
func Respond(c *gin.Context, err error) {
	var be BusinessError
	if errors.As(err, &be) {
		status := be.Kind.Status()
		if be.Kind == KindInternal {
			logger(c).Error().Err(err).Msg("internal business error")
		}
		c.JSON(status, HTTPError{
			Code:    be.Code,
			Message: be.Message,
			Errors:  be.Fields,
		})
		return
	}

	logger(c).Error().Err(err).
		Str("path", c.FullPath()).
		Msg("unexpected error")

	message := "internal server error"
	if gin.IsDebugging() {
		message = err.Error()
	}
	Internal(c, string(KindInternal), message)
}

func logger(c *gin.Context) *zerolog.Logger {
	return zerolog.Ctx(c.Request.Context())
}
